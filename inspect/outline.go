// Package inspect renders agent snapshots for people: an indented outline
// for the terminal browser and a JSON dump with optional highlighting.
package inspect

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/furry-a11y/agent"
)

// Row is one visible line of the outline.
type Row struct {
	Depth int
	Node  agent.NodeInfo
}

// Flatten lays the snapshot tree out depth first.
func Flatten(snap agent.Snapshot) []Row {
	var rows []Row
	var walk func(nodes []agent.NodeInfo, depth int)
	walk = func(nodes []agent.NodeInfo, depth int) {
		for _, n := range nodes {
			rows = append(rows, Row{Depth: depth, Node: n})
			walk(n.Children, depth+1)
		}
	}
	walk(snap.Nodes, 0)
	return rows
}

// Format renders a row for a terminal of the given width.
func (r Row) Format(width int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", r.Depth))
	if r.Node.AccessibilityFocused {
		b.WriteString("> ")
	}
	fmt.Fprintf(&b, "[%d] %s", r.Node.ID, r.Node.Class)
	if r.Node.Label != "" {
		fmt.Fprintf(&b, " %q", r.Node.Label)
	}
	if state := r.state(); state != "" {
		b.WriteString(" (")
		b.WriteString(state)
		b.WriteByte(')')
	}
	return truncate(b.String(), width)
}

func (r Row) state() string {
	var parts []string
	n := r.Node
	if !n.Enabled {
		parts = append(parts, "disabled")
	}
	if n.Checkable {
		if n.Checked {
			parts = append(parts, "checked")
		} else {
			parts = append(parts, "unchecked")
		}
	}
	if n.Editable {
		parts = append(parts, "editable")
	}
	if n.Focused {
		parts = append(parts, "focused")
	}
	return strings.Join(parts, ", ")
}

// Lines formats every row.
func Lines(rows []Row, width int) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Format(width))
	}
	return out
}

// truncate fits s within width cells, marking cut text with "...".
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}

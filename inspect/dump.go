package inspect

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/odvcencio/furry-a11y/agent"
)

// DefaultStyle is the chroma style used for colored dumps.
const DefaultStyle = "monokai"

// DumpOptions configures Dump.
type DumpOptions struct {
	// Color highlights the JSON for a 256-color terminal.
	Color bool
	// Style names a chroma style. Defaults to DefaultStyle.
	Style string
}

// Dump writes the snapshot as indented JSON.
func Dump(w io.Writer, snap agent.Snapshot, opts DumpOptions) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	data = append(data, '\n')
	if !opts.Color {
		_, err = w.Write(data)
		return err
	}
	style := opts.Style
	if style == "" {
		style = DefaultStyle
	}
	if err := quick.Highlight(w, string(data), "json", "terminal256", style); err != nil {
		return fmt.Errorf("highlighting snapshot: %w", err)
	}
	return nil
}

package agent

import (
	"time"

	"github.com/odvcencio/furry-a11y/a11y"
	"github.com/odvcencio/furry-a11y/bridge"
)

// Snapshot captures the accessibility tree as the platform sees it.
type Snapshot struct {
	Timestamp   time.Time         `json:"timestamp"`
	Session     string            `json:"session"`
	Attached    bool              `json:"attached"`
	Caches      []string          `json:"caches,omitempty"`
	Focus       bridge.FocusState `json:"focus"`
	Nodes       []NodeInfo        `json:"nodes,omitempty"`
	FocusedID   a11y.NodeID       `json:"focused_id,omitempty"`
	Focused     *NodeInfo         `json:"focused,omitempty"`
	Unreachable []a11y.NodeID     `json:"unreachable,omitempty"`
}

// NodeInfo describes one materialized node and its subtree.
type NodeInfo struct {
	ID      a11y.NodeID  `json:"id"`
	Class   a11y.Class   `json:"class"`
	Label   string       `json:"label,omitempty"`
	Hint    string       `json:"hint,omitempty"`
	Bounds  *a11y.Bounds `json:"bounds,omitempty"`
	Actions []string     `json:"actions,omitempty"`

	Enabled              bool `json:"enabled,omitempty"`
	Clickable            bool `json:"clickable,omitempty"`
	Checkable            bool `json:"checkable,omitempty"`
	Checked              bool `json:"checked,omitempty"`
	Editable             bool `json:"editable,omitempty"`
	Focusable            bool `json:"focusable,omitempty"`
	Focused              bool `json:"focused,omitempty"`
	AccessibilityFocused bool `json:"accessibility_focused,omitempty"`

	Children []NodeInfo `json:"children,omitempty"`
}

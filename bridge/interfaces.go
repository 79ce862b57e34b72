package bridge

import "github.com/odvcencio/furry-a11y/a11y"

// Engine is the rendering engine side of the bridge.
//
// QueryNode is the only synchronous call and may block for as long as the
// engine takes to answer. The rest are fire-and-forget.
type Engine interface {
	// QueryNode returns a fresh bundle for id. A nil bundle means the engine
	// has no such node.
	QueryNode(id a11y.NodeID) (*a11y.Bundle, error)
	Click(id a11y.NodeID)
	SetText(id a11y.NodeID, text string)
	Dispatch(cmd Command)
}

// Host is the platform view that delegates accessibility to a session.
type Host interface {
	IsFocused() bool
	RequestFocus()
	// HasDisplay is false when the view runs headless, as under tests.
	HasDisplay() bool
	// InitializeNode fills node with the view's own accessibility metadata.
	InitializeNode(node *a11y.Node)
	// ClientOrigin is the screen position of the view's client area.
	ClientOrigin() (x, y int)
	// ScrollViewport scrolls by fraction of the viewport height.
	ScrollViewport(fraction float64)
	// PerformDefaultAction runs the view's own handling of an action the
	// bridge does not route.
	PerformDefaultAction(action a11y.Action, args *a11y.Args) bool
	SendEvent(event a11y.Event)
}

// Enablement reports the platform accessibility state a session consults.
type Enablement interface {
	PlatformEnabled() bool
	TouchExplorationEnabled() bool
}

// Capabilities lists the node features the platform consumer understands.
// Features that are off are left out of materialized nodes.
type Capabilities struct {
	ViewIDNames bool
	// EditableActions covers the editable state and its selection and
	// clipboard actions.
	EditableActions bool
	// ExtendedState covers multi-line, content-invalid, input type, the
	// extras map and range and collection info.
	ExtendedState           bool
	CollectionSelectionMode bool
	HintText                bool
	ContextClickable        bool
}

// AllCapabilities enables every feature.
func AllCapabilities() Capabilities {
	return Capabilities{
		ViewIDNames:             true,
		EditableActions:         true,
		ExtendedState:           true,
		CollectionSelectionMode: true,
		HintText:                true,
		ContextClickable:        true,
	}
}

// CapabilityProvider is implemented by hosts that support only part of the
// node model.
type CapabilityProvider interface {
	Capabilities() Capabilities
}

package a11y

import "slices"

// Extras keys set on materialized nodes.
const (
	ExtraHint            = "AccessibilityNodeInfo.hint"
	ExtraEngineRole      = "AccessibilityNodeInfo.geckoRole"
	ExtraRoleDescription = "AccessibilityNodeInfo.roleDescription"
	// ExtraHTMLElementValues lists the navigation rules the root accepts.
	ExtraHTMLElementValues = "ACTION_ARGUMENT_HTML_ELEMENT_STRING_VALUES"
)

// HTMLElementRules is the value of ExtraHTMLElementValues on the root.
const HTMLElementRules = "ARTICLE,BUTTON,CHECKBOX,COMBOBOX,CONTROL," +
	"FOCUSABLE,FRAME,GRAPHIC,H1,H2,H3,H4,H5,H6," +
	"HEADING,LANDMARK,LINK,LIST,LIST_ITEM,MAIN," +
	"MEDIA,RADIO,SECTION,TABLE,TEXT_FIELD," +
	"UNVISITED_LINK,VISITED_LINK"

// Node is the platform-native representation of one virtual node.
type Node struct {
	ID          NodeID `json:"id"`
	ParentID    NodeID `json:"parent_id"`
	Class       Class  `json:"class"`
	PackageName string `json:"package_name,omitempty"`

	Text               string `json:"text,omitempty"`
	Hint               string `json:"hint,omitempty"`
	ViewIDResourceName string `json:"view_id_resource_name,omitempty"`
	InputType          int    `json:"input_type,omitempty"`

	Checkable        bool `json:"checkable,omitempty"`
	Checked          bool `json:"checked,omitempty"`
	Clickable        bool `json:"clickable,omitempty"`
	ContentInvalid   bool `json:"content_invalid,omitempty"`
	ContextClickable bool `json:"context_clickable,omitempty"`
	Editable         bool `json:"editable,omitempty"`
	Enabled          bool `json:"enabled,omitempty"`
	Focusable        bool `json:"focusable,omitempty"`
	LongClickable    bool `json:"long_clickable,omitempty"`
	MultiLine        bool `json:"multi_line,omitempty"`
	Password         bool `json:"password,omitempty"`
	Scrollable       bool `json:"scrollable,omitempty"`
	Selected         bool `json:"selected,omitempty"`
	VisibleToUser    bool `json:"visible_to_user,omitempty"`

	AccessibilityFocused bool `json:"accessibility_focused,omitempty"`
	Focused              bool `json:"focused,omitempty"`

	Actions       []Action    `json:"actions,omitempty"`
	Granularities Granularity `json:"granularities,omitempty"`

	BoundsInScreen *Bounds `json:"bounds_in_screen,omitempty"`
	BoundsInParent *Bounds `json:"bounds_in_parent,omitempty"`

	Children []NodeID `json:"children,omitempty"`

	Range          *RangeInfo          `json:"range,omitempty"`
	Collection     *CollectionInfo     `json:"collection,omitempty"`
	CollectionItem *CollectionItemInfo `json:"collection_item,omitempty"`

	Extras map[string]string `json:"extras,omitempty"`
}

// AddAction appends a to the action set if it is not already present.
func (n *Node) AddAction(a Action) {
	if n == nil || n.HasAction(a) {
		return
	}
	n.Actions = append(n.Actions, a)
}

// HasAction reports whether a is in the action set.
func (n *Node) HasAction(a Action) bool {
	if n == nil {
		return false
	}
	return slices.Contains(n.Actions, a)
}

// AddChild appends a child id.
func (n *Node) AddChild(id NodeID) {
	if n == nil {
		return
	}
	n.Children = append(n.Children, id)
}

// SetExtra stores a string extra.
func (n *Node) SetExtra(key, value string) {
	if n == nil {
		return
	}
	if n.Extras == nil {
		n.Extras = make(map[string]string)
	}
	n.Extras[key] = value
}

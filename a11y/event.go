package a11y

import "fmt"

// EventType identifies an accessibility event.
type EventType int

const (
	EventClicked EventType = iota + 1
	EventLongClicked
	EventSelected
	EventFocused
	EventTextChanged
	EventHoverEnter
	EventHoverExit
	EventTextSelectionChanged
	EventScrolled
	EventWindowStateChanged
	EventWindowContentChanged
	EventAnnouncement
	EventAccessibilityFocused
	EventAccessibilityFocusCleared
)

var eventNames = map[EventType]string{
	EventClicked:                   "clicked",
	EventLongClicked:               "long-clicked",
	EventSelected:                  "selected",
	EventFocused:                   "focused",
	EventTextChanged:               "text-changed",
	EventHoverEnter:                "hover-enter",
	EventHoverExit:                 "hover-exit",
	EventTextSelectionChanged:      "text-selection-changed",
	EventScrolled:                  "scrolled",
	EventWindowStateChanged:        "window-state-changed",
	EventWindowContentChanged:      "window-content-changed",
	EventAnnouncement:              "announcement",
	EventAccessibilityFocused:      "accessibility-focused",
	EventAccessibilityFocusCleared: "accessibility-focus-cleared",
}

func (t EventType) String() string {
	if name, ok := eventNames[t]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", int(t))
}

// MarshalText encodes the event type by name.
func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes an event type name.
func (t *EventType) UnmarshalText(text []byte) error {
	name := string(text)
	for et, n := range eventNames {
		if n == name {
			*t = et
			return nil
		}
	}
	return fmt.Errorf("unknown event type %q", name)
}

// EventData is the optional payload the engine attaches to an event.
// Nil pointers mean the key was absent.
type EventData struct {
	Text             *string `yaml:"text,omitempty"`
	Description      string  `yaml:"description,omitempty"`
	BeforeText       string  `yaml:"beforeText,omitempty"`
	AddedCount       *int    `yaml:"addedCount,omitempty"`
	RemovedCount     *int    `yaml:"removedCount,omitempty"`
	FromIndex        *int    `yaml:"fromIndex,omitempty"`
	ToIndex          *int    `yaml:"toIndex,omitempty"`
	ItemCount        *int    `yaml:"itemCount,omitempty"`
	CurrentItemIndex *int    `yaml:"currentItemIndex,omitempty"`
	ScrollX          *int    `yaml:"scrollX,omitempty"`
	ScrollY          *int    `yaml:"scrollY,omitempty"`
	MaxScrollX       *int    `yaml:"maxScrollX,omitempty"`
	MaxScrollY       *int    `yaml:"maxScrollY,omitempty"`
	Checked          *bool   `yaml:"checked,omitempty"`
	Selected         *bool   `yaml:"selected,omitempty"`
}

// Event is the synthesized event delivered to the platform sink.
// Unset counts and indices are -1.
type Event struct {
	Type        EventType `json:"type"`
	Source      NodeID    `json:"source"`
	Class       Class     `json:"class"`
	PackageName string    `json:"package_name,omitempty"`
	Enabled     bool      `json:"enabled"`

	Text        []string `json:"text,omitempty"`
	Description string   `json:"description,omitempty"`
	BeforeText  string   `json:"before_text,omitempty"`

	AddedCount       int `json:"added_count"`
	RemovedCount     int `json:"removed_count"`
	FromIndex        int `json:"from_index"`
	ToIndex          int `json:"to_index"`
	ItemCount        int `json:"item_count"`
	CurrentItemIndex int `json:"current_item_index"`
	ScrollX          int `json:"scroll_x"`
	ScrollY          int `json:"scroll_y"`
	MaxScrollX       int `json:"max_scroll_x"`
	MaxScrollY       int `json:"max_scroll_y"`

	Checked bool `json:"checked,omitempty"`
}

// NewEvent returns an event with every count and index unset.
func NewEvent(t EventType, source NodeID, class Class) Event {
	return Event{
		Type:             t,
		Source:           source,
		Class:            class,
		Enabled:          true,
		AddedCount:       -1,
		RemovedCount:     -1,
		FromIndex:        -1,
		ToIndex:          -1,
		ItemCount:        -1,
		CurrentItemIndex: -1,
		ScrollX:          -1,
		ScrollY:          -1,
		MaxScrollX:       -1,
		MaxScrollY:       -1,
	}
}

// Apply copies the payload onto the event.
func (e *Event) Apply(data *EventData) {
	if e == nil || data == nil {
		return
	}
	if data.Text != nil {
		e.Text = append(e.Text, *data.Text)
	}
	e.Description = data.Description
	e.BeforeText = data.BeforeText
	e.AddedCount = intOr(data.AddedCount, -1)
	e.RemovedCount = intOr(data.RemovedCount, -1)
	e.FromIndex = intOr(data.FromIndex, -1)
	e.ToIndex = intOr(data.ToIndex, -1)
	e.ItemCount = intOr(data.ItemCount, -1)
	e.CurrentItemIndex = intOr(data.CurrentItemIndex, -1)
	e.ScrollX = intOr(data.ScrollX, -1)
	e.ScrollY = intOr(data.ScrollY, -1)
	e.MaxScrollX = intOr(data.MaxScrollX, -1)
	e.MaxScrollY = intOr(data.MaxScrollY, -1)
	e.Checked = data.Checked != nil && *data.Checked
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

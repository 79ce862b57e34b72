package a11y

import "fmt"

// Action identifies an accessibility action the platform can invoke.
type Action int

const (
	ActionNone Action = iota
	ActionFocus
	ActionClearFocus
	ActionSelect
	ActionClearSelection
	ActionClick
	ActionLongClick
	ActionAccessibilityFocus
	ActionClearAccessibilityFocus
	ActionNextAtGranularity
	ActionPreviousAtGranularity
	ActionNextHTMLElement
	ActionPreviousHTMLElement
	ActionScrollForward
	ActionScrollBackward
	ActionCopy
	ActionPaste
	ActionCut
	ActionSetSelection
	ActionExpand
	ActionCollapse
	ActionDismiss
	ActionSetText
)

var actionNames = map[Action]string{
	ActionNone:                    "none",
	ActionFocus:                   "focus",
	ActionClearFocus:              "clear-focus",
	ActionSelect:                  "select",
	ActionClearSelection:          "clear-selection",
	ActionClick:                   "click",
	ActionLongClick:               "long-click",
	ActionAccessibilityFocus:      "accessibility-focus",
	ActionClearAccessibilityFocus: "clear-accessibility-focus",
	ActionNextAtGranularity:       "next-at-granularity",
	ActionPreviousAtGranularity:   "previous-at-granularity",
	ActionNextHTMLElement:         "next-html-element",
	ActionPreviousHTMLElement:     "previous-html-element",
	ActionScrollForward:           "scroll-forward",
	ActionScrollBackward:          "scroll-backward",
	ActionCopy:                    "copy",
	ActionPaste:                   "paste",
	ActionCut:                     "cut",
	ActionSetSelection:            "set-selection",
	ActionExpand:                  "expand",
	ActionCollapse:                "collapse",
	ActionDismiss:                 "dismiss",
	ActionSetText:                 "set-text",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// MarshalText encodes the action by name.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// ParseAction resolves an action by name.
func ParseAction(name string) (Action, error) {
	for a, n := range actionNames {
		if n == name {
			return a, nil
		}
	}
	return ActionNone, fmt.Errorf("unknown action %q", name)
}

// Granularity is a text movement unit for granularity navigation.
type Granularity int

// Real granularities are positive bit values.
const (
	GranularityCharacter Granularity = 1 << 0
	GranularityWord      Granularity = 1 << 1
	GranularityLine      Granularity = 1 << 2
	GranularityParagraph Granularity = 1 << 3
	GranularityPage      Granularity = 1 << 4
)

// Pseudo-granularities some screen readers send in place of a real unit.
// They are recognized but not forwarded anywhere.
const (
	GranularityReadCurrent   Granularity = -1
	GranularityReadTitle     Granularity = -2
	GranularityStopSpeech    Granularity = -3
	GranularityChangeShifter Granularity = -4
)

// BrailleClickBase is where braille displays start numbering routing keys.
// A granularity at or below it encodes the key index as BrailleClickBase-g.
const BrailleClickBase Granularity = -275000000

// DefaultGranularities is the set advertised on every materialized node.
const DefaultGranularities = GranularityCharacter | GranularityWord | GranularityLine | GranularityParagraph

// RoutingKey reports the braille routing-key index encoded in g, if any.
func (g Granularity) RoutingKey() (int, bool) {
	if g > BrailleClickBase {
		return 0, false
	}
	return int(BrailleClickBase - g), true
}

// Args carries the optional structured arguments of an action.
type Args struct {
	// HTMLElement is the navigation rule for next/previous HTML element.
	HTMLElement string
	// Granularity is the unit for next/previous at granularity.
	Granularity Granularity
	// ExtendSelection asks granularity navigation to grow the selection.
	ExtendSelection bool
	SelectionStart  int
	SelectionEnd    int
	// Text is the replacement value for set-text.
	Text string
}

// FocusKind selects which focus FindFocus resolves.
type FocusKind int

const (
	FocusInput FocusKind = iota + 1
	FocusAccessibility
)

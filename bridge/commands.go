package bridge

import "github.com/odvcencio/furry-a11y/a11y"

// Command is a message sent to the engine.
type Command interface {
	Name() string
}

// Direction is the payload value for granularity navigation.
type Direction string

const (
	DirectionNext     Direction = "Next"
	DirectionPrevious Direction = "Previous"
)

// AccessibilityNext moves the virtual cursor to the next element matching Rule.
type AccessibilityNext struct {
	Rule string `json:"rule,omitempty"`
}

func (AccessibilityNext) Name() string { return "AccessibilityNext" }

// AccessibilityPrevious moves the virtual cursor to the previous element
// matching Rule.
type AccessibilityPrevious struct {
	Rule string `json:"rule,omitempty"`
}

func (AccessibilityPrevious) Name() string { return "AccessibilityPrevious" }

// AccessibilityByGranularity moves by a text unit.
type AccessibilityByGranularity struct {
	Direction   Direction        `json:"direction"`
	Granularity a11y.Granularity `json:"granularity"`
	Select      bool             `json:"select"`
}

func (AccessibilityByGranularity) Name() string { return "AccessibilityByGranularity" }

// AccessibilitySetSelection selects a text range.
type AccessibilitySetSelection struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (AccessibilitySetSelection) Name() string { return "AccessibilitySetSelection" }

// AccessibilityClipboard runs cut, copy or paste.
type AccessibilityClipboard struct {
	Action a11y.Action `json:"action"`
}

func (AccessibilityClipboard) Name() string { return "AccessibilityClipboard" }

// AccessibilityActivate activates the element under a braille routing key.
type AccessibilityActivate struct {
	KeyIndex int `json:"keyIndex"`
}

func (AccessibilityActivate) Name() string { return "AccessibilityActivate" }

type AccessibilityLongPress struct{}

func (AccessibilityLongPress) Name() string { return "AccessibilityLongPress" }

type AccessibilityScrollForward struct{}

func (AccessibilityScrollForward) Name() string { return "AccessibilityScrollForward" }

type AccessibilityScrollBackward struct{}

func (AccessibilityScrollBackward) Name() string { return "AccessibilityScrollBackward" }

// AccessibilityExploreByTouch moves the virtual cursor to the element under
// raw screen coordinates.
type AccessibilityExploreByTouch struct {
	Coordinates [2]float64 `json:"coordinates"`
}

func (AccessibilityExploreByTouch) Name() string { return "AccessibilityExploreByTouch" }

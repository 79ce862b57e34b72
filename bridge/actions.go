package bridge

import (
	"fmt"

	"github.com/odvcencio/furry-a11y/a11y"
)

// Outcome is how the router disposed of an action.
type Outcome int

const (
	// Dropped means the action was rejected, usually for missing arguments.
	Dropped Outcome = iota
	// Handled means the bridge acted locally.
	Handled
	// Forwarded means a command went to the engine.
	Forwarded
	// Fallthrough means the host view's default handling applies.
	Fallthrough
)

func (o Outcome) String() string {
	switch o {
	case Dropped:
		return "dropped"
	case Handled:
		return "handled"
	case Forwarded:
		return "forwarded"
	case Fallthrough:
		return "fallthrough"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// ViewportScrollFraction is how far root scroll actions move the viewport.
const ViewportScrollFraction = 0.8

type actionHandler func(s *Session, id a11y.NodeID, action a11y.Action, args *a11y.Args) Outcome

var actionHandlers = map[a11y.Action]actionHandler{
	a11y.ActionClearAccessibilityFocus: clearAccessibilityFocus,
	a11y.ActionAccessibilityFocus:      accessibilityFocus,
	a11y.ActionClick:                   click,
	a11y.ActionSelect:                  selectNode,
	a11y.ActionLongClick:               longClick,
	a11y.ActionScrollForward:           scroll,
	a11y.ActionScrollBackward:          scroll,
	a11y.ActionNextHTMLElement:         htmlElement,
	a11y.ActionPreviousHTMLElement:     htmlElement,
	a11y.ActionNextAtGranularity:       granularity,
	a11y.ActionPreviousAtGranularity:   granularity,
	a11y.ActionSetSelection:            setSelection,
	a11y.ActionCut:                     clipboard,
	a11y.ActionCopy:                    clipboard,
	a11y.ActionPaste:                   clipboard,
	a11y.ActionSetText:                 setText,
}

// Route disposes of a platform action without consulting the host's default
// handling.
func (s *Session) Route(id a11y.NodeID, action a11y.Action, args *a11y.Args) Outcome {
	if s == nil {
		return Dropped
	}
	handler, ok := actionHandlers[action]
	if !ok {
		return Fallthrough
	}
	outcome := handler(s, id, action, args)
	s.logger.Debug("routed action", "node", int(id), "action", action.String(), "outcome", outcome.String())
	return outcome
}

// PerformAction answers a platform action request. Actions the bridge does
// not route fall through to the host view.
func (s *Session) PerformAction(id a11y.NodeID, action a11y.Action, args *a11y.Args) bool {
	switch s.Route(id, action, args) {
	case Handled, Forwarded:
		return true
	case Fallthrough:
		host := s.boundHost()
		if host == nil {
			return false
		}
		return host.PerformDefaultAction(action, args)
	default:
		return false
	}
}

func clearAccessibilityFocus(s *Session, id a11y.NodeID, _ a11y.Action, _ *a11y.Args) Outcome {
	s.sendLocal(a11y.EventAccessibilityFocusCleared, id, a11y.ClassUnknown)
	return Handled
}

func accessibilityFocus(s *Session, id a11y.NodeID, _ a11y.Action, _ *a11y.Args) Outcome {
	class := a11y.ClassUnknown
	if id == a11y.RootID {
		class = a11y.ClassWebView
	}
	s.sendLocal(a11y.EventAccessibilityFocused, id, class)
	return Handled
}

func click(s *Session, id a11y.NodeID, _ a11y.Action, _ *a11y.Args) Outcome {
	if s.engine != nil {
		s.engine.Click(id)
	}
	// Checkable and selectable nodes announce through engine events.
	if b, ok := s.Lookup(id); ok && !b.Flags.Any(a11y.FlagSelectable|a11y.FlagCheckable) {
		s.sendLocal(a11y.EventClicked, id, b.Class)
	}
	return Forwarded
}

func selectNode(s *Session, id a11y.NodeID, _ a11y.Action, _ *a11y.Args) Outcome {
	if s.engine != nil {
		s.engine.Click(id)
	}
	return Forwarded
}

func longClick(s *Session, _ a11y.NodeID, _ a11y.Action, _ *a11y.Args) Outcome {
	s.dispatch(AccessibilityLongPress{})
	return Forwarded
}

func scroll(s *Session, id a11y.NodeID, action a11y.Action, _ *a11y.Args) Outcome {
	forward := action == a11y.ActionScrollForward
	if id == a11y.RootID {
		host := s.boundHost()
		if host == nil {
			return Dropped
		}
		fraction := ViewportScrollFraction
		if !forward {
			fraction = -fraction
		}
		host.ScrollViewport(fraction)
		return Handled
	}
	if forward {
		s.dispatch(AccessibilityScrollForward{})
	} else {
		s.dispatch(AccessibilityScrollBackward{})
	}
	return Forwarded
}

func htmlElement(s *Session, _ a11y.NodeID, action a11y.Action, args *a11y.Args) Outcome {
	s.requestViewFocus()
	var rule string
	if args != nil {
		rule = args.HTMLElement
	}
	if action == a11y.ActionNextHTMLElement {
		s.dispatch(AccessibilityNext{Rule: rule})
	} else {
		s.dispatch(AccessibilityPrevious{Rule: rule})
	}
	return Forwarded
}

func granularity(s *Session, id a11y.NodeID, action a11y.Action, args *a11y.Args) Outcome {
	if args == nil {
		s.logger.Warn("granularity navigation without arguments", "node", int(id))
		return Dropped
	}
	g := args.Granularity
	if key, ok := g.RoutingKey(); ok {
		s.dispatch(AccessibilityActivate{KeyIndex: key})
		return Forwarded
	}
	if g <= 0 {
		s.logger.Debug("ignoring pseudo-granularity", "node", int(id), "granularity", int(g))
		return Handled
	}
	direction := DirectionNext
	if action == a11y.ActionPreviousAtGranularity {
		direction = DirectionPrevious
	}
	s.dispatch(AccessibilityByGranularity{
		Direction:   direction,
		Granularity: g,
		Select:      args.ExtendSelection,
	})
	return Forwarded
}

func setSelection(s *Session, id a11y.NodeID, _ a11y.Action, args *a11y.Args) Outcome {
	if args == nil {
		s.logger.Warn("set selection without arguments", "node", int(id))
		return Dropped
	}
	s.dispatch(AccessibilitySetSelection{Start: args.SelectionStart, End: args.SelectionEnd})
	return Forwarded
}

func clipboard(s *Session, _ a11y.NodeID, action a11y.Action, _ *a11y.Args) Outcome {
	s.dispatch(AccessibilityClipboard{Action: action})
	return Forwarded
}

func setText(s *Session, id a11y.NodeID, _ a11y.Action, args *a11y.Args) Outcome {
	if args == nil {
		s.logger.Warn("set text without arguments", "node", int(id))
		return Dropped
	}
	if !s.Attached() || s.engine == nil {
		s.logger.Debug("set text while detached", "node", int(id))
		return Handled
	}
	s.engine.SetText(id, args.Text)
	return Forwarded
}

// InputSource is the device class a motion event came from.
type InputSource int

const (
	SourceUnknown InputSource = iota
	SourceTouchscreen
	SourceMouse
	SourceStylus
)

// HoverAction is the masked action of a motion event.
type HoverAction int

const (
	MotionOther HoverAction = iota
	MotionHoverEnter
	MotionHoverMove
	MotionHoverExit
)

// HoverEvent is a pointer motion delivered to the host view.
type HoverEvent struct {
	Source InputSource
	Action HoverAction
	// RawX and RawY are screen coordinates.
	RawX, RawY float64
}

// OnHover turns touchscreen hover motion into explore-by-touch while touch
// exploration is on. It reports whether the event was consumed.
func (s *Session) OnHover(ev HoverEvent) bool {
	if s == nil || !s.settings.TouchExplorationEnabled() {
		return false
	}
	if ev.Source != SourceTouchscreen {
		return false
	}
	switch ev.Action {
	case MotionHoverEnter, MotionHoverMove, MotionHoverExit:
	default:
		return false
	}
	s.requestViewFocus()
	s.dispatch(AccessibilityExploreByTouch{Coordinates: [2]float64{ev.RawX, ev.RawY}})
	return true
}

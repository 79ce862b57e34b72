package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/furry-a11y/a11y"
	"github.com/odvcencio/furry-a11y/cache"
)

func TestClickSynthesizesEventOnlyForPlainNodes(t *testing.T) {
	f := newFixture(fakeSettings{})
	f.session.ReplaceCache(cache.Viewport, []*a11y.Bundle{
		bundle(2, 1, a11y.ClassButton, a11y.FlagClickable),
		bundle(3, 1, a11y.ClassTabWidget, a11y.FlagClickable|a11y.FlagSelectable),
		bundle(4, 1, a11y.ClassCheckBox, a11y.FlagClickable|a11y.FlagCheckable),
	})

	assert.Equal(t, Forwarded, f.session.Route(3, a11y.ActionClick, nil))
	assert.Equal(t, Forwarded, f.session.Route(4, a11y.ActionClick, nil))
	assert.Empty(t, f.host.events)

	assert.Equal(t, Forwarded, f.session.Route(2, a11y.ActionClick, nil))
	require.Len(t, f.host.events, 1)
	assert.Equal(t, a11y.EventClicked, f.host.events[0].Type)
	assert.Equal(t, a11y.ClassButton, f.host.events[0].Class)
	assert.Equal(t, []a11y.NodeID{3, 4, 2}, f.engine.clicks)
}

func TestClickUncachedNodeStillReachesEngine(t *testing.T) {
	f := newFixture(fakeSettings{})
	assert.True(t, f.session.PerformAction(8, a11y.ActionClick, nil))
	assert.Equal(t, []a11y.NodeID{8}, f.engine.clicks)
	assert.Empty(t, f.host.events)
}

func TestSelectClicksWithoutEvent(t *testing.T) {
	f := newFixture(fakeSettings{})
	f.session.ReplaceCache(cache.Viewport, []*a11y.Bundle{bundle(2, 1, a11y.ClassButton, 0)})
	assert.Equal(t, Forwarded, f.session.Route(2, a11y.ActionSelect, nil))
	assert.Equal(t, []a11y.NodeID{2}, f.engine.clicks)
	assert.Empty(t, f.host.events)
}

func TestGranularityRouting(t *testing.T) {
	cases := []struct {
		name    string
		action  a11y.Action
		args    *a11y.Args
		outcome Outcome
		want    []Command
	}{
		{
			name:    "braille routing key",
			action:  a11y.ActionNextAtGranularity,
			args:    &a11y.Args{Granularity: a11y.BrailleClickBase - 5},
			outcome: Forwarded,
			want:    []Command{AccessibilityActivate{KeyIndex: 5}},
		},
		{
			name:    "routing key zero",
			action:  a11y.ActionPreviousAtGranularity,
			args:    &a11y.Args{Granularity: a11y.BrailleClickBase},
			outcome: Forwarded,
			want:    []Command{AccessibilityActivate{KeyIndex: 0}},
		},
		{
			name:    "word forward",
			action:  a11y.ActionNextAtGranularity,
			args:    &a11y.Args{Granularity: a11y.GranularityWord, ExtendSelection: true},
			outcome: Forwarded,
			want:    []Command{AccessibilityByGranularity{Direction: DirectionNext, Granularity: a11y.GranularityWord, Select: true}},
		},
		{
			name:    "line backward",
			action:  a11y.ActionPreviousAtGranularity,
			args:    &a11y.Args{Granularity: a11y.GranularityLine},
			outcome: Forwarded,
			want:    []Command{AccessibilityByGranularity{Direction: DirectionPrevious, Granularity: a11y.GranularityLine}},
		},
		{
			name:    "read current",
			action:  a11y.ActionNextAtGranularity,
			args:    &a11y.Args{Granularity: a11y.GranularityReadCurrent},
			outcome: Handled,
		},
		{
			name:    "zero",
			action:  a11y.ActionNextAtGranularity,
			args:    &a11y.Args{},
			outcome: Handled,
		},
		{
			name:    "missing args",
			action:  a11y.ActionNextAtGranularity,
			outcome: Dropped,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(fakeSettings{})
			assert.Equal(t, tc.outcome, f.session.Route(2, tc.action, tc.args))
			assert.Equal(t, tc.want, f.engine.commands)
		})
	}
}

func TestHTMLElementNavigation(t *testing.T) {
	f := newFixture(fakeSettings{})
	assert.Equal(t, Forwarded, f.session.Route(2, a11y.ActionNextHTMLElement, &a11y.Args{HTMLElement: "HEADING"}))
	assert.Equal(t, Forwarded, f.session.Route(2, a11y.ActionPreviousHTMLElement, nil))
	assert.Equal(t, []Command{
		AccessibilityNext{Rule: "HEADING"},
		AccessibilityPrevious{},
	}, f.engine.commands)
	// Headless hosts are never asked for focus.
	assert.Zero(t, f.host.focusRequests)
}

func TestScrollRouting(t *testing.T) {
	f := newFixture(fakeSettings{})
	assert.Equal(t, Handled, f.session.Route(a11y.RootID, a11y.ActionScrollForward, nil))
	assert.Equal(t, Handled, f.session.Route(a11y.RootID, a11y.ActionScrollBackward, nil))
	assert.Equal(t, []float64{0.8, -0.8}, f.host.scrolls)

	assert.Equal(t, Forwarded, f.session.Route(4, a11y.ActionScrollForward, nil))
	assert.Equal(t, Forwarded, f.session.Route(4, a11y.ActionScrollBackward, nil))
	assert.Equal(t, []Command{AccessibilityScrollForward{}, AccessibilityScrollBackward{}}, f.engine.commands)
}

func TestEditingRouting(t *testing.T) {
	f := newFixture(fakeSettings{})

	assert.Equal(t, Dropped, f.session.Route(2, a11y.ActionSetSelection, nil))
	assert.False(t, f.session.PerformAction(2, a11y.ActionSetSelection, nil))
	assert.Equal(t, Forwarded, f.session.Route(2, a11y.ActionSetSelection, &a11y.Args{SelectionStart: 1, SelectionEnd: 4}))
	assert.Equal(t, Forwarded, f.session.Route(2, a11y.ActionCut, nil))
	assert.Equal(t, Forwarded, f.session.Route(2, a11y.ActionCopy, nil))
	assert.Equal(t, Forwarded, f.session.Route(2, a11y.ActionPaste, nil))
	assert.Equal(t, Forwarded, f.session.Route(2, a11y.ActionLongClick, nil))

	assert.Equal(t, []Command{
		AccessibilitySetSelection{Start: 1, End: 4},
		AccessibilityClipboard{Action: a11y.ActionCut},
		AccessibilityClipboard{Action: a11y.ActionCopy},
		AccessibilityClipboard{Action: a11y.ActionPaste},
		AccessibilityLongPress{},
	}, f.engine.commands)
}

func TestSetTextRequiresAttachedEngine(t *testing.T) {
	f := newFixture(fakeSettings{})
	args := &a11y.Args{Text: "hello"}

	assert.Equal(t, Handled, f.session.Route(2, a11y.ActionSetText, args))
	assert.Empty(t, f.engine.texts)

	f.session.SetAttached(true)
	assert.Equal(t, Forwarded, f.session.Route(2, a11y.ActionSetText, args))
	assert.Equal(t, map[a11y.NodeID]string{2: "hello"}, f.engine.texts)

	assert.Equal(t, Dropped, f.session.Route(2, a11y.ActionSetText, nil))
}

func TestAccessibilityFocusActionsAreLocal(t *testing.T) {
	f := newFixture(fakeSettings{})
	f.session.ReplaceCache(cache.Viewport, []*a11y.Bundle{bundle(2, 1, a11y.ClassButton, 0)})

	assert.Equal(t, Handled, f.session.Route(2, a11y.ActionAccessibilityFocus, nil))
	assert.Equal(t, a11y.NodeID(2), f.session.Focus().Accessibility)
	assert.Equal(t, Handled, f.session.Route(2, a11y.ActionClearAccessibilityFocus, nil))
	assert.Equal(t, a11y.NoFocus, f.session.Focus().Accessibility)

	assert.Equal(t, Handled, f.session.Route(a11y.RootID, a11y.ActionAccessibilityFocus, nil))
	assert.Empty(t, f.engine.commands)
	assert.Empty(t, f.engine.clicks)

	require.Len(t, f.host.events, 3)
	assert.Equal(t, a11y.ClassButton, f.host.events[0].Class)
	assert.Equal(t, a11y.EventAccessibilityFocusCleared, f.host.events[1].Type)
	assert.Equal(t, a11y.ClassWebView, f.host.events[2].Class)
}

func TestUnroutedActionsFallThrough(t *testing.T) {
	f := newFixture(fakeSettings{})
	f.host.defaultResult = true

	assert.Equal(t, Fallthrough, f.session.Route(2, a11y.ActionExpand, nil))
	assert.True(t, f.session.PerformAction(2, a11y.ActionDismiss, nil))
	assert.Equal(t, []a11y.Action{a11y.ActionDismiss}, f.host.defaultActions)

	f.session.Unbind()
	assert.False(t, f.session.PerformAction(2, a11y.ActionDismiss, nil))
}

func TestOnHover(t *testing.T) {
	off := newFixture(fakeSettings{platform: true})
	assert.False(t, off.session.OnHover(HoverEvent{Source: SourceTouchscreen, Action: MotionHoverMove}))

	f := newFixture(fakeSettings{platform: true, touch: true})
	f.host.display = true

	assert.False(t, f.session.OnHover(HoverEvent{Source: SourceMouse, Action: MotionHoverMove}))
	assert.False(t, f.session.OnHover(HoverEvent{Source: SourceTouchscreen, Action: MotionOther}))
	assert.Empty(t, f.engine.commands)

	assert.True(t, f.session.OnHover(HoverEvent{Source: SourceTouchscreen, Action: MotionHoverEnter, RawX: 12.5, RawY: 40}))
	assert.Equal(t, []Command{AccessibilityExploreByTouch{Coordinates: [2]float64{12.5, 40}}}, f.engine.commands)
	assert.Equal(t, 1, f.host.focusRequests)
}

func TestCommandNames(t *testing.T) {
	names := map[string]Command{
		"AccessibilityNext":           AccessibilityNext{},
		"AccessibilityPrevious":       AccessibilityPrevious{},
		"AccessibilityByGranularity":  AccessibilityByGranularity{},
		"AccessibilitySetSelection":   AccessibilitySetSelection{},
		"AccessibilityClipboard":      AccessibilityClipboard{},
		"AccessibilityActivate":       AccessibilityActivate{},
		"AccessibilityLongPress":      AccessibilityLongPress{},
		"AccessibilityScrollForward":  AccessibilityScrollForward{},
		"AccessibilityScrollBackward": AccessibilityScrollBackward{},
		"AccessibilityExploreByTouch": AccessibilityExploreByTouch{},
	}
	for name, cmd := range names {
		assert.Equal(t, name, cmd.Name())
	}
}

func TestSessionIDsAreUnique(t *testing.T) {
	a := NewSession(Config{Settings: fakeSettings{}})
	b := NewSession(Config{Settings: fakeSettings{}})
	assert.NotEqual(t, a.ID(), b.ID())
}

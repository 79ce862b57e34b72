package sim

import (
	"slices"
	"sync"

	"github.com/odvcencio/furry-a11y/a11y"
)

// Host is a simulated platform view. It records everything the bridge sends
// it and can be read from any goroutine.
type Host struct {
	mu sync.Mutex

	focused bool
	display bool
	originX int
	originY int
	label   string

	scroll         float64
	focusRequests  int
	defaultActions []a11y.Action
	events         []a11y.Event
	listeners      []func(a11y.Event)
}

// NewHost creates a view. A headless view behaves like a test harness:
// events pass even while platform accessibility is off.
func NewHost(display bool) *Host {
	return &Host{display: display, label: "document"}
}

// SetFocused changes the view focus.
func (h *Host) SetFocused(focused bool) {
	h.mu.Lock()
	h.focused = focused
	h.mu.Unlock()
}

// SetOrigin moves the client area on screen.
func (h *Host) SetOrigin(x, y int) {
	h.mu.Lock()
	h.originX, h.originY = x, y
	h.mu.Unlock()
}

// SetLabel sets the text the view reports for its own node.
func (h *Host) SetLabel(label string) {
	h.mu.Lock()
	h.label = label
	h.mu.Unlock()
}

// OnEvent registers fn to run after each delivered event.
func (h *Host) OnEvent(fn func(a11y.Event)) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	h.listeners = append(h.listeners, fn)
	h.mu.Unlock()
}

func (h *Host) IsFocused() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.focused
}

func (h *Host) RequestFocus() {
	h.mu.Lock()
	h.focusRequests++
	h.focused = true
	h.mu.Unlock()
}

func (h *Host) HasDisplay() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.display
}

func (h *Host) InitializeNode(node *a11y.Node) {
	h.mu.Lock()
	defer h.mu.Unlock()
	node.Text = h.label
	node.Enabled = true
	node.VisibleToUser = true
	node.Focusable = true
	node.Focused = h.focused
}

func (h *Host) ClientOrigin() (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.originX, h.originY
}

func (h *Host) ScrollViewport(fraction float64) {
	h.mu.Lock()
	h.scroll += fraction
	h.mu.Unlock()
}

func (h *Host) PerformDefaultAction(action a11y.Action, _ *a11y.Args) bool {
	h.mu.Lock()
	h.defaultActions = append(h.defaultActions, action)
	h.mu.Unlock()
	return false
}

func (h *Host) SendEvent(event a11y.Event) {
	h.mu.Lock()
	h.events = append(h.events, event)
	listeners := slices.Clone(h.listeners)
	h.mu.Unlock()
	for _, fn := range listeners {
		fn(event)
	}
}

// Events returns the events delivered so far.
func (h *Host) Events() []a11y.Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.events)
}

// EventTypes returns the types of the delivered events, in order.
func (h *Host) EventTypes() []a11y.EventType {
	events := h.Events()
	out := make([]a11y.EventType, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Type)
	}
	return out
}

// Scroll returns the accumulated viewport scroll, in viewport heights.
func (h *Host) Scroll() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.scroll
}

// FocusRequests counts RequestFocus calls.
func (h *Host) FocusRequests() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.focusRequests
}

// DefaultActions returns the actions the bridge fell through on.
func (h *Host) DefaultActions() []a11y.Action {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.defaultActions)
}

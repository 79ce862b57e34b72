package bridge

import (
	"errors"
	"sync"

	"github.com/odvcencio/furry-a11y/a11y"
	"github.com/odvcencio/furry-a11y/dispatch"
)

type fakeEngine struct {
	mu       sync.Mutex
	nodes    map[a11y.NodeID]*a11y.Bundle
	fail     bool
	queries  []a11y.NodeID
	clicks   []a11y.NodeID
	texts    map[a11y.NodeID]string
	commands []Command
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{nodes: make(map[a11y.NodeID]*a11y.Bundle), texts: make(map[a11y.NodeID]string)}
}

func (e *fakeEngine) QueryNode(id a11y.NodeID) (*a11y.Bundle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queries = append(e.queries, id)
	if e.fail {
		return nil, errors.New("engine gone")
	}
	return e.nodes[id].Clone(), nil
}

func (e *fakeEngine) Click(id a11y.NodeID) {
	e.mu.Lock()
	e.clicks = append(e.clicks, id)
	e.mu.Unlock()
}

func (e *fakeEngine) SetText(id a11y.NodeID, text string) {
	e.mu.Lock()
	e.texts[id] = text
	e.mu.Unlock()
}

func (e *fakeEngine) Dispatch(cmd Command) {
	e.mu.Lock()
	e.commands = append(e.commands, cmd)
	e.mu.Unlock()
}

type fakeHost struct {
	focused        bool
	display        bool
	focusRequests  int
	originX        int
	originY        int
	scrolls        []float64
	defaultActions []a11y.Action
	defaultResult  bool
	events         []a11y.Event
	caps           *Capabilities
}

func (h *fakeHost) IsFocused() bool  { return h.focused }
func (h *fakeHost) HasDisplay() bool { return h.display }

func (h *fakeHost) RequestFocus() {
	h.focusRequests++
	h.focused = true
}

func (h *fakeHost) InitializeNode(node *a11y.Node) {
	node.Text = "host view"
	node.PackageName = "host.pkg"
	node.AddAction(a11y.ActionFocus)
}

func (h *fakeHost) ClientOrigin() (int, int) { return h.originX, h.originY }

func (h *fakeHost) ScrollViewport(fraction float64) {
	h.scrolls = append(h.scrolls, fraction)
}

func (h *fakeHost) PerformDefaultAction(action a11y.Action, _ *a11y.Args) bool {
	h.defaultActions = append(h.defaultActions, action)
	return h.defaultResult
}

func (h *fakeHost) SendEvent(event a11y.Event) {
	h.events = append(h.events, event)
}

func (h *fakeHost) eventTypes() []a11y.EventType {
	out := make([]a11y.EventType, 0, len(h.events))
	for _, ev := range h.events {
		out = append(out, ev.Type)
	}
	return out
}

type capsHost struct {
	*fakeHost
}

func (h capsHost) Capabilities() Capabilities {
	return *h.caps
}

type fakeSettings struct {
	platform bool
	touch    bool
}

func (f fakeSettings) PlatformEnabled() bool         { return f.platform }
func (f fakeSettings) TouchExplorationEnabled() bool { return f.touch }

type fixture struct {
	engine  *fakeEngine
	host    *fakeHost
	queue   *dispatch.Queue
	session *Session
}

func newFixture(settings fakeSettings) *fixture {
	engine := newFakeEngine()
	host := &fakeHost{}
	queue := dispatch.NewQueue()
	session := NewSession(Config{
		Engine:    engine,
		Host:      host,
		Scheduler: queue,
		Settings:  settings,
	})
	return &fixture{engine: engine, host: host, queue: queue, session: session}
}

func (f *fixture) send(ev EngineEvent) {
	f.session.SendEvent(ev)
	f.queue.Flush()
}

func bundle(id, parent a11y.NodeID, class a11y.Class, flags a11y.Flags) *a11y.Bundle {
	return &a11y.Bundle{ID: id, ParentID: parent, Class: class, Flags: flags}
}

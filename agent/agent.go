// Package agent drives a bridge session the way a screen reader would.
// It enables scripted checks and automated testing by exposing a semantic
// API over the materialized node tree rather than raw platform calls.
package agent

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/odvcencio/furry-a11y/a11y"
	"github.com/odvcencio/furry-a11y/bridge"
)

// Common errors returned by Agent methods.
var (
	ErrNodeNotFound   = errors.New("node not found")
	ErrNodeDisabled   = errors.New("node is disabled")
	ErrNotClickable   = errors.New("node is not clickable")
	ErrNotEditable    = errors.New("node is not editable")
	ErrActionRejected = errors.New("action rejected")
	ErrTimeout        = errors.New("operation timed out")
	ErrNoSession      = errors.New("no session configured")
)

// Agent reads and operates a bridge session.
type Agent struct {
	mu       sync.Mutex
	session  *bridge.Session
	settle   func()
	tickRate time.Duration
	now      func() time.Time
}

// Config configures an Agent.
type Config struct {
	// Session is the bridge session to control.
	Session *bridge.Session

	// Settle runs after every action so queued engine events reach the
	// host before the next read. Typically dispatch.Queue.Flush.
	Settle func()

	// TickRate is how long WaitForNode sleeps between polls.
	// Default is 50ms.
	TickRate time.Duration
}

// New creates an Agent.
func New(cfg Config) *Agent {
	tickRate := cfg.TickRate
	if tickRate <= 0 {
		tickRate = 50 * time.Millisecond
	}
	return &Agent{
		session:  cfg.Session,
		settle:   cfg.Settle,
		tickRate: tickRate,
		now:      time.Now,
	}
}

// Session returns the controlled session.
func (a *Agent) Session() *bridge.Session {
	if a == nil {
		return nil
	}
	return a.session
}

// Tick lets pending engine events through.
func (a *Agent) Tick() {
	if a == nil || a.settle == nil {
		return
	}
	a.settle()
}

// Snapshot materializes the tree from the root.
func (a *Agent) Snapshot() Snapshot {
	if a == nil || a.session == nil {
		return Snapshot{}
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	s := a.session
	snap := Snapshot{
		Timestamp: a.now(),
		Session:   s.ID().String(),
		Attached:  s.Attached(),
		Caches:    s.CacheOrder(),
		Focus:     s.Focus(),
	}

	w := walker{session: s, visited: make(map[a11y.NodeID]bool)}
	root := s.CreateNode(a11y.RootID)
	snap.Nodes = []NodeInfo{w.walk(root)}
	snap.Unreachable = w.unreachable

	if focused, ok := s.FindFocus(a11y.FocusAccessibility); ok {
		snap.FocusedID = focused.ID
		snap.Focused = findByIDIn(snap.Nodes, focused.ID)
	}
	return snap
}

// SnapshotJSON returns the snapshot as indented JSON.
func (a *Agent) SnapshotJSON() ([]byte, error) {
	return json.MarshalIndent(a.Snapshot(), "", "  ")
}

type walker struct {
	session     *bridge.Session
	visited     map[a11y.NodeID]bool
	unreachable []a11y.NodeID
}

func (w *walker) walk(node a11y.Node) NodeInfo {
	w.visited[node.ID] = true
	info := extractNodeInfo(node)
	for _, id := range node.Children {
		if w.visited[id] {
			continue
		}
		child := w.session.CreateNode(id)
		if child.ID != id {
			// Materialization fell back to the root.
			w.unreachable = append(w.unreachable, id)
			continue
		}
		info.Children = append(info.Children, w.walk(child))
	}
	return info
}

func extractNodeInfo(n a11y.Node) NodeInfo {
	info := NodeInfo{
		ID:                   n.ID,
		Class:                n.Class,
		Label:                n.Text,
		Hint:                 n.Hint,
		Bounds:               n.BoundsInScreen,
		Enabled:              n.Enabled,
		Clickable:            n.Clickable,
		Checkable:            n.Checkable,
		Checked:              n.Checked,
		Editable:             n.Editable,
		Focusable:            n.Focusable,
		Focused:              n.Focused,
		AccessibilityFocused: n.AccessibilityFocused,
	}
	for _, act := range n.Actions {
		info.Actions = append(info.Actions, act.String())
	}
	return info
}

// FindByLabel finds the first node whose label contains label, ignoring case.
func (a *Agent) FindByLabel(label string) *NodeInfo {
	snap := a.Snapshot()
	return findByLabelIn(snap.Nodes, label)
}

func findByLabelIn(nodes []NodeInfo, label string) *NodeInfo {
	label = strings.ToLower(label)
	for i := range nodes {
		n := &nodes[i]
		if strings.Contains(strings.ToLower(n.Label), label) {
			return n
		}
		if found := findByLabelIn(n.Children, label); found != nil {
			return found
		}
	}
	return nil
}

// FindByClass finds all nodes of the given class.
func (a *Agent) FindByClass(class a11y.Class) []NodeInfo {
	snap := a.Snapshot()
	var results []NodeInfo
	findByClassIn(snap.Nodes, class, &results)
	return results
}

func findByClassIn(nodes []NodeInfo, class a11y.Class, out *[]NodeInfo) {
	for _, n := range nodes {
		if n.Class == class {
			*out = append(*out, n)
		}
		findByClassIn(n.Children, class, out)
	}
}

// FindByID finds a node by id.
func (a *Agent) FindByID(id a11y.NodeID) *NodeInfo {
	snap := a.Snapshot()
	return findByIDIn(snap.Nodes, id)
}

func findByIDIn(nodes []NodeInfo, id a11y.NodeID) *NodeInfo {
	for i := range nodes {
		n := &nodes[i]
		if n.ID == id {
			return n
		}
		if found := findByIDIn(n.Children, id); found != nil {
			return found
		}
	}
	return nil
}

// GetFocused returns the node holding accessibility focus.
func (a *Agent) GetFocused() *NodeInfo {
	return a.Snapshot().Focused
}

// IsChecked reports whether the node with the given label is checked.
func (a *Agent) IsChecked(label string) bool {
	n := a.FindByLabel(label)
	return n != nil && n.Checked
}

// GetValue returns the text of the node with the given label.
func (a *Agent) GetValue(label string) (string, error) {
	n := a.FindByLabel(label)
	if n == nil {
		return "", ErrNodeNotFound
	}
	return n.Label, nil
}

// Focus moves accessibility focus to the labelled node.
func (a *Agent) Focus(label string) error {
	n, err := a.lookup(label)
	if err != nil {
		return err
	}
	return a.Perform(n.ID, a11y.ActionAccessibilityFocus, nil)
}

// Activate clicks the labelled node.
func (a *Agent) Activate(label string) error {
	n, err := a.lookup(label)
	if err != nil {
		return err
	}
	if !n.Enabled {
		return ErrNodeDisabled
	}
	if !n.Clickable {
		return ErrNotClickable
	}
	return a.Perform(n.ID, a11y.ActionClick, nil)
}

// Type replaces the text of the labelled editable node.
func (a *Agent) Type(label, text string) error {
	n, err := a.lookup(label)
	if err != nil {
		return err
	}
	if !n.Editable {
		return ErrNotEditable
	}
	return a.Perform(n.ID, a11y.ActionSetText, &a11y.Args{Text: text})
}

// Scroll scrolls the document by one step.
func (a *Agent) Scroll(forward bool) error {
	action := a11y.ActionScrollBackward
	if forward {
		action = a11y.ActionScrollForward
	}
	return a.Perform(a11y.RootID, action, nil)
}

// Navigate moves to the next or previous element matching rule, such as
// HEADING or LINK.
func (a *Agent) Navigate(rule string, forward bool) error {
	action := a11y.ActionPreviousHTMLElement
	if forward {
		action = a11y.ActionNextHTMLElement
	}
	return a.Perform(a11y.RootID, action, &a11y.Args{HTMLElement: rule})
}

// WaitForNode polls until a node with the label appears.
func (a *Agent) WaitForNode(label string, timeout time.Duration) error {
	if a == nil || a.session == nil {
		return ErrNoSession
	}
	deadline := time.Now().Add(timeout)
	for {
		a.Tick()
		if a.FindByLabel(label) != nil {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrTimeout
		}
		time.Sleep(a.tickRate)
	}
}

// ContainsText reports whether any node label contains text.
func (a *Agent) ContainsText(text string) bool {
	return a.FindByLabel(text) != nil
}

// CaptureText returns every label in tree order, one per line.
func (a *Agent) CaptureText() string {
	var b strings.Builder
	var walk func([]NodeInfo)
	walk = func(nodes []NodeInfo) {
		for _, n := range nodes {
			if n.Label != "" {
				b.WriteString(n.Label)
				b.WriteByte('\n')
			}
			walk(n.Children)
		}
	}
	walk(a.Snapshot().Nodes)
	return b.String()
}

func (a *Agent) lookup(label string) (*NodeInfo, error) {
	if a == nil || a.session == nil {
		return nil, ErrNoSession
	}
	n := a.FindByLabel(label)
	if n == nil {
		return nil, ErrNodeNotFound
	}
	return n, nil
}

// Perform runs action on the node with the given id and lets the
// resulting events through.
func (a *Agent) Perform(id a11y.NodeID, action a11y.Action, args *a11y.Args) error {
	if a == nil || a.session == nil {
		return ErrNoSession
	}
	ok := a.session.PerformAction(id, action, args)
	a.Tick()
	if !ok {
		return ErrActionRejected
	}
	return nil
}

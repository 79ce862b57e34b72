// Package sim provides an in-memory engine and host view for driving a
// bridge session without a real renderer or platform, plus YAML scenarios
// that script both sides.
package sim

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/odvcencio/furry-a11y/a11y"
	"github.com/odvcencio/furry-a11y/bridge"
	"github.com/odvcencio/furry-a11y/clipboard"
	"github.com/odvcencio/furry-a11y/dispatch"
	"github.com/odvcencio/furry-a11y/enablement"
	"github.com/odvcencio/furry-a11y/logging"
)

// ErrEngineClosed is returned by QueryNode after Close.
var ErrEngineClosed = errors.New("sim: engine closed")

// Engine is a simulated rendering engine holding a flat document of bundles.
// Clicking a checkable node toggles it and reports the change back through
// the connected session, the way a live engine would. The last editable node
// clicked or written is the editing target for selection and clipboard
// commands.
type Engine struct {
	mu       sync.Mutex
	document map[a11y.NodeID]a11y.Bundle
	session  *bridge.Session
	closed   bool
	logger   *slog.Logger

	// settings is the last enablement broadcast seen on the engine side.
	settings    enablement.Snapshot
	hasSettings bool

	clip       clipboard.Clipboard
	editing    a11y.NodeID
	hasEditing bool
	selStart   int
	selEnd     int

	clicks   []a11y.NodeID
	texts    map[a11y.NodeID]string
	commands []bridge.Command
}

// NewEngine creates an engine with an empty document.
func NewEngine() *Engine {
	return &Engine{
		document: make(map[a11y.NodeID]a11y.Bundle),
		texts:    make(map[a11y.NodeID]string),
		clip:     &clipboard.MemoryClipboard{},
		logger:   logging.Discard(),
	}
}

// SetLogger replaces the engine logger. Nil discards.
func (e *Engine) SetLogger(logger *slog.Logger) {
	e.mu.Lock()
	e.logger = logging.OrDiscard(logger)
	e.mu.Unlock()
}

// WatchSettings subscribes the engine side of settings. The returned func
// unsubscribes.
func (e *Engine) WatchSettings(settings *enablement.Settings, scheduler dispatch.Scheduler) func() {
	return settings.Subscribe(enablement.SideEngine, scheduler, func(snap enablement.Snapshot) {
		e.mu.Lock()
		e.settings, e.hasSettings = snap, true
		e.mu.Unlock()
	})
}

// AccessibilitySettings returns the last enablement state broadcast to the
// engine, and false if none arrived yet.
func (e *Engine) AccessibilitySettings() (enablement.Snapshot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings, e.hasSettings
}

// SetClipboard replaces the clipboard used by cut, copy and paste.
func (e *Engine) SetClipboard(c clipboard.Clipboard) {
	if c == nil {
		c = clipboard.UnavailableClipboard{}
	}
	e.mu.Lock()
	e.clip = c
	e.mu.Unlock()
}

// Clipboard returns the clipboard in use.
func (e *Engine) Clipboard() clipboard.Clipboard {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clip
}

// Selection returns the editing target and its selection.
func (e *Engine) Selection() (id a11y.NodeID, start, end int, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.editing, e.selStart, e.selEnd, e.hasEditing
}

// Connect routes engine-originated events to session.
func (e *Engine) Connect(session *bridge.Session) {
	e.mu.Lock()
	e.session = session
	e.mu.Unlock()
}

// Load replaces the document. Nil entries are ignored.
func (e *Engine) Load(bundles []*a11y.Bundle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.document = make(map[a11y.NodeID]a11y.Bundle, len(bundles))
	for _, b := range bundles {
		if b != nil {
			e.document[b.ID] = *b
		}
	}
}

// Put adds or replaces one node in the document.
func (e *Engine) Put(b a11y.Bundle) {
	e.mu.Lock()
	e.document[b.ID] = b
	e.mu.Unlock()
}

// Close makes further queries fail.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
}

// QueryNode implements bridge.Engine.
func (e *Engine) QueryNode(id a11y.NodeID) (*a11y.Bundle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrEngineClosed
	}
	b, ok := e.document[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

// Click implements bridge.Engine.
func (e *Engine) Click(id a11y.NodeID) {
	e.mu.Lock()
	e.clicks = append(e.clicks, id)
	b, ok := e.document[id]
	if ok && b.Flags.Has(a11y.FlagEditable) {
		e.editLocked(id, len([]rune(b.Text)))
	}
	session := e.session
	var checked bool
	if ok && b.Flags.Has(a11y.FlagCheckable) {
		checked = !b.Flags.Has(a11y.FlagChecked)
		b.Flags = b.Flags.With(a11y.FlagChecked, checked)
		e.document[id] = b
	}
	e.mu.Unlock()

	if ok && b.Flags.Has(a11y.FlagCheckable) && session != nil {
		session.SendEvent(bridge.EngineEvent{
			Type:   a11y.EventClicked,
			Source: id,
			Class:  a11y.ClassUnknown,
			Data:   &a11y.EventData{Checked: &checked},
		})
	}
}

// SetText implements bridge.Engine.
func (e *Engine) SetText(id a11y.NodeID, text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.texts[id] = text
	if b, ok := e.document[id]; ok {
		b.Text = text
		e.document[id] = b
	}
	e.editLocked(id, len([]rune(text)))
}

// editLocked makes id the editing target with the caret at caret.
func (e *Engine) editLocked(id a11y.NodeID, caret int) {
	e.editing, e.hasEditing = id, true
	e.selStart, e.selEnd = caret, caret
}

// Dispatch implements bridge.Engine. Selection and clipboard commands act
// on the editing target; an edit is reported as a text-changed event.
func (e *Engine) Dispatch(cmd bridge.Command) {
	e.mu.Lock()
	e.commands = append(e.commands, cmd)
	var changed *bridge.EngineEvent
	switch c := cmd.(type) {
	case bridge.AccessibilitySetSelection:
		e.selStart, e.selEnd = c.Start, c.End
	case bridge.AccessibilityClipboard:
		changed = e.clipboardLocked(c.Action)
	}
	session := e.session
	e.mu.Unlock()

	if changed != nil && session != nil {
		session.SendEvent(*changed)
	}
}

func (e *Engine) clipboardLocked(action a11y.Action) *bridge.EngineEvent {
	if !e.hasEditing {
		return nil
	}
	b, ok := e.document[e.editing]
	if !ok {
		return nil
	}
	runes := []rune(b.Text)
	start := min(max(min(e.selStart, e.selEnd), 0), len(runes))
	end := min(max(e.selStart, e.selEnd, start), len(runes))
	selected := string(runes[start:end])

	var inserted string
	switch action {
	case a11y.ActionCopy:
		if err := e.clip.Write(selected); err != nil {
			e.logger.Warn("clipboard write failed", "action", action.String(), "node", int(b.ID), "err", err)
		}
		return nil
	case a11y.ActionCut:
		if start == end {
			return nil
		}
		if err := e.clip.Write(selected); err != nil {
			e.logger.Warn("clipboard write failed", "action", action.String(), "node", int(b.ID), "err", err)
			return nil
		}
	case a11y.ActionPaste:
		if !e.clip.Available() {
			return nil
		}
		text, err := e.clip.Read()
		if err != nil {
			e.logger.Warn("clipboard read failed", "node", int(b.ID), "err", err)
			return nil
		}
		inserted = text
	default:
		return nil
	}

	before := b.Text
	b.Text = string(runes[:start]) + inserted + string(runes[end:])
	e.document[b.ID] = b
	e.texts[b.ID] = b.Text
	caret := start + len([]rune(inserted))
	e.selStart, e.selEnd = caret, caret

	text := b.Text
	added := len([]rune(inserted))
	removed := end - start
	return &bridge.EngineEvent{
		Type:   a11y.EventTextChanged,
		Source: b.ID,
		Class:  a11y.ClassUnknown,
		Data: &a11y.EventData{
			Text:         &text,
			BeforeText:   before,
			FromIndex:    &start,
			AddedCount:   &added,
			RemovedCount: &removed,
		},
	}
}

// Clicks returns the ids clicked so far.
func (e *Engine) Clicks() []a11y.NodeID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.clicks)
}

// Texts returns the last text set per node.
func (e *Engine) Texts() map[a11y.NodeID]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return maps.Clone(e.texts)
}

// Commands returns the commands dispatched so far.
func (e *Engine) Commands() []bridge.Command {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.commands)
}

// CommandNames returns the names of the dispatched commands.
func (e *Engine) CommandNames() []string {
	cmds := e.Commands()
	names := make([]string, 0, len(cmds))
	for _, cmd := range cmds {
		names = append(names, cmd.Name())
	}
	return names
}

// Node returns the document copy of id.
func (e *Engine) Node(id a11y.NodeID) (a11y.Bundle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	b, ok := e.document[id]
	if !ok {
		return a11y.Bundle{}, fmt.Errorf("sim: node %d not in document", id)
	}
	return b, nil
}

package bridge

import "github.com/odvcencio/furry-a11y/a11y"

// EngineEvent is an accessibility event reported by the engine.
type EngineEvent struct {
	Type   a11y.EventType
	Source a11y.NodeID
	// Class is ClassUnknown when the engine leaves it to the cache.
	Class a11y.Class
	Data  *a11y.EventData
}

// SendEvent accepts an event from the engine goroutine and hands it to the
// UI scheduler. Nothing reaches the host before the scheduler runs it.
func (s *Session) SendEvent(ev EngineEvent) {
	if s == nil {
		return
	}
	s.scheduler.Schedule(func() {
		s.deliver(ev)
	})
}

// deliver filters ev, applies its side effects to session state and forwards
// it to the host. It runs on the UI goroutine and reports whether the host
// received the event.
func (s *Session) deliver(ev EngineEvent) bool {
	host := s.boundHost()
	if host == nil {
		s.logger.Debug("dropped event with no host bound", "event", ev.Type.String())
		return false
	}
	headless := !host.HasDisplay()
	platformEnabled := s.settings.PlatformEnabled()
	hostFocused := true
	if ev.Type == a11y.EventFocused {
		hostFocused = host.IsFocused()
	}

	s.mu.Lock()
	if s.viewFocusRequested && ev.Class == a11y.ClassWebView {
		// Echo of a focus request made by an action or explore-by-touch.
		s.viewFocusRequested = false
		s.mu.Unlock()
		return false
	}
	if !platformEnabled && !headless {
		s.mu.Unlock()
		return false
	}
	cached, ok := s.registry.Lookup(ev.Source)
	if !ok && ev.Source != a11y.RootID {
		s.mu.Unlock()
		s.logger.Debug("dropped event for uncached node", "event", ev.Type.String(), "node", int(ev.Source))
		return false
	}

	class := ev.Class
	if class == a11y.ClassUnknown && ok {
		class = cached.Class
	}
	if !class.Valid() {
		s.logger.Error("class index out of range", "node", int(ev.Source), "class", int(class))
	}
	event := a11y.NewEvent(ev.Type, ev.Source, class.Resolve())
	event.PackageName = s.packageName
	event.Apply(ev.Data)

	forward := true
	switch ev.Type {
	case a11y.EventClicked:
		if ok && ev.Data != nil && ev.Data.Checked != nil {
			checked := *ev.Data.Checked
			s.registry.Mutate(ev.Source, func(b *a11y.Bundle) {
				b.Flags = b.Flags.With(a11y.FlagChecked, checked)
			})
		}
	case a11y.EventSelected:
		if ok && ev.Data != nil && ev.Data.Selected != nil {
			selected := *ev.Data.Selected
			s.registry.Mutate(ev.Source, func(b *a11y.Bundle) {
				b.Flags = b.Flags.With(a11y.FlagSelected, selected)
			})
		}
	case a11y.EventAccessibilityFocusCleared:
		if s.accessibilityFocus == ev.Source {
			s.accessibilityFocus = a11y.NoFocus
		}
	case a11y.EventHoverEnter:
		s.hovered = ev.Source
	case a11y.EventAccessibilityFocused:
		s.accessibilityFocus = ev.Source
		s.hovered = a11y.NoFocus
	case a11y.EventFocused:
		s.inputFocus = ev.Source
		// Focus inside an unfocused view is tracked but not announced.
		forward = hostFocused || headless
	}
	s.mu.Unlock()

	if !forward {
		return false
	}
	host.SendEvent(event)
	return true
}

// sendLocal synthesizes an event on the UI goroutine.
func (s *Session) sendLocal(t a11y.EventType, source a11y.NodeID, class a11y.Class) {
	s.deliver(EngineEvent{Type: t, Source: source, Class: class})
}

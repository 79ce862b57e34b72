// Package enablement tracks whether platform accessibility is active for the
// process and fans every change out to the engine side, the UI side and the
// native toggle.
package enablement

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/odvcencio/furry-a11y/dispatch"
	"github.com/odvcencio/furry-a11y/logging"
)

// Side names the audience of a change notification.
type Side int

const (
	SideEngine Side = iota
	SideUI
)

func (s Side) String() string {
	if s == SideEngine {
		return "engine"
	}
	return "ui"
}

// State is the engine lifecycle as far as enablement cares.
type State int

const (
	StateInitial State = iota
	StateLaunched
	StateProfileReady
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateLaunched:
		return "launched"
	case StateProfileReady:
		return "profile-ready"
	case StateRunning:
		return "running"
	default:
		return "initial"
	}
}

// Snapshot is the broadcast pair sent on every change.
type Snapshot struct {
	Enabled      bool `json:"enabled"`
	TouchEnabled bool `json:"touchEnabled"`
}

// Toggler switches native accessibility support on or off.
type Toggler interface {
	SetNativeEnabled(enabled bool)
}

// TogglerFunc adapts a function into a Toggler.
type TogglerFunc func(enabled bool)

// SetNativeEnabled calls f.
func (f TogglerFunc) SetNativeEnabled(enabled bool) {
	if f != nil {
		f(enabled)
	}
}

type subscriber struct {
	id        int
	side      Side
	scheduler dispatch.Scheduler
	fn        func(Snapshot)
}

// Settings owns the three enablement inputs behind one lock.
type Settings struct {
	mu sync.Mutex
	// toggleMu serializes native toggles; it is taken before mu.
	toggleMu sync.Mutex

	platformEnabled bool
	touchEnabled    bool
	forceEnabled    bool

	engineState State
	toggler     Toggler
	// pending holds the toggle that arrived before the engine was ready or
	// before a toggler was installed.
	// Only the latest value is kept.
	pending *bool

	// subs runs in subscription order.
	subs   []subscriber
	next   int
	logger *slog.Logger
}

var (
	defaultOnce     sync.Once
	defaultSettings *Settings
)

// Default returns the process-wide settings, created on first use.
func Default() *Settings {
	defaultOnce.Do(func() {
		defaultSettings = New(slog.Default())
	})
	return defaultSettings
}

// New creates settings with everything disabled and the engine in
// StateInitial.
func New(logger *slog.Logger) *Settings {
	return &Settings{logger: logging.OrDiscard(logger)}
}

// SetToggler installs the native toggle. A pending toggle is replayed at
// once if the engine is already past StateProfileReady. The toggler must not
// call back into the setters of s.
func (s *Settings) SetToggler(t Toggler) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.toggler = t
	s.mu.Unlock()
	s.syncNative(false)
}

// SetPlatformState records the OS-reported service and touch exploration
// state. Touch exploration never counts while the service itself is off.
func (s *Settings) SetPlatformState(enabled, touchExploration bool) {
	if s == nil {
		return
	}
	s.mu.Lock()
	touch := enabled && touchExploration
	changed := s.platformEnabled != enabled || s.touchEnabled != touch
	s.platformEnabled = enabled
	s.touchEnabled = touch
	s.mu.Unlock()
	if changed {
		s.dispatch()
	}
}

// SetForcePref applies the force-enable preference. Negative values force
// accessibility on; anything else clears the override.
func (s *Settings) SetForcePref(value int) {
	if s == nil {
		return
	}
	s.mu.Lock()
	force := value < 0
	changed := s.forceEnabled != force
	s.forceEnabled = force
	s.mu.Unlock()
	if changed {
		s.dispatch()
	}
}

// SetEngineState advances the engine lifecycle. Reaching StateProfileReady
// replays the pending toggle, if any.
func (s *Settings) SetEngineState(state State) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.engineState = state
	s.mu.Unlock()
	s.syncNative(false)
}

// Refresh re-broadcasts the current state even when nothing changed.
func (s *Settings) Refresh() {
	s.dispatch()
}

// PlatformEnabled reports the OS-reported service state.
func (s *Settings) PlatformEnabled() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.platformEnabled
}

// Enabled reports whether accessibility is effectively on.
func (s *Settings) Enabled() bool {
	return s.Snapshot().Enabled
}

// TouchExplorationEnabled reports whether explore-by-touch is effectively on.
func (s *Settings) TouchExplorationEnabled() bool {
	return s.Snapshot().TouchEnabled
}

// Snapshot returns the effective state.
func (s *Settings) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// EngineState returns the last lifecycle state recorded.
func (s *Settings) EngineState() State {
	if s == nil {
		return StateInitial
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engineState
}

// Subscribe registers fn for notifications aimed at side. A nil scheduler
// runs fn synchronously on the goroutine that made the change.
func (s *Settings) Subscribe(side Side, scheduler dispatch.Scheduler, fn func(Snapshot)) func() {
	if s == nil || fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs = append(s.subs, subscriber{id: id, side: side, scheduler: scheduler, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.subs = slices.DeleteFunc(s.subs, func(sub subscriber) bool { return sub.id == id })
			s.mu.Unlock()
		})
	}
}

func (s *Settings) snapshotLocked() Snapshot {
	return Snapshot{
		Enabled:      s.platformEnabled || s.forceEnabled,
		TouchEnabled: s.touchEnabled || s.forceEnabled,
	}
}

func (s *Settings) dispatch() {
	if s == nil {
		return
	}
	s.mu.Lock()
	snap := s.snapshotLocked()
	engineSubs, uiSubs := s.copySubscribersLocked()
	state := s.engineState
	s.mu.Unlock()

	s.logger.Debug("accessibility state changed",
		"enabled", snap.Enabled, "touch", snap.TouchEnabled, "engine_state", state.String())

	notify(engineSubs, snap)
	notify(uiSubs, snap)
	s.syncNative(true)
}

// syncNative hands the current effective state to the toggler. A change
// made before StateProfileReady or before a toggler is installed is parked
// in the pending slot. Without a change only a parked toggle is replayed.
// The state is read under toggleMu so the last call carries the latest value.
func (s *Settings) syncNative(changed bool) {
	s.toggleMu.Lock()
	defer s.toggleMu.Unlock()

	s.mu.Lock()
	enabled := s.snapshotLocked().Enabled
	state := s.engineState
	toggler := s.toggler
	if state < StateProfileReady || toggler == nil {
		if changed {
			s.pending = &enabled
		}
		s.mu.Unlock()
		return
	}
	replay := s.pending != nil
	s.pending = nil
	s.mu.Unlock()

	if !changed && !replay {
		return
	}
	if replay {
		s.logger.Debug("replaying native accessibility toggle", "enabled", enabled, "state", state.String())
	}
	toggler.SetNativeEnabled(enabled)
}

func (s *Settings) copySubscribersLocked() (engine, ui []subscriber) {
	for _, sub := range s.subs {
		if sub.side == SideEngine {
			engine = append(engine, sub)
		} else {
			ui = append(ui, sub)
		}
	}
	return engine, ui
}

func notify(subs []subscriber, snap Snapshot) {
	for _, sub := range subs {
		fn := sub.fn
		if sub.scheduler == nil {
			fn(snap)
			continue
		}
		sub.scheduler.Schedule(func() { fn(snap) })
	}
}

// Package bridge connects a platform accessibility consumer to the virtual
// accessibility tree of a rendering engine.
//
// A Session serves node queries and actions from the platform's UI goroutine
// and accepts cache pushes and events from the engine at any time. Cached
// bundles, focus and hover ids, the attached flag and the one-shot view
// focus flag sit behind a single mutex that is never held across a call into
// the engine or the host.
package bridge

import (
	"log/slog"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/odvcencio/furry-a11y/a11y"
	"github.com/odvcencio/furry-a11y/cache"
	"github.com/odvcencio/furry-a11y/dispatch"
	"github.com/odvcencio/furry-a11y/enablement"
	"github.com/odvcencio/furry-a11y/logging"
)

// DefaultPackageName is stamped on nodes and events when none is configured.
const DefaultPackageName = "furry-a11y"

// Config configures a Session.
type Config struct {
	// Engine answers queries and receives commands. Required.
	Engine Engine

	// Host is the platform view. It may be bound later with Bind.
	Host Host

	// Scheduler runs engine events on the UI goroutine. Defaults to
	// dispatch.Immediate, which is only correct when the engine already
	// calls in on the UI goroutine.
	Scheduler dispatch.Scheduler

	// Settings supplies the platform enablement state. Defaults to
	// enablement.Default().
	Settings Enablement

	// FullTree queries the engine for every node instead of the cache.
	FullTree bool

	// Capabilities overrides what the host reports. When nil the host's
	// CapabilityProvider is used, or AllCapabilities.
	Capabilities *Capabilities

	PackageName string
	Logger      *slog.Logger
}

// Session is the bridge between one engine view and one platform view.
type Session struct {
	id          ulid.ULID
	engine      Engine
	scheduler   dispatch.Scheduler
	settings    Enablement
	caps        Capabilities
	fullTree    bool
	packageName string
	logger      *slog.Logger

	mu                 sync.Mutex
	host               Host
	registry           *cache.Registry
	attached           bool
	accessibilityFocus a11y.NodeID
	inputFocus         a11y.NodeID
	hovered            a11y.NodeID
	viewFocusRequested bool
}

// NewSession creates a detached session.
func NewSession(cfg Config) *Session {
	id := ulid.Make()
	logger := logging.OrDiscard(cfg.Logger).With("session", id.String())

	scheduler := cfg.Scheduler
	if scheduler == nil {
		scheduler = dispatch.Immediate
	}
	var settings Enablement = enablement.Default()
	if cfg.Settings != nil {
		settings = cfg.Settings
	}
	caps := AllCapabilities()
	if cfg.Capabilities != nil {
		caps = *cfg.Capabilities
	} else if provider, ok := cfg.Host.(CapabilityProvider); ok {
		caps = provider.Capabilities()
	}
	pkg := cfg.PackageName
	if pkg == "" {
		pkg = DefaultPackageName
	}

	return &Session{
		id:          id,
		engine:      cfg.Engine,
		scheduler:   scheduler,
		settings:    settings,
		caps:        caps,
		fullTree:    cfg.FullTree,
		packageName: pkg,
		logger:      logger,
		host:        cfg.Host,
		registry:    cache.NewRegistry(logger),
	}
}

// ID identifies the session in logs.
func (s *Session) ID() ulid.ULID {
	if s == nil {
		return ulid.ULID{}
	}
	return s.id
}

// Logger returns the session logger.
func (s *Session) Logger() *slog.Logger {
	if s == nil {
		return logging.Discard()
	}
	return s.logger
}

// Capabilities returns the features resolved at creation.
func (s *Session) Capabilities() Capabilities {
	if s == nil {
		return Capabilities{}
	}
	return s.caps
}

// Bind attaches the platform view. Events are dropped while no view is bound.
func (s *Session) Bind(host Host) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.host = host
	s.mu.Unlock()
	s.logger.Debug("host bound")
}

// Unbind detaches the platform view.
func (s *Session) Unbind() {
	s.Bind(nil)
}

// SetAttached records whether the engine can answer synchronous queries.
func (s *Session) SetAttached(attached bool) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.attached = attached
	s.mu.Unlock()
	s.logger.Debug("engine attachment changed", "attached", attached)
}

// Attached reports whether the engine can answer synchronous queries.
func (s *Session) Attached() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attached
}

// ReplaceCache swaps the contents of the named cache and makes it the
// newest. Nil bundles are skipped.
func (s *Session) ReplaceCache(name string, bundles []*a11y.Bundle) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.registry.Replace(name, bundles)
	s.mu.Unlock()
}

// UpdateBounds applies the bounds carried by partial bundles to the freshest
// cached copies. Unknown ids are logged and dropped.
func (s *Session) UpdateBounds(partials []*a11y.Bundle) int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.UpdateBoundsBatch(partials)
}

// Lookup returns the freshest cached bundle for id.
func (s *Session) Lookup(id a11y.NodeID) (a11y.Bundle, bool) {
	if s == nil {
		return a11y.Bundle{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Lookup(id)
}

// CachedBundles returns the freshest copy of every cached node.
func (s *Session) CachedBundles() []a11y.Bundle {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Bundles()
}

// CacheOrder returns cache names, newest first.
func (s *Session) CacheOrder() []string {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Order()
}

// FocusState is the tracked focus and hover ids. NoFocus marks an empty slot.
type FocusState struct {
	Accessibility a11y.NodeID `json:"accessibility_focus"`
	Input         a11y.NodeID `json:"input_focus"`
	Hovered       a11y.NodeID `json:"hovered"`
}

// Focus returns the tracked focus state.
func (s *Session) Focus() FocusState {
	if s == nil {
		return FocusState{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return FocusState{
		Accessibility: s.accessibilityFocus,
		Input:         s.inputFocus,
		Hovered:       s.hovered,
	}
}

func (s *Session) boundHost() Host {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.host
}

// requestViewFocus focuses the host view and arms the one-shot flag that
// swallows the resulting document focus echo.
func (s *Session) requestViewFocus() {
	host := s.boundHost()
	if host == nil || host.IsFocused() || !host.HasDisplay() {
		return
	}
	s.mu.Lock()
	s.viewFocusRequested = true
	s.mu.Unlock()
	host.RequestFocus()
}

func (s *Session) dispatch(cmd Command) {
	if s.engine == nil {
		s.logger.Warn("no engine for command", "command", cmd.Name())
		return
	}
	s.logger.Debug("dispatching command", "command", cmd.Name())
	s.engine.Dispatch(cmd)
}

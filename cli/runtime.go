package cli

import (
	"log/slog"

	"github.com/odvcencio/furry-a11y/bridge"
	"github.com/odvcencio/furry-a11y/config"
	"github.com/odvcencio/furry-a11y/dispatch"
	"github.com/odvcencio/furry-a11y/enablement"
	"github.com/odvcencio/furry-a11y/sim"
)

// rig is one simulated engine and host view joined by a session.
type rig struct {
	settings *enablement.Settings
	engine   *sim.Engine
	host     *sim.Host
	session  *bridge.Session
}

func newRig(cfg *config.Config, logger *slog.Logger, scheduler dispatch.Scheduler) *rig {
	r := &rig{
		settings: enablement.New(logger),
		engine:   sim.NewEngine(),
		host:     sim.NewHost(!cfg.Bridge.NoDisplay),
	}
	r.engine.SetLogger(logger)
	// The engine side hears every change synchronously, the UI side through
	// the scheduler.
	r.engine.WatchSettings(r.settings, nil)
	r.settings.Subscribe(enablement.SideUI, scheduler, func(s enablement.Snapshot) {
		logger.Debug("accessibility state changed", "enabled", s.Enabled, "touch_exploration", s.TouchEnabled)
	})
	r.settings.SetToggler(enablement.TogglerFunc(func(enabled bool) {
		logger.Info("native accessibility toggled", "enabled", enabled)
	}))
	r.settings.SetForcePref(cfg.Accessibility.ForcePref)
	r.settings.SetPlatformState(cfg.Accessibility.PlatformEnabled, cfg.Accessibility.TouchExploration)
	r.settings.SetEngineState(enablement.StateRunning)
	r.settings.Refresh()

	r.session = bridge.NewSession(bridge.Config{
		Engine:       r.engine,
		Host:         r.host,
		Scheduler:    scheduler,
		Settings:     r.settings,
		FullTree:     cfg.Bridge.FullTree,
		Capabilities: capabilities(cfg.Bridge.Capabilities),
		PackageName:  cfg.Bridge.PackageName,
		Logger:       logger,
	})
	return r
}

func capabilities(c *config.Capabilities) *bridge.Capabilities {
	if c == nil {
		return nil
	}
	return &bridge.Capabilities{
		ViewIDNames:             config.On(c.ViewIDNames),
		EditableActions:         config.On(c.EditableActions),
		ExtendedState:           config.On(c.ExtendedState),
		CollectionSelectionMode: config.On(c.CollectionSelectionMode),
		HintText:                config.On(c.HintText),
		ContextClickable:        config.On(c.ContextClickable),
	}
}

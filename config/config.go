// Package config loads the YAML configuration for bridge tooling.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the top-level configuration document.
type Config struct {
	Bridge        Bridge        `yaml:"bridge"`
	Accessibility Accessibility `yaml:"accessibility"`
	Log           Log           `yaml:"log"`
}

// Bridge configures the session.
type Bridge struct {
	// FullTree queries the engine for every node instead of the caches.
	FullTree bool `yaml:"full_tree"`
	// NoDisplay runs the host headless, which lets events through while
	// platform accessibility is off.
	NoDisplay   bool   `yaml:"no_display"`
	PackageName string `yaml:"package_name,omitempty"`
	// Capabilities limits the node features; all are on when omitted.
	Capabilities *Capabilities `yaml:"capabilities,omitempty"`
}

// Capabilities mirrors bridge.Capabilities for the config file. A key left
// out of the block stays on.
type Capabilities struct {
	ViewIDNames             *bool `yaml:"view_id_names"`
	EditableActions         *bool `yaml:"editable_actions"`
	ExtendedState           *bool `yaml:"extended_state"`
	CollectionSelectionMode *bool `yaml:"collection_selection_mode"`
	HintText                *bool `yaml:"hint_text"`
	ContextClickable        *bool `yaml:"context_clickable"`
}

// On reports whether a capability is enabled. Unset means on.
func On(v *bool) bool {
	return v == nil || *v
}

// Accessibility seeds the enablement state.
type Accessibility struct {
	PlatformEnabled  bool `yaml:"platform_enabled"`
	TouchExploration bool `yaml:"touch_exploration"`
	// ForcePref is the force-enable preference; negative forces it on.
	ForcePref int `yaml:"force_pref"`
}

// Log configures the slog handler.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Bridge: Bridge{NoDisplay: true},
		Log:    Log{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML document over the defaults. Unknown keys are errors.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalid, c.Log.Format)
	}
	return nil
}

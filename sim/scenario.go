package sim

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/odvcencio/furry-a11y/a11y"
	"github.com/odvcencio/furry-a11y/bridge"
)

// ErrInvalidScenario wraps every scenario validation failure.
var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario scripts one run of a session: what the engine has, what it pushes
// into the caches, which events it raises and which actions the platform
// performs afterwards.
type Scenario struct {
	Name     string `yaml:"name"`
	Attached bool   `yaml:"attached"`

	// Document is the engine's full tree. When empty the engine serves
	// every bundle pushed through Caches.
	Document []*a11y.Bundle `yaml:"document,omitempty"`

	// Caches are pushed in order, so the last one is freshest.
	Caches  []CachePush     `yaml:"caches"`
	Bounds  []*a11y.Bundle  `yaml:"bounds,omitempty"`
	Events  []ScenarioEvent `yaml:"events,omitempty"`
	Actions []ActionStep    `yaml:"actions,omitempty"`

	// Path is where the scenario was loaded from.
	Path string `yaml:"-"`
}

// CachePush replaces one named cache.
type CachePush struct {
	Name    string         `yaml:"name"`
	Bundles []*a11y.Bundle `yaml:"bundles"`
}

// ScenarioEvent is an engine event. A missing class is resolved from the
// caches.
type ScenarioEvent struct {
	Type   a11y.EventType  `yaml:"type"`
	Source a11y.NodeID     `yaml:"source"`
	Class  *a11y.Class     `yaml:"className,omitempty"`
	Data   *a11y.EventData `yaml:"data,omitempty"`
}

// EngineEvent converts the scripted event for the session.
func (e ScenarioEvent) EngineEvent() bridge.EngineEvent {
	class := a11y.ClassUnknown
	if e.Class != nil {
		class = *e.Class
	}
	return bridge.EngineEvent{Type: e.Type, Source: e.Source, Class: class, Data: e.Data}
}

// ActionStep is one platform action.
type ActionStep struct {
	Node   a11y.NodeID `yaml:"node"`
	Action string      `yaml:"action"`
	Args   *StepArgs   `yaml:"args,omitempty"`
}

// StepArgs are the YAML form of a11y.Args.
type StepArgs struct {
	HTMLElement     string `yaml:"htmlElement,omitempty"`
	Granularity     int    `yaml:"granularity,omitempty"`
	ExtendSelection bool   `yaml:"extendSelection,omitempty"`
	SelectionStart  int    `yaml:"selectionStart,omitempty"`
	SelectionEnd    int    `yaml:"selectionEnd,omitempty"`
	Text            string `yaml:"text,omitempty"`
}

func (a *StepArgs) args() *a11y.Args {
	if a == nil {
		return nil
	}
	return &a11y.Args{
		HTMLElement:     a.HTMLElement,
		Granularity:     a11y.Granularity(a.Granularity),
		ExtendSelection: a.ExtendSelection,
		SelectionStart:  a.SelectionStart,
		SelectionEnd:    a.SelectionEnd,
		Text:            a.Text,
	}
}

// StepResult records what the session did with one action.
type StepResult struct {
	Step    ActionStep
	Action  a11y.Action
	Outcome bridge.Outcome
	Handled bool
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scenario: %w", err)
	}
	defer f.Close()

	var sc Scenario
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("decoding scenario %s: %w", path, err)
	}
	sc.Path = path
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &sc, nil
}

// LoadScenarios loads every file matching a doublestar pattern, in path
// order. A pattern that matches nothing is an error.
func LoadScenarios(pattern string) ([]*Scenario, error) {
	paths, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("matching %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenarios match %q", pattern)
	}
	slices.Sort(paths)

	out := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		sc, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}

// Validate checks cache names and action names.
func (sc *Scenario) Validate() error {
	for i, push := range sc.Caches {
		if push.Name == "" {
			return fmt.Errorf("%w: cache %d has no name", ErrInvalidScenario, i)
		}
	}
	for i, step := range sc.Actions {
		if _, err := a11y.ParseAction(step.Action); err != nil {
			return fmt.Errorf("%w: action %d: %v", ErrInvalidScenario, i, err)
		}
	}
	return nil
}

// Setup loads the engine document and connects the engine to the session.
func (sc *Scenario) Setup(engine *Engine, session *bridge.Session) {
	doc := sc.Document
	if len(doc) == 0 {
		for _, push := range sc.Caches {
			doc = append(doc, push.Bundles...)
		}
	}
	engine.Load(doc)
	engine.Connect(session)
}

// Apply runs the scenario against session: the attached flag, cache pushes,
// bounds updates and events, then the actions. Events go through the
// session's scheduler, so a queued scheduler must be flushed by the caller
// before their effects are visible.
func (sc *Scenario) Apply(session *bridge.Session) ([]StepResult, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	session.SetAttached(sc.Attached)
	for _, push := range sc.Caches {
		session.ReplaceCache(push.Name, push.Bundles)
	}
	if len(sc.Bounds) > 0 {
		session.UpdateBounds(sc.Bounds)
	}
	for _, ev := range sc.Events {
		session.SendEvent(ev.EngineEvent())
	}
	return sc.Perform(session), nil
}

// Perform runs only the scripted actions. Actions the bridge does not route
// fall through to the host's default handling.
func (sc *Scenario) Perform(session *bridge.Session) []StepResult {
	results := make([]StepResult, 0, len(sc.Actions))
	for _, step := range sc.Actions {
		action, _ := a11y.ParseAction(step.Action)
		args := step.Args.args()
		res := StepResult{Step: step, Action: action}
		res.Outcome = session.Route(step.Node, action, args)
		switch res.Outcome {
		case bridge.Handled, bridge.Forwarded:
			res.Handled = true
		case bridge.Fallthrough:
			res.Handled = session.PerformAction(step.Node, action, args)
		}
		results = append(results, res)
	}
	return results
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/odvcencio/furry-a11y/a11y"
	"github.com/odvcencio/furry-a11y/dispatch"
	"github.com/odvcencio/furry-a11y/sim"
)

// RunResult is the outcome of one scenario.
type RunResult struct {
	Scenario string       `json:"scenario"`
	Path     string       `json:"path"`
	Steps    []StepReport `json:"steps"`
	Commands []string     `json:"commands,omitempty"`
	Events   []a11y.Event `json:"events,omitempty"`
}

// StepReport is one action and what the bridge did with it.
type StepReport struct {
	Node    a11y.NodeID `json:"node"`
	Action  string      `json:"action"`
	Outcome string      `json:"outcome"`
	Handled bool        `json:"handled"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <scenario-glob>",
		Short: "Replay scenarios and report actions, commands and events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runScenarios(rootOpts *RootOptions, pattern string, cmd *cobra.Command) error {
	scenarios, err := sim.LoadScenarios(pattern)
	if err != nil {
		return err
	}
	w, closeLog, err := rootOpts.logWriter(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()
	logger := rootOpts.newLogger(w)

	results := make([]RunResult, 0, len(scenarios))
	for _, sc := range scenarios {
		queue := dispatch.NewQueue()
		r := newRig(rootOpts.config, logger.With("scenario", sc.Name), queue)
		sc.Setup(r.engine, r.session)
		steps, err := sc.Apply(r.session)
		if err != nil {
			return fmt.Errorf("applying %s: %w", sc.Path, err)
		}
		queue.Flush()

		res := RunResult{Scenario: sc.Name, Path: sc.Path, Commands: r.engine.CommandNames(), Events: r.host.Events()}
		for _, step := range steps {
			res.Steps = append(res.Steps, StepReport{
				Node:    step.Step.Node,
				Action:  step.Action.String(),
				Outcome: step.Outcome.String(),
				Handled: step.Handled,
			})
		}
		results = append(results, res)
	}

	if rootOpts.Format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	writeRunText(cmd.OutOrStdout(), results)
	return nil
}

func writeRunText(w io.Writer, results []RunResult) {
	for _, res := range results {
		fmt.Fprintf(w, "%s (%s)\n", res.Scenario, res.Path)
		for _, step := range res.Steps {
			fmt.Fprintf(w, "  %-26s [%d] -> %s\n", step.Action, step.Node, step.Outcome)
		}
		for _, name := range res.Commands {
			fmt.Fprintf(w, "  command %s\n", name)
		}
		for _, ev := range res.Events {
			fmt.Fprintf(w, "  event %s [%d] %s\n", ev.Type, ev.Source, ev.Class)
		}
	}
}

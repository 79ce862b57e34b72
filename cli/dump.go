package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/furry-a11y/agent"
	"github.com/odvcencio/furry-a11y/dispatch"
	"github.com/odvcencio/furry-a11y/inspect"
	"github.com/odvcencio/furry-a11y/sim"
)

// DumpOptions holds dump flags.
type DumpOptions struct {
	Color bool
	Style string
}

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DumpOptions{}

	cmd := &cobra.Command{
		Use:   "dump <scenario-glob>",
		Short: "Replay scenarios and print the resulting tree as JSON",
		Long: `Replay every scenario matching the pattern (doublestar syntax, e.g.
scenarios/**/*.yaml) and print the materialized accessibility tree.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Color, "color", false, "highlight JSON for a 256-color terminal")
	cmd.Flags().StringVar(&opts.Style, "style", inspect.DefaultStyle, "chroma style for --color")

	return cmd
}

func runDump(rootOpts *RootOptions, opts *DumpOptions, pattern string, cmd *cobra.Command) error {
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

	out := cmd.OutOrStdout()
	for _, sc := range scenarios {
		queue := dispatch.NewQueue()
		r := newRig(rootOpts.config, logger.With("scenario", sc.Name), queue)
		sc.Setup(r.engine, r.session)
		if _, err := sc.Apply(r.session); err != nil {
			return fmt.Errorf("applying %s: %w", sc.Path, err)
		}
		queue.Flush()

		if len(scenarios) > 1 && rootOpts.Format == "text" {
			fmt.Fprintf(out, "# %s (%s)\n", sc.Name, sc.Path)
		}
		snap := agent.New(agent.Config{Session: r.session, Settle: func() { queue.Flush() }}).Snapshot()
		if err := inspect.Dump(out, snap, inspect.DumpOptions{Color: opts.Color, Style: opts.Style}); err != nil {
			return err
		}
	}
	return nil
}

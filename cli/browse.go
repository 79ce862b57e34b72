package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/odvcencio/furry-a11y/agent"
	"github.com/odvcencio/furry-a11y/dispatch"
	"github.com/odvcencio/furry-a11y/inspect"
	"github.com/odvcencio/furry-a11y/logging"
	"github.com/odvcencio/furry-a11y/sim"
)

// NewBrowseCommand creates the browse command.
func NewBrowseCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse <scenario>",
		Short: "Explore the tree of one scenario in the terminal",
		Long: `Replay a scenario and open an interactive outline of the tree.

Keys: up/down or j/k move, enter clicks, f focuses, F clears focus,
l long-clicks, r refreshes, q quits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runBrowse(rootOpts *RootOptions, path string, cmd *cobra.Command) error {
	sc, err := sim.LoadScenario(path)
	if err != nil {
		return err
	}
	// The screen owns the terminal, so logs only go to a file.
	w, closeLog, err := rootOpts.logWriter(io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()
	logger := rootOpts.newLogger(w)

	loop := dispatch.NewLoop(logger)
	r := newRig(rootOpts.config, logger.With("scenario", sc.Name), loop)
	sc.Setup(r.engine, r.session)
	if _, err := sc.Apply(r.session); err != nil {
		return fmt.Errorf("applying %s: %w", sc.Path, err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	browser := inspect.NewBrowser(screen, agent.New(agent.Config{Session: r.session}))
	// Runs after the scenario's queued engine events.
	loop.Post(browser.Refresh)
	err = browser.Run(logging.WithLogger(cmd.Context(), logger), screen, loop)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

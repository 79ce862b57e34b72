// Package cli implements the a11y-inspect command line.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/odvcencio/furry-a11y/config"
	"github.com/odvcencio/furry-a11y/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	LogFile    string
	Verbose    bool
	Format     string // "json" | "text"

	config *config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "a11y-inspect",
		Short: "Drive and inspect an accessibility bridge session",
		Long: `Replays engine scenarios against a bridge session backed by a simulated
engine and host view, then shows the accessibility tree a screen reader
would see.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			cfg, err := loadConfig(opts.ConfigPath)
			if err != nil {
				return err
			}
			opts.config = cfg
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&opts.LogFile, "log-file", "", "write logs to this file instead of stderr")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewDumpCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewBrowseCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg := config.Default()
		return &cfg, nil
	}
	return config.Load(path)
}

// logWriter opens the log destination. The returned closer is never nil.
func (o *RootOptions) logWriter(fallback io.Writer) (io.Writer, func() error, error) {
	if o.LogFile == "" {
		return fallback, func() error { return nil }, nil
	}
	f, err := os.OpenFile(o.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, f.Close, nil
}

func (o *RootOptions) newLogger(w io.Writer) *slog.Logger {
	level := o.config.Log.Level
	if o.Verbose {
		level = "debug"
	}
	return logging.New(level, o.config.Log.Format, w)
}

package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sangkips/trimtime-pos/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand creates the root command for the register backend.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "trimtime",
		Short: "TrimTime point of sale",
		Long:  "Register, sales log and reconciliation backend for the TrimTime barbershop.",
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))

	return cmd
}

// setupLogger installs the process logger: JSON in production, text otherwise.
func setupLogger(cfg *config.Config, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose || cfg.App.Debug {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.App.Env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, handlerOpts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}

	logger := slog.New(handler).With("app", cfg.App.Name)
	slog.SetDefault(logger)
	return logger
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sangkips/trimtime-pos/internal/config"
	"github.com/sangkips/trimtime-pos/internal/infrastructure/database"
)

// MigrateOptions holds flags for the migrate command.
type MigrateOptions struct {
	*RootOptions
	Seed bool
}

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MigrateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Long: `Run the schema migrations against the configured database.

With --seed the default shop settings and the first admin
(ADMIN_USERNAME / ADMIN_PASSWORD) are created when missing.

Example:
  trimtime migrate
  DB_DRIVER=sqlite DB_PATH=./storage/trimtime.db trimtime migrate --seed`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Seed, "seed", true, "seed default settings and admin staff")

	return cmd
}

func runMigrate(cmd *cobra.Command, opts *MigrateOptions) error {
	cfg := config.Load()
	logger := setupLogger(cfg, opts.Verbose)

	db, err := database.Open(&cfg.Database, cfg.App.Debug)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	if opts.Seed {
		if err := database.SeedDefaultData(cmd.Context(), db, cfg.Admin); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	logger.Info("migrations applied", "driver", cfg.Database.Driver, "seed", opts.Seed)
	return nil
}

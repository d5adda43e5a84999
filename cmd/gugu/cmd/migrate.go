package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"github.com/templui/gugu/internal/config"
	"github.com/templui/gugu/internal/db"
	"github.com/templui/gugu/internal/logger"
)

func MigrateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the SQL store schema",
	}

	c.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, cfg *config.Config, database *sqlx.DB) error {
				err := db.RunMigrations(ctx, database.DB, cfg.DBDriver)
				if err != nil {
					return err
				}
				return printSchemaVersion(ctx, cmd, cfg, database)
			})
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, cfg *config.Config, database *sqlx.DB) error {
				version, err := db.SchemaVersion(ctx, database.DB, cfg.DBDriver)
				if err != nil {
					return err
				}
				if version == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "nothing to roll back")
					return nil
				}

				err = db.MigrateDown(ctx, database.DB, cfg.DBDriver)
				if err != nil {
					return err
				}
				return printSchemaVersion(ctx, cmd, cfg, database)
			})
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, cfg *config.Config, database *sqlx.DB) error {
				return printSchemaVersion(ctx, cmd, cfg, database)
			})
		},
	})

	return c
}

// withDB opens the configured SQL database without starting the goal manager.
func withDB(cmd *cobra.Command, fn func(ctx context.Context, cfg *config.Config, database *sqlx.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.StoreBackend != config.StoreSQL {
		return fmt.Errorf("migrations only apply to STORE_BACKEND=%s, got %q", config.StoreSQL, cfg.StoreBackend)
	}

	level := slog.LevelWarn
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	logger.Init(os.Stderr, cfg.IsDevelopment(), level, cfg.SentryDSN)
	defer logger.Flush()

	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return err
	}
	defer db.Close(database)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, cfg, database)
}

func printSchemaVersion(ctx context.Context, cmd *cobra.Command, cfg *config.Config, database *sqlx.DB) error {
	version, err := db.SchemaVersion(ctx, database.DB, cfg.DBDriver)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
	return nil
}

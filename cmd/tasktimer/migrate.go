package main

import (
	"fmt"

	"github.com/spf13/cobra"

	pgInfra "github.com/fastygo/tasktimer/internal/infrastructure/postgres"
)

var migrateDown bool

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the Postgres task store schema",
		Long: `Apply (or with --down, revert) the migrations under MIGRATIONS_PATH
against DATABASE_URL. Only the postgres store driver needs a schema.`,
		Args: cobra.NoArgs,
		RunE: runMigrate,
	}
	cmd.Flags().BoolVar(&migrateDown, "down", false, "revert every migration")
	return cmd
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, zapLogger, err := setup(true)
	if err != nil {
		return err
	}
	defer zapLogger.Sync()

	dir := pgInfra.Up
	if migrateDown {
		dir = pgInfra.Down
	}
	version, err := pgInfra.Migrate(cfg.Database, cfg.Migrations, dir, zapLogger)
	if err != nil {
		return fmt.Errorf("migrate %s: %w", dir, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", version)
	return nil
}

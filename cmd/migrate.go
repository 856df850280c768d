package main

import (
	"context"
	"database/sql"
	"fmt"
	root "yourplaces"
	"yourplaces/internal/config"
	"yourplaces/pkg/logger"

	"github.com/pressly/goose/v3"
	"github.com/riverqueue/river/riverdriver/riverdatabasesql"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateSchema applies the embedded goose migrations for users and places.
func migrateSchema(db *sql.DB) error {
	goose.SetBaseFS(root.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("could not set goose dialect to postgres: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("could not migrate pgsql: %w", err)
	}

	return nil
}

// migrateQueue brings the river job tables to the latest version. It returns
// the version the queue schema ended at.
func migrateQueue(ctx context.Context, db *sql.DB) (int, error) {
	migrator, err := rivermigrate.New(riverdatabasesql.New(db), nil)
	if err != nil {
		return 0, fmt.Errorf("could not create river queue migrator: %w", err)
	}

	migrations := migrator.AllVersions()
	latestVersion := migrations[len(migrations)-1].Version

	currentVersion := 0
	existing, err := migrator.ExistingVersions(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not get existing river queue migrations: %w", err)
	}
	if len(existing) > 0 {
		currentVersion = existing[len(existing)-1].Version
	}
	if latestVersion <= currentVersion {
		return currentVersion, nil
	}

	if _, err = migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{
		TargetVersion: latestVersion,
	}); err != nil {
		return currentVersion, fmt.Errorf("could not migrate river queue: %w", err)
	}

	return latestVersion, nil
}

// migrateCommand constructs the 'migrate' subcommand that applies the schema
// and job queue migrations.
func migrateCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrates database to the latest version",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			db := strg.DB.(*sql.DB) //nolint: forcetypeassert

			if err := migrateSchema(db); err != nil {
				logger.Fatal(ctx, "could not migrate schema", zap.Error(err))
			}

			version, err := migrateQueue(ctx, db)
			if err != nil {
				logger.Fatal(ctx, "could not migrate job queue", zap.Error(err))
			}

			logger.Info(ctx, "database migrated", zap.Int("queueVersion", version))
		},
	}

	return cmd
}

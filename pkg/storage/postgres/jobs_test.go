package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"yourplaces/pkg/storage/postgres"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverdatabasesql"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/riverqueue/river/rivertest"
	"github.com/stretchr/testify/require"
)

type cleanupArgs struct {
	Path string `json:"path"`
}

func (cleanupArgs) Kind() string { return "TestAssetCleanup" }

func (cleanupArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{UniqueOpts: river.UniqueOpts{ByArgs: true}}
}

func migrateRiver(t *testing.T, storage *postgres.PgSQL) {
	t.Helper()
	migrator, err := rivermigrate.New(riverdatabasesql.New(storage.DB.(*sql.DB)), nil)
	require.NoError(t, err)
	migrations := migrator.AllVersions()
	latestVersion := migrations[len(migrations)-1].Version
	_, err = migrator.Migrate(t.Context(), rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{
		TargetVersion: latestVersion,
	})
	require.NoError(t, err)
}

func TestPgSQL_AddJob_WithinTransaction_UsesTxPath(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()
	migrateRiver(t, pg)

	ctx := context.Background()

	// Start a transaction to force the *sql.Tx code path in AddJob.
	txStorage, err := pg.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = txStorage.Rollback() }()

	added, err := txStorage.AddJob(ctx, cleanupArgs{Path: "images/a.png"}, nil)
	require.NoError(t, err)
	require.True(t, added)
	rivertest.RequireInsertedTx[*riverdatabasesql.Driver](
		ctx,
		t,
		txStorage.(*postgres.PgSQL).DB.(*sql.Tx),
		&cleanupArgs{},
		nil,
	)
}

func TestPgSQL_AddJob_OutsideTransaction_UsesDBPath(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()
	migrateRiver(t, pg)

	ctx := context.Background()

	added, err := pg.AddJob(ctx, cleanupArgs{Path: "images/b.png"}, nil)
	require.NoError(t, err)
	require.True(t, added)
	rivertest.RequireInserted[*riverdatabasesql.Driver](
		ctx,
		t,
		riverdatabasesql.New(pg.DB.(*sql.DB)),
		&cleanupArgs{},
		nil,
	)
}

func TestPgSQL_AddJob_UniqueDuplicateSkipped(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()
	migrateRiver(t, pg)

	ctx := context.Background()

	added, err := pg.AddJob(ctx, cleanupArgs{Path: "images/c.png"}, nil)
	require.NoError(t, err)
	require.True(t, added)

	added, err = pg.AddJob(ctx, cleanupArgs{Path: "images/c.png"}, nil)
	require.NoError(t, err)
	require.False(t, added)

	added, err = pg.AddJob(ctx, cleanupArgs{Path: "images/d.png"}, nil)
	require.NoError(t, err)
	require.True(t, added)
}

func TestPgSQL_AddJob_RolledBackJobIsDropped(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()
	migrateRiver(t, pg)

	ctx := context.Background()

	txStorage, err := pg.Begin(ctx)
	require.NoError(t, err)
	_, err = txStorage.AddJob(ctx, cleanupArgs{Path: "images/e.png"}, nil)
	require.NoError(t, err)
	require.NoError(t, txStorage.Rollback())

	var count int
	require.NoError(t, pg.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM river_job WHERE kind = $1`, cleanupArgs{}.Kind()).Scan(&count))
	require.Zero(t, count)
}

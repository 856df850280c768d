package postgres_test

import (
	"context"
	"testing"
	"yourplaces/pkg/domain"
	"yourplaces/pkg/storage"
	"yourplaces/pkg/storage/postgres"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func storeTestUser(t *testing.T, pg *postgres.PgSQL) domain.User {
	t.Helper()

	users, err := pg.StoreUsers(context.Background(), domain.User{Name: "owner-" + uuid.NewString()})
	require.NoError(t, err)
	require.Len(t, users, 1)

	return users[0]
}

func testPlace(creator domain.UserID, title string) domain.Place {
	return domain.Place{
		Creator:     creator,
		Title:       title,
		Description: "Corner cafe",
		Address:     "1 Main St",
		Location:    domain.Location{Lat: 40.0, Lng: -74.0},
		Image:       "images/" + uuid.NewString() + ".png",
	}
}

func TestPgSQL_StorePlace_And_PlaceByID(t *testing.T) {
	t.Parallel()

	pgSQL, cleanup := setupTestDB(t)
	t.Cleanup(cleanup)
	ctx := context.Background()

	owner := storeTestUser(t, pgSQL)

	stored, err := pgSQL.StorePlace(ctx, testPlace(owner.ID, "Cafe"))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, uuid.UUID(stored.ID))
	require.False(t, stored.CreatedAt.IsZero())
	require.True(t, stored.UpdatedAt.IsZero())

	got, err := pgSQL.PlaceByID(ctx, stored.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "Cafe", got.Title)
	require.Equal(t, owner.ID, got.Creator)
	require.InDelta(t, 40.0, got.Location.Lat, 1e-9)
	require.InDelta(t, -74.0, got.Location.Lng, 1e-9)

	missing, err := pgSQL.PlaceByID(ctx, domain.PlaceID(uuid.New()))
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestPgSQL_StorePlace_UnknownCreator(t *testing.T) {
	t.Parallel()

	pgSQL, cleanup := setupTestDB(t)
	t.Cleanup(cleanup)

	// creator_id references users(id)
	_, err := pgSQL.StorePlace(context.Background(), testPlace(domain.UserID(uuid.New()), "Ghost"))
	require.Error(t, err)
}

func TestPgSQL_PlacesByCreator(t *testing.T) {
	t.Parallel()

	pgSQL, cleanup := setupTestDB(t)
	t.Cleanup(cleanup)
	ctx := context.Background()

	owner := storeTestUser(t, pgSQL)
	other := storeTestUser(t, pgSQL)

	// empty is a valid result
	places, err := pgSQL.PlacesByCreator(ctx, owner.ID)
	require.NoError(t, err)
	require.Empty(t, places)

	first, err := pgSQL.StorePlace(ctx, testPlace(owner.ID, "First"))
	require.NoError(t, err)
	second, err := pgSQL.StorePlace(ctx, testPlace(owner.ID, "Second"))
	require.NoError(t, err)
	_, err = pgSQL.StorePlace(ctx, testPlace(other.ID, "Not mine"))
	require.NoError(t, err)

	places, err = pgSQL.PlacesByCreator(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, places, 2)
	require.Equal(t, first.ID, places[0].ID)
	require.Equal(t, second.ID, places[1].ID)
}

func TestPgSQL_UpdatePlace(t *testing.T) {
	t.Parallel()

	pgSQL, cleanup := setupTestDB(t)
	t.Cleanup(cleanup)
	ctx := context.Background()

	owner := storeTestUser(t, pgSQL)
	stored, err := pgSQL.StorePlace(ctx, testPlace(owner.ID, "Cafe"))
	require.NoError(t, err)

	updated, err := pgSQL.UpdatePlace(ctx, stored.ID, storage.PlaceUpdates{Title: "Bistro", Description: "Now with wine"})
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.Equal(t, "Bistro", updated.Title)
	require.Equal(t, "Now with wine", updated.Description)
	require.False(t, updated.UpdatedAt.IsZero())
	// immutable fields untouched
	require.Equal(t, stored.Image, updated.Image)
	require.Equal(t, stored.Location, updated.Location)
	require.Equal(t, stored.Creator, updated.Creator)

	missing, err := pgSQL.UpdatePlace(ctx, domain.PlaceID(uuid.New()), storage.PlaceUpdates{Title: "x", Description: "y"})
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestPgSQL_DeletePlace_And_PlaceImageExists(t *testing.T) {
	t.Parallel()

	pgSQL, cleanup := setupTestDB(t)
	t.Cleanup(cleanup)
	ctx := context.Background()

	owner := storeTestUser(t, pgSQL)
	stored, err := pgSQL.StorePlace(ctx, testPlace(owner.ID, "Cafe"))
	require.NoError(t, err)

	exists, err := pgSQL.PlaceImageExists(ctx, stored.Image)
	require.NoError(t, err)
	require.True(t, exists)

	deleted, err := pgSQL.DeletePlace(ctx, stored.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	require.Equal(t, stored.ID, deleted.ID)

	got, err := pgSQL.PlaceByID(ctx, stored.ID)
	require.NoError(t, err)
	require.Nil(t, got)

	exists, err = pgSQL.PlaceImageExists(ctx, stored.Image)
	require.NoError(t, err)
	require.False(t, exists)

	// deleting again is not an error
	again, err := pgSQL.DeletePlace(ctx, stored.ID)
	require.NoError(t, err)
	require.Nil(t, again)
}

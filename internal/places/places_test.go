package places_test

import (
	"context"
	"errors"
	"testing"
	"time"
	"yourplaces/internal/places"
	mockassets "yourplaces/pkg/assets/mock"
	"yourplaces/pkg/domain"
	mockgeocoder "yourplaces/pkg/geocoder/mock"
	"yourplaces/pkg/serrors"
	"yourplaces/pkg/storage"
	mockstorage "yourplaces/pkg/storage/mock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const image = "images/cafe.png"

var (
	ownerID    = domain.UserID(uuid.MustParse("6f1c0b8e-4a3e-4d6f-9d1e-1f2a3b4c5d6e"))
	strangerID = domain.UserID(uuid.MustParse("0a9b8c7d-6e5f-4a3b-8c2d-1e0f9a8b7c6d"))
	placeID    = domain.PlaceID(uuid.MustParse("5e4d3c2b-1a09-4f8e-8d7c-6b5a49382716"))
	location   = domain.Location{Lat: 40.7484405, Lng: -73.9878584}
)

type testDeps struct {
	ctrl     *gomock.Controller
	storage  *mockstorage.MockStorage
	geocoder *mockgeocoder.MockGeocoder
	assets   *mockassets.MockStore
	manager  places.Manager
}

func newTestManager(t *testing.T, opts ...func(*places.Options)) testDeps {
	t.Helper()

	ctrl := gomock.NewController(t)
	d := testDeps{
		ctrl:     ctrl,
		storage:  mockstorage.NewMockStorage(ctrl),
		geocoder: mockgeocoder.NewMockGeocoder(ctrl),
		assets:   mockassets.NewMockStore(ctrl),
	}

	options := places.Options{
		MaxTxAttempts:           3,
		TxTimeout:               time.Second,
		RetryInitialInterval:    time.Millisecond,
		RetryMaxInterval:        2 * time.Millisecond,
		AssetCleanupMaxAttempts: 4,
	}
	for _, opt := range opts {
		opt(&options)
	}

	m, err := places.New(places.Deps{
		Storage:  d.storage,
		Geocoder: d.geocoder,
		Assets:   d.assets,
	}, options)
	require.NoError(t, err)
	d.manager = m

	return d
}

// helper to wire Storage.WithTx to execute callback with a MockAllStorage.
func expectWithTx(
	t *testing.T,
	ctrl *gomock.Controller,
	m *mockstorage.MockStorage,
	fn func(tx *mockstorage.MockAllStorage)) *gomock.Call {
	t.Helper()

	return m.EXPECT().WithTx(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cb func(storage.AllStorage) error) error {
			tx := mockstorage.NewMockAllStorage(ctrl)
			if fn != nil {
				fn(tx)
			}

			return cb(tx)
		},
	)
}

func cleanupJobFor(path string) gomock.Matcher {
	return gomock.Cond(func(args places.AssetCleanupArgs) bool {
		return args.Path == path && args.InsertOpts().MaxAttempts == 4
	})
}

func expectImageUnused(d testDeps) *gomock.Call {
	return d.storage.EXPECT().PlaceImageExists(gomock.Any(), image).Return(false, nil)
}

func newPlaceInput() places.NewPlace {
	return places.NewPlace{
		Title:       "  Empire State Building ",
		Description: "One of the most famous sky scrapers in the world",
		Address:     "20 W 34th St, New York, NY 10001",
		Image:       image,
		OwnerID:     ownerID,
	}
}

func existingPlace() *domain.Place {
	return &domain.Place{
		ID:       placeID,
		Creator:  ownerID,
		Title:    "Cafe",
		Address:  "1 Main St",
		Location: location,
		Image:    image,
	}
}

func TestManager_ByID(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		d := newTestManager(t)
		d.storage.EXPECT().PlaceByID(gomock.Any(), placeID).Return(existingPlace(), nil)

		got, err := d.manager.ByID(context.Background(), placeID)
		require.NoError(t, err)
		require.Equal(t, placeID, got.ID)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		d := newTestManager(t)
		d.storage.EXPECT().PlaceByID(gomock.Any(), placeID).Return(nil, nil)

		_, err := d.manager.ByID(context.Background(), placeID)
		require.ErrorIs(t, err, serrors.ErrNotFound)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		d := newTestManager(t)
		d.storage.EXPECT().PlaceByID(gomock.Any(), placeID).Return(nil, errors.New("connection reset"))

		_, err := d.manager.ByID(context.Background(), placeID)
		require.ErrorIs(t, err, serrors.ErrStorage)
	})
}

func TestManager_ListByOwner(t *testing.T) {
	t.Parallel()

	t.Run("empty is not an error", func(t *testing.T) {
		t.Parallel()
		d := newTestManager(t)
		d.storage.EXPECT().PlacesByCreator(gomock.Any(), ownerID).Return(nil, nil)

		got, err := d.manager.ListByOwner(context.Background(), ownerID)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Empty(t, got)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		d := newTestManager(t)
		d.storage.EXPECT().PlacesByCreator(gomock.Any(), ownerID).Return(nil, errors.New("boom"))

		_, err := d.manager.ListByOwner(context.Background(), ownerID)
		require.ErrorIs(t, err, serrors.ErrStorage)
	})
}

func TestManager_Create_Success(t *testing.T) {
	t.Parallel()

	d := newTestManager(t)
	ctx := context.Background()
	owner := &domain.User{ID: ownerID, Places: []domain.PlaceID{}, Version: 3}

	gomock.InOrder(
		d.geocoder.EXPECT().Resolve(gomock.Any(), "20 W 34th St, New York, NY 10001").Return(location, nil),
		d.storage.EXPECT().UserByID(gomock.Any(), ownerID).Return(owner, nil),
		expectWithTx(t, d.ctrl, d.storage, func(tx *mockstorage.MockAllStorage) {
			fresh := *owner
			gomock.InOrder(
				tx.EXPECT().UserByID(gomock.Any(), ownerID).Return(&fresh, nil),
				tx.EXPECT().StorePlace(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, p domain.Place) (*domain.Place, error) {
						require.Equal(t, "Empire State Building", p.Title)
						require.Equal(t, location, p.Location)
						require.Equal(t, image, p.Image)
						require.Equal(t, ownerID, p.Creator)
						p.ID = placeID

						return &p, nil
					}),
				tx.EXPECT().SaveUser(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, u domain.User) (*domain.User, error) {
						require.Equal(t, []domain.PlaceID{placeID}, u.Places)
						require.EqualValues(t, 3, u.Version)
						u.Version++

						return &u, nil
					}),
			)
		}),
	)
	// no asset calls: a successful create never touches the image

	got, err := d.manager.Create(ctx, newPlaceInput())
	require.NoError(t, err)
	require.Equal(t, placeID, got.ID)
}

func TestManager_Create_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*places.NewPlace)
	}{
		{name: "blank title", mutate: func(in *places.NewPlace) { in.Title = "   " }},
		{name: "empty description", mutate: func(in *places.NewPlace) { in.Description = "" }},
		{name: "empty address", mutate: func(in *places.NewPlace) { in.Address = "\t" }},
		{name: "missing owner", mutate: func(in *places.NewPlace) { in.OwnerID = domain.UserID{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := newTestManager(t)

			// the geocoder is not consulted; the unreferenced staged image is dropped
			expectImageUnused(d)
			d.assets.EXPECT().Delete(gomock.Any(), image).Return(nil)

			in := newPlaceInput()
			tt.mutate(&in)
			_, err := d.manager.Create(context.Background(), in)
			require.ErrorIs(t, err, serrors.ErrBadRequest)
		})
	}
}

func TestManager_Create_GeocoderFailure(t *testing.T) {
	t.Parallel()

	d := newTestManager(t)
	gomock.InOrder(
		d.geocoder.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(domain.Location{}, errors.New("quota exceeded")),
		expectImageUnused(d),
		d.assets.EXPECT().Delete(gomock.Any(), image).Return(nil),
	)

	_, err := d.manager.Create(context.Background(), newPlaceInput())
	require.ErrorIs(t, err, serrors.ErrGeocoding)
}

func TestManager_Create_OwnerMissing(t *testing.T) {
	t.Parallel()

	d := newTestManager(t)
	d.geocoder.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(location, nil)
	d.storage.EXPECT().UserByID(gomock.Any(), ownerID).Return(nil, nil)
	expectImageUnused(d)
	d.assets.EXPECT().Delete(gomock.Any(), image).Return(nil)

	_, err := d.manager.Create(context.Background(), newPlaceInput())
	require.ErrorIs(t, err, serrors.ErrNotFound)
}

func TestManager_Create_OwnerReadFailure(t *testing.T) {
	t.Parallel()

	d := newTestManager(t)
	d.geocoder.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(location, nil)
	d.storage.EXPECT().UserByID(gomock.Any(), ownerID).Return(nil, errors.New("timeout"))
	expectImageUnused(d)
	d.assets.EXPECT().Delete(gomock.Any(), image).Return(nil)

	_, err := d.manager.Create(context.Background(), newPlaceInput())
	require.ErrorIs(t, err, serrors.ErrStorage)
}

func TestManager_Create_RetriesWriteConflict(t *testing.T) {
	t.Parallel()

	d := newTestManager(t)
	owner := &domain.User{ID: ownerID, Places: []domain.PlaceID{}}
	d.geocoder.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(location, nil)
	d.storage.EXPECT().UserByID(gomock.Any(), ownerID).Return(owner, nil)

	attempt := func(conflict bool) func(tx *mockstorage.MockAllStorage) {
		return func(tx *mockstorage.MockAllStorage) {
			fresh := *owner
			tx.EXPECT().UserByID(gomock.Any(), ownerID).Return(&fresh, nil)
			tx.EXPECT().StorePlace(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, p domain.Place) (*domain.Place, error) {
					p.ID = placeID

					return &p, nil
				})
			if conflict {
				tx.EXPECT().SaveUser(gomock.Any(), gomock.Any()).Return(nil, storage.ErrWriteConflict)

				return
			}
			tx.EXPECT().SaveUser(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, u domain.User) (*domain.User, error) {
					return &u, nil
				})
		}
	}
	gomock.InOrder(
		expectWithTx(t, d.ctrl, d.storage, attempt(true)),
		expectWithTx(t, d.ctrl, d.storage, attempt(false)),
	)

	got, err := d.manager.Create(context.Background(), newPlaceInput())
	require.NoError(t, err)
	require.Equal(t, placeID, got.ID)
}

func TestManager_Create_ConflictsExhausted(t *testing.T) {
	t.Parallel()

	d := newTestManager(t)
	d.geocoder.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(location, nil)
	d.storage.EXPECT().UserByID(gomock.Any(), ownerID).Return(&domain.User{ID: ownerID}, nil)
	d.storage.EXPECT().WithTx(gomock.Any(), gomock.Any()).Return(storage.ErrWriteConflict).Times(3)
	expectImageUnused(d)
	d.assets.EXPECT().Delete(gomock.Any(), image).Return(nil)

	_, err := d.manager.Create(context.Background(), newPlaceInput())
	require.ErrorIs(t, err, serrors.ErrTransaction)
}

func TestManager_Create_TransactionFailure(t *testing.T) {
	t.Parallel()

	d := newTestManager(t)
	d.geocoder.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(location, nil)
	d.storage.EXPECT().UserByID(gomock.Any(), ownerID).Return(&domain.User{ID: ownerID}, nil)
	gomock.InOrder(
		// a non-conflict failure is not retried
		expectWithTx(t, d.ctrl, d.storage, func(tx *mockstorage.MockAllStorage) {
			tx.EXPECT().UserByID(gomock.Any(), ownerID).Return(&domain.User{ID: ownerID}, nil)
			tx.EXPECT().StorePlace(gomock.Any(), gomock.Any()).Return(nil, errors.New("disk full"))
		}),
		expectImageUnused(d),
		d.assets.EXPECT().Delete(gomock.Any(), image).Return(errors.New("permission denied")),
		d.storage.EXPECT().AddJob(gomock.Any(), cleanupJobFor(image), gomock.Nil()).Return(true, nil),
	)

	_, err := d.manager.Create(context.Background(), newPlaceInput())
	require.ErrorIs(t, err, serrors.ErrTransaction)
}

func TestManager_Create_KeepsReferencedImage(t *testing.T) {
	t.Parallel()

	d := newTestManager(t)
	// no Delete expectation: another place already owns the image
	d.storage.EXPECT().PlaceImageExists(gomock.Any(), image).Return(true, nil)

	in := newPlaceInput()
	in.Title = ""
	_, err := d.manager.Create(context.Background(), in)
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}

func TestManager_Create_ReferenceCheckFailureSchedulesCleanup(t *testing.T) {
	t.Parallel()

	d := newTestManager(t)
	gomock.InOrder(
		d.geocoder.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(domain.Location{}, errors.New("quota exceeded")),
		d.storage.EXPECT().PlaceImageExists(gomock.Any(), image).Return(false, errors.New("connection refused")),
		d.storage.EXPECT().AddJob(gomock.Any(), cleanupJobFor(image), gomock.Nil()).Return(true, nil),
	)

	_, err := d.manager.Create(context.Background(), newPlaceInput())
	require.ErrorIs(t, err, serrors.ErrGeocoding)
}

// blockingTx stands in for a transaction that never finishes on its own.
func blockingTx(ctx context.Context, _ func(storage.AllStorage) error) error {
	<-ctx.Done()

	return ctx.Err()
}

func withShortTxTimeout(o *places.Options) {
	o.TxTimeout = 20 * time.Millisecond
}

func TestManager_Create_TxTimeout(t *testing.T) {
	t.Parallel()

	d := newTestManager(t, withShortTxTimeout)
	d.geocoder.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(location, nil)
	d.storage.EXPECT().UserByID(gomock.Any(), ownerID).Return(&domain.User{ID: ownerID}, nil)
	gomock.InOrder(
		// a timed out attempt is not retried and never reaches StorePlace
		d.storage.EXPECT().WithTx(gomock.Any(), gomock.Any()).DoAndReturn(blockingTx),
		expectImageUnused(d),
		d.assets.EXPECT().Delete(gomock.Any(), image).Return(nil),
	)

	start := time.Now()
	_, err := d.manager.Create(context.Background(), newPlaceInput())
	require.ErrorIs(t, err, serrors.ErrTransaction)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), time.Second)
}

func TestManager_UpdateByID(t *testing.T) {
	t.Parallel()

	changes := places.PlaceChanges{Title: " Bistro ", Description: "Now with wine"}

	t.Run("owner updates", func(t *testing.T) {
		t.Parallel()
		d := newTestManager(t)
		d.storage.EXPECT().PlaceByID(gomock.Any(), placeID).Return(existingPlace(), nil)
		d.storage.EXPECT().UpdatePlace(gomock.Any(), placeID, storage.PlaceUpdates{
			Title:       "Bistro",
			Description: "Now with wine",
		}).DoAndReturn(func(_ context.Context, _ domain.PlaceID, u storage.PlaceUpdates) (*domain.Place, error) {
			p := existingPlace()
			p.Title, p.Description = u.Title, u.Description

			return p, nil
		})

		got, err := d.manager.UpdateByID(context.Background(), ownerID, placeID, changes)
		require.NoError(t, err)
		require.Equal(t, "Bistro", got.Title)
		require.Equal(t, image, got.Image)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		t.Parallel()
		d := newTestManager(t)
		d.storage.EXPECT().PlaceByID(gomock.Any(), placeID).Return(existingPlace(), nil)

		got, err := d.manager.UpdateByID(context.Background(), strangerID, placeID, changes)
		require.ErrorIs(t, err, serrors.ErrForbidden)
		require.Nil(t, got)
	})

	t.Run("missing place", func(t *testing.T) {
		t.Parallel()
		d := newTestManager(t)
		d.storage.EXPECT().PlaceByID(gomock.Any(), placeID).Return(nil, nil)

		_, err := d.manager.UpdateByID(context.Background(), ownerID, placeID, changes)
		require.ErrorIs(t, err, serrors.ErrNotFound)
	})

	t.Run("invalid input", func(t *testing.T) {
		t.Parallel()
		d := newTestManager(t)

		_, err := d.manager.UpdateByID(context.Background(), ownerID, placeID, places.PlaceChanges{Title: "x"})
		require.ErrorIs(t, err, serrors.ErrBadRequest)
	})

	t.Run("write failure", func(t *testing.T) {
		t.Parallel()
		d := newTestManager(t)
		d.storage.EXPECT().PlaceByID(gomock.Any(), placeID).Return(existingPlace(), nil)
		d.storage.EXPECT().UpdatePlace(gomock.Any(), placeID, gomock.Any()).Return(nil, errors.New("boom"))

		_, err := d.manager.UpdateByID(context.Background(), ownerID, placeID, changes)
		require.ErrorIs(t, err, serrors.ErrStorage)
	})
}

func expectDeleteTx(t *testing.T, d testDeps, saveErr error) *gomock.Call {
	t.Helper()

	return expectWithTx(t, d.ctrl, d.storage, func(tx *mockstorage.MockAllStorage) {
		gomock.InOrder(
			tx.EXPECT().DeletePlace(gomock.Any(), placeID).Return(existingPlace(), nil),
			tx.EXPECT().UserByID(gomock.Any(), ownerID).Return(&domain.User{
				ID:     ownerID,
				Places: []domain.PlaceID{placeID},
			}, nil),
			tx.EXPECT().SaveUser(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, u domain.User) (*domain.User, error) {
					require.Empty(t, u.Places)
					if saveErr != nil {
						return nil, saveErr
					}

					return &u, nil
				}),
		)
	})
}

func TestManager_DeleteByID_DeletesImageAfterCommit(t *testing.T) {
	t.Parallel()

	d := newTestManager(t)
	gomock.InOrder(
		d.storage.EXPECT().PlaceByID(gomock.Any(), placeID).Return(existingPlace(), nil),
		expectDeleteTx(t, d, nil),
		d.assets.EXPECT().Delete(gomock.Any(), image).Return(nil),
	)

	require.NoError(t, d.manager.DeleteByID(context.Background(), ownerID, placeID))
}

func TestManager_DeleteByID_TransactionFailureKeepsImage(t *testing.T) {
	t.Parallel()

	d := newTestManager(t)
	d.storage.EXPECT().PlaceByID(gomock.Any(), placeID).Return(existingPlace(), nil)
	expectDeleteTx(t, d, errors.New("connection lost"))
	// no assets expectation: the image must stay

	err := d.manager.DeleteByID(context.Background(), ownerID, placeID)
	require.ErrorIs(t, err, serrors.ErrTransaction)
}

func TestManager_DeleteByID_ImageFailureIsScheduled(t *testing.T) {
	t.Parallel()

	d := newTestManager(t)
	gomock.InOrder(
		d.storage.EXPECT().PlaceByID(gomock.Any(), placeID).Return(existingPlace(), nil),
		expectDeleteTx(t, d, nil),
		d.assets.EXPECT().Delete(gomock.Any(), image).Return(errors.New("read-only file system")),
		d.storage.EXPECT().AddJob(gomock.Any(), cleanupJobFor(image), gomock.Nil()).Return(true, nil),
	)

	require.NoError(t, d.manager.DeleteByID(context.Background(), ownerID, placeID))
}

func TestManager_DeleteByID_TxTimeoutKeepsImage(t *testing.T) {
	t.Parallel()

	d := newTestManager(t, withShortTxTimeout)
	d.storage.EXPECT().PlaceByID(gomock.Any(), placeID).Return(existingPlace(), nil)
	d.storage.EXPECT().WithTx(gomock.Any(), gomock.Any()).DoAndReturn(blockingTx)
	// no assets expectation: the image must stay

	err := d.manager.DeleteByID(context.Background(), ownerID, placeID)
	require.ErrorIs(t, err, serrors.ErrTransaction)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestManager_DeleteByID_CancelledRequestStillSchedulesCleanup(t *testing.T) {
	t.Parallel()

	d := newTestManager(t)
	// the client is already gone when the image is removed
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobCtxLive := gomock.Cond(func(ctx context.Context) bool { return ctx.Err() == nil })
	gomock.InOrder(
		d.storage.EXPECT().PlaceByID(gomock.Any(), placeID).Return(existingPlace(), nil),
		expectDeleteTx(t, d, nil),
		d.assets.EXPECT().Delete(gomock.Any(), image).DoAndReturn(
			func(ctx context.Context, _ string) error { return ctx.Err() }),
		d.storage.EXPECT().AddJob(jobCtxLive, cleanupJobFor(image), gomock.Nil()).Return(true, nil),
	)

	require.NoError(t, d.manager.DeleteByID(ctx, ownerID, placeID))
}

func TestManager_DeleteByID_Forbidden(t *testing.T) {
	t.Parallel()

	d := newTestManager(t)
	d.storage.EXPECT().PlaceByID(gomock.Any(), placeID).Return(existingPlace(), nil)

	err := d.manager.DeleteByID(context.Background(), strangerID, placeID)
	require.ErrorIs(t, err, serrors.ErrForbidden)
}

func TestManager_DeleteByID_NotFound(t *testing.T) {
	t.Parallel()

	d := newTestManager(t)
	d.storage.EXPECT().PlaceByID(gomock.Any(), placeID).Return(nil, nil)

	err := d.manager.DeleteByID(context.Background(), ownerID, placeID)
	require.ErrorIs(t, err, serrors.ErrNotFound)
}

func TestManager_DeleteByID_VanishedDuringTx(t *testing.T) {
	t.Parallel()

	d := newTestManager(t)
	d.storage.EXPECT().PlaceByID(gomock.Any(), placeID).Return(existingPlace(), nil)
	expectWithTx(t, d.ctrl, d.storage, func(tx *mockstorage.MockAllStorage) {
		tx.EXPECT().DeletePlace(gomock.Any(), placeID).Return(nil, nil)
	})

	err := d.manager.DeleteByID(context.Background(), ownerID, placeID)
	require.ErrorIs(t, err, serrors.ErrNotFound)
}

func TestManager_CleanupAsset(t *testing.T) {
	t.Parallel()

	t.Run("referenced image is kept", func(t *testing.T) {
		t.Parallel()
		d := newTestManager(t)
		d.storage.EXPECT().PlaceImageExists(gomock.Any(), image).Return(true, nil)

		require.NoError(t, d.manager.CleanupAsset(context.Background(), image))
	})

	t.Run("orphan is deleted", func(t *testing.T) {
		t.Parallel()
		d := newTestManager(t)
		d.storage.EXPECT().PlaceImageExists(gomock.Any(), image).Return(false, nil)
		d.assets.EXPECT().Delete(gomock.Any(), image).Return(nil)

		require.NoError(t, d.manager.CleanupAsset(context.Background(), image))
	})

	t.Run("delete failure is returned for retry", func(t *testing.T) {
		t.Parallel()
		d := newTestManager(t)
		d.storage.EXPECT().PlaceImageExists(gomock.Any(), image).Return(false, nil)
		d.assets.EXPECT().Delete(gomock.Any(), image).Return(errors.New("busy"))

		require.Error(t, d.manager.CleanupAsset(context.Background(), image))
	})
}

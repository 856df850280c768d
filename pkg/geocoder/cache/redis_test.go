package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"
	"yourplaces/pkg/domain"
	"yourplaces/pkg/geocoder/cache"
	mockgeocoder "yourplaces/pkg/geocoder/mock"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})

	return srv, client
}

func TestRedis_Resolve_CachesSuccess(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	next := mockgeocoder.NewMockGeocoder(ctrl)
	srv, client := setupRedis(t)
	ctx := context.Background()

	want := domain.Location{Lat: 40.7484405, Lng: -73.9878584}
	next.EXPECT().Resolve(gomock.Any(), "20 W 34th St, New York").Return(want, nil).Times(1)

	geo := cache.New(next, client, time.Hour)

	got, err := geo.Resolve(ctx, "20 W 34th St, New York")
	require.NoError(t, err)
	require.Equal(t, want, got)

	// second lookup with different spacing and case is served from redis
	got, err = geo.Resolve(ctx, "  20 w 34th st,   NEW YORK ")
	require.NoError(t, err)
	require.Equal(t, want, got)

	require.True(t, srv.Exists(cache.Key("20 W 34th St, New York")))
	require.Equal(t, time.Hour, srv.TTL(cache.Key("20 W 34th St, New York")))
}

func TestRedis_Resolve_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	next := mockgeocoder.NewMockGeocoder(ctrl)
	srv, client := setupRedis(t)
	ctx := context.Background()
	failure := errors.New("upstream down")

	next.EXPECT().Resolve(gomock.Any(), "nowhere").Return(domain.Location{}, failure).Times(2)

	geo := cache.New(next, client, time.Hour)

	for range 2 {
		_, err := geo.Resolve(ctx, "nowhere")
		require.ErrorIs(t, err, failure)
	}
	require.False(t, srv.Exists(cache.Key("nowhere")))
}

func TestRedis_Resolve_RedisDownFallsThrough(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	next := mockgeocoder.NewMockGeocoder(ctrl)
	srv, client := setupRedis(t)
	srv.Close()

	want := domain.Location{Lat: 1, Lng: 2}
	next.EXPECT().Resolve(gomock.Any(), "somewhere").Return(want, nil)

	got, err := cache.New(next, client, time.Hour).Resolve(context.Background(), "somewhere")
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestRedis_Resolve_CorruptEntry(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	next := mockgeocoder.NewMockGeocoder(ctrl)
	srv, client := setupRedis(t)

	require.NoError(t, srv.Set(cache.Key("somewhere"), "not json"))

	want := domain.Location{Lat: 3, Lng: 4}
	next.EXPECT().Resolve(gomock.Any(), "somewhere").Return(want, nil)

	got, err := cache.New(next, client, time.Hour).Resolve(context.Background(), "somewhere")
	require.NoError(t, err)
	require.Equal(t, want, got)
}

package main

import (
	"context"
	"net/http"
	"yourplaces/internal/config"
	"yourplaces/internal/places"
	"yourplaces/pkg/assets"
	"yourplaces/pkg/assets/localfs"
	"yourplaces/pkg/assets/s3"
	"yourplaces/pkg/geocoder"
	"yourplaces/pkg/geocoder/cache"
	"yourplaces/pkg/geocoder/google"
	"yourplaces/pkg/logger"
	"yourplaces/pkg/storage"
	"yourplaces/pkg/storage/postgres"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// getPostgres opens the database. The returned func closes the pool.
func getPostgres(ctx context.Context, cfg *config.Config) (*postgres.PgSQL, func()) {
	db := cfg.Database
	pgsql, err := postgres.New(ctx, postgres.Options{
		Username:           db.Username,
		Password:           db.Password,
		Host:               db.Host,
		Port:               db.Port,
		Database:           db.DatabaseName,
		SslMode:            db.SslMode,
		MaxOpenConnections: db.MaxOpenConnections,
		MaxIdleConnections: db.MaxIdleConnections,
		ConnMaxLifetime:    db.ConnMaxLifetime,
		ConnMaxIdleTime:    db.ConnMaxIdleTime,
	})
	if err != nil {
		logger.Fatal(ctx, "could not connect to postgres", zap.Error(err))
	}

	return pgsql, func() {
		if err := pgsql.Close(); err != nil {
			logger.Warn(ctx, "could not close postgres pool", zap.Error(err))
		}
	}
}

// getAssets creates the asset store selected by cfg.Assets.Backend.
func getAssets(ctx context.Context, cfg *config.Config) assets.Store {
	switch cfg.Assets.Backend {
	case config.AssetsBackendLocal:
		store, err := localfs.New(cfg.Assets.Root)
		if err != nil {
			logger.Fatal(ctx, "could not create local asset store", zap.Error(err))
		}

		return store
	case config.AssetsBackendS3:
		store, err := s3.New(s3.Options{
			Endpoint:  cfg.Assets.S3.Endpoint,
			AccessKey: cfg.Assets.S3.AccessKey,
			SecretKey: cfg.Assets.S3.SecretKey,
			Bucket:    cfg.Assets.S3.Bucket,
			Secure:    cfg.Assets.S3.Secure,
		})
		if err != nil {
			logger.Fatal(ctx, "could not create s3 asset store", zap.Error(err))
		}

		return store
	default:
		logger.Fatal(ctx, "unknown asset backend", zap.String("backend", cfg.Assets.Backend))

		return nil
	}
}

// getGeocoder creates the geocoding client, optionally behind a redis cache,
// and returns it along with a cleanup function.
func getGeocoder(ctx context.Context, cfg *config.Config) (geocoder.Geocoder, func()) {
	var geo geocoder.Geocoder = google.New(
		&http.Client{Timeout: cfg.Geocoder.Timeout},
		cfg.Geocoder.BaseURL,
		cfg.Geocoder.APIKey,
	)
	if !cfg.Redis.Enabled {
		return geo, func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		// the cache falls through to the provider while redis is down
		logger.Warn(ctx, "could not reach redis, geocoding results will not be cached until it is back",
			zap.Error(err))
	}

	return cache.New(geo, client, cfg.Redis.GeocodeTTL), func() {
		logger.Info(ctx, "closing redis client...")
		if err := client.Close(); err != nil {
			logger.Warn(ctx, "could not close redis connection", zap.Error(err))
		}
	}
}

func getPlaces(ctx context.Context, cfg *config.Config, strg storage.Storage,
	geo geocoder.Geocoder, assetStore assets.Store) places.Manager {
	manager, err := places.New(places.Deps{
		Storage:  strg,
		Geocoder: geo,
		Assets:   assetStore,
	}, places.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create places manager", zap.Error(err))
	}

	return manager
}

package places

import (
	"time"
	"yourplaces/internal/config"
	"yourplaces/pkg/assets"
	"yourplaces/pkg/geocoder"
	"yourplaces/pkg/storage"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "yourplaces/internal/places"

// Options configure transaction retries and asset cleanup.
type Options struct {
	// MaxTxAttempts is the number of times a transaction is attempted when it
	// keeps failing with a write conflict. Values below one mean one attempt.
	MaxTxAttempts int
	// TxTimeout bounds each transaction attempt. Zero disables the bound.
	TxTimeout time.Duration
	// RetryInitialInterval and RetryMaxInterval shape the exponential backoff
	// between conflicting attempts.
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	// AssetCleanupMaxAttempts is the retry budget of enqueued image deletions.
	AssetCleanupMaxAttempts int

	// Meter and Tracer default to no-op implementations when nil.
	Meter  metric.Meter
	Tracer trace.Tracer
}

// NewOptions constructs Options from the application config. Telemetry goes
// through the global otel providers.
func NewOptions(cfg *config.Config) Options {
	return Options{
		MaxTxAttempts:           cfg.Places.MaxTxAttempts,
		TxTimeout:               cfg.Places.TxTimeout,
		RetryInitialInterval:    cfg.Places.RetryInitialInterval,
		RetryMaxInterval:        cfg.Places.RetryMaxInterval,
		AssetCleanupMaxAttempts: cfg.Places.AssetCleanupMaxAttempts,
		Meter:                   otel.Meter(instrumentationName),
		Tracer:                  otel.Tracer(instrumentationName),
	}
}

// Deps are the collaborators of the manager.
type Deps struct {
	Storage  storage.Storage
	Geocoder geocoder.Geocoder
	Assets   assets.Store
}

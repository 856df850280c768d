// Package worker runs the background jobs of the places service: deleting
// images whose removal failed after a commit and sweeping images that no
// place references.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"yourplaces/internal/config"
	"yourplaces/internal/places"
	"yourplaces/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"go.uber.org/zap/exp/zapslog"
)

const defaultMaxWorkers = 10

type Options struct {
	// MaxWorkers is the number of jobs worked concurrently.
	MaxWorkers int
	// SweepInterval is how often the orphaned image sweep is enqueued. Zero disables it.
	SweepInterval time.Duration
	// SweepGracePeriod is passed to every sweep so images of running creates survive.
	SweepGracePeriod time.Duration
}

func NewOptions(cfg *config.Config) Options {
	return Options{
		MaxWorkers:       cfg.Worker.MaxWorkers,
		SweepInterval:    cfg.Worker.SweepInterval,
		SweepGracePeriod: cfg.Worker.SweepGracePeriod,
	}
}

// NewWorkers registers the workers of all places jobs.
func NewWorkers(manager places.Manager) *river.Workers {
	workers := river.NewWorkers()
	river.AddWorker(workers, NewAssetCleanupWorker(manager))
	river.AddWorker(workers, NewAssetSweepWorker(manager))

	return workers
}

// PeriodicJobs returns the jobs scheduled by the client itself.
func PeriodicJobs(options Options) []*river.PeriodicJob {
	if options.SweepInterval <= 0 {
		return nil
	}

	return []*river.PeriodicJob{
		river.NewPeriodicJob(
			river.PeriodicInterval(options.SweepInterval),
			func() (river.JobArgs, *river.InsertOpts) {
				return places.AssetSweepArgs{GracePeriod: options.SweepGracePeriod}, nil
			},
			nil,
		),
	}
}

func Start(ctx context.Context,
	dbPool *pgxpool.Pool,
	manager places.Manager,
	options Options) (*river.Client[pgx.Tx], error) {
	maxWorkers := options.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = defaultMaxWorkers
	}

	riverClient, err := river.NewClient(riverpgxv5.New(dbPool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: maxWorkers},
		},
		Workers:      NewWorkers(manager),
		PeriodicJobs: PeriodicJobs(options),
		Logger:       slog.New(zapslog.NewHandler(logger.Get(ctx).Core())),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create river queue client: %w", err)
	}

	if err := riverClient.Start(ctx); err != nil {
		return nil, fmt.Errorf("could not start river queue client: %w", err)
	}

	return riverClient, nil
}

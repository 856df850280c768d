package worker

import (
	"context"
	"errors"
	"fmt"
	"time"
	"yourplaces/internal/places"
	"yourplaces/pkg/assets"
	"yourplaces/pkg/logger"

	"github.com/riverqueue/river"
	"go.uber.org/zap"
)

const sweepTimeout = 10 * time.Minute

// AssetCleanupWorker deletes an image whose removal failed right after a
// commit. The manager keeps the image if a place references it again, so a
// late retry can never break a live place.
type AssetCleanupWorker struct {
	river.WorkerDefaults[places.AssetCleanupArgs]

	manager places.Manager
}

func NewAssetCleanupWorker(manager places.Manager) *AssetCleanupWorker {
	return &AssetCleanupWorker{manager: manager}
}

func (w *AssetCleanupWorker) Work(ctx context.Context, job *river.Job[places.AssetCleanupArgs]) error {
	ctx = logger.WithFields(ctx,
		zap.Int64("jobID", job.ID),
		zap.Int("attempt", job.Attempt),
		zap.String("image", job.Args.Path))

	if err := w.manager.CleanupAsset(ctx, job.Args.Path); err != nil {
		// retrying a malformed path cannot succeed
		if errors.Is(err, assets.ErrInvalidPath) {
			logger.Error(ctx, "invalid image path, giving up", zap.Error(err))

			return river.JobCancel(err) //nolint: wrapcheck
		}

		logger.Warn(ctx, "error cleaning up image", zap.Error(err))

		return fmt.Errorf("could not clean up image: %w", err)
	}

	logger.Info(ctx, "image cleaned up")

	return nil
}

// AssetSweepWorker deletes images that no place references.
type AssetSweepWorker struct {
	river.WorkerDefaults[places.AssetSweepArgs]

	manager places.Manager
}

func NewAssetSweepWorker(manager places.Manager) *AssetSweepWorker {
	return &AssetSweepWorker{manager: manager}
}

func (w *AssetSweepWorker) Timeout(*river.Job[places.AssetSweepArgs]) time.Duration {
	return sweepTimeout
}

func (w *AssetSweepWorker) Work(ctx context.Context, job *river.Job[places.AssetSweepArgs]) error {
	ctx = logger.WithFields(ctx, zap.Int64("jobID", job.ID), zap.Duration("gracePeriod", job.Args.GracePeriod))

	removed, err := w.manager.SweepOrphanedAssets(ctx, job.Args.GracePeriod)
	if err != nil {
		logger.Error(ctx, "error sweeping orphaned images", zap.Int("removed", removed), zap.Error(err))

		return fmt.Errorf("could not sweep orphaned images: %w", err)
	}

	return nil
}

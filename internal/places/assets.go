package places

import (
	"context"
	"fmt"
	"time"
	"yourplaces/pkg/assets"
	"yourplaces/pkg/logger"
	"yourplaces/pkg/serrors"

	"go.uber.org/zap"
)

// removeAsset deletes an image that is no longer referenced. A failure never
// fails the caller; the deletion is handed to the cleanup worker instead.
func (m *manager) removeAsset(ctx context.Context, image string) {
	if image == "" {
		return
	}

	err := m.assets.Delete(ctx, image)
	if err == nil {
		return
	}

	m.instruments.cleanupFailures.Add(ctx, 1)
	logger.Warn(ctx, "could not delete image, scheduling cleanup", zap.String("image", image), zap.Error(err))

	// the request may already be gone, the job must still be recorded
	bg := context.WithoutCancel(ctx)
	if _, err := m.storage.AddJob(bg, AssetCleanupArgs{
		Path:        image,
		maxAttempts: m.options.AssetCleanupMaxAttempts,
	}, nil); err != nil {
		logger.Error(ctx, "could not schedule image cleanup, image is orphaned until the next sweep",
			zap.String("image", image), zap.Error(err))
	}
}

// discardStagedImage drops the image of a failed Create. It runs detached
// from the caller's cancellation because the failure may be a timeout.
// An image already referenced by a stored place is kept.
func (m *manager) discardStagedImage(ctx context.Context, image string) {
	if image == "" {
		return
	}
	ctx = context.WithoutCancel(ctx)

	used, err := m.storage.PlaceImageExists(ctx, image)
	if err != nil {
		// the cleanup job checks references again before deleting
		logger.Warn(ctx, "could not check image references, scheduling cleanup",
			zap.String("image", image), zap.Error(err))
		if _, err := m.storage.AddJob(ctx, AssetCleanupArgs{
			Path:        image,
			maxAttempts: m.options.AssetCleanupMaxAttempts,
		}, nil); err != nil {
			logger.Error(ctx, "could not schedule image cleanup, image is orphaned until the next sweep",
				zap.String("image", image), zap.Error(err))
		}

		return
	}
	if used {
		logger.Warn(ctx, "staged image is referenced by a place, keeping it", zap.String("image", image))

		return
	}

	m.removeAsset(ctx, image)
}

func (m *manager) CleanupAsset(ctx context.Context, image string) (err error) {
	ctx, done := m.observe(ctx, opCleanup)
	defer func() { done(err) }()

	used, err := m.storage.PlaceImageExists(ctx, image)
	if err != nil {
		return serrors.Wrap(serrors.ErrStorage, err, "could not check image references")
	}
	if used {
		logger.Info(ctx, "image is referenced by a place, keeping it", zap.String("image", image))

		return nil
	}

	if err := m.assets.Delete(ctx, image); err != nil {
		return fmt.Errorf("could not delete image %s: %w", image, err)
	}

	return nil
}

func (m *manager) SweepOrphanedAssets(ctx context.Context, olderThan time.Duration) (removed int, err error) {
	ctx, done := m.observe(ctx, opSweep)
	defer func() { done(err) }()

	cutoff := time.Now().Add(-olderThan)
	err = m.assets.Walk(ctx, func(asset assets.Asset) error {
		// younger images may belong to a create that has not committed yet
		if asset.ModTime.After(cutoff) {
			return nil
		}

		used, err := m.storage.PlaceImageExists(ctx, asset.Path)
		if err != nil {
			return fmt.Errorf("could not check references of %s: %w", asset.Path, err)
		}
		if used {
			return nil
		}

		if err := m.assets.Delete(ctx, asset.Path); err != nil {
			logger.Warn(ctx, "could not delete orphaned image", zap.String("image", asset.Path), zap.Error(err))

			return nil
		}
		removed++

		return nil
	})
	if err != nil {
		return removed, serrors.Wrap(serrors.ErrStorage, err, "could not sweep orphaned images")
	}

	logger.Info(ctx, "orphaned images swept", zap.Int("removed", removed))

	return removed, nil
}

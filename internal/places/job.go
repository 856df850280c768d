package places

import (
	"time"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
)

// AssetCleanupArgs is the job enqueued when an image could not be deleted
// right away. The path is unique among unfinished jobs so repeated failures
// for the same image collapse into one job.
type AssetCleanupArgs struct {
	Path string `json:"path" river:"unique"`

	maxAttempts int
}

func (args AssetCleanupArgs) Kind() string { return "AssetCleanupJob" }

func (args AssetCleanupArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		MaxAttempts: args.maxAttempts,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
			ByState: []rivertype.JobState{
				rivertype.JobStateAvailable,
				rivertype.JobStatePending,
				rivertype.JobStateRunning,
				rivertype.JobStateRetryable,
				rivertype.JobStateScheduled,
			},
		},
	}
}

// AssetSweepArgs triggers SweepOrphanedAssets. It is scheduled periodically
// by the worker.
type AssetSweepArgs struct {
	GracePeriod time.Duration `json:"gracePeriod"`
}

func (args AssetSweepArgs) Kind() string { return "AssetSweepJob" }

func (args AssetSweepArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		MaxAttempts: 1,
	}
}

package storage

import (
	"context"

	"github.com/riverqueue/river"
)

// JobStorage enqueues background jobs into the queue backend that lives next
// to the records. When called on a transactional handle the job becomes visible
// only if the transaction commits, which lets record changes and follow-up work
// (such as removing an image) be recorded together.
//
//	added, err := tx.AddJob(ctx, places.AssetCleanupArgs{Path: "images/a.png"}, nil)
//
// The boolean result is false when the backend skipped the insert because an
// equivalent unique job already exists.
type JobStorage interface {
	// AddJob enqueues a new job with the given arguments and insert options.
	AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error)
}

package places

import (
	"context"
	"fmt"
	"strings"
	"time"
	"yourplaces/pkg/metrics"
	"yourplaces/pkg/serrors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

const (
	opByID        = "ByID"
	opListByOwner = "ListByOwner"
	opCreate      = "Create"
	opUpdateByID  = "UpdateByID"
	opDeleteByID  = "DeleteByID"
	opCleanup     = "CleanupAsset"
	opSweep       = "SweepOrphanedAssets"
)

type instruments struct {
	operations      metric.Int64Counter
	duration        metric.Float64Histogram
	conflicts       metric.Int64Counter
	cleanupFailures metric.Int64Counter
}

func newInstruments(meter metric.Meter) (*instruments, error) {
	operations, err := meter.Int64Counter("places.operations",
		metric.WithDescription("Number of place operations by outcome."))
	if err != nil {
		return nil, fmt.Errorf("could not create operations counter: %w", err)
	}
	duration, err := meter.Float64Histogram("places.operation.duration",
		metric.WithDescription("Duration of place operations."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(metrics.DefaultBuckets...))
	if err != nil {
		return nil, fmt.Errorf("could not create duration histogram: %w", err)
	}
	conflicts, err := meter.Int64Counter("places.tx.conflicts",
		metric.WithDescription("Transaction attempts that failed with a write conflict."))
	if err != nil {
		return nil, fmt.Errorf("could not create conflicts counter: %w", err)
	}
	cleanupFailures, err := meter.Int64Counter("places.asset.cleanup.failures",
		metric.WithDescription("Image deletions that failed and were handed to the cleanup worker."))
	if err != nil {
		return nil, fmt.Errorf("could not create cleanup failures counter: %w", err)
	}

	return &instruments{
		operations:      operations,
		duration:        duration,
		conflicts:       conflicts,
		cleanupFailures: cleanupFailures,
	}, nil
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if kind := serrors.KindOf(err); kind != nil {
		return strings.ToLower(kind.Error())
	}

	return "error"
}

// observe starts a span for op and returns the function that ends it and
// records the operation metrics.
func (m *manager) observe(ctx context.Context, op string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := m.tracer.Start(ctx, "places."+op)

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome(err))
		}
		span.End()

		attrs := metric.WithAttributes(
			attribute.String("operation", op),
			attribute.String("outcome", outcome(err)),
		)
		m.instruments.operations.Add(ctx, 1, attrs)
		m.instruments.duration.Record(ctx, time.Since(start).Seconds(), attrs)
	}
}

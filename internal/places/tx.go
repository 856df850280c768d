package places

import (
	"context"
	"errors"
	"yourplaces/pkg/logger"
	"yourplaces/pkg/storage"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// inTx runs cb in a store transaction. Attempts that lose a write conflict
// are retried from scratch with exponential backoff; every other error ends
// the loop. Each attempt gets its own timeout so a stuck attempt rolls back.
func (m *manager) inTx(ctx context.Context, op string, cb func(context.Context, storage.AllStorage) error) error {
	attempts := max(m.options.MaxTxAttempts, 1)

	bo := backoff.NewExponentialBackOff()
	if m.options.RetryInitialInterval > 0 {
		bo.InitialInterval = m.options.RetryInitialInterval
	}
	if m.options.RetryMaxInterval > 0 {
		bo.MaxInterval = m.options.RetryMaxInterval
	}
	bo.MaxElapsedTime = 0

	attempt := 0

	return backoff.Retry(func() error {
		attempt++

		txCtx, cancel := ctx, context.CancelFunc(func() {})
		if m.options.TxTimeout > 0 {
			txCtx, cancel = context.WithTimeout(ctx, m.options.TxTimeout)
		}
		defer cancel()

		err := m.storage.WithTx(txCtx, func(tx storage.AllStorage) error {
			return cb(txCtx, tx)
		})
		if err == nil {
			return nil
		}
		if errors.Is(err, storage.ErrWriteConflict) {
			m.instruments.conflicts.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", op)))
			logger.Debug(ctx, "transaction lost a write conflict",
				zap.Int("attempt", attempt), zap.Int("maxAttempts", attempts), zap.Error(err))

			return err
		}

		return backoff.Permanent(err)
	}, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(attempts-1)), ctx))
}

// Package logger keeps a zap logger in the request context so handlers, the
// places manager and background jobs log with the fields of the call that
// reached them.
package logger

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// DevelopmentEnvironment logs human readable lines starting at debug.
	DevelopmentEnvironment = "development"
	// ProductionEnvironment logs JSON starting at info.
	ProductionEnvironment = "production"
)

var base *zap.Logger //nolint: gochecknoglobals

// Setup builds the process logger for environment. A non-empty level such as
// "warn" overrides the environment default.
func Setup(environment, level string) error {
	var cfg zap.Config
	switch environment {
	case ProductionEnvironment:
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}

	if level != "" {
		parsed, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = parsed
	}

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("could not build logger: %w", err)
	}
	base = l

	return nil
}

// Sync flushes buffered entries of the process logger.
func Sync() {
	if base != nil {
		_ = base.Sync()
	}
}

type ctxKey struct{}

// Get returns the logger stored in ctx, falling back to the process logger
// and to a no-op logger before Setup ran.
func Get(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	if base != nil {
		return base
	}

	return zap.NewNop()
}

func WithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// WithFields returns a context whose logger adds fields to every entry.
func WithFields(ctx context.Context, fields ...zapcore.Field) context.Context {
	return WithLogger(ctx, Get(ctx).With(fields...))
}

// IsDebug reports whether debug entries of ctx's logger are written.
func IsDebug(ctx context.Context) bool {
	return Get(ctx).Core().Enabled(zap.DebugLevel)
}

func Debug(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Debug(msg, fields...)
}

func Info(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Info(msg, fields...)
}

func Warn(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Warn(msg, fields...)
}

func Error(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Error(msg, fields...)
}

// Fatal logs and exits the process.
func Fatal(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Fatal(msg, fields...)
}

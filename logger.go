package cayleygo

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/cayleygo/algebra"
)

// Logger wraps slog.Logger with cayleygo-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithSignature adds a signature field to the logger (useful for tagging
// all operations on one algebra).
func (l *Logger) WithSignature(sig algebra.Signature) *Logger {
	return &Logger{
		Logger: l.Logger.With("signature", sig.String()),
	}
}

// LogLookup logs a cache lookup.
func (l *Logger) LogLookup(ctx context.Context, sig algebra.Signature, source LookupSource, duration time.Duration) {
	l.DebugContext(ctx, "table lookup",
		"signature", sig.String(),
		"source", source.String(),
		"duration", duration,
	)
}

// LogCompute logs a table computation.
func (l *Logger) LogCompute(ctx context.Context, sig algebra.Signature, basisCount int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "table computation failed",
			"signature", sig.String(),
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "table computed",
			"signature", sig.String(),
			"basis_count", basisCount,
			"duration", duration,
		)
	}
}

// LogPersist logs a persistence attempt.
func (l *Logger) LogPersist(ctx context.Context, sig algebra.Signature, sizeBytes int, err error) {
	if err != nil {
		l.WarnContext(ctx, "table persistence failed",
			"signature", sig.String(),
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "table persisted",
			"signature", sig.String(),
			"size_bytes", sizeBytes,
		)
	}
}

// LogCorruption logs a checksum or structural validation failure on a
// cached table. Always warn level: corruption is recoverable but should
// never pass silently.
func (l *Logger) LogCorruption(ctx context.Context, sig algebra.Signature, err error) {
	l.WarnContext(ctx, "cached table corrupt, recomputing",
		"signature", sig.String(),
		"error", err,
	)
}

// LogPrecompute logs the outcome of a precomputation run.
func (l *Logger) LogPrecompute(ctx context.Context, report *PrecomputeReport) {
	if report.Failed > 0 {
		l.WarnContext(ctx, "precompute completed with failures",
			"total", report.TotalSignatures,
			"computed", report.Computed,
			"already_present", report.AlreadyPresent,
			"failed", report.Failed,
			"elapsed", report.Elapsed,
		)
	} else {
		l.InfoContext(ctx, "precompute completed",
			"total", report.TotalSignatures,
			"computed", report.Computed,
			"already_present", report.AlreadyPresent,
			"elapsed", report.Elapsed,
		)
	}
}

// LogClear logs a cache clear.
func (l *Logger) LogClear(ctx context.Context, cleared int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "cache clear failed",
			"cleared", cleared,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "cache cleared",
			"cleared", cleared,
		)
	}
}

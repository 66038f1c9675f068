package logging

import (
	"context"

	"github.com/aidock-dev/aidock/internal/ports"
)

// NopLogger discards all log messages. Useful in tests and as a default.
type NopLogger struct{}

// NewNopLogger creates a new NopLogger.
func NewNopLogger() *NopLogger {
	return &NopLogger{}
}

// Debug does nothing.
func (l *NopLogger) Debug(_ context.Context, _ string, _ ...ports.Field) {}

// Info does nothing.
func (l *NopLogger) Info(_ context.Context, _ string, _ ...ports.Field) {}

// Warn does nothing.
func (l *NopLogger) Warn(_ context.Context, _ string, _ ...ports.Field) {}

// Error does nothing.
func (l *NopLogger) Error(_ context.Context, _ string, _ ...ports.Field) {}

// With returns the same logger.
func (l *NopLogger) With(_ ...ports.Field) ports.Logger { return l }

// Level returns LevelError to minimize work.
func (l *NopLogger) Level() ports.Level { return ports.LevelError }

// SetLevel does nothing.
func (l *NopLogger) SetLevel(_ ports.Level) {}

// Ensure NopLogger implements ports.Logger.
var _ ports.Logger = (*NopLogger)(nil)

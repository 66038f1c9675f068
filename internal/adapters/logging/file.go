package logging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aidock-dev/aidock/internal/ports"
)

// FileSink is the append-only log destination for one provisioning run.
// Every observable action is recorded as a tagged INFO/WARN/ERROR line,
// and captured command output is appended verbatim so a failed step stays
// diagnosable after the fact. The file is never rotated or truncated
// within a run.
type FileSink struct {
	mu     sync.Mutex
	f      *os.File
	path   string
	level  ports.Level
	fields []ports.Field
}

// NewFileSink creates the log directory if needed and opens a fresh log
// file whose name carries the run's start timestamp.
func NewFileSink(dir string, start time.Time) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("run-%s.log", start.Format("20060102-150405")))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	return &FileSink{f: f, path: path, level: ports.LevelDebug}, nil
}

// Path returns the log file path.
func (s *FileSink) Path() string {
	return s.path
}

// Close closes the underlying file.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Close()
}

// Append writes raw command output verbatim, with no tag or timestamp.
func (s *FileSink) Append(raw string) {
	if raw == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.f.WriteString(raw)
	if !strings.HasSuffix(raw, "\n") {
		_, _ = s.f.WriteString("\n")
	}
}

// Debug logs a debug message.
func (s *FileSink) Debug(ctx context.Context, msg string, fields ...ports.Field) {
	s.log(ctx, ports.LevelDebug, msg, fields)
}

// Info logs an informational message.
func (s *FileSink) Info(ctx context.Context, msg string, fields ...ports.Field) {
	s.log(ctx, ports.LevelInfo, msg, fields)
}

// Warn logs a warning message.
func (s *FileSink) Warn(ctx context.Context, msg string, fields ...ports.Field) {
	s.log(ctx, ports.LevelWarn, msg, fields)
}

// Error logs an error message.
func (s *FileSink) Error(ctx context.Context, msg string, fields ...ports.Field) {
	s.log(ctx, ports.LevelError, msg, fields)
}

// With returns a logger that shares the sink's file but carries extra fields.
func (s *FileSink) With(fields ...ports.Field) ports.Logger {
	newFields := make([]ports.Field, len(s.fields)+len(fields))
	copy(newFields, s.fields)
	copy(newFields[len(s.fields):], fields)

	return &FileSink{f: s.f, path: s.path, level: s.level, fields: newFields}
}

// Level returns the minimum log level.
func (s *FileSink) Level() ports.Level {
	return s.level
}

// SetLevel sets the minimum log level.
func (s *FileSink) SetLevel(level ports.Level) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level = level
}

func (s *FileSink) log(_ context.Context, level ports.Level, msg string, fields []ports.Field) {
	if level < s.level {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	b.WriteString(time.Now().Format(time.RFC3339))
	b.WriteByte(' ')
	b.WriteString(level.String())
	b.WriteByte(' ')
	b.WriteString(msg)
	writeFields(&b, s.fields)
	writeFields(&b, fields)
	b.WriteByte('\n')

	_, _ = s.f.WriteString(b.String())
}

// Ensure FileSink implements ports.Logger.
var _ ports.Logger = (*FileSink)(nil)

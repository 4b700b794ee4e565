package sim

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// SlogLogger routes engine logging through a slog.Logger, so an
// application standardized on slog sees engine output through its own
// handlers. It starts at whatever the global level was when it was
// built.
type SlogLogger struct {
	mu    sync.RWMutex
	level LogLevel
	out   *slog.Logger
}

// NewSlogLogger wraps l as an engine Logger.
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{level: GetLogLevel(), out: l}
}

// SetLevel sets the minimum level that will be forwarded.
func (s *SlogLogger) SetLevel(level LogLevel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level = level
}

// Level returns the current minimum level.
func (s *SlogLogger) Level() LogLevel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.level
}

func (s *SlogLogger) write(level LogLevel, sl slog.Level, format string, args ...any) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if level < s.level {
		return
	}
	s.out.Log(context.Background(), sl, fmt.Sprintf(format, args...))
}

func (s *SlogLogger) Debug(format string, args ...any) {
	s.write(LogLevelDebug, slog.LevelDebug, format, args...)
}

func (s *SlogLogger) Info(format string, args ...any) {
	s.write(LogLevelInfo, slog.LevelInfo, format, args...)
}

func (s *SlogLogger) Warn(format string, args ...any) {
	s.write(LogLevelWarn, slog.LevelWarn, format, args...)
}

func (s *SlogLogger) Error(format string, args ...any) {
	s.write(LogLevelError, slog.LevelError, format, args...)
}

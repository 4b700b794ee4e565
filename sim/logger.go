package sim

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// LogLevel represents the severity of a log message.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelOff
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	case LogLevelOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel parses a string into a LogLevel.
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LogLevelDebug, nil
	case "INFO":
		return LogLevelInfo, nil
	case "WARN", "WARNING":
		return LogLevelWarn, nil
	case "ERROR":
		return LogLevelError, nil
	case "OFF", "NONE":
		return LogLevelOff, nil
	default:
		return LogLevelInfo, fmt.Errorf("unknown log level: %s", s)
	}
}

// Logger is the engine's leveled logging interface. The simulation core
// logs through it so callers can silence or redirect engine output
// without touching user-facing command output.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	SetLevel(level LogLevel)
	Level() LogLevel
}

// DefaultLogger writes level-prefixed lines through a standard
// log.Logger. Safe for concurrent use.
type DefaultLogger struct {
	mu    sync.RWMutex
	level LogLevel
	out   *log.Logger
}

// NewLogger creates a logger writing to output at the given level.
func NewLogger(output io.Writer, level LogLevel) *DefaultLogger {
	return &DefaultLogger{
		level: level,
		out:   log.New(output, "", log.LstdFlags),
	}
}

// SetLevel sets the minimum level that will be written.
func (l *DefaultLogger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Level returns the current minimum level.
func (l *DefaultLogger) Level() LogLevel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

func (l *DefaultLogger) write(level LogLevel, format string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if level < l.level {
		return
	}
	l.out.Printf("[%s] %s", level, fmt.Sprintf(format, args...))
}

func (l *DefaultLogger) Debug(format string, args ...any) { l.write(LogLevelDebug, format, args...) }
func (l *DefaultLogger) Info(format string, args ...any)  { l.write(LogLevelInfo, format, args...) }
func (l *DefaultLogger) Warn(format string, args ...any)  { l.write(LogLevelWarn, format, args...) }
func (l *DefaultLogger) Error(format string, args ...any) { l.write(LogLevelError, format, args...) }

var globalLogger Logger = NewLogger(os.Stderr, LogLevelInfo)

// Global returns the shared package logger, for components that take a
// Logger but were not given one.
func Global() Logger {
	return globalLogger
}

// SetGlobal replaces the shared package logger. Meant for startup
// wiring, before any simulation runs; components already holding the
// previous logger keep it.
func SetGlobal(l Logger) {
	if l != nil {
		globalLogger = l
	}
}

// SetLogLevel sets the global log level.
func SetLogLevel(level LogLevel) {
	globalLogger.SetLevel(level)
}

// GetLogLevel returns the current global log level.
func GetLogLevel() LogLevel {
	return globalLogger.Level()
}

// Debug logs a debug message using the global logger.
func Debug(format string, args ...any) {
	globalLogger.Debug(format, args...)
}

// Info logs an info message using the global logger.
func Info(format string, args ...any) {
	globalLogger.Info(format, args...)
}

// Warn logs a warning message using the global logger.
func Warn(format string, args ...any) {
	globalLogger.Warn(format, args...)
}

// Error logs an error message using the global logger.
func Error(format string, args ...any) {
	globalLogger.Error(format, args...)
}

func init() {
	if levelStr := os.Getenv("QSIM_LOG_LEVEL"); levelStr != "" {
		if level, err := ParseLogLevel(levelStr); err == nil {
			SetLogLevel(level)
		}
	}

	// Under test binaries, only errors.
	if strings.HasSuffix(os.Args[0], ".test") {
		SetLogLevel(LogLevelError)
	}
}

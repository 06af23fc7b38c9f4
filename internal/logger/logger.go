package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

// Level controls logging verbosity
type Level int32

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

var currentLevel atomic.Int32

func init() {
	currentLevel.Store(int32(LevelInfo))
	// Enable debug via environment variable
	if os.Getenv("BRIEF_DEBUG") == "1" {
		currentLevel.Store(int32(LevelDebug))
	}
}

// ParseLevel converts a level name into a Level
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level: %q", name)
	}
}

// SetLevel sets the global logging level
func SetLevel(level Level) {
	currentLevel.Store(int32(level))
}

// SetOutput redirects log output, e.g. to a file from config
func SetOutput(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(f)
	return nil
}

func logAt(level Level, tag, format string, args ...any) {
	if Level(currentLevel.Load()) > level {
		return
	}
	log.Printf("["+tag+"] "+format, args...)
}

// Trace logs at trace level
func Trace(format string, args ...any) { logAt(LevelTrace, "TRACE", format, args...) }

// Debug logs at debug level
func Debug(format string, args ...any) { logAt(LevelDebug, "DEBUG", format, args...) }

// Info logs at info level
func Info(format string, args ...any) { logAt(LevelInfo, "INFO", format, args...) }

// Warn logs at warn level
func Warn(format string, args ...any) { logAt(LevelWarn, "WARN", format, args...) }

// Error logs at error level
func Error(format string, args ...any) { logAt(LevelError, "ERROR", format, args...) }

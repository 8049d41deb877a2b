// Package logger provides the process-wide structured logger.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// EnvLevel is consulted when no level flag is given.
const EnvLevel = "IJC_LOG_LEVEL"

// Logger is the global logger instance.
var Logger = newLogger(os.Stderr, log.WarnLevel)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: false,
	})
	return l
}

// Configure sets level and destination. Precedence for the level is
// flag > IJC_LOG_LEVEL > warn. An empty file keeps stderr.
func Configure(level string, file string) error {
	if level == "" {
		level = os.Getenv(EnvLevel)
	}

	var out io.Writer = os.Stderr
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return err
		}
		out = f
	}

	Logger = newLogger(out, parseLevel(level))
	return nil
}

func parseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.WarnLevel
	}
}

// With returns a child logger carrying keyvals on every entry.
func With(keyvals ...any) *log.Logger {
	return Logger.With(keyvals...)
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg any, keyvals ...any) { Logger.Debug(msg, keyvals...) }

// Info logs an info message with optional key-value pairs.
func Info(msg any, keyvals ...any) { Logger.Info(msg, keyvals...) }

// Warn logs a warning message with optional key-value pairs.
func Warn(msg any, keyvals ...any) { Logger.Warn(msg, keyvals...) }

// Error logs an error message with optional key-value pairs.
func Error(msg any, keyvals ...any) { Logger.Error(msg, keyvals...) }

// Package logger wraps a process-wide zerolog logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// log discards everything until Init is called.
var log = zerolog.Nop()

// Levels accepted by ParseLevel.
var levels = map[string]zerolog.Level{
	"debug": zerolog.DebugLevel,
	"info":  zerolog.InfoLevel,
	"warn":  zerolog.WarnLevel,
	"error": zerolog.ErrorLevel,
}

// ParseLevel maps a configured level name onto a zerolog level.
func ParseLevel(name string) (zerolog.Level, error) {
	level, ok := levels[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", name)
	}
	return level, nil
}

// Init writes human-readable logs to stdout at the given level. Timestamps are
// left out when running under a service manager, which adds its own.
func Init(level string, isService bool) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	if isService {
		output.TimeFormat = ""
		output.FormatTimestamp = func(_ interface{}) string {
			return ""
		}
	}

	SetOutput(output, lvl)
	return nil
}

// SetOutput replaces the logger with one writing to w at level.
func SetOutput(w io.Writer, level zerolog.Level) {
	log = zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// IsService reports whether the process appears to run under systemd,
// launchd or a similar supervisor.
func IsService() bool {
	if os.Getenv("SERVICE_NAME") != "" || os.Getenv("INVOCATION_ID") != "" {
		return true
	}
	return os.Getppid() == 1
}

// Debug starts a debug level message.
func Debug() *zerolog.Event { return log.Debug() }

// Info starts an info level message.
func Info() *zerolog.Event { return log.Info() }

// Warn starts a warning.
func Warn() *zerolog.Event { return log.Warn() }

// Error starts an error message.
func Error() *zerolog.Event { return log.Error() }

// Fatal starts a message that exits the process once sent.
func Fatal() *zerolog.Event { return log.Fatal() }

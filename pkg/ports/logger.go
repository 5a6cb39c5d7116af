// Package ports defines interfaces for the collaborators of the playback and
// clip engine: codecs, presentation surfaces, file systems, debug sinks and
// logging.
package ports

import "fmt"

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	// LevelDebug is for stage-level internal processing logs.
	LevelDebug LogLevel = iota
	// LevelInfo is for workspace-level progress.
	LevelInfo
	// LevelWarn is for recoverable problems that don't stop processing.
	LevelWarn
	// LevelError is for unrecoverable problems.
	LevelError
	// LevelQuiet suppresses all log output.
	LevelQuiet
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelQuiet:
		return "quiet"
	default:
		return "unknown"
	}
}

// ParseLogLevel parses a string into a LogLevel. Unknown names map to
// LevelInfo.
func ParseLogLevel(s string) LogLevel {
	l, err := lookupLevel(s)
	if err != nil {
		return LevelInfo
	}
	return l
}

// UnmarshalText implements encoding.TextUnmarshaler so levels can be read
// from configuration files.
func (l *LogLevel) UnmarshalText(text []byte) error {
	v, err := lookupLevel(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (l LogLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func lookupLevel(s string) (LogLevel, error) {
	switch s {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "quiet":
		return LevelQuiet, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level: %q", s)
	}
}

// Logger abstracts logging operations with multi-language support.
type Logger interface {
	// Debug logs a debug message with optional format arguments.
	// The msg parameter is the message key that can be translated.
	Debug(msg string, args ...interface{})

	// Info logs an informational message with optional format arguments.
	Info(msg string, args ...interface{})

	// Warn logs a warning message with optional format arguments.
	Warn(msg string, args ...interface{})

	// Error logs an error message with optional format arguments.
	Error(msg string, args ...interface{})

	// WithComponent returns a new Logger that prefixes messages with the
	// component name.
	WithComponent(component string) Logger
}

// Package logger provides logging implementations.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ideamans/go-l10n"
	"github.com/mattn/go-isatty"

	"github.com/AT-290690/gif-player/pkg/ports"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGray   = "\033[90m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorCyan   = "\033[36m"
)

// output is shared by a logger and every logger derived from it, so lines
// written from the playback timer and a cut goroutine never interleave.
type output struct {
	mu  sync.Mutex
	out io.Writer
	err io.Writer
}

// ConsoleLogger logs messages to the console with color support.
type ConsoleLogger struct {
	level     ports.LogLevel
	component string
	color     bool
	w         *output
}

// NewConsole creates a new console logger with the specified level.
// Color output is automatically enabled when stdout is a terminal.
func NewConsole(level ports.LogLevel) *ConsoleLogger {
	fd := os.Stdout.Fd()
	l := NewWriter(level, os.Stdout, os.Stderr)
	l.color = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	return l
}

// NewWriter creates a console logger that writes debug and info lines to out
// and warnings and errors to errOut, without color.
func NewWriter(level ports.LogLevel, out, errOut io.Writer) *ConsoleLogger {
	return &ConsoleLogger{
		level: level,
		w:     &output{out: out, err: errOut},
	}
}

// Level returns the minimum level that is written.
func (l *ConsoleLogger) Level() ports.LogLevel {
	return l.level
}

// Debug logs a debug message.
func (l *ConsoleLogger) Debug(msg string, args ...interface{}) {
	l.log(ports.LevelDebug, msg, args...)
}

// Info logs an informational message.
func (l *ConsoleLogger) Info(msg string, args ...interface{}) {
	l.log(ports.LevelInfo, msg, args...)
}

// Warn logs a warning message.
func (l *ConsoleLogger) Warn(msg string, args ...interface{}) {
	l.log(ports.LevelWarn, msg, args...)
}

// Error logs an error message.
func (l *ConsoleLogger) Error(msg string, args ...interface{}) {
	l.log(ports.LevelError, msg, args...)
}

// WithComponent returns a new logger with the specified component name.
// Nested components are joined with a slash.
func (l *ConsoleLogger) WithComponent(component string) ports.Logger {
	if l.component != "" {
		component = l.component + "/" + component
	}
	return &ConsoleLogger{
		level:     l.level,
		component: component,
		color:     l.color,
		w:         l.w,
	}
}

func (l *ConsoleLogger) log(level ports.LogLevel, msg string, args ...interface{}) {
	if level < l.level {
		return
	}

	translated := l10n.F(msg, args...)

	var line string
	switch {
	case l.component == "":
		line = translated
	case l.color:
		line = fmt.Sprintf("%s[%s]%s %s", colorCyan, l.component, colorReset, translated)
	default:
		line = fmt.Sprintf("[%s] %s", l.component, translated)
	}

	if l.color {
		switch level {
		case ports.LevelDebug:
			line = colorGray + line + colorReset
		case ports.LevelWarn:
			line = colorYellow + line + colorReset
		case ports.LevelError:
			line = colorRed + line + colorReset
		}
	}

	dst := l.w.out
	if level >= ports.LevelWarn {
		dst = l.w.err
	}
	l.w.mu.Lock()
	fmt.Fprintln(dst, line)
	l.w.mu.Unlock()
}

// Ensure ConsoleLogger implements ports.Logger
var _ ports.Logger = (*ConsoleLogger)(nil)

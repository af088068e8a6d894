// Package logging carries cli-kit's diagnostic channel: extension load
// warnings and dispatch-error context, kept separate from the user-facing
// output streams the CLI writes help and banners to.
package logging

import (
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
)

// Logger is the minimal structured-logging surface cli-kit depends on.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// charm adapts github.com/charmbracelet/log to Logger.
type charm struct{ l *charmlog.Logger }

// NewDefault returns the default Logger, writing to w with the given
// minimum level name ("debug", "info", "warn", "error"); an empty level
// defaults to "warn" so extension-load chatter doesn't drown out a command's
// own output by default.
func NewDefault(w io.Writer, level string) Logger {
	if w == nil {
		w = os.Stderr
	}
	l := charmlog.NewWithOptions(w, charmlog.Options{
		Prefix:          "cli-kit",
		ReportTimestamp: false,
	})
	switch level {
	case "debug":
		l.SetLevel(charmlog.DebugLevel)
	case "info":
		l.SetLevel(charmlog.InfoLevel)
	case "error":
		l.SetLevel(charmlog.ErrorLevel)
	default:
		l.SetLevel(charmlog.WarnLevel)
	}
	return &charm{l: l}
}

func (c *charm) Debugf(format string, args ...any) { c.l.Debugf(format, args...) }
func (c *charm) Infof(format string, args ...any)  { c.l.Infof(format, args...) }
func (c *charm) Warnf(format string, args ...any)  { c.l.Warnf(format, args...) }
func (c *charm) Errorf(format string, args ...any) { c.l.Errorf(format, args...) }

// Nop is a Logger that discards everything, useful in tests that don't want
// extension-load diagnostics on stderr.
var Nop Logger = nopLogger{}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

package houdiniswap

import (
	"io"
	"time"

	charm "github.com/charmbracelet/log"
)

// Logger receives structured diagnostics from the client. Keyvals are
// alternating key/value pairs; sensitive values are redacted before they
// reach the logger.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
}

// charmLogger adapts charmbracelet/log to the Logger interface.
type charmLogger struct {
	l *charm.Logger
}

// NewLogger returns a Logger writing human-readable structured output to w.
func NewLogger(w io.Writer) Logger {
	return &charmLogger{
		l: charm.NewWithOptions(w, charm.Options{
			ReportTimestamp: true,
			TimeFormat:      time.Kitchen,
			Level:           charm.DebugLevel,
		}),
	}
}

func (c *charmLogger) Debug(msg string, keyvals ...any) { c.l.Debug(msg, keyvals...) }
func (c *charmLogger) Info(msg string, keyvals ...any)  { c.l.Info(msg, keyvals...) }
func (c *charmLogger) Warn(msg string, keyvals ...any)  { c.l.Warn(msg, keyvals...) }
func (c *charmLogger) Error(msg string, keyvals ...any) { c.l.Error(msg, keyvals...) }

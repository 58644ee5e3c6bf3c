package goamqp

import "github.com/sirupsen/logrus"

// Logger is the diagnostic sink every component is handed at
// construction: no package-level mutable logger. Config.Logger defaults to
// a logrus-backed implementation; pass your own to integrate with an
// application's existing logging stack.
type Logger interface {
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// logrusLogger adapts a *logrus.Logger to the Logger interface. This
// is the default used when Config.Logger is left nil, following the
// corpus's convention of wiring logrus into RabbitMQ client code
// (grounded on demonoid81-garagemq/server/channel.go's *log.Entry
// field and similar adapters across the retrieval pack).
type logrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger wraps an existing *logrus.Logger, tagging every
// line with a "component" field.
func NewLogrusLogger(base *logrus.Logger, component string) Logger {
	if base == nil {
		base = logrus.New()
	}
	return &logrusLogger{entry: base.WithField("component", component)}
}

func (l *logrusLogger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *logrusLogger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *logrusLogger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

// noopLogger discards everything; used only if a caller explicitly
// sets Config.Logger to NewNoopLogger(). A nil Config.Logger gets the
// logrus default instead.
type noopLogger struct{}

func (noopLogger) Debugf(string, ...interface{}) {}
func (noopLogger) Warnf(string, ...interface{})  {}
func (noopLogger) Errorf(string, ...interface{}) {}

// NewNoopLogger returns a Logger that discards everything.
func NewNoopLogger() Logger { return noopLogger{} }

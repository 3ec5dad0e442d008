package flowstate

import "context"

// Logger provides a minimal, optional observability seam for the runtime,
// store and projection driver. It is deliberately not wired to any
// concrete logging backend (spec §1 treats logging as an external
// collaborator); implement it against whatever logging library an
// embedding application already uses.
type Logger interface {
	// Debug logs verbose operational detail.
	Debug(ctx context.Context, msg string, keyvals ...interface{})
	// Info logs a significant event during normal operation.
	Info(ctx context.Context, msg string, keyvals ...interface{})
	// Error logs a failure that requires attention.
	Error(ctx context.Context, msg string, keyvals ...interface{})
}

// NoOpLogger discards everything. It is the default used when no Logger is
// supplied.
type NoOpLogger struct{}

// Debug implements Logger.
func (NoOpLogger) Debug(context.Context, string, ...interface{}) {}

// Info implements Logger.
func (NoOpLogger) Info(context.Context, string, ...interface{}) {}

// Error implements Logger.
func (NoOpLogger) Error(context.Context, string, ...interface{}) {}

// logger returns l, or NoOpLogger{} if l is nil. Every component that
// accepts an optional Logger calls through this helper so callers can pass
// nil.
func logger(l Logger) Logger {
	if l == nil {
		return NoOpLogger{}
	}
	return l
}

// Log exposes the nil-safe default for use by subpackages that embed a
// Logger field.
func Log(l Logger) Logger { return logger(l) }

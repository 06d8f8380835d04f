package core

// Logger interface for renderer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// NopLogger discards everything; handy for tests and library callers that
// want silence.
type NopLogger struct{}

// Printf implements Logger
func (NopLogger) Printf(format string, args ...interface{}) {}

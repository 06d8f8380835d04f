package renderer

import (
	"log"
	"os"

	"github.com/df07/go-loom/pkg/core"
)

// DefaultLogger implements core.Logger on top of the standard logger,
// writing timestamped lines to stderr
type DefaultLogger struct {
	logger *log.Logger
}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	dl.logger.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{logger: log.New(os.Stderr, "loom: ", log.LstdFlags)}
}

package pipeline

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the logger used for ruleset progress: skipped and
// completed writes, verification failures.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger replaces the default no-op logger. It is not safe to call
// while a Runner is active.
func SetLogger(l *zap.Logger) {
	logger = l
}

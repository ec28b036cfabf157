package passes

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the logger passes report their decisions to, such as
// trimmed exports or the first float instruction found. Silent unless
// SetLogger was called.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger installs l for all passes. Call it once at startup.
func SetLogger(l *zap.Logger) {
	logger = l
}

package alloc

import (
	"log/slog"
	"os"

	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/logger"
)

// Config controls allocator behavior.
type Config struct {
	// DebugTracing logs every allocator operation at debug level.
	DebugTracing bool

	// DetectDoubleFree checks the used flag on every Free and aborts the
	// process when the chunk is already free.
	DetectDoubleFree bool

	// ShrinkThreshold is the minimum trailing free run, in bytes, that is
	// returned by retracting the region. Zero means format.MinShrinkRelease.
	ShrinkThreshold int64

	// Logger receives trace and warning records. Nil means logger.L.
	Logger *slog.Logger
}

// DefaultConfig is used when a nil Config is passed. Tracing follows the
// HEAP_LOG_ALLOC environment variable.
var DefaultConfig = Config{
	DebugTracing:     os.Getenv(logger.EnvVar) != "",
	DetectDoubleFree: true,
	ShrinkThreshold:  format.MinShrinkRelease,
}

func (c Config) withDefaults() Config {
	if c.ShrinkThreshold <= 0 {
		c.ShrinkThreshold = format.MinShrinkRelease
	}
	if c.Logger == nil {
		c.Logger = logger.L
	}
	return c
}

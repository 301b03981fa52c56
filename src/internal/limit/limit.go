// Package limit provides optional emit-side load shedding. When configured,
// sustained overload is converted into counted drops before the queue
// instead of unbounded producer backpressure.
package limit

import (
	"sync/atomic"

	"golang.org/x/time/rate"

	"logvault/src/internal/config"

	"github.com/lixenwraith/log"
)

// Limiter admits events at a sustained rate with a burst allowance.
// Safe for concurrent use.
type Limiter struct {
	limiter *rate.Limiter
	logger  *log.Logger

	// Statistics
	totalAllowed atomic.Uint64
	totalDropped atomic.Uint64
}

// New creates a limiter from configuration.
func New(cfg config.RateLimitConfig, logger *log.Logger) *Limiter {
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(cfg.EventsPerSecond), cfg.Burst),
		logger:  logger,
	}
}

// Allow reports whether one event may be admitted now. A rejected event is
// counted; the caller sheds it rather than queueing.
func (l *Limiter) Allow() bool {
	if l.limiter.Allow() {
		l.totalAllowed.Add(1)
		return true
	}
	l.totalDropped.Add(1)
	return false
}

// Allowed returns the number of admitted events.
func (l *Limiter) Allowed() uint64 {
	return l.totalAllowed.Load()
}

// Dropped returns the number of shed events.
func (l *Limiter) Dropped() uint64 {
	return l.totalDropped.Load()
}

package filter

import (
	"fmt"
	"sync/atomic"

	"logvault/src/internal/config"
	"logvault/src/internal/core"

	"github.com/lixenwraith/log"
)

// Chain manages a sequence of filters, applying them in order.
type Chain struct {
	filters []*Filter
	logger  *log.Logger

	// Statistics
	totalProcessed atomic.Uint64
	totalPassed    atomic.Uint64
}

// NewChain creates a new filter chain from a slice of filter configurations.
func NewChain(configs []config.FilterConfig, logger *log.Logger) (*Chain, error) {
	chain := &Chain{
		filters: make([]*Filter, 0, len(configs)),
		logger:  logger,
	}

	for i, cfg := range configs {
		f, err := New(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("filter[%d]: %w", i, err)
		}
		chain.filters = append(chain.filters, f)
	}

	return chain, nil
}

// Apply runs an event through all filters in the chain. All filters must
// pass for the event to pass.
func (c *Chain) Apply(ev core.Event) bool {
	c.totalProcessed.Add(1)

	for i, f := range c.filters {
		if !f.Apply(ev) {
			c.logger.Debug("msg", "Event filtered out",
				"component", "filter_chain",
				"filter_index", i,
				"category", ev.Category.String())
			return false
		}
	}

	c.totalPassed.Add(1)
	return true
}

// Len returns the number of filters in the chain.
func (c *Chain) Len() int {
	return len(c.filters)
}

// Stats returns chain counters: processed and passed.
func (c *Chain) Stats() (processed, passed uint64) {
	return c.totalProcessed.Load(), c.totalPassed.Load()
}

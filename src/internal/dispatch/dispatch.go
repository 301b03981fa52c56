// Package dispatch runs the consumer side of the pipeline: a single task
// drains the ingestion queue and drives each event through per-sink filters
// into the sinks, with bounded retry on write failure.
package dispatch

import (
	"context"
	"sync/atomic"
	"time"

	"logvault/src/internal/config"
	"logvault/src/internal/core"
	"logvault/src/internal/filter"
	"logvault/src/internal/queue"
	"logvault/src/internal/sink"

	"github.com/lixenwraith/log"
)

// Binding pairs a sink with its optional filter chain.
type Binding struct {
	Sink    sink.Sink
	Filters *filter.Chain
}

// Dispatcher owns the queue's receive side and all sinks. A failing sink is
// retried a bounded number of times with doubling backoff, then the event is
// counted as dropped for that sink only; other sinks are unaffected and the
// host process never sees the failure.
type Dispatcher struct {
	queue    *queue.Queue
	bindings []Binding
	retry    config.RetryConfig
	logger   *log.Logger
	drained  chan struct{}

	// Statistics
	totalProcessed   atomic.Uint64
	totalFiltered    atomic.Uint64
	totalWriteErrors atomic.Uint64
	totalDropped     atomic.Uint64
}

// Stats is a snapshot of dispatcher counters.
type Stats struct {
	// Events received from the queue
	TotalProcessed uint64

	// Per-sink deliveries suppressed by a filter chain
	TotalFiltered uint64

	// Individual failed write attempts, including ones later retried
	// successfully
	TotalWriteErrors uint64

	// Events abandoned for a sink after retry exhaustion
	TotalDropped uint64
}

// New creates a dispatcher. Run must be started exactly once.
func New(q *queue.Queue, bindings []Binding, retry config.RetryConfig, logger *log.Logger) *Dispatcher {
	return &Dispatcher{
		queue:    q,
		bindings: bindings,
		retry:    retry,
		logger:   logger,
		drained:  make(chan struct{}),
	}
}

// Run is the consumer loop. It returns once the queue is closed and fully
// drained, or ctx is cancelled. Done is closed on return.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.drained)

	for {
		ev, ok := d.queue.Receive(ctx)
		if !ok {
			break
		}
		d.totalProcessed.Add(1)
		d.dispatch(ctx, ev)
	}

	for _, b := range d.bindings {
		if err := b.Sink.Flush(ctx); err != nil {
			d.logger.Error("msg", "Sink flush failed",
				"component", "dispatcher",
				"sink", b.Sink.Name(),
				"error", err)
		}
	}
}

// Done is closed once the consumer loop has exited and sinks are flushed.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.drained
}

// Stats returns a snapshot of the dispatcher counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		TotalProcessed:   d.totalProcessed.Load(),
		TotalFiltered:    d.totalFiltered.Load(),
		TotalWriteErrors: d.totalWriteErrors.Load(),
		TotalDropped:     d.totalDropped.Load(),
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, ev core.Event) {
	for _, b := range d.bindings {
		if b.Filters != nil && !b.Filters.Apply(ev) {
			d.totalFiltered.Add(1)
			continue
		}
		d.writeWithRetry(ctx, b.Sink, ev)
	}
}

func (d *Dispatcher) writeWithRetry(ctx context.Context, s sink.Sink, ev core.Event) {
	backoff := time.Duration(d.retry.BackoffBaseMs) * time.Millisecond
	maxBackoff := time.Duration(d.retry.BackoffMaxMs) * time.Millisecond

	var lastErr error
	for attempt := 1; attempt <= d.retry.MaxAttempts; attempt++ {
		lastErr = s.Write(ctx, ev)
		if lastErr == nil {
			return
		}
		d.totalWriteErrors.Add(1)

		if attempt == d.retry.MaxAttempts {
			break
		}
		if !d.sleep(ctx, backoff) {
			break
		}
		backoff *= 2
		if maxBackoff > 0 && backoff > maxBackoff {
			backoff = maxBackoff
		}
	}

	d.totalDropped.Add(1)
	sinkErr := &core.SinkError{
		Sink:     s.Name(),
		Attempts: d.retry.MaxAttempts,
		Err:      lastErr,
	}
	d.logger.Error("msg", "Event dropped after retry exhaustion",
		"component", "dispatcher",
		"sink", s.Name(),
		"category", ev.Category.String(),
		"error", sinkErr)
}

// sleep waits for the backoff interval, returning false if ctx was
// cancelled first.
func (d *Dispatcher) sleep(ctx context.Context, delay time.Duration) bool {
	if delay <= 0 {
		return true
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

package logvault

import (
	"context"
	"sync/atomic"

	"logvault/src/internal/core"
	"logvault/src/internal/sink"

	"github.com/lixenwraith/log"
)

// Sink is the public sink abstraction for custom destinations registered
// with WithSink. Write is called from the pipeline's single consumer task.
type Sink interface {
	Write(ctx context.Context, rec Record) error
	Flush(ctx context.Context) error
	Close() error
	Name() string
}

type options struct {
	logger *log.Logger
	sinks  []Sink
}

// Option configures a Pipeline.
type Option func(*options)

// WithLogger sets the logger used for the pipeline's own diagnostics.
// Default: a quiet logger.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSink attaches a custom sink alongside the configured ones.
func WithSink(s Sink) Option {
	return func(o *options) {
		o.sinks = append(o.sinks, s)
	}
}

// sinkAdapter bridges a public Sink into the internal sink interface.
type sinkAdapter struct {
	inner        Sink
	totalWritten atomic.Uint64
	totalFailed  atomic.Uint64
}

func (a *sinkAdapter) Write(ctx context.Context, ev core.Event) error {
	if err := a.inner.Write(ctx, recordFromEvent(ev)); err != nil {
		a.totalFailed.Add(1)
		return err
	}
	a.totalWritten.Add(1)
	return nil
}

func (a *sinkAdapter) Flush(ctx context.Context) error { return a.inner.Flush(ctx) }
func (a *sinkAdapter) Close() error                    { return a.inner.Close() }
func (a *sinkAdapter) Name() string                    { return a.inner.Name() }

func (a *sinkAdapter) Stats() sink.Stats {
	return sink.Stats{
		Type:         a.inner.Name(),
		TotalWritten: a.totalWritten.Load(),
		TotalFailed:  a.totalFailed.Load(),
	}
}

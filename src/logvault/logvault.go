package logvault

import (
	"context"
	"fmt"
	"sync"
	"time"

	"logvault/src/internal/config"
	"logvault/src/internal/core"
	"logvault/src/internal/dispatch"
	"logvault/src/internal/filter"
	"logvault/src/internal/format"
	"logvault/src/internal/limit"
	"logvault/src/internal/queue"
	"logvault/src/internal/sink"

	"github.com/lixenwraith/log"
)

// Pipeline is a running log pipeline: queue, consumer task, and sinks.
// Create one per process during initialization and pass it explicitly;
// independent instances coexist, which keeps tests isolated.
type Pipeline struct {
	cfg     *config.Config
	queue   *queue.Queue
	disp    *dispatch.Dispatcher
	limiter *limit.Limiter
	sinks   []sink.Sink
	memory  *sink.MemorySink
	archive *sink.SQLiteSink
	logger  *log.Logger
	cancel  context.CancelFunc

	closeOnce sync.Once
	closeErr  error
}

// Sentinel errors re-exported for callers of Emit and TryEmit.
var (
	// ErrClosed reports an emit after Close.
	ErrClosed = core.ErrClosed

	// ErrFull reports a TryEmit against a full queue.
	ErrFull = core.ErrFull
)

// SinkStats re-exports per-sink statistics for callers outside the module.
type SinkStats = sink.Stats

// Stats is a snapshot of pipeline counters.
type Stats struct {
	// Events accepted onto the queue
	TotalEmitted uint64

	// Events received by the consumer
	TotalProcessed uint64

	// Per-sink deliveries suppressed by filters
	TotalFiltered uint64

	// Failed sink write attempts, including retried ones
	TotalWriteErrors uint64

	// Events abandoned for a sink after retry exhaustion
	TotalDropped uint64

	// Emits shed by the rate limiter
	TotalRateLimited uint64

	// TryEmit calls rejected on a full queue
	TotalRejectedFull uint64

	// Per-sink statistics
	Sinks []SinkStats
}

// New validates cfg, builds the configured sinks, and starts the consumer
// task. A nil cfg uses config.Default (split console sink, capacity 1024).
func New(cfg *config.Config, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = log.NewLogger()
	}

	p := &Pipeline{
		cfg:    cfg,
		logger: logger,
	}

	bindings, err := p.buildSinks(cfg, o.sinks, logger)
	if err != nil {
		return nil, err
	}
	if len(bindings) == 0 {
		return nil, fmt.Errorf("no sinks configured")
	}

	if cfg.RateLimit != nil {
		p.limiter = limit.New(*cfg.RateLimit, logger)
	}

	p.queue = queue.New(cfg.Queue.Capacity)
	p.disp = dispatch.New(p.queue, bindings, cfg.Retry, logger)

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	go p.disp.Run(ctx)

	logger.Info("msg", "Pipeline started",
		"component", "pipeline",
		"queue_capacity", cfg.Queue.Capacity,
		"sinks", len(bindings))
	return p, nil
}

func (p *Pipeline) buildSinks(cfg *config.Config, extra []Sink, logger *log.Logger) ([]dispatch.Binding, error) {
	var bindings []dispatch.Binding

	add := func(s sink.Sink, filters []config.FilterConfig) error {
		binding := dispatch.Binding{Sink: s}
		if len(filters) > 0 {
			chain, err := filter.NewChain(filters, logger)
			if err != nil {
				return fmt.Errorf("%s filters: %w", s.Name(), err)
			}
			binding.Filters = chain
		}
		p.sinks = append(p.sinks, s)
		bindings = append(bindings, binding)
		return nil
	}

	if cfg.Console != nil {
		formatter, err := format.New(cfg.Console.Format, logger)
		if err != nil {
			return nil, fmt.Errorf("console formatter: %w", err)
		}
		if err := add(sink.NewConsole(cfg.Console, logger, formatter), cfg.Console.Filters); err != nil {
			return nil, err
		}
	}

	if cfg.Memory != nil {
		p.memory = sink.NewMemory(cfg.Memory)
		if err := add(p.memory, cfg.Memory.Filters); err != nil {
			return nil, err
		}
	}

	if cfg.Archive != nil {
		archive, err := p.buildArchive(cfg.Archive, logger)
		if err != nil {
			return nil, err
		}
		if err := add(archive, cfg.Archive.Filters); err != nil {
			return nil, err
		}
	}

	for _, s := range extra {
		if err := add(&sinkAdapter{inner: s}, nil); err != nil {
			return nil, err
		}
	}

	return bindings, nil
}

func (p *Pipeline) buildArchive(cfg *config.ArchiveConfig, logger *log.Logger) (sink.Sink, error) {
	switch cfg.Backend {
	case config.ArchiveBackendSQLite:
		s, err := sink.NewSQLite(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("archive sqlite sink: %w", err)
		}
		p.archive = s
		return s, nil
	default:
		formatter, err := format.New(cfg.Format, logger)
		if err != nil {
			return nil, fmt.Errorf("archive formatter: %w", err)
		}
		s, err := sink.NewFile(cfg, logger, formatter)
		if err != nil {
			return nil, fmt.Errorf("archive file sink: %w", err)
		}
		return s, nil
	}
}

// Named returns an emit handle stamping the given category on events.
// Handles are cheap and safe to share across goroutines.
func (p *Pipeline) Named(category string) *Handle {
	return &Handle{
		pipeline: p,
		category: core.Category(category),
	}
}

// Close stops intake, waits for buffered events to be written, and closes
// all sinks. Idempotent; ctx bounds the drain, and on expiry remaining work
// is cancelled. Emits after Close fail with a closed-queue error.
func (p *Pipeline) Close(ctx context.Context) error {
	p.closeOnce.Do(func() {
		p.queue.Close()

		select {
		case <-p.disp.Done():
		case <-ctx.Done():
			p.closeErr = ctx.Err()
			p.cancel()
			<-p.disp.Done()
		}

		for _, s := range p.sinks {
			if err := s.Close(); err != nil {
				p.logger.Error("msg", "Sink close failed",
					"component", "pipeline",
					"sink", s.Name(),
					"error", err)
				if p.closeErr == nil {
					p.closeErr = err
				}
			}
		}
		p.cancel()
	})
	return p.closeErr
}

// Recent returns the events retained by the memory sink, newest first, or
// nil when no memory sink is configured.
func (p *Pipeline) Recent() []Record {
	if p.memory == nil {
		return nil
	}
	events := p.memory.Events()
	records := make([]Record, len(events))
	for i, ev := range events {
		records[i] = recordFromEvent(ev)
	}
	return records
}

// ArchiveQuery narrows an Archived lookup. Zero-value fields are
// unconstrained; Limit caps the result and defaults when non-positive.
type ArchiveQuery struct {
	// Lowest level returned; empty admits all levels
	MinLevel string

	// Exact category match
	Category string

	// Inclusive time bounds
	Since time.Time
	Until time.Time

	Limit int
}

// Archived queries the durable SQLite archive, newest first. It fails when
// the pipeline has no SQLite archive backend configured. Events still
// buffered in the queue are not visible until the consumer writes them.
func (p *Pipeline) Archived(ctx context.Context, q ArchiveQuery) ([]Record, error) {
	if p.archive == nil {
		return nil, fmt.Errorf("no sqlite archive configured")
	}

	sq := sink.Query{
		Category: q.Category,
		Since:    q.Since,
		Until:    q.Until,
		Limit:    q.Limit,
	}
	if q.MinLevel != "" {
		level, err := core.ParseLevel(q.MinLevel)
		if err != nil {
			return nil, fmt.Errorf("archive query: %w", err)
		}
		sq.MinLevel = level
	}

	events, err := p.archive.Select(ctx, sq)
	if err != nil {
		return nil, err
	}
	records := make([]Record, len(events))
	for i, ev := range events {
		records[i] = recordFromEvent(ev)
	}
	return records, nil
}

// Stats returns a snapshot of pipeline counters.
func (p *Pipeline) Stats() Stats {
	d := p.disp.Stats()
	s := Stats{
		TotalEmitted:      p.queue.TotalEmitted(),
		TotalProcessed:    d.TotalProcessed,
		TotalFiltered:     d.TotalFiltered,
		TotalWriteErrors:  d.TotalWriteErrors,
		TotalDropped:      d.TotalDropped,
		TotalRejectedFull: p.queue.TotalFull(),
	}
	if p.limiter != nil {
		s.TotalRateLimited = p.limiter.Dropped()
	}
	for _, snk := range p.sinks {
		s.Sinks = append(s.Sinks, snk.Stats())
	}
	return s
}

// Handle emits events for one category. The zero value is not usable;
// obtain handles from Pipeline.Named.
type Handle struct {
	pipeline *Pipeline
	category core.Category
}

// Emit finalizes the event and enqueues it, suspending on a full queue.
// Serialization failures and emits after Close are returned synchronously;
// sink failures never reach the caller. A rate-limited emit is shed and
// counted, not an error.
func (h *Handle) Emit(ctx context.Context, e *Event) error {
	ev, err := e.build(h.category)
	if err != nil {
		return err
	}
	if h.pipeline.limiter != nil && !h.pipeline.limiter.Allow() {
		return nil
	}
	return h.pipeline.queue.Emit(ctx, ev)
}

// TryEmit is the non-blocking variant for latency-sensitive callers,
// failing with a full-queue error instead of suspending.
func (h *Handle) TryEmit(e *Event) error {
	ev, err := e.build(h.category)
	if err != nil {
		return err
	}
	if h.pipeline.limiter != nil && !h.pipeline.limiter.Allow() {
		return nil
	}
	return h.pipeline.queue.TryEmit(ev)
}

// Trace emits a trace-level message without structured fields.
func (h *Handle) Trace(ctx context.Context, message string) error {
	return h.Emit(ctx, Trace(message))
}

// Debug emits a debug-level message without structured fields.
func (h *Handle) Debug(ctx context.Context, message string) error {
	return h.Emit(ctx, Debug(message))
}

// Info emits an info-level message without structured fields.
func (h *Handle) Info(ctx context.Context, message string) error {
	return h.Emit(ctx, Info(message))
}

// Warn emits a warn-level message without structured fields.
func (h *Handle) Warn(ctx context.Context, message string) error {
	return h.Emit(ctx, Warn(message))
}

// Error emits an error-level message without structured fields.
func (h *Handle) Error(ctx context.Context, message string) error {
	return h.Emit(ctx, Error(message))
}

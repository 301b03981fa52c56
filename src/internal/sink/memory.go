package sink

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"logvault/src/internal/config"
	"logvault/src/internal/core"
)

// MemorySink keeps the most recent events in a bounded ring, newest first.
// Useful for reviewing recent history and for tests. Hold the lock only
// for short operations; Events returns a copy.
type MemorySink struct {
	maxEntries int
	mu         sync.Mutex
	entries    []core.Event
	startTime  time.Time

	// Statistics
	totalWritten atomic.Uint64
	lastWrite    atomic.Value // time.Time
}

// NewMemory creates a memory sink retaining cfg.MaxEntries events.
func NewMemory(cfg *config.MemoryConfig) *MemorySink {
	s := &MemorySink{
		maxEntries: cfg.MaxEntries,
		startTime:  time.Now(),
	}
	s.lastWrite.Store(time.Time{})
	return s
}

func (s *MemorySink) Write(_ context.Context, ev core.Event) error {
	s.mu.Lock()
	s.entries = append([]core.Event{ev}, s.entries...)
	if len(s.entries) > s.maxEntries {
		s.entries = s.entries[:s.maxEntries]
	}
	s.mu.Unlock()

	s.totalWritten.Add(1)
	s.lastWrite.Store(time.Now())
	return nil
}

// Events returns a snapshot of retained events, newest first.
func (s *MemorySink) Events() []core.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Event, len(s.entries))
	copy(out, s.entries)
	return out
}

// Flush is a no-op; events are already resident.
func (s *MemorySink) Flush(context.Context) error {
	return nil
}

func (s *MemorySink) Close() error {
	return nil
}

func (s *MemorySink) Name() string {
	return "memory"
}

func (s *MemorySink) Stats() Stats {
	lastWrite, _ := s.lastWrite.Load().(time.Time)
	return Stats{
		Type:         "memory",
		TotalWritten: s.totalWritten.Load(),
		StartTime:    s.startTime,
		LastWrite:    lastWrite,
	}
}

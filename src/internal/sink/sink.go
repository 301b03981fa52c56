// Package sink provides the output destinations of the pipeline. Sinks are
// owned exclusively by the consumer task; their write paths need no
// external locking.
package sink

import (
	"context"
	"time"

	"logvault/src/internal/core"
)

// Sink is an output destination for log events.
type Sink interface {
	// Write persists or forwards a single event. Called only from the
	// consumer task; a returned error triggers the dispatcher's bounded
	// retry.
	Write(ctx context.Context, ev core.Event) error

	// Flush forces buffered records out. No-op for sinks that write
	// through.
	Flush(ctx context.Context) error

	// Close releases the sink's resources after a final flush.
	Close() error

	// Name returns the sink type name
	Name() string

	// Stats returns sink statistics
	Stats() Stats
}

// Stats contains statistics about a sink
type Stats struct {
	Type         string
	TotalWritten uint64
	TotalFailed  uint64
	StartTime    time.Time
	LastWrite    time.Time
}

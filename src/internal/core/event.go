package core

import (
	"encoding/json"
	"time"
)

// Event is a single structured log record flowing through the pipeline.
// Immutable once constructed; ownership passes to the queue on emit.
type Event struct {
	Time     time.Time       `json:"timestamp"`
	Level    Level           `json:"level"`
	Category Category        `json:"category"`
	Message  string          `json:"message"`
	Fields   json.RawMessage `json:"data,omitempty"`
}

// Equal reports whether two events carry the same record. Timestamps are
// compared by instant, so events survive a serialization round trip across
// time zones.
func (e Event) Equal(other Event) bool {
	return e.Time.Equal(other.Time) &&
		e.Level == other.Level &&
		e.Category == other.Category &&
		e.Message == other.Message &&
		string(e.Fields) == string(other.Fields)
}

package logvault

import (
	"encoding/json"
	"errors"
	"time"

	"logvault/src/internal/core"
)

// Well-known category tags. Any other string is a valid free-form category.
const (
	CategoryAuth   = "auth"
	CategoryDB     = "db"
	CategoryNet    = "net"
	CategoryTask   = "task"
	CategorySystem = "system"
)

// Event is a log record under construction. Build it with a level
// constructor and With, then hand it to a handle's Emit; after that the
// record is immutable and owned by the pipeline.
type Event struct {
	time    time.Time
	level   core.Level
	message string
	fields  map[string]any
	err     error
}

func newEvent(level core.Level, message string) *Event {
	return &Event{
		time:    time.Now(),
		level:   level,
		message: message,
	}
}

// Trace starts a trace-level event.
func Trace(message string) *Event { return newEvent(core.LevelTrace, message) }

// Debug starts a debug-level event.
func Debug(message string) *Event { return newEvent(core.LevelDebug, message) }

// Info starts an info-level event.
func Info(message string) *Event { return newEvent(core.LevelInfo, message) }

// Warn starts a warn-level event.
func Warn(message string) *Event { return newEvent(core.LevelWarn, message) }

// Error starts an error-level event.
func Error(message string) *Event { return newEvent(core.LevelError, message) }

// With attaches a structured field. Adding the same key twice is an error,
// reported by Emit as a serialization failure; chaining stays ergonomic and
// nothing is dropped silently.
func (e *Event) With(key string, value any) *Event {
	if e.err != nil {
		return e
	}
	if e.fields == nil {
		e.fields = make(map[string]any)
	}
	if _, exists := e.fields[key]; exists {
		e.err = &core.SerializationError{
			Key: key,
			Err: errors.New("attempting to add the same key twice"),
		}
		return e
	}
	e.fields[key] = value
	return e
}

// build finalizes the event for a category, marshaling the structured
// payload. Payload errors surface here, synchronously to the emitter.
func (e *Event) build(category core.Category) (core.Event, error) {
	if e.err != nil {
		return core.Event{}, e.err
	}

	var fields json.RawMessage
	if len(e.fields) > 0 {
		data, err := json.Marshal(e.fields)
		if err != nil {
			return core.Event{}, &core.SerializationError{Err: err}
		}
		fields = data
	}

	return core.Event{
		Time:     e.time,
		Level:    e.level,
		Category: category,
		Message:  e.message,
		Fields:   fields,
	}, nil
}

// Record is the stable public view of a delivered event. Internal
// representations may evolve independently without breaking consumers.
type Record struct {
	Time     time.Time       `json:"timestamp"`
	Level    string          `json:"level"`
	Category string          `json:"category"`
	Message  string          `json:"message"`
	Data     json.RawMessage `json:"data,omitempty"`
}

func recordFromEvent(ev core.Event) Record {
	return Record{
		Time:     ev.Time,
		Level:    ev.Level.String(),
		Category: ev.Category.String(),
		Message:  ev.Message,
		Data:     ev.Fields,
	}
}

package core

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned by emit operations after the queue has been closed.
	ErrClosed = errors.New("log queue closed")

	// ErrFull is returned by non-blocking emit when the queue is at capacity.
	ErrFull = errors.New("log queue full")
)

// SerializationError reports a structured payload that could not be
// represented on the wire. It is returned synchronously to the emitter.
type SerializationError struct {
	Key string
	Err error
}

func (e *SerializationError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("serialize field %q: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("serialize payload: %v", e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// SinkError reports a sink write that failed after exhausting its retries.
// It stays inside the consumer task; producers never see it.
type SinkError struct {
	Sink     string
	Attempts int
	Err      error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("sink %s failed after %d attempts: %v", e.Sink, e.Attempts, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}

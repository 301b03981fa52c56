package sink

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"logvault/src/internal/config"
	"logvault/src/internal/core"
	"logvault/src/internal/format"

	"github.com/lixenwraith/log"
)

// ConsoleSink writes formatted events to stdout/stderr. In "split" mode,
// warn and error go to stderr, everything else to stdout.
type ConsoleSink struct {
	target    string
	stdout    io.Writer
	stderr    io.Writer
	formatter format.Formatter
	logger    *log.Logger
	startTime time.Time

	// Statistics
	totalWritten atomic.Uint64
	totalFailed  atomic.Uint64
	lastWrite    atomic.Value // time.Time
}

// NewConsole creates a console sink writing to the process's stdout/stderr.
func NewConsole(cfg *config.ConsoleConfig, logger *log.Logger, formatter format.Formatter) *ConsoleSink {
	target := cfg.Target
	if target == "" {
		target = "split"
	}

	s := &ConsoleSink{
		target:    target,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		formatter: formatter,
		logger:    logger,
		startTime: time.Now(),
	}
	s.lastWrite.Store(time.Time{})
	return s
}

func (s *ConsoleSink) Write(_ context.Context, ev core.Event) error {
	formatted, err := s.formatter.Format(ev)
	if err != nil {
		s.totalFailed.Add(1)
		return fmt.Errorf("format entry: %w", err)
	}

	if _, err := s.writer(ev.Level).Write(formatted); err != nil {
		s.totalFailed.Add(1)
		return fmt.Errorf("console write: %w", err)
	}

	s.totalWritten.Add(1)
	s.lastWrite.Store(time.Now())
	return nil
}

func (s *ConsoleSink) writer(level core.Level) io.Writer {
	switch s.target {
	case "stderr":
		return s.stderr
	case "split":
		if level >= core.LevelWarn {
			return s.stderr
		}
		return s.stdout
	default:
		return s.stdout
	}
}

// Flush is a no-op; console writes are unbuffered.
func (s *ConsoleSink) Flush(context.Context) error {
	return nil
}

func (s *ConsoleSink) Close() error {
	return nil
}

func (s *ConsoleSink) Name() string {
	return "console"
}

func (s *ConsoleSink) Stats() Stats {
	lastWrite, _ := s.lastWrite.Load().(time.Time)
	return Stats{
		Type:         "console",
		TotalWritten: s.totalWritten.Load(),
		TotalFailed:  s.totalFailed.Load(),
		StartTime:    s.startTime,
		LastWrite:    lastWrite,
	}
}

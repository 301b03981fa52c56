package sink

import (
	"bytes"
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"logvault/src/internal/config"
	"logvault/src/internal/core"
	"logvault/src/internal/format"

	"github.com/lixenwraith/log"
)

// FileSink archives events to rotating files. Rotation, retention, and
// disk-pressure handling are delegated to the internal file writer; each
// event is one newline-framed record, so an abrupt termination can tear at
// most the final line.
type FileSink struct {
	writer    *log.Logger // Internal logger instance for file writing
	logger    *log.Logger // Application logger
	formatter format.Formatter
	startTime time.Time

	// Statistics
	totalWritten atomic.Uint64
	totalFailed  atomic.Uint64
	lastWrite    atomic.Value // time.Time
}

// NewFile creates a rotating file archive sink.
func NewFile(cfg *config.ArchiveConfig, logger *log.Logger, formatter format.Formatter) (*FileSink, error) {
	directory := cfg.Directory
	if directory == "" {
		directory = "./"
		logger.Warn("msg", "No archive directory provided, current directory will be used")
	}

	name := cfg.Name
	if name == "" {
		name = "logvault.archive"
		logger.Warn("msg", fmt.Sprintf("No archive name provided, %s will be used", name))
	}

	// Create configuration for the internal log writer
	writerConfig := log.DefaultConfig()
	writerConfig.Directory = directory
	writerConfig.Name = name
	writerConfig.EnableConsole = false // File only
	writerConfig.ShowTimestamp = false // Records carry their own timestamps
	writerConfig.ShowLevel = false     // Records carry their own levels

	if cfg.MaxSizeMB > 0 {
		writerConfig.MaxSizeKB = cfg.MaxSizeMB * 1000
	}
	if cfg.MaxTotalSizeMB >= 0 {
		writerConfig.MaxTotalSizeKB = cfg.MaxTotalSizeMB * 1000
	}
	if cfg.RetentionHours > 0 {
		writerConfig.RetentionPeriodHrs = cfg.RetentionHours
	}
	if cfg.MinDiskFreeMB > 0 {
		writerConfig.MinDiskFreeKB = cfg.MinDiskFreeMB * 1000
	}

	writer := log.NewLogger()
	if err := writer.ApplyConfig(writerConfig); err != nil {
		return nil, fmt.Errorf("failed to initialize archive writer: %w", err)
	}
	if err := writer.Start(); err != nil {
		return nil, fmt.Errorf("failed to start archive writer: %w", err)
	}

	s := &FileSink{
		writer:    writer,
		logger:    logger,
		formatter: formatter,
		startTime: time.Now(),
	}
	s.lastWrite.Store(time.Time{})

	logger.Info("msg", "Archive file sink started",
		"component", "file_sink",
		"directory", directory,
		"name", name)
	return s, nil
}

func (s *FileSink) Write(_ context.Context, ev core.Event) error {
	formatted, err := s.formatter.Format(ev)
	if err != nil {
		s.totalFailed.Add(1)
		return fmt.Errorf("format entry: %w", err)
	}

	// Strip the trailing newline, the writer frames each record itself
	s.writer.Message(string(bytes.TrimSuffix(formatted, []byte{'\n'})))

	s.totalWritten.Add(1)
	s.lastWrite.Store(time.Now())
	return nil
}

// Flush is a no-op; the writer flushes on shutdown.
func (s *FileSink) Flush(context.Context) error {
	return nil
}

func (s *FileSink) Close() error {
	if err := s.writer.Shutdown(2 * time.Second); err != nil {
		return fmt.Errorf("shutdown archive writer: %w", err)
	}
	return nil
}

func (s *FileSink) Name() string {
	return "file"
}

func (s *FileSink) Stats() Stats {
	lastWrite, _ := s.lastWrite.Load().(time.Time)
	return Stats{
		Type:         "file",
		TotalWritten: s.totalWritten.Load(),
		TotalFailed:  s.totalFailed.Load(),
		StartTime:    s.startTime,
		LastWrite:    lastWrite,
	}
}

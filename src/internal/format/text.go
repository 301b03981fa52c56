package format

import (
	"strings"
	"time"

	"logvault/src/internal/config"
	"logvault/src/internal/core"

	"github.com/lixenwraith/log"
)

// TextFormatter produces aligned human-readable lines:
//
//	WARN  [2025-06-01T08:30:00Z] [auth]: token refresh failed {"user":"u-42"}
type TextFormatter struct {
	config config.FormatConfig
	logger *log.Logger
}

// NewTextFormatter creates a text formatter from configuration options.
func NewTextFormatter(cfg config.FormatConfig, logger *log.Logger) *TextFormatter {
	return &TextFormatter{
		config: cfg,
		logger: logger,
	}
}

// Format transforms a single event into a newline-terminated text line.
func (f *TextFormatter) Format(ev core.Event) ([]byte, error) {
	var sb strings.Builder

	sb.WriteString(ev.Level.FixedWidth())
	sb.WriteString(" [")
	sb.WriteString(ev.Time.Format(time.RFC3339))
	sb.WriteString("] [")
	sb.WriteString(ev.Category.String())
	sb.WriteString("]: ")
	sb.WriteString(ev.Message)

	if len(ev.Fields) > 0 {
		sb.WriteByte(' ')
		sb.Write(ev.Fields)
	}
	sb.WriteByte('\n')

	return []byte(sb.String()), nil
}

// Name returns the formatter's type name.
func (f *TextFormatter) Name() string {
	return "text"
}

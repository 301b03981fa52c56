package format

import (
	"encoding/json"
	"fmt"
	"time"

	"logvault/src/internal/config"
	"logvault/src/internal/core"

	"github.com/lixenwraith/log"
)

// JSONFormatter produces one JSON object per event with the wire fields
// timestamp, level, category, message, and data.
type JSONFormatter struct {
	config config.FormatConfig
	logger *log.Logger
}

// NewJSONFormatter creates a JSON formatter from configuration options.
func NewJSONFormatter(cfg config.FormatConfig, logger *log.Logger) *JSONFormatter {
	return &JSONFormatter{
		config: cfg,
		logger: logger,
	}
}

// Format transforms a single event into a newline-terminated JSON record.
func (f *JSONFormatter) Format(ev core.Event) ([]byte, error) {
	output := map[string]any{
		"timestamp": ev.Time.Format(time.RFC3339Nano),
		"level":     ev.Level.String(),
		"category":  ev.Category.String(),
		"message":   ev.Message,
	}

	if len(ev.Fields) > 0 {
		// Fields were validated producer-side; a corrupt payload here means
		// the record was damaged in transit and is worth surfacing. The raw
		// bytes are embedded verbatim so numeric values keep full precision.
		if !json.Valid(ev.Fields) {
			return nil, fmt.Errorf("corrupt structured fields: %s", ev.Fields)
		}
		output["data"] = ev.Fields
	}

	var result []byte
	var err error
	if f.config.Pretty {
		result, err = json.MarshalIndent(output, "", "  ")
	} else {
		result, err = json.Marshal(output)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return append(result, '\n'), nil
}

// Name returns the formatter's type name.
func (f *JSONFormatter) Name() string {
	return "json"
}

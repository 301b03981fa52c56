package format

import (
	"fmt"

	"logvault/src/internal/config"
	"logvault/src/internal/core"

	"github.com/lixenwraith/log"
)

// Formatter transforms an Event into the bytes a sink writes. Every
// formatter emits exactly one newline-terminated record per event so a
// torn write can corrupt at most the final line of a sink.
type Formatter interface {
	// Format renders a single event, newline-terminated
	Format(ev core.Event) ([]byte, error)

	// Name returns the formatter type name
	Name() string
}

// New creates a Formatter from configuration. An empty name defaults to JSON.
func New(cfg config.FormatConfig, logger *log.Logger) (Formatter, error) {
	name := cfg.Name
	if name == "" {
		name = "json"
	}

	switch name {
	case "json":
		return NewJSONFormatter(cfg, logger), nil
	case "text":
		return NewTextFormatter(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown formatter type: %s", name)
	}
}

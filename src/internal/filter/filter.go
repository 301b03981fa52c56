package filter

import (
	"fmt"
	"regexp"
	"sync/atomic"

	"logvault/src/internal/config"
	"logvault/src/internal/core"

	"github.com/lixenwraith/log"
)

// Filter applies a minimum-level gate and regex-based matching to events.
type Filter struct {
	config   config.FilterConfig
	patterns []*regexp.Regexp
	minLevel core.Level
	hasLevel bool
	logger   *log.Logger

	// Statistics
	totalProcessed atomic.Uint64
	totalMatched   atomic.Uint64
	totalDropped   atomic.Uint64
}

// New creates a new filter from configuration
func New(cfg config.FilterConfig, logger *log.Logger) (*Filter, error) {
	// Set defaults
	if cfg.Type == "" {
		cfg.Type = config.FilterTypeInclude
	}
	if cfg.Logic == "" {
		cfg.Logic = config.FilterLogicOr
	}

	f := &Filter{
		config:   cfg,
		patterns: make([]*regexp.Regexp, 0, len(cfg.Patterns)),
		logger:   logger,
	}

	if cfg.MinLevel != "" {
		level, err := core.ParseLevel(cfg.MinLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid min_level: %w", err)
		}
		f.minLevel = level
		f.hasLevel = true
	}

	// Compile patterns
	for i, pattern := range cfg.Patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern[%d] '%s': %w", i, pattern, err)
		}
		f.patterns = append(f.patterns, re)
	}

	logger.Debug("msg", "Filter created",
		"component", "filter",
		"type", cfg.Type,
		"logic", cfg.Logic,
		"min_level", cfg.MinLevel,
		"pattern_count", len(cfg.Patterns))

	return f, nil
}

// Apply checks if an event should be passed through
func (f *Filter) Apply(ev core.Event) bool {
	f.totalProcessed.Add(1)

	if f.hasLevel && ev.Level < f.minLevel {
		f.totalDropped.Add(1)
		return false
	}

	// No patterns means the level gate alone decides
	if len(f.patterns) == 0 {
		return true
	}

	// Match against the fields a producer controls
	text := ev.Message
	if ev.Category != "" {
		text = ev.Category.String() + " " + text
	}

	matched := f.matches(text)
	if matched {
		f.totalMatched.Add(1)
	}

	shouldPass := false
	switch f.config.Type {
	case config.FilterTypeInclude:
		shouldPass = matched
	case config.FilterTypeExclude:
		shouldPass = !matched
	}

	if !shouldPass {
		f.totalDropped.Add(1)
	}

	return shouldPass
}

// matches checks if text matches the patterns according to the logic
func (f *Filter) matches(text string) bool {
	switch f.config.Logic {
	case config.FilterLogicOr:
		for _, re := range f.patterns {
			if re.MatchString(text) {
				return true
			}
		}
		return false

	case config.FilterLogicAnd:
		for _, re := range f.patterns {
			if !re.MatchString(text) {
				return false
			}
		}
		return true

	default:
		return false
	}
}

// Stats returns filter counters: processed, matched, dropped.
func (f *Filter) Stats() (processed, matched, dropped uint64) {
	return f.totalProcessed.Load(), f.totalMatched.Load(), f.totalDropped.Load()
}

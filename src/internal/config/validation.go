package config

import (
	"fmt"
	"strings"

	"logvault/src/internal/core"
)

// Validate checks the configuration for inconsistencies before any component
// is built from it.
func (c *Config) Validate() error {
	if c.Queue.Capacity < 1 {
		return fmt.Errorf("queue capacity must be positive: %d", c.Queue.Capacity)
	}

	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry max attempts must be positive: %d", c.Retry.MaxAttempts)
	}
	if c.Retry.BackoffBaseMs < 0 {
		return fmt.Errorf("retry backoff base must not be negative: %d ms", c.Retry.BackoffBaseMs)
	}
	if c.Retry.BackoffMaxMs > 0 && c.Retry.BackoffMaxMs < c.Retry.BackoffBaseMs {
		return fmt.Errorf("retry backoff max %d ms below base %d ms",
			c.Retry.BackoffMaxMs, c.Retry.BackoffBaseMs)
	}

	if c.RateLimit != nil {
		if c.RateLimit.EventsPerSecond <= 0 {
			return fmt.Errorf("rate limit events per second must be positive: %g",
				c.RateLimit.EventsPerSecond)
		}
		if c.RateLimit.Burst < 1 {
			return fmt.Errorf("rate limit burst must be positive: %d", c.RateLimit.Burst)
		}
	}

	if c.Console != nil {
		if err := validateConsole(c.Console); err != nil {
			return err
		}
	}
	if c.Memory != nil {
		if c.Memory.MaxEntries < 1 {
			return fmt.Errorf("memory sink max entries must be positive: %d", c.Memory.MaxEntries)
		}
		if err := validateFilters("memory", c.Memory.Filters); err != nil {
			return err
		}
	}
	if c.Archive != nil {
		if err := validateArchive(c.Archive); err != nil {
			return err
		}
	}

	return nil
}

func validateConsole(cfg *ConsoleConfig) error {
	validTargets := map[string]bool{
		"stdout": true, "stderr": true, "split": true, "": true,
	}
	if !validTargets[cfg.Target] {
		return fmt.Errorf("invalid console target: %s", cfg.Target)
	}
	if err := validateFormat("console", cfg.Format); err != nil {
		return err
	}
	return validateFilters("console", cfg.Filters)
}

func validateArchive(cfg *ArchiveConfig) error {
	switch cfg.Backend {
	case ArchiveBackendFile, "":
		if cfg.Directory == "" {
			return fmt.Errorf("archive file backend requires a directory")
		}
		if strings.Contains(cfg.Directory, "..") {
			return fmt.Errorf("archive directory contains directory traversal: %s", cfg.Directory)
		}
		if cfg.MaxSizeMB < 0 || cfg.MaxTotalSizeMB < 0 || cfg.MinDiskFreeMB < 0 {
			return fmt.Errorf("archive size limits must not be negative")
		}
		if cfg.RetentionHours < 0 {
			return fmt.Errorf("archive retention must not be negative: %g", cfg.RetentionHours)
		}
	case ArchiveBackendSQLite:
		if cfg.Path == "" {
			return fmt.Errorf("archive sqlite backend requires a path")
		}
	default:
		return fmt.Errorf("unknown archive backend: %s", cfg.Backend)
	}

	if err := validateFormat("archive", cfg.Format); err != nil {
		return err
	}
	return validateFilters("archive", cfg.Filters)
}

func validateFormat(section string, cfg FormatConfig) error {
	switch cfg.Name {
	case "", "json", "text":
		return nil
	default:
		return fmt.Errorf("%s: unknown format: %s", section, cfg.Name)
	}
}

func validateFilters(section string, filters []FilterConfig) error {
	for i, f := range filters {
		switch f.Type {
		case FilterTypeInclude, FilterTypeExclude, "":
		default:
			return fmt.Errorf("%s filter[%d]: invalid type: %s", section, i, f.Type)
		}
		switch f.Logic {
		case FilterLogicOr, FilterLogicAnd, "":
		default:
			return fmt.Errorf("%s filter[%d]: invalid logic: %s", section, i, f.Logic)
		}
		if f.MinLevel != "" {
			if _, err := core.ParseLevel(f.MinLevel); err != nil {
				return fmt.Errorf("%s filter[%d]: %w", section, i, err)
			}
		}
	}
	return nil
}

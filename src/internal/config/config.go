package config

// Config is the root configuration for a logvault pipeline.
type Config struct {
	Queue QueueConfig `toml:"queue"`
	Retry RetryConfig `toml:"retry"`

	// Optional emit-side rate limiter. Nil disables shedding; the default
	// overload behavior is backpressure on the queue.
	RateLimit *RateLimitConfig `toml:"rate_limit"`

	// Sinks. Nil sections are not built.
	Console *ConsoleConfig `toml:"console"`
	Memory  *MemoryConfig  `toml:"memory"`
	Archive *ArchiveConfig `toml:"archive"`
}

type QueueConfig struct {
	// Buffered capacity of the ingestion queue
	Capacity int `toml:"capacity"`
}

// RetryConfig bounds the consumer-side retry loop for failing sink writes.
type RetryConfig struct {
	// Total write attempts per event per sink, including the first
	MaxAttempts int `toml:"max_attempts"`

	// Delay before the first retry; doubles per attempt
	BackoffBaseMs int64 `toml:"backoff_base_ms"`

	// Upper bound on a single backoff delay
	BackoffMaxMs int64 `toml:"backoff_max_ms"`
}

type RateLimitConfig struct {
	// Sustained events per second admitted to the queue
	EventsPerSecond float64 `toml:"events_per_second"`

	// Burst size above the sustained rate
	Burst int `toml:"burst"`
}

type ConsoleConfig struct {
	// Target for console output: "stdout", "stderr", "split"
	// "split": warn/error to stderr, everything else to stdout
	Target  string         `toml:"target"`
	Format  FormatConfig   `toml:"format"`
	Filters []FilterConfig `toml:"filters"`
}

type MemoryConfig struct {
	// Number of most-recent events retained
	MaxEntries int `toml:"max_entries"`

	Filters []FilterConfig `toml:"filters"`
}

// ArchiveConfig enables the durable archive sink.
type ArchiveConfig struct {
	// Backend: "file" (rotating newline-delimited JSON) or "sqlite"
	Backend string `toml:"backend"`

	// File backend settings
	Directory      string  `toml:"directory"`
	Name           string  `toml:"name"`
	MaxSizeMB      int64   `toml:"max_size_mb"`
	MaxTotalSizeMB int64   `toml:"max_total_size_mb"`
	RetentionHours float64 `toml:"retention_hours"`
	MinDiskFreeMB  int64   `toml:"min_disk_free_mb"`

	// SQLite backend settings
	Path string `toml:"path"`

	Format  FormatConfig   `toml:"format"`
	Filters []FilterConfig `toml:"filters"`
}

type FormatConfig struct {
	// Formatter name: "json" or "text". Empty defaults to "json".
	Name   string `toml:"name"`
	Pretty bool   `toml:"pretty"`
}

// Filter type determines whether matches pass or are dropped
const (
	FilterTypeInclude = "include"
	FilterTypeExclude = "exclude"
)

// Filter logic determines how multiple patterns combine
const (
	FilterLogicOr  = "or"
	FilterLogicAnd = "and"
)

type FilterConfig struct {
	Type     string   `toml:"type"`
	Logic    string   `toml:"logic"`
	Patterns []string `toml:"patterns"`

	// Minimum level passed through; empty admits all levels
	MinLevel string `toml:"min_level"`
}

const (
	ArchiveBackendFile   = "file"
	ArchiveBackendSQLite = "sqlite"
)

// Default returns the baseline configuration: a backpressured queue, three
// write attempts with doubling backoff, and a split console sink.
func Default() *Config {
	return &Config{
		Queue: QueueConfig{
			Capacity: 1024,
		},
		Retry: RetryConfig{
			MaxAttempts:   3,
			BackoffBaseMs: 50,
			BackoffMaxMs:  2000,
		},
		Console: &ConsoleConfig{
			Target: "split",
			Format: FormatConfig{Name: "text"},
		},
	}
}

// DefaultArchive returns archive settings matching the file backend defaults.
func DefaultArchive() *ArchiveConfig {
	return &ArchiveConfig{
		Backend:        ArchiveBackendFile,
		Directory:      "./log",
		Name:           "logvault",
		MaxSizeMB:      100,
		MaxTotalSizeMB: 1000,
		RetentionHours: 168, // 7 days
		Format:         FormatConfig{Name: "json"},
	}
}

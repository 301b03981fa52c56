package logvault

import (
	"logvault/src/internal/config"
)

// Configuration types re-exported so callers outside the module can build
// and load pipeline configuration.
type (
	Config          = config.Config
	QueueConfig     = config.QueueConfig
	RetryConfig     = config.RetryConfig
	RateLimitConfig = config.RateLimitConfig
	ConsoleConfig   = config.ConsoleConfig
	MemoryConfig    = config.MemoryConfig
	ArchiveConfig   = config.ArchiveConfig
	FormatConfig    = config.FormatConfig
	FilterConfig    = config.FilterConfig
)

// DefaultConfig returns the baseline configuration: a backpressured queue
// and a split console sink.
func DefaultConfig() *Config {
	return config.Default()
}

// DefaultArchiveConfig returns archive settings for the rotating file
// backend.
func DefaultArchiveConfig() *ArchiveConfig {
	return config.DefaultArchive()
}

// LoadConfig builds configuration from defaults, an optional TOML file,
// and LOGVAULT_-prefixed environment variables.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

package config

import (
	"fmt"
	"strings"

	lconfig "github.com/lixenwraith/config"
)

// Load builds the configuration from defaults, an optional TOML file, and
// LOGVAULT_-prefixed environment variables, in ascending precedence.
// A missing file is not an error; defaults and environment still apply.
func Load(path string) (*Config, error) {
	cfg, err := lconfig.NewBuilder().
		WithDefaults(Default()).
		WithEnvPrefix("LOGVAULT_").
		WithFile(path).
		WithEnvTransform(envTransform).
		WithSources(
			lconfig.SourceEnv,
			lconfig.SourceFile,
			lconfig.SourceDefault,
		).
		Build()

	if err != nil {
		if !strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	finalConfig := &Config{}
	if err := cfg.Scan(finalConfig, ""); err != nil {
		return nil, fmt.Errorf("failed to scan config: %w", err)
	}

	return finalConfig, finalConfig.Validate()
}

func envTransform(path string) string {
	env := strings.ReplaceAll(path, ".", "_")
	env = strings.ToUpper(env)
	return "LOGVAULT_" + env
}

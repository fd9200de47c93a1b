package modelgate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads and parses a config file from the given path.
// Supported formats: JSON (.json), YAML (.yaml, .yml).
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension %q: use .json, .yaml, or .yml", ext)
	}

	return &cfg, nil
}

// ValidateConfig validates a Config for correctness. Call it after env
// overrides have been applied so SECRET_NAME can satisfy the secret name
// requirement.
func ValidateConfig(cfg Config) error {
	if cfg.SecretName == "" {
		return fmt.Errorf("secret_name is required (set it in config or via SECRET_NAME)")
	}

	switch cfg.RequestLog.Driver {
	case "", "sqlite":
	case "postgres":
		if cfg.RequestLog.DSN == "" {
			return fmt.Errorf("request_log: postgres driver requires a dsn")
		}
	default:
		return fmt.Errorf("request_log: unknown driver %q: use sqlite or postgres", cfg.RequestLog.Driver)
	}

	return nil
}

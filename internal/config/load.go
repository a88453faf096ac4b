package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFilename is the file name written by the init wizard.
const DefaultConfigFilename = "langflow-bootstrap.yaml"

// Load builds the run configuration. Defaults are overlaid with the YAML file
// at path (skipped when path is empty) and then with the environment.
// The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := mergeFile(cfg, path); err != nil {
			return nil, err
		}
	}

	ApplyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// mergeFile decodes the YAML file at path on top of cfg. Keys missing from
// the file keep their current values.
func mergeFile(cfg *Config, path string) error {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	return mergeBytes(cfg, data)
}

func mergeBytes(cfg *Config, data []byte) error {
	tracked := cfg.TrackedFlows
	cfg.TrackedFlows = nil

	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg.TrackedFlows = tracked
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.TrackedFlows == nil {
		cfg.TrackedFlows = tracked
	}
	return nil
}

// SaveFile writes the file-backed part of cfg to path.
func SaveFile(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

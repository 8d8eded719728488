package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Source names where a configuration was loaded from.
type Source string

const (
	SourceEmbedded Source = "embedded"
	SourceBuiltin  Source = "builtin"
)

// LoadMemory loads the memory game configuration.
// Search order: customPath -> ~/.memory/configs/memory.yaml -> ./configs/memory.yaml -> embedded default
func LoadMemory(customPath string) (MemoryConfig, error) {
	cfg, _, err := LoadMemoryWithSource(customPath)
	return cfg, err
}

// LoadMemoryWithSource is LoadMemory that also reports which file was used.
// Files are decoded over the defaults, so a file only needs the keys it changes.
func LoadMemoryWithSource(customPath string) (MemoryConfig, Source, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return MemoryConfig{}, "", fmt.Errorf("config: read %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return MemoryConfig{}, "", fmt.Errorf("config: parse %s: %w", customPath, err)
		}
		return cfg, Source(customPath), nil
	}

	// Try user config directory
	if path := userConfigPath("memory.yaml"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			if cfg, err := parse(data); err == nil {
				return cfg, Source(path), nil
			}
		}
	}

	// Try local configs directory
	local := filepath.Join("configs", "memory.yaml")
	if data, err := os.ReadFile(local); err == nil {
		if cfg, err := parse(data); err == nil {
			return cfg, Source(local), nil
		}
	}

	// Use embedded default YAML
	cfg, err := parse(defaultMemoryYAML)
	if err != nil {
		return DefaultMemoryConfig(), SourceBuiltin, nil // Fallback to hardcoded if embed fails
	}
	return cfg, SourceEmbedded, nil
}

func parse(data []byte) (MemoryConfig, error) {
	cfg := DefaultMemoryConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return MemoryConfig{}, err
	}
	return cfg, nil
}

// Marshal renders a configuration as YAML.
func Marshal(cfg MemoryConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: marshal: %w", err)
	}
	return data, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".memory", "configs", filename)
}

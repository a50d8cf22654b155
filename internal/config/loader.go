package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the ruleset for a game.
// Search order: customPath -> ~/.idle/configs/<id>.yaml -> ./configs/<id>.yaml -> embedded default.
// An explicit customPath must exist and parse; the other locations are skipped
// when missing or unreadable. The result is validated.
func Load(id, customPath string) (GameConfig, error) {
	if customPath != "" {
		cfg, err := LoadFile(customPath)
		if err != nil {
			return GameConfig{}, err
		}
		if cfg.ID == "" {
			cfg.ID = id
		}
		return finish(cfg)
	}

	candidates := []string{userConfigPath(id + ".yaml"), filepath.Join("configs", id+".yaml")}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg GameConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			continue
		}
		if cfg.ID == "" {
			cfg.ID = id
		}
		return finish(cfg)
	}

	cfg, err := Embedded(id)
	if err != nil {
		return GameConfig{}, err
	}
	return cfg, nil
}

// LoadFile parses a ruleset from an explicit path without validating it.
func LoadFile(path string) (GameConfig, error) {
	var cfg GameConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

func finish(cfg GameConfig) (GameConfig, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return GameConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns ~/.idle/configs/<filename>, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".idle", "configs", filename)
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the mode configuration.
// Search order: customPath -> ~/.poppy/modes.yaml -> ./configs/modes.yaml -> embedded default.
// Modes missing from a file are taken from the defaults, so a file may
// override a single mode.
func Load(customPath string) (ModesConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return ModesConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return ModesConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("modes.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "modes.yaml")); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	var cfg ModesConfig
	if err := yaml.Unmarshal(defaultModesYAML, &cfg); err != nil || len(cfg.Modes) == 0 {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes modes YAML, fills in modes it does not mention from the
// defaults and validates every mode.
func Parse(data []byte) (ModesConfig, error) {
	var cfg ModesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ModesConfig{}, err
	}
	if cfg.Modes == nil {
		cfg.Modes = make(map[string]ModeConfig)
	}
	for id, m := range Default().Modes {
		if _, ok := cfg.Modes[id]; !ok {
			cfg.Modes[id] = m
		}
	}
	for _, id := range cfg.IDs() {
		if err := cfg.Modes[id].Validate(); err != nil {
			return ModesConfig{}, fmt.Errorf("mode %s: %w", id, err)
		}
	}
	return cfg, nil
}

// LoadMode loads the configuration and returns a single mode.
func LoadMode(customPath, id string) (ModeConfig, error) {
	cfg, err := Load(customPath)
	if err != nil {
		return ModeConfig{}, err
	}
	return cfg.Mode(id)
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".poppy", filename)
}

// ApplyPreset modifies the mode based on a difficulty preset.
func ApplyPreset(cfg *ModeConfig, preset DifficultyPreset) {
	if preset == "" {
		return
	}
	if IsFixedPreset(preset) {
		cfg.Difficulty.Enabled = false
		cfg.Difficulty.InitialLevel = 0
		return
	}
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)

	// Lives-based modes get more room on easy and less on hard
	if cfg.Lives > 0 {
		switch preset {
		case DifficultyEasy:
			cfg.Lives = 5
		case DifficultyHard:
			cfg.Lives = 2
		}
	}
}

package config

import (
	_ "embed"
)

//go:embed defaults/modes.yaml
var defaultModesYAML []byte

// Mode IDs shipped with Poppy.
const (
	ModeClassic       = "classic"
	ModeBoppy         = "boppy"
	ModeTappy         = "tappy"
	ModeDaily         = "daily"
	ModeCopy          = "copy"
	ModeCopyChallenge = "copy_challenge"
)

// Default returns the built-in configuration of every mode.
func Default() ModesConfig {
	return ModesConfig{
		Modes: map[string]ModeConfig{
			ModeClassic: {
				Title:            "Classic",
				Kind:             KindRound,
				BoardSize:        10,
				ActiveCount:      3,
				Countdown:        3,
				Duration:         30,
				Durations:        []int{15, 30, 60},
				UpdateIntervalMs: 50,
				ScoreIncrement:   1,
			},
			ModeBoppy: {
				Title:            "Boppy",
				Kind:             KindRound,
				BoardSize:        10,
				ActiveCount:      1,
				Countdown:        3,
				Duration:         30,
				Durations:        []int{15, 30, 60},
				UpdateIntervalMs: 50,
				ScoreIncrement:   1,
				Difficulty: DifficultyConfig{
					Enabled:      true,
					InitialLevel: 0.0,
					Progression:  ProgressionConfig{Type: "score", MaxAt: 40},
					Scaling:      ScalingConfig{ActiveGrowth: 3},
				},
			},
			ModeTappy: {
				Title:            "Tappy",
				Kind:             KindRound,
				BoardSize:        10,
				ActiveCount:      2,
				Countdown:        3,
				Duration:         45,
				Durations:        []int{30, 45, 60},
				UpdateIntervalMs: 50,
				ScoreIncrement:   1,
				Lives:            3,
			},
			ModeDaily: {
				Title:            "Daily Challenge",
				Kind:             KindRound,
				BoardSize:        10,
				ActiveCount:      3,
				Countdown:        3,
				Duration:         30,
				UpdateIntervalMs: 50,
				ScoreIncrement:   1,
				Daily:            true,
			},
			ModeCopy: {
				Title:       "Copy",
				Kind:        KindCopy,
				BoardSize:   4,
				Countdown:   3,
				StepDelayMs: 700,
				Difficulty: DifficultyConfig{
					Enabled:     true,
					Progression: ProgressionConfig{Type: "rounds", MaxAt: 20},
					Scaling:     ScalingConfig{StepDelayReductionMs: 400},
				},
			},
			ModeCopyChallenge: {
				Title:       "Copy Challenge",
				Kind:        KindCopy,
				BoardSize:   10,
				Countdown:   3,
				StepDelayMs: 600,
				Difficulty: DifficultyConfig{
					Enabled:     true,
					Progression: ProgressionConfig{Type: "rounds", MaxAt: 15},
					Scaling:     ScalingConfig{StepDelayReductionMs: 400},
				},
			},
		},
	}
}

// GetDefaultYAML returns the embedded default modes.yaml.
func GetDefaultYAML() []byte {
	return defaultModesYAML
}

// Package config provides YAML-based mode configuration loading and
// difficulty management for Poppy.
package config

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrUnknownMode is returned when a mode ID has no configuration.
var ErrUnknownMode = errors.New("config: unknown mode")

// Kind selects which engine runs a mode.
type Kind string

const (
	KindRound Kind = "round" // timed board of lit slots
	KindCopy  Kind = "copy"  // growing sequence to replay
)

// ModesConfig is the top-level shape of modes.yaml.
type ModesConfig struct {
	Modes map[string]ModeConfig `yaml:"modes"`
}

// ModeConfig contains everything an engine needs to run one mode.
type ModeConfig struct {
	Title            string           `yaml:"title"`
	Kind             Kind             `yaml:"kind"`
	BoardSize        int              `yaml:"board_size"`
	ActiveCount      int              `yaml:"active_count"`
	Countdown        int              `yaml:"countdown"`
	Duration         int              `yaml:"duration"`  // seconds
	Durations        []int            `yaml:"durations"` // choices offered while idle
	UpdateIntervalMs int              `yaml:"update_interval_ms"`
	ScoreIncrement   int              `yaml:"score_increment"`
	Lives            int              `yaml:"lives"` // 0 = first mistake ends the round
	StepDelayMs      int              `yaml:"step_delay_ms"`
	Daily            bool             `yaml:"daily"`
	Difficulty       DifficultyConfig `yaml:"difficulty"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases during a round.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "rounds", or "none"
	MaxAt int    `yaml:"max_at"` // progress at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	ActiveGrowth         int `yaml:"active_growth"`           // extra lit slots at max difficulty
	StepDelayReductionMs int `yaml:"step_delay_reduction_ms"` // presentation speed-up at max difficulty
}

// RoundDuration returns the configured round length.
func (m ModeConfig) RoundDuration() time.Duration {
	return time.Duration(m.Duration) * time.Second
}

// UpdateInterval returns the round timer cadence, or zero for the clock default.
func (m ModeConfig) UpdateInterval() time.Duration {
	return time.Duration(m.UpdateIntervalMs) * time.Millisecond
}

// StepDelay returns the base delay between presented steps.
func (m ModeConfig) StepDelay() time.Duration {
	return time.Duration(m.StepDelayMs) * time.Millisecond
}

// Timed reports whether rounds of this mode run against a timer.
func (m ModeConfig) Timed() bool {
	return m.Kind == KindRound
}

// AllowsDuration reports whether seconds is an acceptable round length.
// With no explicit choices any positive length is allowed.
func (m ModeConfig) AllowsDuration(seconds int) bool {
	if seconds <= 0 {
		return false
	}
	if len(m.Durations) == 0 {
		return true
	}
	for _, d := range m.Durations {
		if d == seconds {
			return true
		}
	}
	return false
}

// NextDuration returns the choice after current, wrapping around.
// It returns current unchanged when the mode offers no choices.
func (m ModeConfig) NextDuration(current int) int {
	if m.Daily || len(m.Durations) == 0 {
		return current
	}
	for i, d := range m.Durations {
		if d == current {
			return m.Durations[(i+1)%len(m.Durations)]
		}
	}
	return m.Durations[0]
}

// Validate checks that the mode can be run.
func (m ModeConfig) Validate() error {
	switch m.Kind {
	case KindRound, KindCopy:
	default:
		return fmt.Errorf("config: unknown kind %q", m.Kind)
	}
	if m.BoardSize < 1 {
		return fmt.Errorf("config: board_size must be positive, got %d", m.BoardSize)
	}
	if m.Countdown < 0 {
		return fmt.Errorf("config: countdown must not be negative, got %d", m.Countdown)
	}
	if m.Kind == KindCopy {
		return nil
	}
	if m.ActiveCount < 1 || m.ActiveCount > m.BoardSize {
		return fmt.Errorf("config: active_count must be in [1, %d], got %d", m.BoardSize, m.ActiveCount)
	}
	if m.Duration <= 0 {
		return fmt.Errorf("config: duration must be positive, got %d", m.Duration)
	}
	if m.ScoreIncrement < 1 {
		return fmt.Errorf("config: score_increment must be positive, got %d", m.ScoreIncrement)
	}
	if m.Lives < 0 {
		return fmt.Errorf("config: lives must not be negative, got %d", m.Lives)
	}
	return nil
}

// Mode returns the configuration for one mode.
func (c ModesConfig) Mode(id string) (ModeConfig, error) {
	m, ok := c.Modes[id]
	if !ok {
		return ModeConfig{}, fmt.Errorf("%w %q", ErrUnknownMode, id)
	}
	return m, nil
}

// IDs returns the configured mode IDs in sorted order.
func (c ModesConfig) IDs() []string {
	ids := make([]string, 0, len(c.Modes))
	for id := range c.Modes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a flag value into a preset.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (use easy, normal, hard or fixed)", s)
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

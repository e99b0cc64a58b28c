package config

import (
	"math"
	"time"
)

// MinStepDelay is the fastest a sequence is ever presented.
const MinStepDelay = 150 * time.Millisecond

// DifficultyManager maps in-round progress to game parameters.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// SetInitialLevel overrides the initial difficulty level (0.0 to 1.0).
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clampF(level, 0.0, 1.0)
}

// SetEnabled enables or disables difficulty progression.
func (d *DifficultyManager) SetEnabled(enabled bool) {
	d.cfg.Enabled = enabled
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0). progress is the
// score for "score" progression and completed rounds for "rounds".
func (d *DifficultyManager) Level(progress int) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	switch d.cfg.Progression.Type {
	case "score", "rounds":
	default:
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}
	p := clampF(float64(progress)/maxAt, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + p*(1.0-d.initialLevel)
}

// ActiveCount returns how many slots should be lit at once. It grows from
// base by up to active_growth and never exceeds boardSize.
func (d *DifficultyManager) ActiveCount(base, boardSize, progress int) int {
	level := d.Level(progress)
	n := base + int(level*float64(d.cfg.Scaling.ActiveGrowth))
	if n > boardSize {
		n = boardSize
	}
	if n < 1 {
		n = 1
	}
	return n
}

// StepDelay returns the delay between presented steps, shrinking with
// difficulty down to MinStepDelay.
func (d *DifficultyManager) StepDelay(base time.Duration, progress int) time.Duration {
	level := d.Level(progress)
	reduction := time.Duration(level*float64(d.cfg.Scaling.StepDelayReductionMs)) * time.Millisecond
	result := base - reduction
	if result < MinStepDelay {
		result = MinStepDelay
	}
	return result
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}

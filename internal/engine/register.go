package engine

import (
	"github.com/vovakirdan/poppy/internal/config"
	"github.com/vovakirdan/poppy/internal/registry"
)

func init() {
	defaults := config.Default()
	for _, id := range defaults.IDs() {
		registry.Register(id, defaults.Modes[id].Title, New)
	}
}

// New builds the engine matching cfg.Kind. It is the registry factory for
// every built-in mode.
func New(id string, cfg config.ModeConfig, deps registry.Deps) registry.Game {
	opts := []Option{
		WithReporters(deps.Reporters...),
		WithCues(deps.Cues),
		WithLogger(deps.Logger),
		WithClock(deps.Clock),
		WithSeed(deps.Seed),
		WithDuration(deps.Duration),
	}
	if cfg.Kind == config.KindCopy {
		return NewCopy(id, cfg, opts...)
	}
	return NewRound(id, cfg, opts...)
}

var (
	_ registry.Game = (*RoundEngine)(nil)
	_ registry.Game = (*CopyEngine)(nil)
)

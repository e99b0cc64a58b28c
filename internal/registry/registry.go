// Package registry provides a global registry for mode factories.
// Engines register their modes in init() functions, allowing the platform
// to discover and instantiate modes without hardcoded dependencies.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/poppy/internal/clock"
	"github.com/vovakirdan/poppy/internal/config"
	"github.com/vovakirdan/poppy/internal/core"
)

// ErrUnknownMode is returned by Create for IDs nobody registered.
var ErrUnknownMode = errors.New("registry: unknown mode")

// Game is the command surface of a running mode.
// Engines contain pure logic with no external dependencies (especially no
// Bubble Tea). The platform maps keys to commands and renders snapshots.
type Game interface {
	// ID returns the mode identifier (e.g., "classic", "copy").
	// Used for CLI commands and score storage.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Config returns the configuration the mode was built with.
	Config() config.ModeConfig

	// Start begins a new round from idle or finished.
	Start()

	// Tap resolves a tap on a board position.
	Tap(p core.Position)

	// ConfirmClear re-seeds a fully popped board.
	ConfirmClear()

	// Dismiss returns a finished round to idle, keeping the score.
	Dismiss()

	// ChangeDuration sets the round length for future rounds while idle.
	ChangeDuration(seconds int)

	// Snapshot returns the current observable state.
	Snapshot() core.Snapshot

	// Subscribe delivers a snapshot after every state change, starting with
	// the current one. Slow readers lose the oldest snapshots.
	Subscribe() (<-chan core.Snapshot, func())

	// Close stops the clock and waits for pending score reports.
	Close()
}

// Deps are the collaborators handed to a mode at construction.
type Deps struct {
	Reporters []core.ScoreReporter
	Cues      core.CueSink
	Logger    *log.Logger
	Clock     clock.Clock // nil for wall clock
	Seed      int64       // 0 = time based
	Duration  int         // persisted round length in seconds, 0 = configured default
}

// ModeInfo contains metadata about a registered mode.
type ModeInfo struct {
	ID    string
	Title string
}

// Factory creates a new instance of a mode.
type Factory func(id string, cfg config.ModeConfig, deps Deps) Game

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a mode factory to the registry.
// Typically called from an engine's init() function.
// Panics if a mode with the same ID is already registered.
func Register(id, title string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: mode %q already registered", id))
	}

	factories[id] = f
	titles[id] = title
}

// List returns information about all registered modes, sorted by ID.
func List() []ModeInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]ModeInfo, 0, len(factories))
	for id := range factories {
		result = append(result, ModeInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a mode by its ID.
// Returns an error wrapping ErrUnknownMode if the ID is not registered, or
// the validation error if cfg cannot be run.
func Create(id string, cfg config.ModeConfig, deps Deps) (Game, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownMode, id)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("registry: mode %q: %w", id, err)
	}

	return f(id, cfg, deps), nil
}

// Exists checks if a mode with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}

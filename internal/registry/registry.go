// Package registry provides a global registry for game factories.
// Games register themselves in init() functions, so the platform can list and
// start them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vovakirdan/tui-idle/internal/config"
	"github.com/vovakirdan/tui-idle/internal/core"
)

// Game is the interface every idle game implements.
// Games are pure simulation with no terminal dependencies; the platform maps
// input, drives the clock and renders.
type Game interface {
	// ID returns a unique identifier used by the CLI and storage (e.g. "garden").
	ID() string

	// Title returns a human-readable name.
	Title() string

	// Reset starts a fresh run.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one fixed tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current state into a pre-cleared screen.
	Render(dst *core.Screen)

	// State returns the current status.
	State() core.GameState

	// Snapshot captures the run for saving.
	Snapshot() core.Snapshot

	// Restore resumes a saved run. It fails if the snapshot belongs to another game.
	Restore(s core.Snapshot) error

	// Advance credits production for time spent away from the game.
	Advance(elapsed time.Duration) core.OfflineReport
}

// Configurable is implemented by games whose ruleset can be replaced before Reset,
// for example with a user override file or a pace preset applied.
type Configurable interface {
	Configure(cfg config.GameConfig) error
}

// GameInfo contains metadata about a registered game.
type GameInfo struct {
	ID    string
	Title string
}

// Factory creates a new game instance.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a game factory. It panics if the ID is already taken.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	factories[id] = f
	titles[id] = f().Title()
}

// List returns all registered games sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{ID: id, Title: titles[id]})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Create instantiates a game by ID.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return f(), nil
}

// Exists reports whether a game with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}

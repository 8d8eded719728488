// Package registry provides a global registry for game mode factories.
// Modes register themselves in init() functions, so the platform can list
// and instantiate them without importing a concrete game.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/memory-match/internal/core"
)

// Game is the interface every playable mode implements.
// Games hold pure logic (no Bubble Tea); the platform maps keys to actions,
// drives the clock and paints the screen buffer.
type Game interface {
	// ID returns the mode identifier (e.g. "memory", "memory_triples").
	// Used for CLI commands and score storage.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset deals a new game. It fails only when the game's configuration
	// cannot produce a grid, in which case the previous state is kept.
	Reset(cfg core.RuntimeConfig) error

	// Step advances the game by one tick, applying the frame's actions in order.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current state into the pre-cleared screen buffer.
	Render(dst *core.Screen)

	// State returns score, combo and the game over / paused flags.
	State() core.GameState
}

// Resumable is implemented by games whose progress can be saved and resumed.
type Resumable interface {
	// Checkpoint settles pending work and returns the encoded progress.
	Checkpoint() ([]byte, error)

	// Resume replaces the current game with previously checkpointed progress.
	Resume(data []byte) error

	// RunID identifies the current play-through. It changes on Reset and is
	// carried across Checkpoint/Resume.
	RunID() string
}

// GameInfo contains metadata about a registered mode.
type GameInfo struct {
	ID    string
	Title string
}

// Factory creates a new, not yet reset, game instance.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a mode factory to the registry.
// Panics if the ID is empty or already registered.
func Register(id, title string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if id == "" {
		panic("registry: empty game id")
	}
	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	factories[id] = f
	titles[id] = title
}

// List returns information about all registered modes, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{
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
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}

	return f(), nil
}

// Exists checks if a mode with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}

// Package memory adapts the match engine to the platform's game interface:
// cursor movement, input replay, flash messages and rendering.
package memory

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/memory-match/internal/config"
	"github.com/vovakirdan/memory-match/internal/core"
	"github.com/vovakirdan/memory-match/internal/games/memory/engine"
	"github.com/vovakirdan/memory-match/internal/registry"
)

// Mode identifiers, also used as score table keys.
const (
	ModeClassic = "memory"
	ModeTriples = "memory_triples"
)

const flashDuration = 1200 * time.Millisecond

// ErrNotStarted is returned when a game is used before Reset.
var ErrNotStarted = errors.New("memory: game not started")

// Package-level settings shared by every instance created through the registry.
var (
	settingsMu sync.RWMutex
	baseConfig = config.DefaultMemoryConfig()
	gameLogger = log.New(io.Discard)
)

// SetConfig sets the configuration used by the next Reset.
func SetConfig(cfg config.MemoryConfig) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	baseConfig = cfg
}

// GetConfig returns the configuration set by SetConfig.
func GetConfig() config.MemoryConfig {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return baseConfig
}

// SetLogger sets the logger handed to new sessions.
func SetLogger(l *log.Logger) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	if l == nil {
		l = log.New(io.Discard)
	}
	gameLogger = l
}

func getLogger() *log.Logger {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return gameLogger
}

// ConfigFor returns the configuration a mode plays with. Triples mode forces
// groups of three and falls back to the triples preset grid when the
// configured grid does not split into triples.
func ConfigFor(mode string) config.MemoryConfig {
	cfg := GetConfig()
	if mode == ModeTriples && cfg.Grid.GroupSize != 3 {
		cfg.Grid.GroupSize = 3
		if (cfg.Grid.Rows*cfg.Grid.Cols)%3 != 0 {
			//nolint:errcheck // Known preset
			config.ApplyPreset(&cfg, config.DifficultyTriples)
		}
	}
	return cfg
}

// engineConfig converts the YAML configuration into engine terms.
func engineConfig(cfg config.MemoryConfig) engine.Config {
	return engine.Config{
		Rows:          cfg.Grid.Rows,
		Cols:          cfg.Grid.Cols,
		GroupSize:     cfg.Grid.GroupSize,
		Faces:         len(cfg.Faces.Symbols),
		BaseScore:     cfg.Scoring.BaseScore,
		RevealDelay:   time.Duration(cfg.Timing.RevealDelayMs) * time.Millisecond,
		MismatchDelay: time.Duration(cfg.Timing.MismatchDelayMs) * time.Millisecond,
	}
}

// Game is a memory match game bound to one mode.
type Game struct {
	mode    string
	cfg     config.MemoryConfig
	session *engine.Session
	logger  *log.Logger

	cursor  int
	tickDur time.Duration

	screenW int
	screenH int

	flash      string
	flashColor core.Color
	flashLeft  time.Duration

	paused   bool
	tooSmall bool
}

// New creates a classic pairs game.
func New() *Game {
	return &Game{mode: ModeClassic}
}

// NewTriples creates a game played in groups of three.
func NewTriples() *Game {
	return &Game{mode: ModeTriples}
}

func init() {
	registry.Register(ModeClassic, "Memory", func() registry.Game {
		return New()
	})
	registry.Register(ModeTriples, "Memory (Triples)", func() registry.Game {
		return NewTriples()
	})
}

// ID returns the mode identifier.
func (g *Game) ID() string {
	return g.mode
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeTriples {
		return "Memory (Triples)"
	}
	return "Memory"
}

// Reset deals a new game from the current package configuration.
// On error the previous game, if any, is kept.
func (g *Game) Reset(rc core.RuntimeConfig) error {
	cfg := ConfigFor(g.mode)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := getLogger().With("mode", g.mode)
	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}

	session, err := engine.NewSession(engineConfig(cfg),
		engine.WithSeed(rc.Seed),
		engine.WithLogger(logger),
		engine.WithSink(g.onEvent),
	)
	if err != nil {
		return fmt.Errorf("memory: %w", err)
	}

	g.cfg = cfg
	g.session = session
	g.logger = logger
	g.cursor = 0
	g.paused = false
	g.clearFlash()

	tickRate := rc.TickRate
	if tickRate <= 0 {
		tickRate = core.DefaultConfig().TickRate
	}
	g.tickDur = time.Second / time.Duration(tickRate)
	g.resize(rc.ScreenW, rc.ScreenH)
	return nil
}

// Session exposes the underlying engine session.
func (g *Game) Session() *engine.Session {
	return g.session
}

// Cursor returns the index of the card under the cursor.
func (g *Game) Cursor() int {
	return g.cursor
}

// Grid returns the board size, which may differ from the configuration after
// resuming a save of another size.
func (g *Game) Grid() (rows, cols int) {
	if g.session == nil {
		return g.cfg.Grid.Rows, g.cfg.Grid.Cols
	}
	return g.session.Rows(), g.session.Cols()
}

// Flash returns the current status message, if any.
func (g *Game) Flash() string {
	return g.flash
}

// Step applies the frame's actions in press order, then advances the
// engine clock by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.session == nil || g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	for _, a := range in.Actions {
		g.apply(a)
	}

	if !g.paused {
		g.session.Advance(g.tickDur)
		if g.flashLeft > 0 {
			g.flashLeft -= g.tickDur
			if g.flashLeft <= 0 {
				g.clearFlash()
			}
		}
	}

	return core.StepResult{State: g.State()}
}

func (g *Game) apply(a core.Action) {
	over := g.session.State() == engine.StateComplete

	switch a {
	case core.ActionPause:
		if !over {
			g.paused = !g.paused
		}
		return
	case core.ActionRestart:
		g.restart()
		return
	}

	if g.paused {
		return
	}

	switch a {
	case core.ActionUp:
		g.moveCursor(-1, 0)
	case core.ActionDown:
		g.moveCursor(1, 0)
	case core.ActionLeft:
		g.moveCursor(0, -1)
	case core.ActionRight:
		g.moveCursor(0, 1)
	case core.ActionFlip, core.ActionConfirm:
		if !over {
			g.flip()
		}
	}
}

func (g *Game) restart() {
	if err := g.session.StartNewGame(); err != nil {
		g.logger.Error("new game failed", "err", err)
		return
	}
	g.cursor = 0
	g.paused = false
	g.clearFlash()
}

// moveCursor moves by (dr, dc), wrapping around the grid edges.
func (g *Game) moveCursor(dr, dc int) {
	rows, cols := g.session.Rows(), g.session.Cols()
	r := core.Wrap(g.cursor/cols+dr, rows)
	c := core.Wrap(g.cursor%cols+dc, cols)
	g.cursor = r*cols + c
}

func (g *Game) flip() {
	if out := g.session.Flip(g.cursor); out != engine.FlipAccepted {
		g.logger.Debug("flip", "index", g.cursor, "outcome", out)
	}
}

func (g *Game) onEvent(ev engine.Event) {
	switch e := ev.(type) {
	case engine.Matched:
		msg := fmt.Sprintf("Match! +%d", e.Points)
		if e.Combo > 1 {
			msg = fmt.Sprintf("Combo x%d! +%d", e.Combo, e.Points)
		}
		g.setFlash(msg, core.ColorBrightGreen)
	case engine.Mismatch:
		g.setFlash("No match", core.ColorBrightRed)
	case engine.GameOver:
		g.setFlash(fmt.Sprintf("Cleared! Final score %d", e.FinalScore), core.ColorBrightYellow)
		g.flashLeft = 0 // Keep until restart
	}
}

func (g *Game) setFlash(msg string, c core.Color) {
	g.flash = msg
	g.flashColor = c
	g.flashLeft = flashDuration
}

func (g *Game) clearFlash() {
	g.flash = ""
	g.flashColor = core.ColorDefault
	g.flashLeft = 0
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.session == nil {
		return core.GameState{}
	}
	return core.GameState{
		Score:    g.session.Score(),
		Combo:    g.session.Combo(),
		GameOver: g.session.State() == engine.StateComplete,
		Paused:   g.paused || g.tooSmall,
	}
}

// RunID identifies the current run.
func (g *Game) RunID() string {
	if g.session == nil {
		return ""
	}
	return g.session.RunID()
}

// Checkpoint settles pending reveals and encodes the grid and score.
func (g *Game) Checkpoint() ([]byte, error) {
	if g.session == nil {
		return nil, ErrNotStarted
	}
	snap := g.session.Checkpoint()
	snap.Mode = g.mode
	snap.SavedAt = time.Now().UTC().Truncate(time.Second)
	return engine.EncodeSnapshot(snap)
}

// Resume replaces the current game with an encoded checkpoint.
// A checkpoint from another mode, or one that does not decode or validate,
// leaves the current game untouched.
func (g *Game) Resume(data []byte) error {
	if g.session == nil {
		return ErrNotStarted
	}
	snap, err := engine.DecodeSnapshot(data)
	if err != nil {
		return err
	}
	if snap.Mode != "" && snap.Mode != g.mode {
		return fmt.Errorf("memory: save belongs to mode %q: %w", snap.Mode, engine.ErrRestoreMismatch)
	}
	if err := g.session.Restore(snap); err != nil {
		return err
	}

	g.cfg = g.cfg.WithGrid(snap.Rows, snap.Cols)
	g.cursor = core.Clamp(g.cursor, 0, snap.Rows*snap.Cols-1)
	g.paused = false
	g.setFlash("Resumed", core.ColorCyan)
	g.resize(g.screenW, g.screenH)
	return nil
}

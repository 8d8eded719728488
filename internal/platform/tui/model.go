package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/memory-match/internal/core"
	"github.com/vovakirdan/memory-match/internal/registry"
	"github.com/vovakirdan/memory-match/internal/storage"
)

// Saves persists the progress of resumable games between runs.
type Saves interface {
	Save(gameID string, data []byte) error
	Load(gameID string) ([]byte, bool)
	Clear(gameID string) error
}

// Env bundles the persistence and logging shared by every screen.
// Nil fields disable the matching feature.
type Env struct {
	Store  *storage.Store
	Saves  Saves
	Logger *log.Logger
}

func (e Env) logger() *log.Logger {
	if e.Logger == nil {
		return log.New(io.Discard)
	}
	return e.Logger
}

// gridSized is implemented by games that report their board size for the
// score table.
type gridSized interface {
	Grid() (rows, cols int)
}

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	env        Env
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	help       help.Model
	inputFrame core.InputFrame
	gameState  core.GameState
	resumed    bool
	quitting   bool
	scoreSaved bool // Whether the score has been recorded for the current game over
}

// NewModel deals a game and, when resume is set, continues its saved progress.
func NewModel(game registry.Game, env Env, cfg core.RuntimeConfig, resume bool) (Model, error) {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	m := Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, gameHeight(cfg.ScreenH)),
		env:        env,
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		help:       help.New(),
		inputFrame: core.NewInputFrame(),
	}
	m.help.Width = cfg.ScreenW

	gameCfg := cfg
	gameCfg.ScreenH = gameHeight(cfg.ScreenH)
	if err := game.Reset(gameCfg); err != nil {
		return Model{}, err
	}

	if resume {
		m.resumed = m.resume()
	}
	m.gameState = game.State()
	// A resumed game that was already cleared has nothing left to record.
	m.scoreSaved = m.gameState.GameOver
	return m, nil
}

// gameHeight leaves one line below the game for the help bar.
func gameHeight(h int) int {
	if h > 1 {
		return h - 1
	}
	return h
}

func (m Model) resume() bool {
	r, ok := m.game.(registry.Resumable)
	if !ok || m.env.Saves == nil {
		return false
	}
	data, ok := m.env.Saves.Load(m.game.ID())
	if !ok {
		return false
	}
	if err := r.Resume(data); err != nil {
		m.env.logger().Warn("cannot resume saved game", "game", m.game.ID(), "err", err)
		return false
	}
	m.env.logger().Info("resumed saved game", "game", m.game.ID(), "run", r.RunID())
	return true
}

// Resumed reports whether the model continued a saved game.
func (m Model) Resumed() bool {
	return m.resumed
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keyMapper.Keys()
	switch {
	case key.Matches(msg, keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.saveProgress()
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// handleResize keeps the game running; the game re-checks its layout on render.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, gameHeight(msg.Height))
	m.help.Width = msg.Width
	return m, nil
}

// handleTick runs one game step with the keys pressed since the last tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if !m.gameState.GameOver {
		m.scoreSaved = false
	} else if !m.scoreSaved {
		m.recordGameOver()
		m.scoreSaved = true
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// recordGameOver stores the final score and drops the save slot.
func (m *Model) recordGameOver() {
	logger := m.env.logger()
	id := m.game.ID()

	if m.env.Store != nil && m.gameState.Score > 0 {
		var err error
		if r, ok := m.game.(registry.Resumable); ok {
			run := storage.RunResult{RunID: r.RunID(), GameID: id, Score: m.gameState.Score}
			if g, ok := m.game.(gridSized); ok {
				run.Rows, run.Cols = g.Grid()
			}
			_, err = m.env.Store.RecordRun(run)
		} else {
			_, err = m.env.Store.SaveScore(id, m.gameState.Score)
		}
		if err != nil {
			logger.Warn("cannot record score", "game", id, "err", err)
		}
	}

	if m.env.Saves != nil {
		if err := m.env.Saves.Clear(id); err != nil {
			logger.Warn("cannot clear save", "game", id, "err", err)
		}
	}
}

// saveProgress checkpoints an unfinished game before quitting.
func (m Model) saveProgress() {
	r, ok := m.game.(registry.Resumable)
	if !ok || m.env.Saves == nil || m.game.State().GameOver {
		return
	}

	logger := m.env.logger()
	data, err := r.Checkpoint()
	if err != nil {
		logger.Warn("cannot checkpoint game", "game", m.game.ID(), "err", err)
		return
	}
	if err := m.env.Saves.Save(m.game.ID(), data); err != nil {
		logger.Warn("cannot save game", "game", m.game.ID(), "err", err)
		return
	}
	logger.Info("game saved", "game", m.game.ID(), "run", r.RunID())
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".memory", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.env.logger().Warn("cannot create screenshot directory", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.env.logger().Warn("cannot write screenshot", "err", err)
	}
}

// View renders the game screen followed by the help bar.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keyMapper.Keys()))
}

// Run starts the Bubble Tea program for a game.
func Run(game registry.Game, env Env, cfg core.RuntimeConfig, resume bool) error {
	model, err := NewModel(game, env, cfg, resume)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err = p.Run()
	return err
}

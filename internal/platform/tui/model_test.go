package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/memory-match/internal/config"
	"github.com/vovakirdan/memory-match/internal/core"
	"github.com/vovakirdan/memory-match/internal/games/memory"
	"github.com/vovakirdan/memory-match/internal/storage"
)

// useGrid plays on an instant 2x2 pairs grid for the test.
func useGrid(t *testing.T) {
	t.Helper()
	prev := memory.GetConfig()
	cfg := config.DefaultMemoryConfig().WithGrid(2, 2)
	cfg.Timing = config.TimingConfig{}
	memory.SetConfig(cfg)
	t.Cleanup(func() { memory.SetConfig(prev) })
}

func testEnv(t *testing.T) Env {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return Env{Store: store, Saves: memory.NewSaveSlot(store, nil)}
}

func newTestModel(t *testing.T, env Env, resume bool) Model {
	t.Helper()
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 30, Seed: 3}
	m, err := NewModel(memory.New(), env, cfg, resume)
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	return m
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T", next)
	}
	return nm, cmd
}

func tick(t *testing.T, m Model) Model {
	t.Helper()
	m, _ = send(t, m, TickMsg(time.Now()))
	return m
}

// flipCard presses the keys that walk the cursor to target and flip it.
func flipCard(t *testing.T, m Model, target int) Model {
	t.Helper()
	g := m.game.(*memory.Game)
	rows, cols := g.Grid()
	cur := g.Cursor()

	for range core.Wrap(target/cols-cur/cols, rows) {
		m, _ = send(t, m, runeKey('s'))
	}
	for range core.Wrap(target%cols-cur%cols, cols) {
		m, _ = send(t, m, runeKey('d'))
	}
	m, _ = send(t, m, spaceKey)
	return tick(t, m)
}

func identityGroups(m Model) map[int][]int {
	out := make(map[int][]int)
	for i, c := range m.game.(*memory.Game).Session().Cards() {
		out[c.Identity] = append(out[c.Identity], i)
	}
	return out
}

func TestModelRecordsGameOverOnce(t *testing.T) {
	useGrid(t)
	env := testEnv(t)
	m := newTestModel(t, env, false)

	// Clearing the grid drops the save left by an earlier session.
	if err := env.Saves.Save(memory.ModeClassic, mustCheckpoint(t, m)); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	for _, group := range identityGroups(m) {
		for _, i := range group {
			m = flipCard(t, m, i)
		}
	}
	if !m.gameState.GameOver {
		t.Fatal("grid should be cleared")
	}
	m = tick(t, m)

	scores, err := env.Store.TopScores(memory.ModeClassic, 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("got %d scores, expected exactly 1", len(scores))
	}
	s := scores[0]
	if s.Score != 300 || s.Rows != 2 || s.Cols != 2 || s.RunID != m.game.(*memory.Game).RunID() {
		t.Errorf("recorded %+v", s)
	}

	if _, ok := env.Saves.Load(memory.ModeClassic); ok {
		t.Error("save should be cleared after the grid is cleared")
	}

	// New game re-arms recording.
	m, _ = send(t, m, runeKey('r'))
	m = tick(t, m)
	if m.gameState.GameOver || m.scoreSaved {
		t.Error("restart should start an unfinished game")
	}
}

func mustCheckpoint(t *testing.T, m Model) []byte {
	t.Helper()
	data, err := m.game.(*memory.Game).Checkpoint()
	if err != nil {
		t.Fatalf("Checkpoint() failed: %v", err)
	}
	return data
}

func TestModelQuitSavesAndResumes(t *testing.T) {
	useGrid(t)
	env := testEnv(t)
	m := newTestModel(t, env, false)

	groups := identityGroups(m)
	for _, i := range groups[0] {
		m = flipCard(t, m, i)
	}
	m = flipCard(t, m, groups[1][0])

	m, cmd := send(t, m, runeKey('q'))
	if cmd == nil || !m.quitting {
		t.Fatal("q should quit")
	}
	if m.View() != "" {
		t.Error("quitting model should render nothing")
	}
	if _, ok := env.Saves.Load(memory.ModeClassic); !ok {
		t.Fatal("quitting should save the game")
	}

	resumed := newTestModel(t, env, true)
	if !resumed.Resumed() {
		t.Fatal("model should resume the save")
	}
	g := resumed.game.(*memory.Game)
	if g.State().Score != 100 {
		t.Errorf("resumed score = %d, expected 100", g.State().Score)
	}
	if c, _ := g.Session().Card(groups[1][0]); !c.Revealed() {
		t.Error("revealed card should survive the round trip")
	}

	fresh := newTestModel(t, env, false)
	if fresh.Resumed() || fresh.game.State().Score != 0 {
		t.Error("resume=false should deal a new game")
	}
}

func TestModelResumeIgnoresCorruptSave(t *testing.T) {
	useGrid(t)
	env := testEnv(t)
	if err := env.Store.Put(memory.SaveKey, []byte("garbage")); err != nil {
		t.Fatal(err)
	}

	m := newTestModel(t, env, true)
	if m.Resumed() {
		t.Error("corrupt save should not resume")
	}
	if data, ok, _ := env.Store.Get(memory.SaveKey); !ok || string(data) != "garbage" {
		t.Error("corrupt save should be left in place")
	}
}

func TestModelView(t *testing.T) {
	useGrid(t)
	m := newTestModel(t, Env{}, false)
	m = tick(t, m)

	view := m.View()
	for _, want := range []string{"Memory", "Score: 0", "flip"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m, _ = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	if m.screen.Width() != 100 || m.screen.Height() != 39 {
		t.Errorf("screen = %dx%d, expected 100x39", m.screen.Width(), m.screen.Height())
	}

	m, _ = send(t, m, runeKey('?'))
	if !m.help.ShowAll {
		t.Error("? should expand the help")
	}
}

func TestModelWithoutPersistence(t *testing.T) {
	useGrid(t)
	m := newTestModel(t, Env{}, true)

	for _, group := range identityGroups(m) {
		for _, i := range group {
			m = flipCard(t, m, i)
		}
	}
	if !m.gameState.GameOver {
		t.Error("grid should be cleared")
	}
	m, _ = send(t, m, runeKey('q'))
	if !m.quitting {
		t.Error("q should quit")
	}
}

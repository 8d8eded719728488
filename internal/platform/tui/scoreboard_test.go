package tui

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/memory-match/internal/games/memory"
	"github.com/vovakirdan/memory-match/internal/storage"
)

func TestScoreboard(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	runs := []storage.RunResult{
		{RunID: "a", GameID: memory.ModeClassic, Score: 300, Rows: 2, Cols: 2},
		{RunID: "b", GameID: memory.ModeClassic, Score: 900, Rows: 4, Cols: 4},
		{RunID: "c", GameID: memory.ModeTriples, Score: 600, Rows: 3, Cols: 4},
	}
	for _, r := range runs {
		if _, err := store.RecordRun(r); err != nil {
			t.Fatalf("RecordRun() failed: %v", err)
		}
	}

	m := NewScoreboardModel(store, 100, 30)
	if m.modes[m.modeCursor].ID != memory.ModeClassic {
		t.Fatalf("first mode = %q, expected %q", m.modes[m.modeCursor].ID, memory.ModeClassic)
	}
	if len(m.scores) != 2 || m.scores[0].Score != 900 {
		t.Errorf("classic scores = %+v", m.scores)
	}
	if line := m.statsLine(); !strings.Contains(line, "2 finished") || !strings.Contains(line, "best 900") {
		t.Errorf("statsLine() = %q", line)
	}
	if view := m.View(); !strings.Contains(view, "4x4") {
		t.Error("view should list the grid size")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if m.modes[m.modeCursor].ID != memory.ModeTriples || len(m.scores) != 1 {
		t.Errorf("tab should switch to triples, got %q with %d scores", m.modes[m.modeCursor].ID, len(m.scores))
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if m.modes[m.modeCursor].ID != memory.ModeClassic {
		t.Errorf("tab should wrap back to classic, got %q", m.modes[m.modeCursor].ID)
	}

	next, cmd := m.Update(escKey)
	m = next.(ScoreboardModel)
	if cmd == nil || !m.IsGoingBack() || m.IsQuitting() {
		t.Error("esc should go back to the menu")
	}
}

func TestScoreboardWithoutStore(t *testing.T) {
	m := NewScoreboardModel(nil, 60, 20)
	view := m.View()
	if !strings.Contains(view, "No scores recorded yet") {
		t.Error("empty scoreboard should say so")
	}
	if !strings.Contains(view, "all grids") {
		t.Error("mode line should show the grid filter")
	}

	// Nothing to filter on.
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	if m = next.(ScoreboardModel); m.gridFilter != 0 {
		t.Errorf("gridFilter = %d, expected 0", m.gridFilter)
	}
}

func TestScoreboardGridFilter(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	runs := []storage.RunResult{
		{RunID: "a", GameID: memory.ModeClassic, Score: 300, Rows: 2, Cols: 2},
		{RunID: "b", GameID: memory.ModeClassic, Score: 900, Rows: 4, Cols: 4},
		{RunID: "c", GameID: memory.ModeClassic, Score: 500, Rows: 2, Cols: 2},
	}
	for _, r := range runs {
		if _, err := store.RecordRun(r); err != nil {
			t.Fatalf("RecordRun() failed: %v", err)
		}
	}

	m := NewScoreboardModel(store, 100, 30)
	if len(m.grids) != 2 || m.grids[0] != "4x4" || m.grids[1] != "2x2" {
		t.Fatalf("grids = %v, expected [4x4 2x2]", m.grids)
	}

	gKey := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}}
	tests := []struct {
		label  string
		scores []int
	}{
		{"4x4 only", []int{900}},
		{"2x2 only", []int{500, 300}},
		{"all grids", []int{900, 500, 300}},
	}
	for _, tc := range tests {
		next, _ := m.Update(gKey)
		m = next.(ScoreboardModel)

		var got []int
		for _, s := range m.scores {
			got = append(got, s.Score)
		}
		if !reflect.DeepEqual(got, tc.scores) {
			t.Errorf("%s: scores = %v, expected %v", tc.label, got, tc.scores)
		}
		if !strings.Contains(m.modeLine(), tc.label) {
			t.Errorf("modeLine() = %q, expected %q", m.modeLine(), tc.label)
		}
	}

	// Switching mode drops the filter.
	next, _ := m.Update(gKey)
	next, _ = next.(ScoreboardModel).Update(tea.KeyMsg{Type: tea.KeyTab})
	if m = next.(ScoreboardModel); m.gridFilter != 0 || len(m.scores) != 0 {
		t.Errorf("after mode switch filter = %d scores = %d, expected 0/0", m.gridFilter, len(m.scores))
	}
}

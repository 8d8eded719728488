package engine

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

// solve flips every complete identity group, then any leftover cards.
func solve(s *Session) {
	groupSize := s.Config().GroupSize
	var leftovers []int
	for _, idx := range positions(s) {
		full := len(idx) - len(idx)%groupSize
		for _, i := range idx[:full] {
			s.Flip(i)
			s.Settle()
		}
		leftovers = append(leftovers, idx[full:]...)
	}
	for _, i := range leftovers {
		s.Flip(i)
	}
	s.Settle()
}

func TestNewSessionRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero rows", func(c *Config) { c.Rows = 0 }},
		{"zero cols", func(c *Config) { c.Cols = 0 }},
		{"group of one", func(c *Config) { c.GroupSize = 1 }},
		{"empty catalog", func(c *Config) { c.Faces = 0 }},
		{"negative base score", func(c *Config) { c.BaseScore = -1 }},
		{"negative reveal delay", func(c *Config) { c.RevealDelay = -time.Millisecond }},
		{"negative mismatch delay", func(c *Config) { c.MismatchDelay = -time.Second }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)

			s, err := NewSession(cfg)
			if err == nil {
				t.Fatal("NewSession() should fail")
			}
			if s != nil {
				t.Error("NewSession() should not return a session on error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error %v should wrap ErrInvalidConfig", err)
			}
		})
	}
}

func TestNewSessionDealsFaceDown(t *testing.T) {
	s := mustSession(t, DefaultConfig())

	if len(s.Cards()) != 16 {
		t.Fatalf("len(Cards()) = %d, expected 16", len(s.Cards()))
	}
	for i, c := range s.Cards() {
		if c.Revealed() || c.Matched() {
			t.Errorf("card %d should be face down", i)
		}
	}
	if s.Score() != 0 || s.Combo() != 0 {
		t.Errorf("tally = %d/%d, expected 0/0", s.Score(), s.Combo())
	}
	if s.State() != StateIdle {
		t.Errorf("state = %v, expected idle", s.State())
	}
	if s.RunID() == "" {
		t.Error("RunID() should not be empty")
	}
}

func TestSeededSessionsAgree(t *testing.T) {
	a := mustSession(t, DefaultConfig(), WithSeed(2024))
	b := mustSession(t, DefaultConfig(), WithSeed(2024))

	if !slices.Equal(a.Cards(), b.Cards()) {
		t.Error("sessions with the same seed dealt different decks")
	}
	if a.RunID() == b.RunID() {
		t.Error("each session should get its own run ID")
	}
}

func TestSolveScoresConsecutiveCombos(t *testing.T) {
	rec := &recorder{}
	s := mustSession(t, instantConfig(), WithSeed(8), WithSink(rec.sink))
	solve(s)

	// Eight consecutive matches: 100 * (1+2+...+8).
	if s.Score() != 3600 {
		t.Errorf("Score() = %d, expected 3600", s.Score())
	}
	if s.Combo() != 8 {
		t.Errorf("Combo() = %d, expected 8", s.Combo())
	}
	if !s.AllMatched() || s.State() != StateComplete {
		t.Error("solved session should be complete")
	}
	if n := rec.count(isGameOver); n != 1 {
		t.Errorf("game over fired %d times, expected 1", n)
	}
}

func TestStartNewGameResets(t *testing.T) {
	rec := &recorder{}
	s := mustSession(t, DefaultConfig(), WithSeed(31), WithSink(rec.sink))

	pos := positions(s)
	for _, idx := range pos {
		s.Flip(idx[0])
		s.Flip(idx[1])
		break
	}
	s.Settle()
	s.Flip(0)
	s.Flip(1)
	oldRun := s.RunID()

	rec.events = nil
	if err := s.StartNewGame(); err != nil {
		t.Fatalf("StartNewGame() failed: %v", err)
	}

	if s.Score() != 0 || s.Combo() != 0 {
		t.Errorf("tally = %d/%d, expected 0/0", s.Score(), s.Combo())
	}
	if s.State() != StateIdle {
		t.Errorf("state = %v, expected idle", s.State())
	}
	if len(s.Pending()) != 0 {
		t.Errorf("Pending() = %v, expected empty", s.Pending())
	}
	for i, c := range s.Cards() {
		if c.Revealed() {
			t.Errorf("card %d should be face down", i)
		}
	}
	if s.RunID() == oldRun {
		t.Error("new game should issue a new run ID")
	}

	s.Advance(10 * time.Second)
	if len(rec.events) != 1 {
		t.Fatalf("expected only the reset notification, got %+v", rec.events)
	}
	if sc, ok := rec.events[0].(ScoreChanged); !ok || sc != (ScoreChanged{}) {
		t.Errorf("event = %+v, expected zero ScoreChanged", rec.events[0])
	}
}

func TestFlipAt(t *testing.T) {
	s := mustSession(t, DefaultConfig())

	if got := s.FlipAt(1, 2); got != FlipAccepted {
		t.Fatalf("FlipAt(1, 2) = %v, expected accepted", got)
	}
	if c, _ := s.Card(6); !c.Revealed() {
		t.Error("card at row 1 col 2 should be revealed")
	}
	if got := s.FlipAt(4, 0); got != FlipOutOfRange {
		t.Errorf("FlipAt(4, 0) = %v, expected out of range", got)
	}
	if got := s.FlipAt(0, -1); got != FlipOutOfRange {
		t.Errorf("FlipAt(0, -1) = %v, expected out of range", got)
	}
}

func TestDegenerateGridWarnsAndNeverCompletes(t *testing.T) {
	var buf bytes.Buffer
	cfg := instantConfig()
	cfg.Rows, cfg.Cols = 3, 3

	s := mustSession(t, cfg, WithSeed(4), WithLogger(log.New(&buf)))
	if !strings.Contains(buf.String(), "not divisible") {
		t.Errorf("expected a warning about the grid size, got %q", buf.String())
	}

	solve(s)
	if s.AllMatched() {
		t.Error("degenerate grid must never be fully matched")
	}
	if s.State() == StateComplete {
		t.Error("degenerate grid must never reach complete")
	}
	if len(s.Pending()) != 1 {
		t.Errorf("Pending() = %v, expected the leftover card", s.Pending())
	}
}

func TestFanoutDeliversInOrder(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	s := mustSession(t, instantConfig(), WithSeed(6), WithSink(Fanout(a.sink, nil, b.sink)))
	solve(s)

	if len(a.events) == 0 || len(a.events) != len(b.events) {
		t.Fatalf("sinks received %d and %d events", len(a.events), len(b.events))
	}
	for i := range a.events {
		if !sameEvent(a.events[i], b.events[i]) {
			t.Errorf("event %d differs: %+v vs %+v", i, a.events[i], b.events[i])
		}
	}
}

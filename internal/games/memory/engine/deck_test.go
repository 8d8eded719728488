package engine

import (
	"errors"
	"math/rand"
	"slices"
	"testing"
)

func countIdentities(d *Deck) map[int]int {
	counts := make(map[int]int)
	for _, id := range d.Identities() {
		counts[id]++
	}
	return counts
}

func TestBuildComposition(t *testing.T) {
	tests := []struct {
		name                    string
		rows, cols, group, face int
		wantDistinct            int
	}{
		{"classic 4x4 pairs", 4, 4, 2, 8, 8},
		{"large catalog", 4, 4, 2, 20, 8},
		{"small catalog reuses faces", 4, 4, 2, 3, 3},
		{"triples", 3, 6, 3, 10, 6},
		{"single face", 2, 2, 2, 1, 1},
		{"6x6 pairs", 6, 6, 2, 18, 18},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, err := Build(tc.rows, tc.cols, tc.group, tc.face, rand.New(rand.NewSource(7)))
			if err != nil {
				t.Fatalf("Build() failed: %v", err)
			}
			if d.Len() != tc.rows*tc.cols {
				t.Fatalf("Len() = %d, expected %d", d.Len(), tc.rows*tc.cols)
			}

			counts := countIdentities(d)
			if len(counts) != tc.wantDistinct {
				t.Errorf("distinct identities = %d, expected %d", len(counts), tc.wantDistinct)
			}
			for id, n := range counts {
				if n%tc.group != 0 {
					t.Errorf("identity %d appears %d times, not a multiple of %d", id, n, tc.group)
				}
				if id < 0 || id >= tc.face {
					t.Errorf("identity %d outside catalog of %d", id, tc.face)
				}
			}
		})
	}
}

func TestBuildClassicPairsExactlyTwice(t *testing.T) {
	d, err := Build(4, 4, 2, 8, rand.New(rand.NewSource(99)))
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	counts := countIdentities(d)
	if len(counts) != 8 {
		t.Fatalf("expected 8 distinct identities, got %d", len(counts))
	}
	for id, n := range counts {
		if n != 2 {
			t.Errorf("identity %d appears %d times, expected 2", id, n)
		}
	}
}

func TestBuildRemainderReusesLastGroup(t *testing.T) {
	// 9 cards, pairs: 4 full groups (ids 0..3) and one leftover card.
	d, err := Build(3, 3, 2, 8, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if !d.Degenerate() {
		t.Error("3x3 pairs should be degenerate")
	}

	counts := countIdentities(d)
	if d.Len() != 9 {
		t.Fatalf("Len() = %d, expected 9", d.Len())
	}
	if counts[3] != 3 {
		t.Errorf("leftover card should reuse identity 3, counts = %v", counts)
	}
	for id := 0; id < 3; id++ {
		if counts[id] != 2 {
			t.Errorf("identity %d appears %d times, expected 2", id, counts[id])
		}
	}
	if len(counts) != 4 {
		t.Errorf("no new identities should be invented, counts = %v", counts)
	}
}

func TestBuildSmallerThanGroup(t *testing.T) {
	d, err := Build(1, 1, 2, 4, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if d.Len() != 1 {
		t.Fatalf("Len() = %d, expected 1", d.Len())
	}
	if got := d.Identities()[0]; got != 0 {
		t.Errorf("identity = %d, expected 0", got)
	}
}

func TestBuildDeterministic(t *testing.T) {
	a, err := Build(4, 5, 2, 10, rand.New(rand.NewSource(12345)))
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	b, err := Build(4, 5, 2, 10, rand.New(rand.NewSource(12345)))
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if !slices.Equal(a.Identities(), b.Identities()) {
		t.Errorf("same seed produced different decks:\n%v\n%v", a.Identities(), b.Identities())
	}

	c, err := Build(4, 5, 2, 10, rand.New(rand.NewSource(54321)))
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if slices.Equal(a.Identities(), c.Identities()) {
		t.Error("different seeds produced identical decks")
	}
}

func TestBuildFreshCardsFaceDown(t *testing.T) {
	d, err := Build(2, 4, 2, 4, nil)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	for i, c := range d.Cards() {
		if c.Revealed() || c.Matched() {
			t.Errorf("card %d should be face down and unmatched", i)
		}
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name                    string
		rows, cols, group, face int
		field                   string
	}{
		{"zero rows", 0, 4, 2, 8, "rows"},
		{"negative cols", 4, -1, 2, 8, "cols"},
		{"group of one", 4, 4, 1, 8, "group size"},
		{"no faces", 4, 4, 2, 0, "face catalog size"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, err := Build(tc.rows, tc.cols, tc.group, tc.face, nil)
			if err == nil {
				t.Fatalf("Build() should fail, got deck of %d", d.Len())
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error %v should wrap ErrInvalidConfig", err)
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("error %v should be a *ConfigError", err)
			}
			if cfgErr.Field != tc.field {
				t.Errorf("Field = %q, expected %q", cfgErr.Field, tc.field)
			}
		})
	}
}

func TestDeckIndex(t *testing.T) {
	d, err := Build(3, 4, 2, 6, nil)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	tests := []struct {
		row, col, expected int
	}{
		{0, 0, 0},
		{0, 3, 3},
		{1, 0, 4},
		{2, 3, 11},
		{3, 0, -1},
		{0, 4, -1},
		{-1, 0, -1},
	}
	for _, tc := range tests {
		if got := d.Index(tc.row, tc.col); got != tc.expected {
			t.Errorf("Index(%d, %d) = %d, expected %d", tc.row, tc.col, got, tc.expected)
		}
	}
}

func TestDeckClear(t *testing.T) {
	d, err := Build(2, 2, 2, 2, nil)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	d.Clear()

	if d.Len() != 0 {
		t.Errorf("Len() after Clear = %d, expected 0", d.Len())
	}
	if d.AllMatched() {
		t.Error("cleared deck should not report AllMatched")
	}
	if _, ok := d.Card(0); ok {
		t.Error("Card(0) should not exist after Clear")
	}
}

func TestCardFlagTransitions(t *testing.T) {
	var c Card
	if !c.reveal() {
		t.Fatal("first reveal should succeed")
	}
	if c.reveal() {
		t.Error("second reveal should be rejected")
	}
	c.hide()
	if c.Revealed() {
		t.Error("hide should turn the card face down")
	}

	c.markMatched()
	if !c.Matched() || !c.Revealed() {
		t.Error("matched card must be revealed")
	}
	c.hide()
	if !c.Revealed() || !c.Matched() {
		t.Error("matched card must stay revealed and matched after hide")
	}
	if c.reveal() {
		t.Error("matched card cannot be revealed again")
	}
}

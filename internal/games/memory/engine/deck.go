package engine

import (
	"math/rand"
	"time"
)

// Deck is the arena of cards for one grid, stored in row-major order.
// The index order is the canonical order used by snapshots.
type Deck struct {
	Rows      int
	Cols      int
	GroupSize int
	cards     []Card
}

// ValidateDims checks the deck builder constraints.
func ValidateDims(rows, cols, groupSize, faces int) error {
	switch {
	case rows < 1:
		return &ConfigError{Field: "rows", Value: rows, Reason: "must be at least 1"}
	case cols < 1:
		return &ConfigError{Field: "cols", Value: cols, Reason: "must be at least 1"}
	case groupSize < 2:
		return &ConfigError{Field: "group size", Value: groupSize, Reason: "must be at least 2"}
	case faces < 1:
		return &ConfigError{Field: "face catalog size", Value: faces, Reason: "must be at least 1"}
	}
	return nil
}

// Build deals a shuffled deck for a rows x cols grid.
//
// Identities are assigned cyclically from the face catalog, groupSize cards per
// group. When rows*cols is not a multiple of groupSize the leftover cards reuse
// the identity of the last complete group; such a grid can never be fully
// matched. A nil rng is seeded from the clock.
func Build(rows, cols, groupSize, faces int, rng *rand.Rand) (*Deck, error) {
	if err := ValidateDims(rows, cols, groupSize, faces); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	pool := dealPool(rows*cols, groupSize, faces)

	// Fisher-Yates
	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	d := &Deck{
		Rows:      rows,
		Cols:      cols,
		GroupSize: groupSize,
		cards:     make([]Card, len(pool)),
	}
	for i, id := range pool {
		d.cards[i].reset(id)
	}
	return d, nil
}

// dealPool returns the unshuffled identity pool.
func dealPool(total, groupSize, faces int) []int {
	groupCount := total / groupSize
	pool := make([]int, 0, total)

	for g := 0; g < groupCount; g++ {
		id := g % faces
		for j := 0; j < groupSize; j++ {
			pool = append(pool, id)
		}
	}

	filler := 0
	if groupCount > 0 {
		filler = (groupCount - 1) % faces
	}
	for len(pool) < total {
		pool = append(pool, filler)
	}
	return pool
}

// Len returns the number of cards.
func (d *Deck) Len() int {
	return len(d.cards)
}

// Degenerate reports whether the card count is not a multiple of the group size.
func (d *Deck) Degenerate() bool {
	return len(d.cards)%d.GroupSize != 0
}

// Card returns a copy of the card at index i.
func (d *Deck) Card(i int) (Card, bool) {
	c := d.at(i)
	if c == nil {
		return Card{}, false
	}
	return *c, true
}

// Cards returns a copy of all cards in row-major order.
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}

// Identities returns the identity sequence in row-major order.
func (d *Deck) Identities() []int {
	ids := make([]int, len(d.cards))
	for i, c := range d.cards {
		ids[i] = c.Identity
	}
	return ids
}

// Index converts a grid position to a card index, or -1 when out of bounds.
func (d *Deck) Index(row, col int) int {
	if row < 0 || row >= d.Rows || col < 0 || col >= d.Cols {
		return -1
	}
	return row*d.Cols + col
}

// AllMatched reports whether every card is matched.
// An empty (cleared) deck is never considered complete.
func (d *Deck) AllMatched() bool {
	if len(d.cards) == 0 {
		return false
	}
	for _, c := range d.cards {
		if !c.matched {
			return false
		}
	}
	return true
}

// MatchedCount returns how many cards are matched.
func (d *Deck) MatchedCount() int {
	n := 0
	for _, c := range d.cards {
		if c.matched {
			n++
		}
	}
	return n
}

// Clear releases every card. The deck must be rebuilt before use.
func (d *Deck) Clear() {
	for i := range d.cards {
		d.cards[i] = Card{}
	}
	d.cards = nil
}

// at returns a pointer into the arena, or nil when out of range.
func (d *Deck) at(i int) *Card {
	if i < 0 || i >= len(d.cards) {
		return nil
	}
	return &d.cards[i]
}

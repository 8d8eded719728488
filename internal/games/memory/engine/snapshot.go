package engine

import (
	"encoding/json"
	"fmt"
	"time"
)

// SnapshotVersion is written into every encoded snapshot.
const SnapshotVersion = 1

// CardState is the persisted projection of a single card.
type CardState struct {
	Identity int  `json:"identity" yaml:"identity"`
	Matched  bool `json:"matched" yaml:"matched"`
	Revealed bool `json:"revealed" yaml:"revealed"`
}

// Snapshot is the serializable projection of a grid and its session state.
// Cards are in the deck's row-major order.
type Snapshot struct {
	Version   int         `json:"version" yaml:"version"`
	Mode      string      `json:"mode,omitempty" yaml:"mode,omitempty"`
	RunID     string      `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Rows      int         `json:"rows" yaml:"rows"`
	Cols      int         `json:"cols" yaml:"cols"`
	GroupSize int         `json:"group_size,omitempty" yaml:"group_size,omitempty"`
	Score     int         `json:"score" yaml:"score"`
	Combo     int         `json:"combo" yaml:"combo"`
	Cards     []CardState `json:"cards" yaml:"cards"`
	SavedAt   time.Time   `json:"saved_at,omitempty" yaml:"saved_at,omitempty"`
}

// Capture projects a deck and tally into a snapshot. It does not mutate anything.
func Capture(deck *Deck, tally Tally) Snapshot {
	cards := make([]CardState, len(deck.cards))
	for i, c := range deck.cards {
		cards[i] = CardState{
			Identity: c.Identity,
			Matched:  c.matched,
			Revealed: c.revealed,
		}
	}
	return Snapshot{
		Version:   SnapshotVersion,
		Rows:      deck.Rows,
		Cols:      deck.Cols,
		GroupSize: deck.GroupSize,
		Score:     tally.Score,
		Combo:     tally.Combo,
		Cards:     cards,
	}
}

// Validate checks the snapshot's internal consistency.
func (s Snapshot) Validate() error {
	switch {
	case s.Rows < 1 || s.Cols < 1:
		return &RestoreError{Reason: fmt.Sprintf("invalid grid %dx%d", s.Rows, s.Cols)}
	case s.GroupSize != 0 && s.GroupSize < 2:
		return &RestoreError{Reason: fmt.Sprintf("invalid group size %d", s.GroupSize)}
	case len(s.Cards)%s.Cols != 0 || len(s.Cards)/s.Cols != s.Rows: // Rows*Cols may overflow
		return &RestoreError{Reason: fmt.Sprintf("card count %d does not match %dx%d grid", len(s.Cards), s.Rows, s.Cols)}
	case s.Score < 0 || s.Combo < 0:
		return &RestoreError{Reason: fmt.Sprintf("negative score %d or combo %d", s.Score, s.Combo)}
	}
	for i, c := range s.Cards {
		if c.Identity < 0 {
			return &RestoreError{Reason: fmt.Sprintf("card %d has negative identity %d", i, c.Identity)}
		}
	}
	return nil
}

// Tally returns the snapshot's score state.
func (s Snapshot) Tally() Tally {
	return Tally{Score: s.Score, Combo: s.Combo}
}

// MatchedCount returns how many cards the snapshot records as matched.
func (s Snapshot) MatchedCount() int {
	n := 0
	for _, c := range s.Cards {
		if c.Matched {
			n++
		}
	}
	return n
}

// EncodeSnapshot serializes a snapshot as a JSON record.
func EncodeSnapshot(s Snapshot) ([]byte, error) {
	if s.Version == 0 {
		s.Version = SnapshotVersion
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("engine: encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a JSON record produced by EncodeSnapshot.
// Any parse failure is reported as ErrCorruptSnapshot.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if len(data) == 0 {
		return s, fmt.Errorf("%w: empty record", ErrCorruptSnapshot)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if s.Version > SnapshotVersion {
		return Snapshot{}, fmt.Errorf("%w: unsupported version %d", ErrCorruptSnapshot, s.Version)
	}
	return s, nil
}

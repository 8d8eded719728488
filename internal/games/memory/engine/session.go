package engine

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Config holds the parameters of a game session.
type Config struct {
	Rows          int
	Cols          int
	GroupSize     int
	Faces         int // Size of the face catalog
	BaseScore     int
	RevealDelay   time.Duration
	MismatchDelay time.Duration
}

// DefaultConfig returns the classic 4x4 pairs configuration.
func DefaultConfig() Config {
	return Config{
		Rows:          4,
		Cols:          4,
		GroupSize:     2,
		Faces:         8,
		BaseScore:     100,
		RevealDelay:   150 * time.Millisecond,
		MismatchDelay: 800 * time.Millisecond,
	}
}

// Validate checks the deck constraints and the scoring/timing values.
func (c Config) Validate() error {
	if err := ValidateDims(c.Rows, c.Cols, c.GroupSize, c.Faces); err != nil {
		return err
	}
	if c.BaseScore < 0 {
		return &ConfigError{Field: "base score", Value: c.BaseScore, Reason: "must not be negative"}
	}
	if c.RevealDelay < 0 {
		return &ConfigError{Field: "reveal delay (ms)", Value: int(c.RevealDelay.Milliseconds()), Reason: "must not be negative"}
	}
	if c.MismatchDelay < 0 {
		return &ConfigError{Field: "mismatch delay (ms)", Value: int(c.MismatchDelay.Milliseconds()), Reason: "must not be negative"}
	}
	return nil
}

func (c Config) timing() Timing {
	return Timing{RevealDelay: c.RevealDelay, MismatchDelay: c.MismatchDelay}
}

// Option configures a Session.
type Option func(*Session)

// WithRand sets the random source used for shuffling.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) {
		s.rng = rng
	}
}

// WithSeed seeds the shuffling source. Zero means seed from the clock.
func WithSeed(seed int64) Option {
	return func(s *Session) {
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithSink sets the event sink.
func WithSink(sink Sink) Option {
	return func(s *Session) {
		s.sink = sink
	}
}

// Session owns one deck, one engine and the run's score state.
// It is the single entry point used by input and presentation layers.
type Session struct {
	cfg    Config
	rng    *rand.Rand
	deck   *Deck
	engine *Engine
	runID  string
	sink   Sink
	logger *log.Logger
}

// NewSession validates cfg and deals the first game.
func NewSession(cfg Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Session{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	s.engine = NewEngine(nil, cfg.BaseScore, cfg.timing(), s.dispatch, s.logger)

	if err := s.StartNewGame(); err != nil {
		return nil, err
	}
	return s, nil
}

// SetSink replaces the event sink.
func (s *Session) SetSink(sink Sink) {
	s.sink = sink
}

// StartNewGame deals a fresh deck and resets score, combo and the queue.
// Any in-flight resolution is discarded. On error the session is unchanged.
func (s *Session) StartNewGame() error {
	deck, err := Build(s.cfg.Rows, s.cfg.Cols, s.cfg.GroupSize, s.cfg.Faces, s.rng)
	if err != nil {
		return err
	}
	if deck.Degenerate() {
		s.logger.Warn("grid size not divisible by group size, some cards can never match",
			"rows", s.cfg.Rows, "cols", s.cfg.Cols, "group_size", s.cfg.GroupSize)
	}

	if s.deck != nil {
		s.deck.Clear()
	}
	s.deck = deck
	s.engine.Reset(deck)
	s.runID = uuid.NewString()

	s.logger.Debug("new game", "run", s.runID, "rows", deck.Rows, "cols", deck.Cols)
	s.dispatch(ScoreChanged{})
	return nil
}

// Flip requests that the card at index be revealed.
func (s *Session) Flip(index int) FlipOutcome {
	return s.engine.RequestFlip(index)
}

// FlipAt requests a flip by grid position.
func (s *Session) FlipAt(row, col int) FlipOutcome {
	i := s.deck.Index(row, col)
	if i < 0 {
		return FlipOutOfRange
	}
	return s.engine.RequestFlip(i)
}

// Advance moves the presentation clock forward by dt.
func (s *Session) Advance(dt time.Duration) {
	s.engine.Advance(dt)
}

// Settle resolves everything pending without waiting for delays.
func (s *Session) Settle() {
	s.engine.Settle()
}

// Capture returns a snapshot of the current grid and score.
func (s *Session) Capture() Snapshot {
	snap := Capture(s.deck, s.engine.Tally())
	snap.RunID = s.runID
	return snap
}

// Checkpoint settles the engine so the reveal queue is quiescent, then captures.
func (s *Session) Checkpoint() Snapshot {
	s.engine.Settle()
	return s.Capture()
}

// Restore applies a snapshot.
//
// Snapshot dimensions are authoritative: when they differ from the current
// configuration the grid is rebuilt at the snapshot's size first. A snapshot
// that fails validation leaves the session untouched.
func (s *Session) Restore(snap Snapshot) error {
	if err := snap.Validate(); err != nil {
		s.logger.Warn("restore aborted", "err", err)
		return err
	}
	for i, cs := range snap.Cards {
		if cs.Identity >= s.cfg.Faces {
			err := &RestoreError{Reason: fmt.Sprintf("card %d has identity %d outside the %d faces", i, cs.Identity, s.cfg.Faces)}
			s.logger.Warn("restore aborted", "err", err)
			return err
		}
	}

	cfg := s.cfg
	deck := s.deck
	groupSize := snap.GroupSize
	if groupSize == 0 {
		groupSize = cfg.GroupSize
	}

	if snap.Rows != cfg.Rows || snap.Cols != cfg.Cols || groupSize != cfg.GroupSize {
		s.logger.Info("snapshot grid differs from configuration, rebuilding",
			"from", [2]int{cfg.Rows, cfg.Cols}, "to", [2]int{snap.Rows, snap.Cols}, "group_size", groupSize)
		cfg.Rows, cfg.Cols, cfg.GroupSize = snap.Rows, snap.Cols, groupSize
		rebuilt, err := Build(cfg.Rows, cfg.Cols, cfg.GroupSize, cfg.Faces, s.rng)
		if err != nil {
			s.logger.Warn("restore aborted", "err", err)
			return &RestoreError{Reason: err.Error()}
		}
		deck = rebuilt
	}

	if len(snap.Cards) != deck.Len() {
		err := &RestoreError{Reason: "card count mismatch"}
		s.logger.Warn("restore aborted", "err", err)
		return err
	}

	for i, cs := range snap.Cards {
		c := &deck.cards[i]
		c.reset(cs.Identity)
		if cs.Revealed {
			c.revealed = true
		}
		if cs.Matched {
			c.markMatched()
		}
	}

	if deck != s.deck && s.deck != nil {
		s.deck.Clear()
	}
	s.cfg = cfg
	s.deck = deck
	s.runID = snap.RunID
	if s.runID == "" {
		s.runID = uuid.NewString()
	}

	s.logger.Debug("restored", "run", s.runID, "score", snap.Score, "matched", deck.MatchedCount())

	// Cards left revealed by the snapshot may resolve immediately.
	s.engine.restore(deck, snap.Tally())
	return nil
}

// Card returns a copy of the card at index i.
func (s *Session) Card(i int) (Card, bool) {
	return s.deck.Card(i)
}

// Cards returns a copy of every card in row-major order.
func (s *Session) Cards() []Card {
	return s.deck.Cards()
}

// Score returns the current score.
func (s *Session) Score() int {
	return s.engine.Tally().Score
}

// Combo returns the current combo streak.
func (s *Session) Combo() int {
	return s.engine.Tally().Combo
}

// State returns the engine state.
func (s *Session) State() State {
	return s.engine.State()
}

// AllMatched reports whether the grid is fully matched.
func (s *Session) AllMatched() bool {
	return s.engine.AllMatched()
}

// Pending returns queued card indices that are not yet part of a group.
func (s *Session) Pending() []int {
	return s.engine.Pending()
}

// Holding returns the group currently held at a delay, if any.
func (s *Session) Holding() ([]int, time.Duration) {
	return s.engine.Holding()
}

// Config returns the active configuration. Rows and cols reflect the last
// restored snapshot.
func (s *Session) Config() Config {
	return s.cfg
}

// Rows returns the grid height.
func (s *Session) Rows() int {
	return s.deck.Rows
}

// Cols returns the grid width.
func (s *Session) Cols() int {
	return s.deck.Cols
}

// RunID identifies the current run. A new game issues a new ID; a restore
// keeps the snapshot's.
func (s *Session) RunID() string {
	return s.runID
}

func (s *Session) dispatch(ev Event) {
	if s.sink != nil {
		s.sink(ev)
	}
}

package engine

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"
)

// State is the externally visible engine state.
type State int

const (
	StateIdle      State = iota // Queue below group size, nothing pending
	StateResolving              // A group is being judged or waiting on a delay
	StateComplete               // Every card matched; terminal
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolving:
		return "resolving"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// FlipOutcome reports what RequestFlip did with a flip request.
type FlipOutcome int

const (
	FlipAccepted   FlipOutcome = iota // Card revealed and queued
	FlipIgnored                       // Already revealed, matched, or game complete
	FlipOutOfRange                    // No card at that index
)

// String returns a human-readable name for the outcome.
func (o FlipOutcome) String() string {
	switch o {
	case FlipAccepted:
		return "accepted"
	case FlipIgnored:
		return "ignored"
	case FlipOutOfRange:
		return "out of range"
	default:
		return "unknown"
	}
}

// step is the position of the resolution loop. It is the loop's continuation
// state across suspension points.
type step int

const (
	stepDequeue step = iota // Take the next group from the queue
	stepReveal              // Holding a group for the reveal delay, then judge
	stepHide                // Holding a mismatched group for the hide delay
)

// settleCredit is enough time to run every pending wait to completion.
const settleCredit = time.Duration(math.MaxInt64)

// Tally is the session score state.
type Tally struct {
	Score int
	Combo int
}

// Timing holds the two presentation delays.
type Timing struct {
	RevealDelay   time.Duration // Before a group is judged
	MismatchDelay time.Duration // Before a mismatched group is hidden
}

// Engine is the reveal-queue state machine.
//
// It is single-threaded: every method must be called from the same goroutine.
// Delays are explicit waits consumed by Advance rather than sleeps, so the loop
// position (step, held group, remaining wait) is always inspectable.
type Engine struct {
	deck      *Deck
	queue     revealQueue
	state     State
	step      step
	group     []int
	wait      time.Duration
	tally     Tally
	baseScore int
	timing    Timing
	sink      Sink
	logger    *log.Logger
}

// NewEngine creates an engine over the given deck.
// A nil logger discards output; a nil sink drops events.
func NewEngine(deck *Deck, baseScore int, timing Timing, sink Sink, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{
		deck:      deck,
		baseScore: baseScore,
		timing:    timing,
		sink:      sink,
		logger:    logger,
	}
}

// State returns the current engine state.
func (e *Engine) State() State {
	return e.state
}

// Tally returns the current score and combo.
func (e *Engine) Tally() Tally {
	return e.tally
}

// Deck returns the deck the engine operates on.
func (e *Engine) Deck() *Deck {
	return e.deck
}

// Pending returns the queued card indices not yet taken into a group.
func (e *Engine) Pending() []int {
	return e.queue.snapshot()
}

// Holding returns the group held at a suspension point and the time left on
// its delay. The group is nil when nothing is held.
func (e *Engine) Holding() ([]int, time.Duration) {
	if e.group == nil {
		return nil, 0
	}
	held := make([]int, len(e.group))
	copy(held, e.group)
	return held, e.wait
}

// AllMatched reports whether every card in the deck is matched.
func (e *Engine) AllMatched() bool {
	return e.deck.AllMatched()
}

// RequestFlip reveals the card at index and queues it for judgment.
//
// Flips of matched or already revealed cards are ignored, which absorbs rapid
// double clicks. While a resolution is in progress the card is only queued;
// the running loop picks it up.
func (e *Engine) RequestFlip(index int) FlipOutcome {
	if e.state == StateComplete {
		return FlipIgnored
	}
	c := e.deck.at(index)
	if c == nil {
		return FlipOutOfRange
	}
	if !c.reveal() {
		return FlipIgnored
	}

	e.queue.push(index)
	if e.state == StateIdle {
		e.run(0)
	}
	return FlipAccepted
}

// Advance moves the presentation clock forward by dt.
// It only has an effect while a group is held at a suspension point.
func (e *Engine) Advance(dt time.Duration) {
	if e.state != StateResolving || dt <= 0 {
		return
	}
	e.run(dt)
}

// Settle runs every pending resolution to quiescence, skipping the delays.
func (e *Engine) Settle() {
	if e.state != StateResolving {
		return
	}
	e.run(settleCredit)
}

// Reset discards all in-flight work and attaches a new deck.
// This is the only cancellation path.
func (e *Engine) Reset(deck *Deck) {
	e.deck = deck
	e.queue.clear()
	e.state = StateIdle
	e.step = stepDequeue
	e.group = nil
	e.wait = 0
	e.tally = Tally{}
}

// restore attaches a restored deck and tally and announces the tally.
// Revealed but unresolved cards are queued again in index order so they can
// still be resolved.
func (e *Engine) restore(deck *Deck, tally Tally) {
	e.Reset(deck)
	e.tally = tally
	e.emit(ScoreChanged{Score: tally.Score, Combo: tally.Combo})

	if deck.AllMatched() {
		e.state = StateComplete
		return
	}
	for i := range deck.cards {
		c := &deck.cards[i]
		if c.revealed && !c.matched {
			e.queue.push(i)
		}
	}
	e.run(0)
}

// run executes the resolution loop until it reaches a wait that credit cannot
// cover, or until the queue holds less than a full group.
func (e *Engine) run(credit time.Duration) {
	for {
		if e.state == StateComplete {
			return
		}
		if e.wait > 0 {
			if credit < e.wait {
				e.wait -= credit
				return
			}
			credit -= e.wait
			e.wait = 0
		}

		switch e.step {
		case stepDequeue:
			if e.queue.len() < e.deck.GroupSize {
				e.state = StateIdle
				return
			}
			e.state = StateResolving
			group := e.queue.popGroup(e.deck.GroupSize)
			if e.stale(group) {
				e.logger.Info("stale group discarded", "group", group)
				continue
			}
			e.group = group
			e.step = stepReveal
			e.wait = e.timing.RevealDelay

		case stepReveal:
			e.judge()

		case stepHide:
			e.conceal()
		}
	}
}

// stale reports whether any member was matched or hidden after it was queued.
func (e *Engine) stale(group []int) bool {
	for _, i := range group {
		c := e.deck.at(i)
		if c == nil || c.matched || !c.revealed {
			return true
		}
	}
	return false
}

// judge resolves the held group.
func (e *Engine) judge() {
	group := e.group
	identity := e.deck.cards[group[0]].Identity
	match := true
	for _, i := range group[1:] {
		if e.deck.cards[i].Identity != identity {
			match = false
			break
		}
	}

	if !match {
		e.tally.Combo = 0
		e.logger.Debug("mismatch", "group", group)
		e.emit(Mismatch{Group: group})
		e.step = stepHide
		e.wait = e.timing.MismatchDelay
		return
	}

	for _, i := range group {
		e.deck.cards[i].markMatched()
	}
	e.tally.Combo++
	points := e.baseScore * e.tally.Combo
	e.tally.Score += points
	e.logger.Debug("match", "group", group, "points", points, "combo", e.tally.Combo)

	e.emit(Matched{Group: group, Identity: identity, Points: points, Combo: e.tally.Combo})
	e.emit(ScoreChanged{Score: e.tally.Score, Combo: e.tally.Combo})
	e.group = nil
	e.step = stepDequeue

	if e.deck.AllMatched() {
		e.state = StateComplete
		e.queue.clear()
		e.logger.Info("all cards matched", "score", e.tally.Score)
		e.emit(GameOver{FinalScore: e.tally.Score})
	}
}

// conceal hides the mismatched group once its delay has elapsed.
func (e *Engine) conceal() {
	for _, i := range e.group {
		// hide leaves cards matched during the delay untouched
		e.deck.cards[i].hide()
	}
	e.emit(ScoreChanged{Score: e.tally.Score, Combo: e.tally.Combo})
	e.group = nil
	e.step = stepDequeue
}

func (e *Engine) emit(ev Event) {
	if e.sink != nil {
		e.sink(ev)
	}
}

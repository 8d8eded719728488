package engine

// Event is a notification emitted by the engine to the presentation layer.
// Delivery is fire-and-forget; the engine never reads anything back.
type Event interface {
	memoryEvent()
}

// Sink receives engine events in emission order.
type Sink func(Event)

// Matched is emitted when a group resolves as a match.
type Matched struct {
	Group    []int // Card indices in reveal order
	Identity int
	Points   int // BaseScore * Combo
	Combo    int
}

func (Matched) memoryEvent() {}

// Mismatch is emitted when a group resolves as a mismatch, before the
// hide delay starts.
type Mismatch struct {
	Group []int
}

func (Mismatch) memoryEvent() {}

// ScoreChanged is emitted after every resolved group and on new game/restore.
type ScoreChanged struct {
	Score int
	Combo int
}

func (ScoreChanged) memoryEvent() {}

// GameOver is emitted once, when the last group is matched.
type GameOver struct {
	FinalScore int
}

func (GameOver) memoryEvent() {}

// Fanout returns a sink that forwards each event to every non-nil sink.
func Fanout(sinks ...Sink) Sink {
	return func(ev Event) {
		for _, s := range sinks {
			if s != nil {
				s(ev)
			}
		}
	}
}

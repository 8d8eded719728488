package core

// Action is a semantic game action, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, K, Up arrow - move cursor up
	ActionDown           // S, J, Down arrow - move cursor down
	ActionLeft           // A, H, Left arrow - move cursor left
	ActionRight          // D, L, Right arrow - move cursor right
	ActionFlip           // Space - reveal the card under the cursor
	ActionConfirm        // Enter - confirm selection in menu
	ActionBack           // B, Escape - go back to menu
	ActionRestart        // R - deal a new game
	ActionQuit           // Q, Ctrl+C - exit game/session
	ActionPause          // P - pause/unpause game
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionFlip:
		return "Flip"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// InputFrame holds the actions triggered during one tick, in press order.
// Cursor games replay the sequence so fast typing between ticks is not lost
// or reordered.
type InputFrame struct {
	Actions []Action
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{}
}

// Set records one press of an action for this frame.
func (f *InputFrame) Set(a Action) {
	if a == ActionNone {
		return
	}
	f.Actions = append(f.Actions, a)
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	for _, got := range f.Actions {
		if got == a {
			return true
		}
	}
	return false
}

// Count returns how many times the action was pressed this frame.
func (f InputFrame) Count(a Action) int {
	n := 0
	for _, got := range f.Actions {
		if got == a {
			n++
		}
	}
	return n
}

// Empty reports whether nothing was pressed this frame.
func (f InputFrame) Empty() bool {
	return len(f.Actions) == 0
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	f.Actions = f.Actions[:0]
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	return InputFrame{Actions: append([]Action(nil), f.Actions...)}
}

// Package engine implements the match-resolution core of the memory game:
// deck construction, the reveal queue state machine, scoring and the
// snapshot contract used for save/restore.
//
// The package has no UI dependencies. Presentation layers observe it through
// events and read-only card copies.
package engine

// Card is a single grid cell.
// Identity is the face shared by every card of one matching group.
// Flags are unexported so the matched => revealed invariant cannot be broken
// from outside the package.
type Card struct {
	Identity int
	revealed bool
	matched  bool
}

// Revealed reports whether the card is face up.
func (c Card) Revealed() bool {
	return c.revealed
}

// Matched reports whether the card has been permanently resolved.
func (c Card) Matched() bool {
	return c.matched
}

// reveal turns the card face up.
// Returns false if the card is already revealed or matched.
func (c *Card) reveal() bool {
	if c.matched || c.revealed {
		return false
	}
	c.revealed = true
	return true
}

// hide turns the card face down again. Matched cards stay up.
func (c *Card) hide() {
	if c.matched {
		return
	}
	c.revealed = false
}

// markMatched resolves the card. Matched is terminal.
func (c *Card) markMatched() {
	c.revealed = true
	c.matched = true
}

// reset returns the card to its freshly dealt state.
func (c *Card) reset(identity int) {
	c.Identity = identity
	c.revealed = false
	c.matched = false
}

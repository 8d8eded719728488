package engine

// revealQueue is the FIFO of revealed card indices awaiting judgment.
type revealQueue struct {
	items []int
}

func (q *revealQueue) push(i int) {
	q.items = append(q.items, i)
}

func (q *revealQueue) len() int {
	return len(q.items)
}

// popGroup removes the first n entries in FIFO order.
// The caller guarantees len() >= n.
func (q *revealQueue) popGroup(n int) []int {
	group := make([]int, n)
	copy(group, q.items[:n])
	q.items = append(q.items[:0], q.items[n:]...)
	return group
}

func (q *revealQueue) clear() {
	q.items = q.items[:0]
}

// snapshot returns a copy of the pending entries.
func (q *revealQueue) snapshot() []int {
	out := make([]int, len(q.items))
	copy(out, q.items)
	return out
}

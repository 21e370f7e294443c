// Package dispatch turns extracted questions into outbound quiz polls with
// per-destination sequential numbering and partial-failure bookkeeping.
package dispatch

// CounterStore tracks the next display number per destination for the
// lifetime of the process. It is passed by handle into the Dispatcher; the
// caller decides when a destination resets (at the start of a new
// extraction session), never the store itself.
//
// The store is not synchronized: the session layer must serialize writers
// targeting the same destination.
type CounterStore struct {
	next map[int64]int
}

func NewCounterStore() *CounterStore {
	return &CounterStore{next: make(map[int64]int)}
}

// Next returns the next display number for dest, starting at 1.
func (c *CounterStore) Next(dest int64) int {
	if n, ok := c.next[dest]; ok {
		return n
	}
	return 1
}

// Advance moves dest's counter forward by n attempted sends.
func (c *CounterStore) Advance(dest int64, n int) {
	c.next[dest] = c.Next(dest) + n
}

// Reset returns dest's numbering to 1.
func (c *CounterStore) Reset(dest int64) {
	delete(c.next, dest)
}

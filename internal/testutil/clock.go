package testutil

import "sync"

// DeterministicClock hands out strictly increasing epoch-millisecond
// timestamps for fixture notes.
//
// The first call to Next() returns start+step. Reset rewinds the clock so a
// fixture can be rebuilt with identical timestamps.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicClock struct {
	mu    sync.Mutex
	start int64
	step  int64
	n     int64
}

// NewDeterministicClock creates a clock starting at start (epoch ms) that
// advances by step milliseconds per tick.
func NewDeterministicClock(start, step int64) *DeterministicClock {
	return &DeterministicClock{start: start, step: step}
}

// Next advances the clock and returns the new timestamp.
func (c *DeterministicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return c.start + c.n*c.step
}

// Current returns the latest timestamp without advancing.
func (c *DeterministicClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.start + c.n*c.step
}

// Reset rewinds the clock to its start.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n = 0
}

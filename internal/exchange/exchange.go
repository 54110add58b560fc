// Package exchange moves the freshest color sample from the capture
// goroutine to the consumer. It deliberately drops unread samples rather
// than queueing them: under load the consumer skips frames instead of
// falling behind.
package exchange

import "sync"

// Exchange is a single-producer/single-consumer latest-wins handoff with
// a fixed set of preallocated slots. Publish never blocks; when every
// slot holds an unread sample the oldest is overwritten. TakeLatest
// drains the exchange, so a second take without an intervening publish
// reports empty.
type Exchange struct {
	mu       sync.Mutex
	slots    [][]float64
	writeIdx int
	fresh    bool
}

// New creates an exchange with the given slot count (minimum 2) for
// samples of sampleLen float64s.
func New(capacity, sampleLen int) *Exchange {
	if capacity < 2 {
		capacity = 2
	}
	slots := make([][]float64, capacity)
	for i := range slots {
		slots[i] = make([]float64, sampleLen)
	}
	return &Exchange{slots: slots}
}

// Publish copies sample into the next slot. Never blocks the producer.
func (e *Exchange) Publish(sample []float64) {
	e.mu.Lock()
	copy(e.slots[e.writeIdx], sample)
	e.writeIdx = (e.writeIdx + 1) % len(e.slots)
	e.fresh = true
	e.mu.Unlock()
}

// TakeLatest copies the most recently published sample into dst and
// reports whether anything new had been published since the last take.
func (e *Exchange) TakeLatest(dst []float64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.fresh {
		return false
	}
	latest := (e.writeIdx - 1 + len(e.slots)) % len(e.slots)
	copy(dst, e.slots[latest])
	e.fresh = false
	return true
}

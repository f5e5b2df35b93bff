// Package clock provides the monotonic millisecond counter every timed
// component compares its deadlines against.
package clock

import (
	"sync"
	"time"
)

// Clock returns milliseconds since some fixed start. It never goes backwards.
type Clock interface {
	Millis() int64
}

// System counts from the moment it was created using the runtime's
// monotonic reading.
type System struct {
	start time.Time
}

func NewSystem() *System {
	return &System{start: time.Now()}
}

func (s *System) Millis() int64 {
	return time.Since(s.start).Milliseconds()
}

// Manual only moves when told to. Useful in tests and replays.
type Manual struct {
	mu sync.Mutex
	ms int64
}

func NewManual(ms int64) *Manual {
	return &Manual{ms: ms}
}

func (m *Manual) Millis() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ms
}

// Advance moves the clock forward by d, truncated to whole milliseconds.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.ms += d.Milliseconds()
	m.mu.Unlock()
}

// Set jumps to ms. Going backwards is ignored.
func (m *Manual) Set(ms int64) {
	m.mu.Lock()
	if ms > m.ms {
		m.ms = ms
	}
	m.mu.Unlock()
}

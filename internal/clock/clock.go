// Package clock is the time source behind command latency measurement.
package clock

import (
	"sync"
	"time"
)

// Clock reads time. Latency is taken as Since(Now()) around each call.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

// Real reads the wall clock.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

func (Real) Since(t time.Time) time.Duration { return time.Since(t) }

var epoch = time.Unix(1_700_000_000, 0).UTC()

// Mock is a manual clock. With a tick set, every Now reading moves it
// forward by the tick, so a measured latency equals the tick.
type Mock struct {
	mu    sync.Mutex
	now   time.Time
	tick  time.Duration
	reads int
}

// NewMock starts a Mock at start, or at a fixed epoch when start is zero.
func NewMock(start time.Time) *Mock {
	if start.IsZero() {
		start = epoch
	}
	return &Mock{now: start}
}

func (m *Mock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.now
	m.now = t.Add(m.tick)
	m.reads++
	return t
}

func (m *Mock) Since(t time.Time) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now.Sub(t)
}

// Advance moves the clock by d.
func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// AutoAdvance sets the tick applied after each Now reading.
func (m *Mock) AutoAdvance(d time.Duration) {
	m.mu.Lock()
	m.tick = d
	m.mu.Unlock()
}

// Reads returns how many times Now has been called.
func (m *Mock) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

package clock

import (
	"sync"
	"time"
)

// Clock supplies wall-clock time to services so tests can pin it.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// System returns the real clock. All timestamps are UTC.
func System() Clock {
	return systemClock{}
}

// Manual is a test clock whose time only moves when told to.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual pins the clock at the given instant.
func NewManual(at time.Time) *Manual {
	return &Manual{now: at.UTC()}
}

// Now returns the pinned instant.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// Set pins the clock at a new instant.
func (m *Manual) Set(at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = at.UTC()
}

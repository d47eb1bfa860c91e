package engine_test

import (
	"sync"
	"time"

	"github.com/tartampluch/go-lifestats/internal/engine"
)

// MockClock controls time for deterministic testing. It may be moved while a
// live loop is reading it.
type MockClock struct {
	mu          sync.Mutex
	CurrentTime time.Time
}

func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CurrentTime
}

func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CurrentTime = t
}

func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CurrentTime = m.CurrentTime.Add(d)
}

var refBirth = time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)

func mustBirth(t time.Time) engine.Birth {
	b, err := engine.NewBirth(t, t)
	if err != nil {
		panic(err)
	}
	return b
}

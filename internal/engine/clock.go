package engine

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// It is the only source of "now" for the live scheduler and for Session snapshots;
// Compute itself never reads the clock.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant.
type FixedClock struct {
	T time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return c.T
}

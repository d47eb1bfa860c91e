package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/tartampluch/go-lifestats/internal/config"
)

// Birth is the fixed instant from which every elapsed-time counter is measured.
// It is immutable once built; the zero value is invalid and rejected by Compute.
type Birth struct {
	t time.Time
}

// birthLayouts are tried in order by ParseBirth. Values without an explicit
// offset are read as UTC so the instant does not depend on the host time zone.
var birthLayouts = []string{
	config.DateFormatFullDash,
	config.DateFormatDashTime,
	config.DateFormatDashTimeS,
	config.DateFormatSpaceTime,
	config.DateFormatFullBasic,
	config.DateFormatBasicT,
	config.DateFormatRFC3339,
}

// NewBirth validates t against the current moment and wraps it.
// It fails with ErrInvalidInput when t is the zero time or later than now.
func NewBirth(t, now time.Time) (Birth, error) {
	if t.IsZero() {
		return Birth{}, fmt.Errorf("%w: %s", ErrInvalidInput, config.ErrBirthZero)
	}
	if t.After(now) {
		return Birth{}, fmt.Errorf("%w: %s: %s", ErrInvalidInput, config.ErrBirthFuture, t.Format(time.RFC3339))
	}
	return Birth{t: t}, nil
}

// ParseBirth parses a user supplied date (optionally with a time of day) and
// validates it like NewBirth.
func ParseBirth(value string, now time.Time) (Birth, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Birth{}, fmt.Errorf("%w: %s", ErrInvalidInput, config.ErrBirthZero)
	}
	for _, layout := range birthLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return NewBirth(t, now)
		}
	}
	return Birth{}, fmt.Errorf("%w: %s: %q", ErrInvalidInput, config.ErrDateParse, value)
}

// Time returns the birth instant.
func (b Birth) Time() time.Time {
	return b.t
}

// IsZero reports whether b was never set.
func (b Birth) IsZero() bool {
	return b.t.IsZero()
}

// Weekday returns the day of the week the subject was born on.
func (b Birth) Weekday() time.Weekday {
	return b.t.Weekday()
}

// HasTimeOfDay reports whether the birth carries a time other than midnight.
func (b Birth) HasTimeOfDay() bool {
	h, m, s := b.t.Clock()
	return h != 0 || m != 0 || s != 0 || b.t.Nanosecond() != 0
}

// String formats the birth as an ISO date, with the time of day when known.
func (b Birth) String() string {
	if b.IsZero() {
		return ""
	}
	if b.HasTimeOfDay() {
		return b.t.Format(config.DateFormatDashTime)
	}
	return b.t.Format(config.DateFormatFullDash)
}

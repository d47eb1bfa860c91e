package engine

import (
	"fmt"
	"time"

	"github.com/tartampluch/go-lifestats/internal/config"
)

// Fixed-length unit approximations; months and years are averages, not
// calendar arithmetic.
const (
	MillisPerSecond int64 = 1000
	MillisPerMinute       = 60 * MillisPerSecond
	MillisPerHour         = 60 * MillisPerMinute
	MillisPerDay          = 24 * MillisPerHour

	// MillisPerAverageYear is 365.25 days.
	MillisPerAverageYear int64 = 31_557_600_000

	// MillisPerAverageMonth is 365.25 / 12 = 30.4375 days.
	MillisPerAverageMonth int64 = 2_629_800_000

	DaysPerWeek int64 = 7
)

// Biometric rates used for the linear estimates.
const (
	HeartbeatsPerMinute int64 = 72
	BreathsPerMinute    int64 = 14
	SleepHoursPerDay    int64 = 8
	BlinksPerMinute     int64 = 15
	MinutesPerHour      int64 = 60
	WakingHoursPerDay   int64 = 16

	// 1.5 hours per day, as a fraction.
	consumptionHoursNum int64 = 3
	consumptionHoursDen int64 = 2
)

// ConsumptionHoursPerDay is the average number of hours per day spent eating and drinking.
const ConsumptionHoursPerDay = float64(consumptionHoursNum) / float64(consumptionHoursDen)

// Compute derives the Snapshot of birth at now. It is pure: the same inputs
// always yield the same output and no clock is read.
//
// It fails with ErrInvalidInput when birth is the zero value and with
// ErrInvalidRange when birth is later than now, even by a fraction of a millisecond.
func Compute(birth Birth, now time.Time) (Snapshot, error) {
	if birth.IsZero() {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrInvalidInput, config.ErrBirthZero)
	}
	if now.Before(birth.t) {
		return Snapshot{}, fmt.Errorf("%w: birth %s, now %s", ErrInvalidRange,
			birth.t.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	}

	// time.Time.Sub saturates near 292 years; Unix milliseconds do not.
	diff := now.UnixMilli() - birth.t.UnixMilli()

	// diff is non-negative, so integer division is the floor.
	minutes := diff / MillisPerMinute
	days := diff / MillisPerDay

	return Snapshot{
		Years:   diff / MillisPerAverageYear,
		Months:  diff / MillisPerAverageMonth,
		Weeks:   days / DaysPerWeek,
		Days:    days,
		Hours:   diff / MillisPerHour,
		Minutes: minutes,
		Seconds: diff / MillisPerSecond,

		Heartbeats:       minutes * HeartbeatsPerMinute,
		Breaths:          minutes * BreathsPerMinute,
		SleepHours:       days * SleepHoursPerDay,
		ConsumptionHours: days * consumptionHoursNum / consumptionHoursDen,
		Blinks:           days * BlinksPerMinute * MinutesPerHour * WakingHoursPerDay,

		DayOfWeekBorn: birth.Weekday(),
		At:            now,
	}, nil
}

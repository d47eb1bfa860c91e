package engine

import "time"

// FieldKey identifies one displayed value of a Snapshot.
type FieldKey string

// Snapshot field keys, stable across releases; presentation layers and the
// dirty-checking sink key their caches on them.
const (
	FieldYears            FieldKey = "years"
	FieldMonths           FieldKey = "months"
	FieldWeeks            FieldKey = "weeks"
	FieldDays             FieldKey = "days"
	FieldHours            FieldKey = "hours"
	FieldMinutes          FieldKey = "minutes"
	FieldSeconds          FieldKey = "seconds"
	FieldHeartbeats       FieldKey = "heartbeats"
	FieldBreaths          FieldKey = "breaths"
	FieldSleepHours       FieldKey = "sleep_hours"
	FieldConsumptionHours FieldKey = "consumption_hours"
	FieldBlinks           FieldKey = "blinks"
)

// CounterKeys lists the calendar-unit counters in display order.
var CounterKeys = []FieldKey{
	FieldYears, FieldMonths, FieldWeeks, FieldDays, FieldHours, FieldMinutes, FieldSeconds,
}

// EstimateKeys lists the biometric estimates in display order.
var EstimateKeys = []FieldKey{
	FieldHeartbeats, FieldBreaths, FieldSleepHours, FieldConsumptionHours, FieldBlinks,
}

// Field is a single keyed value of a Snapshot.
type Field struct {
	Key   FieldKey
	Value int64
}

// Snapshot is the bundle of elapsed-time counters and biometric estimates for
// one Birth at one instant. It is a plain value: recomputed on every tick and
// never mutated after Compute returns it.
type Snapshot struct {
	Years   int64 `json:"years"`
	Months  int64 `json:"months"`
	Weeks   int64 `json:"weeks"`
	Days    int64 `json:"days"`
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Seconds int64 `json:"seconds"`

	Heartbeats       int64 `json:"heartbeats"`
	Breaths          int64 `json:"breaths"`
	SleepHours       int64 `json:"sleep_hours"`
	ConsumptionHours int64 `json:"consumption_hours"`
	Blinks           int64 `json:"blinks"`

	DayOfWeekBorn time.Weekday `json:"-"`
	At            time.Time    `json:"at"`
}

// Fields returns every counter and estimate, counters first, in display order.
func (s Snapshot) Fields() []Field {
	return []Field{
		{FieldYears, s.Years},
		{FieldMonths, s.Months},
		{FieldWeeks, s.Weeks},
		{FieldDays, s.Days},
		{FieldHours, s.Hours},
		{FieldMinutes, s.Minutes},
		{FieldSeconds, s.Seconds},
		{FieldHeartbeats, s.Heartbeats},
		{FieldBreaths, s.Breaths},
		{FieldSleepHours, s.SleepHours},
		{FieldConsumptionHours, s.ConsumptionHours},
		{FieldBlinks, s.Blinks},
	}
}

// Value returns the value stored under key.
func (s Snapshot) Value(key FieldKey) (int64, bool) {
	for _, f := range s.Fields() {
		if f.Key == key {
			return f.Value, true
		}
	}
	return 0, false
}

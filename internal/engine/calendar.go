package engine

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-lifestats/internal/config"
)

// MilestoneKind classifies a calendar milestone.
type MilestoneKind string

const (
	KindBirthday MilestoneKind = "birthday"
	KindDays     MilestoneKind = "days"
	KindWeeks    MilestoneKind = "weeks"
	KindSeconds  MilestoneKind = "seconds"
)

// Round-number milestone steps and how many of each are generated.
const (
	DaysMilestoneStep    int64 = 10_000
	DaysMilestoneCount         = 4
	WeeksMilestoneStep   int64 = 1_000
	WeeksMilestoneCount        = 5
	SecondsMilestoneStep int64 = 1_000_000_000
	SecondsMilestoneCount      = 4
)

// Milestone is one dated event of a life calendar.
type Milestone struct {
	Kind MilestoneKind

	// Value is the age for birthdays, or the round number reached otherwise.
	Value int64
	At    time.Time

	// AllDay milestones are emitted as DATE values, others as DATE-TIME.
	AllDay bool
}

// CalendarGenerator renders milestones as an iCalendar feed.
type CalendarGenerator struct {
	Clock Clock

	// FormatSummary lets the presentation layer inject localized event titles.
	FormatSummary func(name string, m Milestone) string

	// ReminderTrigger is an ISO 8601 duration such as "-P1D"; empty disables alarms.
	ReminderTrigger string
}

// Generate builds the calendar of name's milestones relative to the generator clock.
// It returns the encoded feed and the milestones it contains, sorted by date.
func (g *CalendarGenerator) Generate(name string, birth Birth) ([]byte, []Milestone, error) {
	if birth.IsZero() {
		return nil, nil, ErrInvalidInput
	}
	clock := g.Clock
	if clock == nil {
		clock = RealClock{}
	}
	now := clock.Now()

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	input := fmt.Sprintf(config.FormatHashInput, name, birth.Time().Format(time.RFC3339), config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	uidBase := fmt.Sprintf("%x", hash[:config.UIDHashLength])

	milestones := Milestones(birth, now)
	for _, m := range milestones {
		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, uidBase, m.Kind, m.Value, config.ICalDomain))

		summary := g.summary(name, m)
		event.Props.SetText(config.PropSummary, summary)

		dtStartProp := ical.NewProp(config.PropDTStart)
		if m.AllDay {
			dtStartProp.SetDate(m.At)
		} else {
			dtStartProp.SetDateTime(m.At.UTC())
		}
		event.Props.Set(dtStartProp)
		event.Props.Set(dtStampProp)

		if g.ReminderTrigger != "" {
			addAlarm(event, g.ReminderTrigger, summary)
		}
		cal.Children = append(cal.Children, event.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Info(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyEvents, len(milestones),
		config.LogKeySizeBytes, buf.Len(),
	)
	return buf.Bytes(), milestones, nil
}

func (g *CalendarGenerator) summary(name string, m Milestone) string {
	if g.FormatSummary != nil {
		return g.FormatSummary(name, m)
	}
	return FallbackSummary(name, m)
}

// FallbackSummary is the untranslated event title.
func FallbackSummary(name string, m Milestone) string {
	switch m.Kind {
	case KindBirthday:
		if m.Value == 0 {
			return fmt.Sprintf(config.FallbackSummaryBirth, name)
		}
		return fmt.Sprintf(config.FallbackSummaryBirthday, name, m.Value)
	case KindDays:
		return fmt.Sprintf(config.FallbackSummaryDays, name, strconv.FormatInt(m.Value, 10))
	case KindWeeks:
		return fmt.Sprintf(config.FallbackSummaryWeeks, name, strconv.FormatInt(m.Value, 10))
	default:
		return fmt.Sprintf(config.FallbackSummarySeconds, name, strconv.FormatInt(m.Value, 10))
	}
}

// Milestones lists the birthdays of the previous, current and next year
// (never before the birth year) followed by every round-number milestone,
// all sorted by date.
func Milestones(birth Birth, now time.Time) []Milestone {
	b := birth.Time()
	loc := now.Location()

	var out []Milestone
	for _, y := range []int{now.Year() - 1, now.Year(), now.Year() + 1} {
		if y < b.Year() {
			continue
		}
		out = append(out, Milestone{
			Kind:   KindBirthday,
			Value:  int64(y - b.Year()),
			At:     time.Date(y, b.Month(), b.Day(), 0, 0, 0, 0, loc),
			AllDay: true,
		})
	}

	for i := int64(1); i <= DaysMilestoneCount; i++ {
		n := i * DaysMilestoneStep
		out = append(out, Milestone{
			Kind:   KindDays,
			Value:  n,
			At:     b.Add(time.Duration(n*MillisPerDay) * time.Millisecond),
			AllDay: true,
		})
	}
	for i := int64(1); i <= WeeksMilestoneCount; i++ {
		n := i * WeeksMilestoneStep
		out = append(out, Milestone{
			Kind:   KindWeeks,
			Value:  n,
			At:     b.Add(time.Duration(n*DaysPerWeek*MillisPerDay) * time.Millisecond),
			AllDay: true,
		})
	}
	for i := int64(1); i <= SecondsMilestoneCount; i++ {
		n := i * SecondsMilestoneStep
		out = append(out, Milestone{
			Kind:  KindSeconds,
			Value: n,
			At:    b.Add(time.Duration(n) * time.Second),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out
}

// NextBirthday returns the next birthday on or after today, in now's location,
// and the age reached on it. February 29 births celebrate on March 1 in
// common years.
func NextBirthday(now time.Time, birth Birth) (time.Time, int) {
	b := birth.Time()
	loc := now.Location()

	candidate := time.Date(now.Year(), b.Month(), b.Day(), 0, 0, 0, 0, loc)
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if candidate.Before(todayStart) {
		candidate = time.Date(now.Year()+1, b.Month(), b.Day(), 0, 0, 0, 0, loc)
	}
	return candidate, candidate.Year() - b.Year()
}

// addAlarm appends a DISPLAY alarm to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Raw value: SetText would add VALUE=TEXT.
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}

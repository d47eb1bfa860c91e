package ui

import (
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-lifestats/internal/config"
)

// NumericalEntry holds one clock component of the time of birth, the hour or
// the minute. Only ASCII digits can be typed, at most config.ClockDigits of
// them, and the validator flags values above Max.
type NumericalEntry struct {
	widget.Entry

	Max int
}

// NewNumericalEntry creates an empty entry accepting 0 to limit.
func NewNumericalEntry(limit int) *NumericalEntry {
	entry := &NumericalEntry{Max: limit}
	entry.ExtendBaseWidget(entry)
	entry.Validator = func(s string) error {
		_, err := clockPart(s, limit)
		return err
	}
	return entry
}

// Value parses the entry. Empty text is zero.
func (e *NumericalEntry) Value() (int, error) {
	return clockPart(e.Text, e.Max)
}

// TypedRune forwards digits while the entry is shorter than a clock
// component. Pasted text bypasses this filter and fails Value.
func (e *NumericalEntry) TypedRune(r rune) {
	if r < '0' || r > '9' || len(e.Text) >= config.ClockDigits {
		return
	}
	e.Entry.TypedRune(r)
}

// Keyboard requests the numeric keypad on mobile devices.
func (e *NumericalEntry) Keyboard() mobile.KeyboardType {
	return mobile.NumberKeyboard
}

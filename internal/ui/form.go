package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-lifestats/internal/config"
	"github.com/tartampluch/go-lifestats/internal/engine"
	"github.com/tartampluch/go-lifestats/internal/locale"
	"github.com/tartampluch/go-lifestats/internal/profile"
)

var genderKeys = map[profile.Gender]string{
	profile.GenderFemale: config.TKeyGenderFemale,
	profile.GenderMale:   config.TKeyGenderMale,
	profile.GenderOther:  config.TKeyGenderOther,
	profile.GenderNone:   config.TKeyGenderNone,
}

// profileForm collects the profile on first run.
type profileForm struct {
	tr *locale.Translator

	name    *widget.Entry
	dob     *widget.Entry
	hour    *NumericalEntry
	minute  *NumericalEntry
	gender  *widget.Select
	country *widget.Entry
	source  *widget.Entry

	btnSave   *widget.Button
	btnImport *widget.Button
	content   fyne.CanvasObject
}

func newProfileForm(app *LifeStatsApp) *profileForm {
	tr := app.Tr
	f := &profileForm{tr: tr}

	f.name = widget.NewEntry()

	f.dob = widget.NewEntry()
	f.dob.PlaceHolder = config.PlaceholderDOB

	f.hour = NewNumericalEntry(config.MaxHour)
	f.hour.PlaceHolder = config.PlaceholderHour
	f.minute = NewNumericalEntry(config.MaxMinute)
	f.minute.PlaceHolder = config.PlaceholderMinute

	var options []string
	for _, g := range profile.Genders {
		options = append(options, tr.T(genderKeys[g]))
	}
	f.gender = widget.NewSelect(options, nil)

	f.country = widget.NewEntry()
	f.country.PlaceHolder = config.PlaceholderCountry

	f.source = widget.NewEntry()
	f.source.PlaceHolder = config.PlaceholderImport

	f.btnSave = widget.NewButtonWithIcon(tr.T(config.TKeyBtnSave), theme.ConfirmIcon(), app.submit)
	f.btnSave.Importance = widget.HighImportance

	f.btnImport = widget.NewButtonWithIcon(tr.T(config.TKeyBtnImport), theme.DownloadIcon(), func() {
		app.importProfile(f.source.Text)
	})

	timeRow := container.NewGridWithColumns(config.LayoutColumnsDouble, f.hour, f.minute)
	form := widget.NewForm(
		widget.NewFormItem(tr.T(config.TKeyLblName), f.name),
		widget.NewFormItem(tr.T(config.TKeyLblDOB), f.dob),
		widget.NewFormItem(tr.T(config.TKeyLblTimeOfBirth), timeRow),
		widget.NewFormItem(tr.T(config.TKeyLblGender), f.gender),
		widget.NewFormItem(tr.T(config.TKeyLblCountry), f.country),
	)

	importRow := container.NewBorder(nil, nil, nil, f.btnImport, f.source)
	importCard := widget.NewCard(tr.T(config.TKeyLblImport), "", importRow)

	f.content = container.NewPadded(container.NewVBox(
		widget.NewCard(tr.T(config.TKeyWinTitle), "", form),
		f.btnSave,
		importCard,
	))
	return f
}

// fill copies p into the widgets. Zero fields leave the widget empty.
func (f *profileForm) fill(p profile.Profile) {
	f.name.SetText(p.Name)
	f.country.SetText(p.Country)

	f.dob.SetText("")
	f.hour.SetText("")
	f.minute.SetText("")
	if !p.Birth.IsZero() {
		t := p.Birth.Time()
		f.dob.SetText(t.Format(config.DateFormatFullDash))
		if p.Birth.HasTimeOfDay() {
			f.hour.SetText(fmt.Sprintf("%02d", t.Hour()))
			f.minute.SetText(fmt.Sprintf("%02d", t.Minute()))
		}
	}

	if key, ok := genderKeys[p.Gender]; ok {
		f.gender.SetSelected(f.tr.T(key))
	} else {
		f.gender.ClearSelected()
	}
}

// read validates the widgets into a Profile. Errors carry translated text
// ready for a dialog.
func (f *profileForm) read(now time.Time) (profile.Profile, error) {
	name := strings.TrimSpace(f.name.Text)
	if name == "" {
		return profile.Profile{}, errors.New(f.tr.T(config.TKeyErrNameRequired))
	}

	t, err := parseDOB(f.dob.Text, f.hour.Text, f.minute.Text)
	if err != nil {
		return profile.Profile{}, errors.New(f.tr.T(config.TKeyErrDOBInvalid))
	}
	birth, err := engine.NewBirth(t, now)
	if err != nil {
		return profile.Profile{}, errors.New(f.tr.T(config.TKeyErrDOBFuture))
	}

	p := profile.Profile{
		Name:    name,
		Birth:   birth,
		Gender:  profile.GenderUnspecified,
		Country: strings.TrimSpace(f.country.Text),
	}
	for g, key := range genderKeys {
		if f.gender.Selected == f.tr.T(key) {
			p.Gender = g
		}
	}
	return p, nil
}

// parseDOB combines the date entry with the optional hour and minute entries.
func parseDOB(date, hour, minute string) (time.Time, error) {
	d, err := time.ParseInLocation(config.DateFormatFullDash, strings.TrimSpace(date), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", config.ErrDateParse, err)
	}

	h, err := clockPart(hour, config.MaxHour)
	if err != nil {
		return time.Time{}, err
	}
	m, err := clockPart(minute, config.MaxMinute)
	if err != nil {
		return time.Time{}, err
	}
	return d.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute), nil
}

// clockPart parses an optional hour or minute field. Empty means zero.
func clockPart(s string, limit int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", config.ErrDateParse, err)
	}
	if n < 0 || n > limit {
		return 0, fmt.Errorf("%s: %q out of range", config.ErrDateParse, s)
	}
	return n, nil
}

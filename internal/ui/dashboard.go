package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-lifestats/internal/config"
	"github.com/tartampluch/go-lifestats/internal/engine"
	"github.com/tartampluch/go-lifestats/internal/format"
	"github.com/tartampluch/go-lifestats/internal/locale"
	"github.com/tartampluch/go-lifestats/internal/profile"
)

// dashboard renders one profile. Counter labels are only touched through
// write, which the session calls for changed fields.
type dashboard struct {
	tr    *locale.Translator
	clock engine.Clock
	birth engine.Birth

	values map[engine.FieldKey]*widget.Label

	nextBirthday *widget.Label
	dogYears     *widget.Label
	solarOrbits  *widget.Label
	sunDistance  *widget.Label

	content fyne.CanvasObject
}

func newDashboard(app *LifeStatsApp, p profile.Profile) *dashboard {
	tr := app.Tr
	d := &dashboard{
		tr:     tr,
		clock:  app.Clock,
		birth:  p.Birth,
		values: make(map[engine.FieldKey]*widget.Label),
	}

	title := widget.NewLabelWithStyle(p.Name, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	origin := widget.NewLabel(tr.TData(config.TKeyOriginDay, map[string]any{
		"Day": tr.Weekday(p.Birth.Weekday()),
	}))
	registry := widget.NewLabel(tr.TData(config.TKeyRegistry, map[string]any{
		"Country": p.CountryOrFallback(),
	}))
	d.nextBirthday = widget.NewLabel(config.CounterPlaceholder)
	d.refreshNextBirthday()

	sections := []fyne.CanvasObject{title, origin, registry, d.nextBirthday}

	if app.Settings.SectionEnabled(config.SectionRealtime) {
		sections = append(sections, d.counterCard(config.TKeySecRealtime, engine.CounterKeys, config.CounterColumns))
	}
	if app.Settings.SectionEnabled(config.SectionBiometrics) {
		sections = append(sections, d.counterCard(config.TKeySecBiometrics, engine.EstimateKeys, config.EstimateColumns))
	}
	if app.Settings.SectionEnabled(config.SectionFacts) {
		sections = append(sections, d.factsCard(p.Birth))
	}
	if app.Settings.SectionEnabled(config.SectionAstronomical) {
		sections = append(sections, d.astroCard(p.Birth))
	}

	btnReset := widget.NewButtonWithIcon(tr.T(config.TKeyBtnReset), theme.DeleteIcon(), app.reset)
	sections = append(sections, btnReset)

	d.content = container.NewVScroll(container.NewPadded(container.NewVBox(sections...)))
	return d
}

func (d *dashboard) counterCard(titleKey string, keys []engine.FieldKey, columns int) *widget.Card {
	cells := make([]fyne.CanvasObject, 0, len(keys))
	for _, key := range keys {
		value := widget.NewLabelWithStyle(config.CounterPlaceholder, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
		caption := widget.NewLabelWithStyle(d.tr.FieldLabel(key), fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
		d.values[key] = value
		cells = append(cells, container.NewVBox(value, caption))
	}
	return widget.NewCard(d.tr.T(titleKey), "", container.NewGridWithColumns(columns, cells...))
}

func (d *dashboard) factsCard(birth engine.Birth) *widget.Card {
	g := engine.GlobalStandingFor(birth)
	population := widget.NewLabel(d.tr.TData(config.TKeyPopulation, map[string]any{
		"Population": format.Decimal(d.tr.Lang(), g.PopulationBillions, 1),
	}))
	rank := widget.NewLabel(d.tr.TData(config.TKeyGlobalRank, map[string]any{
		"Rank":   d.tr.Number(g.Rank),
		"Suffix": d.tr.OrdinalSuffix(g.Rank),
	}))
	rank.Wrapping = fyne.TextWrapWord

	d.dogYears = widget.NewLabel(config.CounterPlaceholder)
	d.solarOrbits = widget.NewLabel(config.CounterPlaceholder)
	d.sunDistance = widget.NewLabel(config.CounterPlaceholder)

	return widget.NewCard(d.tr.T(config.TKeySecFacts), "", container.NewVBox(
		population, rank, d.dogYears, d.solarOrbits, d.sunDistance,
	))
}

func (d *dashboard) astroCard(birth engine.Birth) *widget.Card {
	t := birth.Time()
	z := engine.ZodiacFor(t.Month(), t.Day())

	sign := widget.NewLabelWithStyle(d.tr.TData(config.TKeyStarSign, map[string]any{
		"Symbol": z.Symbol,
		"Sign":   z.Sign,
	}), fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	element := widget.NewLabel(d.tr.TData(config.TKeyElement, map[string]any{"Element": z.Element}))
	traits := widget.NewLabel(d.tr.TData(config.TKeyTraits, map[string]any{"Traits": z.Traits}))
	traits.Wrapping = fyne.TextWrapWord

	return widget.NewCard(d.tr.T(config.TKeySecAstronomical), "", container.NewVBox(sign, element, traits))
}

// write is the session writer. It is called off the UI goroutine.
func (d *dashboard) write(key engine.FieldKey, v int64) {
	fyne.Do(func() {
		if l, ok := d.values[key]; ok {
			l.SetText(d.tr.Number(v))
		}
		switch key {
		case engine.FieldYears:
			d.refreshYears(v)
		case engine.FieldDays:
			// Average years and calendar birthdays drift apart by up to a day.
			d.refreshNextBirthday()
		}
	})
}

// refreshYears updates everything derived from whole years of age.
func (d *dashboard) refreshYears(years int64) {
	d.refreshNextBirthday()
	if d.dogYears == nil {
		return
	}
	facts := engine.FunFactsFor(engine.Snapshot{Years: years})
	d.dogYears.SetText(d.tr.TData(config.TKeyDogYears, map[string]any{"Value": d.tr.Number(facts.DogYears)}))
	d.solarOrbits.SetText(d.tr.TData(config.TKeySolarOrbits, map[string]any{"Value": d.tr.Number(facts.SolarOrbits)}))
	d.sunDistance.SetText(d.tr.TData(config.TKeySunDistance, map[string]any{"Value": d.tr.Number(facts.SunDistanceMillionKm)}))
}

func (d *dashboard) refreshNextBirthday() {
	next, age := engine.NextBirthday(d.clock.Now(), d.birth)
	d.nextBirthday.SetText(d.tr.TData(config.TKeyNextBirthday, map[string]any{
		"Date": next.Format(config.DateFormatDisplay),
		"Age":  age,
	}))
}

package ui

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-lifestats/internal/config"
	"github.com/tartampluch/go-lifestats/internal/engine"
	"github.com/tartampluch/go-lifestats/internal/profile"
	"github.com/tartampluch/go-lifestats/internal/server"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// memStore is an in-memory profile.Store.
type memStore struct {
	p        *profile.Profile
	saveErr  error
	cleared  bool
	loadErr  error
	saveHits int
}

func (m *memStore) Load() (profile.Profile, error) {
	if m.loadErr != nil {
		return profile.Profile{}, m.loadErr
	}
	if m.p == nil {
		return profile.Profile{}, profile.ErrNotFound
	}
	return *m.p, nil
}

func (m *memStore) Save(p profile.Profile) error {
	m.saveHits++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.p = &p
	return nil
}

func (m *memStore) Clear() error {
	m.cleared = true
	m.p = nil
	return nil
}

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

// -----------------------------------------------------------------------------
// Test Setup Helper
// -----------------------------------------------------------------------------

// setupTestApp initializes a headless Fyne app with an in-memory store and a
// server that is never started.
func setupTestApp(t *testing.T, settings config.Settings, store *memStore) (*LifeStatsApp, *server.LifeServer) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	// Only the immediate delivery runs during a test.
	settings.LiveInterval = time.Hour

	srv := server.NewLifeServer("0")
	app := NewLifeStatsApp(a, ctx, settings, store, srv)
	app.Clock = engine.FixedClock{T: testNow}
	app.Setup()
	t.Cleanup(app.Stop)

	return app, srv
}

func sampleProfile(t *testing.T) profile.Profile {
	t.Helper()
	b, err := engine.NewBirth(time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC), testNow)
	require.NoError(t, err)
	return profile.Profile{Name: "Ada", Birth: b, Gender: profile.GenderFemale, Country: "fr"}
}

func status(srv *server.LifeServer, route string) int {
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, route, nil))
	return w.Code
}

// -----------------------------------------------------------------------------
// Lifecycle
// -----------------------------------------------------------------------------

func TestSetup_NoProfileShowsForm(t *testing.T) {
	app, srv := setupTestApp(t, config.DefaultSettings(), &memStore{})

	require.NotNil(t, app.form)
	assert.Nil(t, app.dash)
	assert.Nil(t, app.Session())
	assert.Equal(t, "Life Statistics", app.Window.Title())
	assert.Equal(t, http.StatusServiceUnavailable, status(srv, config.RouteSnapshot))
}

func TestSetup_SavedProfileStartsDashboard(t *testing.T) {
	p := sampleProfile(t)
	app, srv := setupTestApp(t, config.DefaultSettings(), &memStore{p: &p})

	require.NotNil(t, app.dash)
	assert.Nil(t, app.form)
	require.NotNil(t, app.Session())
	assert.True(t, app.Session().Active())
	assert.Equal(t, "35", app.dash.values[engine.FieldYears].Text)
	assert.Equal(t, http.StatusOK, status(srv, config.RouteSnapshot))
	assert.Equal(t, http.StatusOK, status(srv, config.RouteCalendar))
}

func TestSetup_StoreFailureShowsForm(t *testing.T) {
	app, _ := setupTestApp(t, config.DefaultSettings(), &memStore{loadErr: errors.New("disk unreadable")})
	assert.NotNil(t, app.form)
	assert.Nil(t, app.Session())
}

func TestSubmit_StartsDashboard(t *testing.T) {
	store := &memStore{}
	app, srv := setupTestApp(t, config.DefaultSettings(), store)

	test.Type(app.form.name, "Ada")
	test.Type(app.form.dob, "1990-06-15")
	test.Type(app.form.hour, "8")
	test.Type(app.form.minute, "30")
	app.form.gender.SetSelected("Female")
	test.Tap(app.form.btnSave)

	require.NotNil(t, store.p, "profile is saved")
	assert.Equal(t, "Ada", store.p.Name)
	assert.Equal(t, 8, store.p.Birth.Time().Hour())
	assert.Equal(t, profile.GenderFemale, store.p.Gender)

	require.NotNil(t, app.dash)
	assert.Equal(t, "Ada", app.Profile().Name)
	assert.Equal(t, "35", app.dash.values[engine.FieldYears].Text)
	assert.NotEqual(t, config.CounterPlaceholder, app.dash.values[engine.FieldSeconds].Text)
	assert.NotEqual(t, config.CounterPlaceholder, app.dash.values[engine.FieldBlinks].Text)
	assert.Equal(t, "Age in dog years: 245", app.dash.dogYears.Text)
	assert.Equal(t, "Next birthday: 2025-06-15 (turning 35)", app.dash.nextBirthday.Text, "today counts as the next birthday")
	assert.Equal(t, http.StatusOK, status(srv, config.RouteSnapshot))
}

func TestSubmit_SaveFailureStillShowsDashboard(t *testing.T) {
	store := &memStore{saveErr: errors.New("read-only")}
	app, _ := setupTestApp(t, config.DefaultSettings(), store)

	app.form.fill(sampleProfile(t))
	app.submit()

	assert.Equal(t, 1, store.saveHits)
	assert.NotNil(t, app.dash)
}

func TestSubmit_InvalidInputKeepsForm(t *testing.T) {
	tests := []struct {
		name, who, dob, hour string
	}{
		{"Missing name", "  ", "1990-06-15", ""},
		{"Unparsable date", "Ada", "15/06/1990", ""},
		{"Future date", "Ada", "2030-01-01", ""},
		{"Hour out of range", "Ada", "1990-06-15", "24"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memStore{}
			app, _ := setupTestApp(t, config.DefaultSettings(), store)

			app.form.name.SetText(tt.who)
			app.form.dob.SetText(tt.dob)
			app.form.hour.SetText(tt.hour)
			app.submit()

			assert.Zero(t, store.saveHits)
			assert.Nil(t, app.dash)
			assert.NotNil(t, app.form)
			assert.Nil(t, app.Session())
		})
	}
}

func TestReset(t *testing.T) {
	p := sampleProfile(t)
	store := &memStore{p: &p}
	app, srv := setupTestApp(t, config.DefaultSettings(), store)
	s := app.Session()
	require.NotNil(t, s)

	app.reset()

	assert.True(t, store.cleared)
	assert.False(t, s.Active(), "the previous session is stopped")
	assert.Nil(t, app.Session())
	assert.NotNil(t, app.form)
	assert.Empty(t, app.form.name.Text)
	assert.Empty(t, app.Profile().Name)
	assert.Equal(t, http.StatusServiceUnavailable, status(srv, config.RouteSnapshot))
}

func TestActivate_ReplacesSession(t *testing.T) {
	p := sampleProfile(t)
	app, _ := setupTestApp(t, config.DefaultSettings(), &memStore{p: &p})
	first := app.Session()

	require.NoError(t, app.activate(p))
	assert.False(t, first.Active())
	assert.NotEqual(t, first.ID(), app.Session().ID())
}

// -----------------------------------------------------------------------------
// Dashboard
// -----------------------------------------------------------------------------

func TestDashboard_SectionsToggle(t *testing.T) {
	settings := config.DefaultSettings()
	settings.Sections = []string{config.SectionRealtime}
	p := sampleProfile(t)
	app, _ := setupTestApp(t, settings, &memStore{p: &p})

	require.NotNil(t, app.dash)
	assert.Len(t, app.dash.values, len(engine.CounterKeys))
	_, hasEstimate := app.dash.values[engine.FieldHeartbeats]
	assert.False(t, hasEstimate)
	assert.Nil(t, app.dash.dogYears)

	assert.NotPanics(t, func() { app.dash.write(engine.FieldYears, 40) })
	assert.Equal(t, "40", app.dash.values[engine.FieldYears].Text)
}

func TestDashboard_WriteRefreshesFacts(t *testing.T) {
	p := sampleProfile(t)
	app, _ := setupTestApp(t, config.DefaultSettings(), &memStore{p: &p})

	app.dash.write(engine.FieldYears, 10)
	assert.Equal(t, "Age in dog years: 70", app.dash.dogYears.Text)
	assert.Equal(t, "Solar orbits: 10", app.dash.solarOrbits.Text)
	assert.Equal(t, "Distance travelled around the sun: 5,840 million km", app.dash.sunDistance.Text)

	app.dash.write(engine.FieldHeartbeats, 1234567)
	assert.Equal(t, "1,234,567", app.dash.values[engine.FieldHeartbeats].Text)
}

func TestDashboard_DaysRefreshNextBirthday(t *testing.T) {
	p := sampleProfile(t)
	app, _ := setupTestApp(t, config.DefaultSettings(), &memStore{p: &p})
	require.Equal(t, "Next birthday: 2025-06-15 (turning 35)", app.dash.nextBirthday.Text)

	// The calendar birthday has passed but the year counter has not moved.
	app.dash.clock = engine.FixedClock{T: testNow.AddDate(0, 0, 1)}
	app.dash.write(engine.FieldDays, 12785)

	assert.Equal(t, "Next birthday: 2026-06-15 (turning 36)", app.dash.nextBirthday.Text)
	assert.Equal(t, "35", app.dash.values[engine.FieldYears].Text)
}

func TestDashboard_French(t *testing.T) {
	settings := config.DefaultSettings()
	settings.Language = "fr"
	p := sampleProfile(t)
	app, _ := setupTestApp(t, settings, &memStore{p: &p})

	assert.Equal(t, "Statistiques de vie", app.Window.Title())
	assert.Equal(t, "Âge en années de chien : 245", app.dash.dogYears.Text)
}

// -----------------------------------------------------------------------------
// Import
// -----------------------------------------------------------------------------

func TestApplyImport(t *testing.T) {
	app, _ := setupTestApp(t, config.DefaultSettings(), &memStore{})

	path := filepath.Join(t.TempDir(), "me.vcf")
	card := "BEGIN:VCARD\r\nVERSION:4.0\r\nFN:Ada Lovelace\r\nBDAY:1815-12-10\r\nGENDER:F\r\nEND:VCARD\r\n"
	require.NoError(t, os.WriteFile(path, []byte(card), config.FilePermUserRW))

	app.Importer.Clock = engine.FixedClock{T: testNow}
	p, err := app.Importer.Import(context.Background(), path)
	app.applyImport(p, err)

	assert.Equal(t, "Ada Lovelace", app.form.name.Text)
	assert.Equal(t, "1815-12-10", app.form.dob.Text)
	assert.Empty(t, app.form.hour.Text)
	assert.Equal(t, "Female", app.form.gender.Selected)
}

func TestApplyImport_ErrorKeepsForm(t *testing.T) {
	app, _ := setupTestApp(t, config.DefaultSettings(), &memStore{})
	app.form.name.SetText("typed by hand")

	app.applyImport(profile.Profile{}, errors.New("network unreachable"))
	assert.Equal(t, "typed by hand", app.form.name.Text)
}

package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"github.com/tartampluch/go-lifestats/internal/config"
	"github.com/tartampluch/go-lifestats/internal/engine"
	"github.com/tartampluch/go-lifestats/internal/locale"
	"github.com/tartampluch/go-lifestats/internal/profile"
	"github.com/tartampluch/go-lifestats/internal/server"
)

// LifeStatsApp owns the window, the saved profile and the live session
// feeding the dashboard.
type LifeStatsApp struct {
	App      fyne.App
	Window   fyne.Window
	Ctx      context.Context
	Settings config.Settings
	Tr       *locale.Translator

	Store    profile.Store
	Importer *profile.Importer
	Server   *server.LifeServer // nil when disabled in the configuration
	Clock    engine.Clock       // Injected clock for testability

	mu      sync.Mutex
	session *engine.Session
	current profile.Profile

	form *profileForm
	dash *dashboard
}

// NewLifeStatsApp wires the application. srv may be nil.
func NewLifeStatsApp(a fyne.App, ctx context.Context, settings config.Settings, store profile.Store, srv *server.LifeServer) *LifeStatsApp {
	return &LifeStatsApp{
		App:      a,
		Ctx:      ctx,
		Settings: settings,
		Tr:       locale.New(settings.Language),
		Store:    store,
		Importer: profile.NewImporter(),
		Server:   srv,
		Clock:    engine.RealClock{},
	}
}

// Run opens the main window and blocks until the application quits.
func (app *LifeStatsApp) Run() {
	if app.Server != nil {
		go func() {
			if err := app.Server.Start(app.Ctx); err != nil {
				slog.Error(config.ErrServerStartup,
					config.LogKeyComponent, config.CompUI,
					config.LogKeyError, err,
				)
				app.App.SendNotification(fyne.NewNotification(
					config.TitleStartupError,
					fmt.Sprintf(config.MsgPortBusy, app.Server.Port)))
			}
		}()
	} else {
		slog.Info(config.MsgServerDisabled, config.LogKeyComponent, config.CompUI)
	}

	app.Setup()
	app.Window.ShowAndRun()
	app.Stop()
}

// Setup builds the main window and shows either the saved profile's
// dashboard or the empty profile form.
func (app *LifeStatsApp) Setup() {
	app.Window = app.App.NewWindow(app.Tr.T(config.TKeyWinTitle))
	app.Window.Resize(fyne.NewSize(config.MainWindowWidth, config.MainWindowHeight))
	app.Window.SetMaster()

	p, err := app.Store.Load()
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			slog.Info(config.MsgProfileMissing, config.LogKeyComponent, config.CompUI)
		} else {
			slog.Warn(config.ErrProfileLoad,
				config.LogKeyComponent, config.CompUI,
				config.LogKeyError, err,
			)
		}
		app.showForm(profile.Profile{})
		return
	}
	if err := app.activate(p); err != nil {
		app.showForm(p)
		dialog.ShowError(err, app.Window)
	}
}

// Stop cancels the live session, if any.
func (app *LifeStatsApp) Stop() {
	app.mu.Lock()
	s := app.session
	app.session = nil
	app.mu.Unlock()
	if s != nil {
		s.Stop()
	}
}

// Session returns the running session, or nil while the form is shown.
func (app *LifeStatsApp) Session() *engine.Session {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.session
}

// Profile returns the profile shown on the dashboard.
func (app *LifeStatsApp) Profile() profile.Profile {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.current
}

func (app *LifeStatsApp) showForm(p profile.Profile) {
	app.dash = nil
	app.form = newProfileForm(app)
	app.form.fill(p)
	app.Window.SetContent(app.form.content)
}

// submit validates the form, saves the profile and switches to the dashboard.
func (app *LifeStatsApp) submit() {
	p, err := app.form.read(app.Clock.Now())
	if err != nil {
		dialog.ShowError(err, app.Window)
		return
	}

	if err := app.Store.Save(p); err != nil {
		// The dashboard still works for this run.
		slog.Error(config.ErrProfileSave,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyError, err,
		)
	}

	if err := app.activate(p); err != nil {
		dialog.ShowError(err, app.Window)
	}
}

// activate starts a session for p and renders its dashboard.
func (app *LifeStatsApp) activate(p profile.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s, err := engine.NewSession(app.Clock, p.Birth)
	if err != nil {
		return err
	}

	app.Stop()
	app.form = nil
	app.dash = newDashboard(app, p)
	app.Window.SetContent(app.dash.content)

	app.mu.Lock()
	app.session = s
	app.current = p
	app.mu.Unlock()

	app.publish(p, s)

	err = s.Start(app.Settings.LiveInterval, app.dash.write,
		engine.WithImmediate(app.Settings.Immediate),
		engine.WithErrorHandler(func(err error) {
			slog.Warn(config.MsgLiveTickErr,
				config.LogKeyComponent, config.CompUI,
				config.LogKeySession, s.ID(),
				config.LogKeyError, err,
			)
		}),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrLiveStart, err)
	}
	return nil
}

// publish hands the session and the milestone calendar to the HTTP server.
func (app *LifeStatsApp) publish(p profile.Profile, s *engine.Session) {
	if app.Server == nil {
		return
	}
	gen := &engine.CalendarGenerator{
		Clock:           app.Clock,
		FormatSummary:   app.Tr.Summary,
		ReminderTrigger: config.DefaultReminder,
	}
	if err := app.Server.Attach(s, gen, p.Name); err != nil {
		slog.Error(config.ErrPublish,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyError, err,
		)
	}
}

// reset forgets the saved profile and goes back to the empty form.
func (app *LifeStatsApp) reset() {
	app.Stop()
	if app.Server != nil {
		app.Server.SetSource(nil)
	}
	if err := app.Store.Clear(); err != nil {
		slog.Error(config.ErrProfileClear,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyError, err,
		)
	}

	app.mu.Lock()
	app.current = profile.Profile{}
	app.mu.Unlock()

	app.showForm(profile.Profile{})
}

// importProfile loads a vCard in the background and fills the form with it.
func (app *LifeStatsApp) importProfile(source string) {
	go func() {
		p, err := app.Importer.Import(app.Ctx, source)
		fyne.Do(func() { app.applyImport(p, err) })
	}()
}

// applyImport runs on the UI goroutine once an import finished.
func (app *LifeStatsApp) applyImport(p profile.Profile, err error) {
	if err != nil {
		dialog.ShowError(err, app.Window)
		return
	}
	if app.form != nil {
		app.form.fill(p)
	}
}

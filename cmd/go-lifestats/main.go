package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"fyne.io/fyne/v2/app"
	"github.com/tartampluch/go-lifestats/internal/config"
	"github.com/tartampluch/go-lifestats/internal/engine"
	"github.com/tartampluch/go-lifestats/internal/locale"
	"github.com/tartampluch/go-lifestats/internal/profile"
	"github.com/tartampluch/go-lifestats/internal/server"
	"github.com/tartampluch/go-lifestats/internal/tui"
	"github.com/tartampluch/go-lifestats/internal/ui"
)

// options holds the parsed command line.
type options struct {
	debug      bool
	terminal   bool
	configPath string
	importFrom string
}

// main delegates to runMain so that deferred calls run before os.Exit.
func main() {
	os.Exit(runMain())
}

// runMain returns config.ExitCodeSuccess or config.ExitCodeError.
func runMain() int {
	// -------------------------------------------------------------------------
	// 1. CLI Argument Parsing
	// -------------------------------------------------------------------------
	var opts options
	showVersion := flag.Bool(config.FlagVersion, false, config.FlagDescVersion)
	flag.BoolVar(&opts.debug, config.FlagDebug, false, config.FlagDescDebug)
	flag.BoolVar(&opts.terminal, config.FlagTUI, false, config.FlagDescTUI)
	flag.StringVar(&opts.configPath, config.FlagConfig, config.DefaultConfigPath(), config.FlagDescConfig)
	flag.StringVar(&opts.importFrom, config.FlagImport, "", config.FlagDescImport)
	flag.Parse()

	if *showVersion {
		printVersion()
		return config.ExitCodeSuccess
	}

	// -------------------------------------------------------------------------
	// 2. Logging Initialization
	// -------------------------------------------------------------------------
	// The terminal UI owns stdout, so it logs to the file only.
	logCloser := setupLogging(opts.debug, !opts.terminal)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close()
		}()
	}

	// -------------------------------------------------------------------------
	// 3. Context & Signal Handling
	// -------------------------------------------------------------------------
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo(opts.terminal)

	// -------------------------------------------------------------------------
	// 4. Application Logic
	// -------------------------------------------------------------------------
	if err := run(ctx, opts); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		if opts.terminal {
			fmt.Fprintln(os.Stderr, err)
		}
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// run loads the configuration and the profile, then hands over to the
// selected front end.
func run(ctx context.Context, opts options) error {
	settings, err := loadSettings(opts.configPath)
	if err != nil {
		return err
	}

	store := profile.DefaultStore()
	if opts.importFrom != "" {
		p, err := profile.NewImporter().Import(ctx, opts.importFrom)
		if err != nil {
			return err
		}
		if err := store.Save(p); err != nil {
			return err
		}
	}

	var srv *server.LifeServer
	if settings.ServerEnabled {
		srv = server.NewLifeServer(settings.Port)
	}

	if opts.terminal {
		return runTerminal(ctx, settings, store, srv)
	}
	return runWindow(ctx, settings, store, srv)
}

func loadSettings(path string) (config.Settings, error) {
	fc, err := config.LoadConfig(path)
	if err != nil {
		return config.Settings{}, err
	}
	settings, err := fc.Resolve()
	if err != nil {
		return config.Settings{}, err
	}
	slog.Info(config.MsgConfigLoaded,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyPath, path,
		config.LogKeyInterval, settings.LiveInterval,
		config.LogKeyLang, settings.Language,
	)
	return settings, nil
}

// runWindow starts the Fyne application (blocks until the window closes).
func runWindow(ctx context.Context, settings config.Settings, store profile.Store, srv *server.LifeServer) error {
	a := app.NewWithID(config.AppID)
	gui := ui.NewLifeStatsApp(a, ctx, settings, store, srv)

	go func() {
		<-ctx.Done()
		slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompMain)
		a.Quit()
	}()

	gui.Run()
	return nil
}

// runTerminal shows the live counters of the saved profile in the terminal.
func runTerminal(ctx context.Context, settings config.Settings, store profile.Store, srv *server.LifeServer) error {
	p, err := store.Load()
	if errors.Is(err, profile.ErrNotFound) {
		slog.Info(config.MsgProfileMissing, config.LogKeyComponent, config.CompMain)
		return errors.New(config.ErrNoProfileTUI)
	}
	if err != nil {
		return err
	}

	tr := locale.New(settings.Language)
	model, err := tui.NewModel(tr, settings, engine.RealClock{}, p)
	if err != nil {
		return err
	}

	if srv != nil {
		gen := &engine.CalendarGenerator{
			Clock:           engine.RealClock{},
			FormatSummary:   tr.Summary,
			ReminderTrigger: config.DefaultReminder,
		}
		if err := srv.Attach(model.Session(), gen, p.Name); err != nil {
			slog.Error(config.ErrPublish,
				config.LogKeyComponent, config.CompMain,
				config.LogKeyError, err,
			)
		}
		go func() {
			if err := srv.Start(ctx); err != nil {
				slog.Error(config.ErrServerStartup,
					config.LogKeyComponent, config.CompMain,
					config.LogKeyError, err,
				)
			}
		}()
	} else {
		slog.Info(config.MsgServerDisabled, config.LogKeyComponent, config.CompMain)
	}

	return tui.Run(ctx, model)
}

// printVersion outputs the build information to stdout.
func printVersion() {
	fmt.Printf(config.MsgVersionOutput,
		config.AppName,
		config.Version,
		config.Commit,
		config.Date,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo(terminal bool) {
	mode := config.ModeWindow
	if terminal {
		mode = config.ModeTerminal
	}
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyMode, mode,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyCommit, config.Commit),
			slog.String(config.LogKeyDate, config.Date),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger. Records always go to the
// log file in the user cache dir, and to stdout when toStdout is set.
func setupLogging(debugMode, toStdout bool) io.Closer {
	var writers []io.Writer
	var logFile *os.File

	if toStdout {
		writers = append(writers, os.Stdout)
	}

	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart to prevent indefinite growth.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts))
	slog.SetDefault(logger)

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}

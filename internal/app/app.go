package app

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/dshills/normkeys/internal/capture"
	"github.com/dshills/normkeys/internal/engine"
	"github.com/dshills/normkeys/internal/input/sequence"
	"github.com/dshills/normkeys/internal/input/tracker"
)

// Source names for Options.Source.
const (
	SourceTerminal = "terminal"
	SourceEvdev    = "evdev"
)

// ErrUnknownSource indicates an unrecognized capture source name.
var ErrUnknownSource = errors.New("unknown capture source")

// Options configures the application.
type Options struct {
	// DefsPath is the sequence definition file (YAML, TOML, or JSON).
	// Empty runs with no registered sequences.
	DefsPath string

	// Watch reloads DefsPath when it changes on disk.
	Watch bool

	// Source selects the capture source: "terminal" or "evdev".
	Source string

	// Device is an explicit evdev device path for the evdev source.
	Device string

	// LogLevel sets the logging verbosity.
	LogLevel string

	// LogPath writes logs to a file. The terminal source owns the
	// screen, so logging to stderr would corrupt the display.
	LogPath string

	// TapHoldThreshold overrides the tap/hold classification
	// threshold. Zero keeps the default.
	TapHoldThreshold time.Duration
}

// Application coordinates the engine, a capture source, definition
// loading with optional hot reload, and the monitor display.
type Application struct {
	opts   Options
	logger *Logger
	engine *engine.Engine

	watcher *sequence.Watcher
	source  capture.Source
	logFile *os.File

	monitor *monitor

	running  atomic.Bool
	shutdown atomic.Bool
}

// New creates an application with the given options.
func New(opts Options) (*Application, error) {
	if opts.Source == "" {
		opts.Source = SourceTerminal
	}

	app := &Application{opts: opts}
	if err := app.bootstrap(); err != nil {
		app.Shutdown()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Logger. File output when configured, stderr otherwise.
	cfg := DefaultLoggerConfig()
	cfg.Level = ParseLogLevel(app.opts.LogLevel)
	if app.opts.LogPath != "" {
		f, err := os.OpenFile(app.opts.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		app.logFile = f
		cfg.Output = f
	}
	app.logger = NewLogger(cfg)

	// 2. Engine.
	var engOpts []engine.Option
	engOpts = append(engOpts, engine.WithLogger(app.logger))
	if app.opts.TapHoldThreshold > 0 {
		engOpts = append(engOpts, engine.WithTapHoldThreshold(app.opts.TapHoldThreshold))
	}
	app.engine = engine.New(engOpts...)

	// 3. Sequence definitions.
	if app.opts.DefsPath != "" {
		defs, err := sequence.LoadFile(app.opts.DefsPath)
		if err != nil {
			return err
		}
		if err := app.engine.RegisterSequences(defs...); err != nil {
			return err
		}
		app.logger.Info("loaded %d sequence definitions from %s", len(defs), app.opts.DefsPath)
	}

	// 4. Hot reload.
	if app.opts.Watch && app.opts.DefsPath != "" {
		w, err := sequence.NewWatcher(app.opts.DefsPath, app.onReload, app.onReloadError)
		if err != nil {
			return err
		}
		app.watcher = w
	}

	// 5. Monitor state fed from the engine's bus.
	app.monitor = newMonitor(app.engine)
	if _, err := app.engine.OnEvent(app.monitor.recordEvent); err != nil {
		return err
	}
	if _, err := app.engine.OnMatch(app.monitor.recordMatch); err != nil {
		return err
	}
	if _, err := app.engine.OnEvent(func(ev tracker.NormalizedEvent) {
		app.logger.Debug("event: %s", ev.String())
	}); err != nil {
		return err
	}

	return nil
}

// Engine exposes the underlying input engine.
func (app *Application) Engine() *engine.Engine {
	return app.engine
}

// Run builds the capture source and blocks until it stops.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return nil
	}

	src, err := app.newSource()
	if err != nil {
		return err
	}
	app.source = src

	if app.watcher != nil {
		if err := app.watcher.Start(); err != nil {
			return err
		}
	}

	app.logger.Info("capture source %s running", app.opts.Source)
	return src.Run()
}

// Shutdown stops everything. Idempotent and safe from any goroutine.
func (app *Application) Shutdown() {
	if !app.shutdown.CompareAndSwap(false, true) {
		return
	}
	if app.source != nil {
		app.source.Stop()
	}
	if app.watcher != nil {
		app.watcher.Stop()
	}
	if app.engine != nil {
		_ = app.engine.Close()
	}
	if app.logFile != nil {
		_ = app.logFile.Close()
	}
}

// newSource builds the configured capture source.
func (app *Application) newSource() (capture.Source, error) {
	switch app.opts.Source {
	case SourceTerminal:
		return capture.NewTerminal(app.engine,
			capture.WithRenderer(app.monitor.draw),
		)
	case SourceEvdev:
		return app.newEvdevSource()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, app.opts.Source)
	}
}

// onReload swaps the sequence registry when the definition file
// changes.
func (app *Application) onReload(path string, defs []sequence.Definition) {
	if err := app.engine.ReplaceSequences(time.Now(), defs...); err != nil {
		app.logger.Error("reload rejected: %v", err)
		return
	}
	app.logger.Info("reloaded %d sequence definitions from %s", len(defs), path)
}

// onReloadError reports a reload failure; the old registry stays
// active.
func (app *Application) onReloadError(path string, err error) {
	app.logger.Error("watching %s: %v", path, err)
}

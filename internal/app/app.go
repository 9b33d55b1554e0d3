// Package app wires the editor together: configuration, the style
// sheet, the text surface, commands, key bindings, session state, the
// init script, and the terminal shell that drives them.
package app

import (
	"math"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Elisabitao/brackets/internal/command"
	"github.com/Elisabitao/brackets/internal/config"
	"github.com/Elisabitao/brackets/internal/config/notify"
	"github.com/Elisabitao/brackets/internal/editor"
	"github.com/Elisabitao/brackets/internal/font"
	"github.com/Elisabitao/brackets/internal/input/keymap"
	"github.com/Elisabitao/brackets/internal/rc"
	"github.com/Elisabitao/brackets/internal/session"
	"github.com/Elisabitao/brackets/internal/style"
	"github.com/Elisabitao/brackets/internal/term"
	"github.com/Elisabitao/brackets/internal/view"
)

// Command identifiers registered by the application shell.
const (
	CmdQuit           = "app.quit"
	CmdCommandPalette = "app.commandPalette"
)

// initScript is executed from the configuration directory at startup.
const initScript = "init.lua"

// sessionMaxAge is how long unvisited files keep their saved view state.
const sessionMaxAge = 90 * 24 * time.Hour

// Options configures the application.
type Options struct {
	// ConfigPath overrides the default settings file location.
	ConfigPath string

	// File is the file to open on startup. Empty opens a scratch
	// buffer.
	File string

	// Debug forces debug-level logging.
	Debug bool

	// LogLevel sets the logging verbosity when Debug is off.
	LogLevel string
}

// Application is the central coordinator for the editor's components.
// It owns bootstrap, the terminal event loop, and shutdown.
type Application struct {
	mu sync.RWMutex

	cfg     *config.Config
	log     *Logger
	logFile *os.File

	sheet   *style.Sheet
	metrics *font.Metrics
	surface *editor.TextView

	registry *command.Registry
	keys     *keymap.Keymap

	sessions *session.Store
	scripts  *rc.Runtime

	terminal *term.Terminal
	renderer *term.Renderer
	palette  *term.Palette

	// message is the transient status-line text. Event-loop state.
	message string

	configDirty atomic.Bool
	quitting    atomic.Bool
	running     atomic.Bool
	closeOnce   sync.Once

	opts Options
}

// New creates an application and bootstraps all components.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts}
	if err := app.bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// bootstrap initializes components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Configuration
	var configOpts []config.Option
	if app.opts.ConfigPath != "" {
		configOpts = append(configOpts, config.WithPath(app.opts.ConfigPath))
	}
	app.cfg = config.New(configOpts...)
	loadErr := app.cfg.Load()

	// 2. Logging
	app.log = app.newLogger()
	SetLogger(app.log)
	if loadErr != nil {
		app.log.Warn("config: %v", loadErr)
	}

	// 3. Font metrics and the style sheet
	metrics, err := font.NewMetrics()
	if err != nil {
		return &InitError{Component: "font metrics", Err: err}
	}
	app.metrics = metrics
	app.sheet = style.NewSheet(baselineStyle(app.cfg.UI(), metrics))

	// 4. Editor surface
	app.surface = app.newSurface()

	// 5. Commands and key bindings
	app.registry = command.NewRegistry()
	app.keys = keymap.Defaults()

	adjuster := view.NewFontAdjuster(app.sheet, app.focusedSurface)
	scroller := view.NewLineScroller(app.focusedSurface)
	if err := view.Register(app.registry, adjuster, scroller); err != nil {
		return &InitError{Component: "view commands", Err: err}
	}
	if err := app.registerShellCommands(); err != nil {
		return &InitError{Component: "shell commands", Err: err}
	}
	app.palette = term.NewPalette(app.registry)

	// 6. Session state
	if sess := app.cfg.Session(); sess.Enabled {
		app.openSessions(sess)
	}

	// 7. Init script
	app.scripts = rc.New(app.registry, app.keys, app.cfg, app.log.WithComponent("rc"))
	script := filepath.Join(filepath.Dir(app.cfg.FilePath()), initScript)
	if err := app.scripts.Run(script); err != nil {
		app.log.Warn("%v", err)
	}

	// 8. Configuration reload. Observers fire on the watcher goroutine,
	// so only mark the change and wake the loop; applyConfig runs there.
	app.cfg.Subscribe(func(notify.Change) {
		app.configDirty.Store(true)
		app.interrupt()
	})

	return nil
}

// newLogger builds the application logger from the options and the
// logging configuration section.
func (app *Application) newLogger() *Logger {
	cfg := DefaultLoggerConfig()
	cfg.Level = app.logLevel()

	if file := app.cfg.Logging().File; file != "" {
		if f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			app.logFile = f
			cfg.Output = f
		}
	}
	return NewLogger(cfg)
}

// logLevel resolves the effective log level: -debug wins, then an
// explicit -log-level, then the configuration.
func (app *Application) logLevel() LogLevel {
	if app.opts.Debug {
		return LogLevelDebug
	}
	if app.opts.LogLevel != "" {
		return ParseLogLevel(app.opts.LogLevel)
	}
	return ParseLogLevel(app.cfg.Logging().Level)
}

// newSurface builds the text surface, loading the startup file when one
// was given. A missing file opens empty under that path.
func (app *Application) newSurface() *editor.TextView {
	opts := []editor.Option{
		editor.WithStyles(app.sheet),
		editor.WithTopPadding(float64(app.cfg.Editor().TopPadding)),
	}

	if app.opts.File != "" {
		path := app.opts.File
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		opts = append(opts, editor.WithPath(path))

		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			opts = append(opts, editor.WithText(string(data)))
		case !os.IsNotExist(err):
			app.log.Warn("open %s: %v", path, err)
		}
	}

	return editor.NewTextView(opts...)
}

// registerShellCommands publishes the commands owned by the shell
// itself.
func (app *Application) registerShellCommands() error {
	return app.registry.RegisterAll([]*command.Command{
		{
			ID:          CmdQuit,
			Title:       "Quit",
			Description: "Exit the editor",
			Category:    "Application",
			Keybinding:  "Ctrl+q",
			Handler: func(map[string]any) error {
				return ErrQuit
			},
			Source: "core",
		},
		{
			ID:          CmdCommandPalette,
			Title:       "Command Palette",
			Description: "Browse and run commands",
			Category:    "Application",
			Keybinding:  "Ctrl+p",
			Handler: func(map[string]any) error {
				app.palette.Open()
				return nil
			},
			Source: "core",
		},
	})
}

// openSessions opens the session store, prunes stale entries, and
// restores view state for the startup file. Store failures degrade to
// running without persistence.
func (app *Application) openSessions(sess config.SessionConfig) {
	path := session.DefaultPath()
	if sess.Dir != "" {
		path = filepath.Join(sess.Dir, "session.json")
	}

	store, err := session.NewStore(path)
	if err != nil {
		app.log.Warn("session: %v", err)
		return
	}
	app.sessions = store

	if n, err := store.Prune(sessionMaxAge); err != nil {
		app.log.Warn("session: %v", err)
	} else if n > 0 {
		app.log.Debug("session: pruned %d stale entries", n)
	}

	app.restoreViewState()
}

// restoreViewState reapplies the saved scroll and cursor state of the
// open file.
func (app *Application) restoreViewState() {
	path := app.surface.Path()
	if path == "" {
		return
	}

	state, err := app.sessions.Get(path)
	if err != nil {
		return
	}
	app.surface.SetScrollPos(state.ScrollX, state.ScrollY)
	app.surface.SetCursorPos(editor.Pos{Line: state.CursorLine, Col: state.CursorCol})
}

// saveViewState persists the scroll and cursor state of the open file.
func (app *Application) saveViewState() {
	path := app.surface.Path()
	if path == "" {
		return
	}

	info := app.surface.ScrollInfo()
	cursor := app.surface.CursorPos()
	err := app.sessions.Put(path, session.ViewState{
		ScrollX:    info.X,
		ScrollY:    info.Y,
		CursorLine: cursor.Line,
		CursorCol:  cursor.Col,
	})
	if err != nil {
		app.log.Warn("session: %v", err)
	}
}

// focusedSurface is the SurfaceProvider handed to the view commands.
// The shell has a single surface, so focus never moves.
func (app *Application) focusedSurface() editor.Surface {
	if app.surface == nil {
		return nil
	}
	return app.surface
}

// baselineStyle derives the baseline font-size and line-height strings
// from the UI configuration. An explicit line-height multiplier wins;
// zero means "normal" and takes the measured height of the bundled
// face.
func baselineStyle(ui config.UIConfig, metrics *font.Metrics) (fontSize, lineHeight string) {
	sizePx := float64(ui.FontSize)
	if sizePx <= 0 {
		sizePx = config.DefaultFontSize
	}

	heightPx := sizePx * 1.5
	if ui.LineHeight > 0 {
		heightPx = sizePx * ui.LineHeight
	} else if measured, err := metrics.LineHeight(sizePx); err == nil {
		heightPx = measured
	}

	fs := style.Value{Magnitude: sizePx, Unit: style.UnitPixel}
	lh := style.Value{Magnitude: math.Round(heightPx), Unit: style.UnitPixel}
	return fs.String(), lh.String()
}

// SetTerminal injects the terminal the shell runs on. Tests use this
// with a simulation screen. Must be called before Run.
func (app *Application) SetTerminal(t *term.Terminal) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.terminal = t
	return nil
}

// Shutdown stops the event loop and releases resources. While the loop
// is running it only requests exit; the final Shutdown after Run has
// returned performs the cleanup. Safe to call from any goroutine and
// more than once.
func (app *Application) Shutdown() {
	app.quitting.Store(true)
	if app.running.Load() {
		app.interrupt()
		return
	}
	app.closeOnce.Do(app.cleanup)
}

// cleanup releases resources in reverse bootstrap order.
func (app *Application) cleanup() {
	if app.sessions != nil {
		app.saveViewState()
	}
	if app.scripts != nil {
		app.scripts.Close()
	}
	if app.cfg != nil {
		app.cfg.Close()
	}
	if app.logFile != nil {
		app.logFile.Close()
	}
}

// interrupt wakes the event loop out of PollEvent.
func (app *Application) interrupt() {
	app.mu.RLock()
	t := app.terminal
	app.mu.RUnlock()
	if t != nil {
		t.Interrupt()
	}
}

// IsRunning reports whether the event loop is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the configuration system.
func (app *Application) Config() *config.Config {
	return app.cfg
}

// Logger returns the application logger.
func (app *Application) Logger() *Logger {
	return app.log
}

// Registry returns the command registry.
func (app *Application) Registry() *command.Registry {
	return app.registry
}

// Keymap returns the active key bindings.
func (app *Application) Keymap() *keymap.Keymap {
	return app.keys
}

// Surface returns the editor surface.
func (app *Application) Surface() *editor.TextView {
	return app.surface
}

// Sheet returns the shared style sheet.
func (app *Application) Sheet() *style.Sheet {
	return app.sheet
}

// Palette returns the command palette.
func (app *Application) Palette() *term.Palette {
	return app.palette
}

// Sessions returns the session store. Nil when persistence is disabled.
func (app *Application) Sessions() *session.Store {
	return app.sessions
}

// Scripts returns the init-script runtime.
func (app *Application) Scripts() *rc.Runtime {
	return app.scripts
}

package app

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/gdamore/tcell/v2"

	"github.com/Elisabitao/brackets/internal/term"
)

// Run initializes the terminal and drives the event loop. It blocks
// until a quit command (returning ErrQuit), Shutdown, or context
// cancellation.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	app.mu.Lock()
	if app.terminal == nil {
		t, err := term.New()
		if err != nil {
			app.mu.Unlock()
			return &InitError{Component: "terminal", Err: err}
		}
		app.terminal = t
	}
	terminal := app.terminal
	app.mu.Unlock()

	if err := terminal.Init(); err != nil {
		return &InitError{Component: "terminal", Err: err}
	}
	defer terminal.Fini()

	ui := app.cfg.UI()
	app.renderer = term.NewRenderer(terminal, term.ThemeByName(ui.Theme), app.cfg.Editor().LineNumbers)

	// Cancellation only wakes the loop; it exits on the quitting flag.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			app.quitting.Store(true)
			terminal.Interrupt()
		case <-stop:
		}
	}()

	app.log.Info("editor started")
	return app.eventLoop(terminal)
}

// eventLoop renders and dispatches events until quit.
func (app *Application) eventLoop(terminal *term.Terminal) error {
	for {
		if app.quitting.Load() {
			return nil
		}
		if app.configDirty.CompareAndSwap(true, false) {
			app.applyConfig()
		}
		app.syncViewport(terminal)
		app.render()

		ev := terminal.PollEvent()
		if ev == nil {
			return nil
		}

		switch ev := ev.(type) {
		case *tcell.EventKey:
			if err := app.handleKey(ev); err != nil {
				return err
			}
		case *tcell.EventResize:
			// The next pass through the loop re-syncs the viewport.
		case *tcell.EventInterrupt:
			// Woken to re-check the flags above.
		}
	}
}

// handleKey routes a key press: the palette first when open, else the
// keymap.
func (app *Application) handleKey(tev *tcell.EventKey) error {
	ev, ok := term.TranslateKey(tev)
	if !ok {
		return nil
	}
	app.message = ""

	if app.palette.IsOpen() {
		action, id := app.palette.HandleKey(ev)
		if action == term.PaletteExecute {
			return app.execute(id, nil)
		}
		return nil
	}

	binding, ok := app.keys.Resolve(ev)
	if !ok {
		return nil
	}
	return app.execute(binding.Command, binding.Args)
}

// execute runs a command. ErrQuit propagates to stop the loop; other
// failures land in the log and the status line.
func (app *Application) execute(id string, args map[string]any) error {
	err := app.registry.ExecuteWithArgs(id, args)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrQuit) {
		return ErrQuit
	}

	app.log.Error("%v", err)
	app.message = err.Error()
	return nil
}

// syncViewport sizes the surface's pixel viewport from the terminal
// grid. The bottom row belongs to the status line; columns map to a
// nominal half-height glyph advance.
func (app *Application) syncViewport(terminal *term.Terminal) {
	app.surface.RefreshLayout()

	cols, rows := terminal.Size()
	textRows := rows - 1
	if textRows < 1 {
		textRows = 1
	}

	h := app.surface.TextHeight()
	app.surface.SetViewportSize(float64(cols)*h/2, float64(textRows)*h)
}

// applyConfig folds reloaded configuration into the running editor.
// Runs on the event-loop goroutine; an active font override keeps
// winning until restored.
func (app *Application) applyConfig() {
	ui := app.cfg.UI()
	app.sheet.SetBaseline(baselineStyle(ui, app.metrics))

	app.log.SetLevel(app.logLevel())
	if app.renderer != nil {
		app.renderer.SetTheme(term.ThemeByName(ui.Theme))
		app.renderer.SetLineNumbers(app.cfg.Editor().LineNumbers)
	}
	app.log.Debug("configuration applied")
}

// render draws the current frame.
func (app *Application) render() {
	if app.renderer == nil {
		return
	}
	app.renderer.Render(app.surface, app.statusInfo(), app.palette)
}

// statusInfo assembles the status line contents.
func (app *Application) statusInfo() term.StatusInfo {
	fontSize, lineHeight := app.sheet.Computed()
	info := term.StatusInfo{
		FontSize:   fontSize,
		LineHeight: lineHeight,
		Override:   app.sheet.Active(),
		Cursor:     app.surface.CursorPos(),
		Message:    app.message,
	}
	if path := app.surface.Path(); path != "" {
		info.File = filepath.Base(path)
	}
	return info
}

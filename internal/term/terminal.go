// Package term drives the terminal the editor runs in: screen
// lifecycle, cell drawing, and translation of tcell input into key
// events.
package term

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Screen is the terminal surface the shell draws into.
type Screen interface {
	Init() error
	Fini()
	Size() (width, height int)
	Clear()
	SetCell(x, y int, r rune, style tcell.Style)
	ShowCursor(x, y int)
	HideCursor()
	Show()
	PollEvent() tcell.Event
	Interrupt()
}

// Terminal implements Screen over a live tcell screen.
type Terminal struct {
	mu     sync.Mutex
	screen tcell.Screen
}

// New creates a terminal over the process's controlling TTY.
func New() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("term: %w", err)
	}
	return &Terminal{screen: screen}, nil
}

// NewWith wraps an existing tcell screen. Tests pass a simulation
// screen.
func NewWith(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

// Init puts the terminal into raw mode.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("term: init: %w", err)
	}
	t.screen.EnablePaste()
	return nil
}

// Fini restores the terminal.
func (t *Terminal) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

// Size returns the screen dimensions in cells.
func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

// Clear erases the pending frame.
func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

// SetCell writes one rune into the pending frame.
func (t *Terminal) SetCell(x, y int, r rune, style tcell.Style) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.SetContent(x, y, r, nil, style)
}

// ShowCursor places the hardware cursor.
func (t *Terminal) ShowCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.ShowCursor(x, y)
}

// HideCursor hides the hardware cursor.
func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.HideCursor()
}

// Show flushes the pending frame to the terminal.
func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

// PollEvent blocks until the next input event. It holds no lock; tcell
// serializes event delivery itself.
func (t *Terminal) PollEvent() tcell.Event {
	return t.screen.PollEvent()
}

// Interrupt wakes a goroutine blocked in PollEvent. The event loop uses
// it to notice shutdown requests from other goroutines.
func (t *Terminal) Interrupt() {
	_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

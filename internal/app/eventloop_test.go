package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/Elisabitao/brackets/internal/command"
	"github.com/Elisabitao/brackets/internal/input/keymap"
	"github.com/Elisabitao/brackets/internal/term"
)

// startLoop runs the application against a simulation screen and blocks
// until the first frame is on it, so injected keys land after Init.
func startLoop(t *testing.T, application *Application) (tcell.SimulationScreen, <-chan error) {
	t.Helper()

	sim := tcell.NewSimulationScreen("UTF-8")
	if err := application.SetTerminal(term.NewWith(sim)); err != nil {
		t.Fatalf("SetTerminal: %v", err)
	}

	errc := make(chan error, 1)
	go func() {
		errc <- application.Run(context.Background())
	}()

	waitForFrame(t, sim)
	return sim, errc
}

func waitForFrame(t *testing.T, sim tcell.SimulationScreen) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		cells, w, h := sim.GetContents()
		if w > 0 && h > 0 {
			for _, c := range cells {
				if len(c.Runes) > 0 && c.Runes[0] != ' ' {
					return
				}
			}
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("no frame rendered")
}

func waitForExit(t *testing.T, errc <-chan error) error {
	t.Helper()
	select {
	case err := <-errc:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("event loop did not exit")
		return nil
	}
}

func TestRunQuitsOnCtrlQ(t *testing.T) {
	application := newTestApp(t, Options{})
	sim, errc := startLoop(t, application)

	sim.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)

	if err := waitForExit(t, errc); !errors.Is(err, ErrQuit) {
		t.Errorf("Run returned %v, want ErrQuit", err)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	application := newTestApp(t, Options{})

	sim := tcell.NewSimulationScreen("UTF-8")
	if err := application.SetTerminal(term.NewWith(sim)); err != nil {
		t.Fatalf("SetTerminal: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		errc <- application.Run(ctx)
	}()
	waitForFrame(t, sim)

	cancel()

	if err := waitForExit(t, errc); err != nil {
		t.Errorf("Run returned %v, want nil", err)
	}
}

func TestRunStopsOnShutdown(t *testing.T) {
	application := newTestApp(t, Options{})
	_, errc := startLoop(t, application)

	application.Shutdown()

	if err := waitForExit(t, errc); err != nil {
		t.Errorf("Run returned %v, want nil", err)
	}
}

func TestRunRejectsSecondLoop(t *testing.T) {
	application := newTestApp(t, Options{})
	sim, errc := startLoop(t, application)

	if err := application.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run returned %v, want ErrAlreadyRunning", err)
	}

	sim.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)
	waitForExit(t, errc)
}

func TestRunScrollChordMovesViewport(t *testing.T) {
	file := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(file, []byte(manyLines(40)), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	application := newTestApp(t, Options{File: file})
	sim, errc := startLoop(t, application)

	sim.InjectKey(tcell.KeyDown, 0, tcell.ModCtrl|tcell.ModShift)
	sim.InjectKey(tcell.KeyDown, 0, tcell.ModCtrl|tcell.ModShift)
	sim.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)
	waitForExit(t, errc)

	if got := application.Surface().ScrollInfo().Y; got != 42 {
		t.Errorf("scrollY after two line scrolls = %v, want 42", got)
	}
	if got := application.Surface().CursorPos().Line; got != 1 {
		t.Errorf("cursor line = %d, want 1", got)
	}
}

func TestRunPaletteDrivesCommand(t *testing.T) {
	application := newTestApp(t, Options{})
	sim, errc := startLoop(t, application)

	sim.InjectKey(tcell.KeyCtrlP, 0, tcell.ModCtrl)
	for _, r := range "quit" {
		sim.InjectKey(tcell.KeyRune, r, tcell.ModNone)
	}
	sim.InjectKey(tcell.KeyEnter, '\r', tcell.ModNone)

	if err := waitForExit(t, errc); !errors.Is(err, ErrQuit) {
		t.Errorf("Run returned %v, want ErrQuit", err)
	}
}

func TestRunResizeSyncsViewport(t *testing.T) {
	application := newTestApp(t, Options{})
	sim, errc := startLoop(t, application)

	sim.SetSize(100, 31)
	sim.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)
	waitForExit(t, errc)

	info := application.Surface().ScrollInfo()
	if info.Height != 30*21 {
		t.Errorf("viewport height = %v, want %v", info.Height, 30*21)
	}
	if info.Width != 100*21/2 {
		t.Errorf("viewport width = %v, want %v", info.Width, 100*21/2)
	}
}

func TestHandleKeyReportsCommandFailure(t *testing.T) {
	application := newTestApp(t, Options{})
	application.Logger().Disable()

	if err := application.Registry().Register(&command.Command{
		ID:      "test.fail",
		Title:   "Always Fails",
		Handler: func(map[string]any) error { return errors.New("boom") },
		Source:  "test",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := application.Keymap().Add(keymap.Binding{Keys: "F5", Command: "test.fail", Source: "test"}); err != nil {
		t.Fatalf("bind: %v", err)
	}

	if err := application.handleKey(tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone)); err != nil {
		t.Fatalf("handleKey: %v", err)
	}
	if application.message == "" || !strings.Contains(application.message, "boom") {
		t.Errorf("status message = %q, want it to mention boom", application.message)
	}

	// Any later key clears the message.
	application.handleKey(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone))
	if application.message != "" {
		t.Errorf("status message not cleared: %q", application.message)
	}
}

func TestHandleKeyRoutesToPaletteWhenOpen(t *testing.T) {
	application := newTestApp(t, Options{})

	application.handleKey(tcell.NewEventKey(tcell.KeyCtrlP, 0, tcell.ModCtrl))
	if !application.Palette().IsOpen() {
		t.Fatal("palette did not open")
	}

	application.handleKey(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone))
	if got := application.Palette().Query(); got != "q" {
		t.Errorf("palette query = %q, want %q", got, "q")
	}

	application.handleKey(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	if application.Palette().IsOpen() {
		t.Error("escape did not close the palette")
	}
}

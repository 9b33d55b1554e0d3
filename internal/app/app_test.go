package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Elisabitao/brackets/internal/config"
	"github.com/Elisabitao/brackets/internal/editor"
	"github.com/Elisabitao/brackets/internal/font"
	"github.com/Elisabitao/brackets/internal/input/key"
	"github.com/Elisabitao/brackets/internal/rc"
	"github.com/Elisabitao/brackets/internal/view"
)

// testSettings pins a 21px text height so scroll math is exact.
const testSettings = "[ui]\nfontSize = 14\nlineHeight = 1.5\n"

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	return path
}

// newTestApp builds an application against throwaway config and session
// locations.
func newTestApp(t *testing.T, opts Options) *Application {
	t.Helper()
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	if opts.ConfigPath == "" {
		opts.ConfigPath = writeSettings(t, testSettings)
	}

	application, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(application.Shutdown)
	return application
}

func mustExecute(t *testing.T, application *Application, id string) {
	t.Helper()
	if err := application.Registry().Execute(id); err != nil {
		t.Fatalf("execute %s: %v", id, err)
	}
}

func manyLines(n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		if i > 1 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "line %d", i)
	}
	return b.String()
}

func TestNewRegistersCoreCommands(t *testing.T) {
	application := newTestApp(t, Options{})

	for _, id := range []string{
		view.CmdIncreaseFontSize,
		view.CmdDecreaseFontSize,
		view.CmdRestoreFontSize,
		view.CmdScrollLineUp,
		view.CmdScrollLineDown,
		CmdQuit,
		CmdCommandPalette,
	} {
		if !application.Registry().Has(id) {
			t.Errorf("command %s not registered", id)
		}
	}
}

func TestNewInstallsDefaultBindings(t *testing.T) {
	application := newTestApp(t, Options{})

	tests := []struct {
		chord   string
		command string
	}{
		{"Ctrl+Shift+Up", view.CmdScrollLineUp},
		{"Ctrl+Shift+Down", view.CmdScrollLineDown},
		{"Ctrl+p", CmdCommandPalette},
		{"Ctrl+q", CmdQuit},
	}

	for _, tt := range tests {
		binding, ok := application.Keymap().Resolve(key.MustParse(tt.chord))
		if !ok {
			t.Errorf("no binding for %s", tt.chord)
			continue
		}
		if binding.Command != tt.command {
			t.Errorf("%s resolves to %s, want %s", tt.chord, binding.Command, tt.command)
		}
	}
}

func TestFontCommandsShipUnbound(t *testing.T) {
	application := newTestApp(t, Options{})

	fontCommands := map[string]bool{
		view.CmdIncreaseFontSize: true,
		view.CmdDecreaseFontSize: true,
		view.CmdRestoreFontSize:  true,
	}
	for _, b := range application.Keymap().Bindings() {
		if fontCommands[b.Command] {
			t.Errorf("font command %s has default chord %s", b.Command, b.Keys)
		}
	}
}

func TestFontSizeCommandsAdjustSheet(t *testing.T) {
	application := newTestApp(t, Options{})

	mustExecute(t, application, view.CmdIncreaseFontSize)

	if !application.Sheet().Active() {
		t.Fatal("increase did not install an override")
	}
	fs, lh := application.Sheet().Computed()
	if fs != "15px" || lh != "22px" {
		t.Errorf("computed = %s/%s, want 15px/22px", fs, lh)
	}

	mustExecute(t, application, view.CmdRestoreFontSize)

	if application.Sheet().Active() {
		t.Error("restore left the override installed")
	}
	fs, lh = application.Sheet().Computed()
	if fs != "14px" || lh != "21px" {
		t.Errorf("computed after restore = %s/%s, want 14px/21px", fs, lh)
	}
}

func TestQuitCommandSignalsQuit(t *testing.T) {
	application := newTestApp(t, Options{})

	err := application.Registry().Execute(CmdQuit)
	if !errors.Is(err, ErrQuit) {
		t.Errorf("quit returned %v, want ErrQuit", err)
	}
}

func TestPaletteCommandOpensPalette(t *testing.T) {
	application := newTestApp(t, Options{})

	mustExecute(t, application, CmdCommandPalette)

	if !application.Palette().IsOpen() {
		t.Error("palette not open after app.commandPalette")
	}
}

func TestOpenMissingFileStartsEmpty(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "ghost.txt")
	application := newTestApp(t, Options{File: missing})

	surface := application.Surface()
	if surface.Path() != missing {
		t.Errorf("path = %q, want %q", surface.Path(), missing)
	}
	if surface.LineCount() != 1 || surface.Line(0) != "" {
		t.Errorf("surface not empty: %d lines", surface.LineCount())
	}
}

func TestOpenFileLoadsContent(t *testing.T) {
	file := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(file, []byte("alpha\nbeta\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	application := newTestApp(t, Options{File: file})

	surface := application.Surface()
	if surface.LineCount() != 3 {
		t.Fatalf("line count = %d, want 3", surface.LineCount())
	}
	if surface.Line(0) != "alpha" || surface.Line(1) != "beta" {
		t.Errorf("content mismatch: %q, %q", surface.Line(0), surface.Line(1))
	}
}

func TestSessionStateRoundTrip(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	cfgPath := writeSettings(t, testSettings)

	file := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(file, []byte(manyLines(40)), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	first, err := New(Options{ConfigPath: cfgPath, File: file})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	first.Surface().SetScrollPos(0, 63)
	first.Surface().SetCursorPos(editor.Pos{Line: 3, Col: 2})
	first.Shutdown()

	second, err := New(Options{ConfigPath: cfgPath, File: file})
	if err != nil {
		t.Fatalf("New again: %v", err)
	}
	t.Cleanup(second.Shutdown)

	if got := second.Surface().ScrollInfo().Y; got != 63 {
		t.Errorf("restored scrollY = %v, want 63", got)
	}
	want := editor.Pos{Line: 3, Col: 2}
	if got := second.Surface().CursorPos(); got != want {
		t.Errorf("restored cursor = %+v, want %+v", got, want)
	}
}

func TestInitScriptRunsAtStartup(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "settings.toml")
	if err := os.WriteFile(cfgPath, []byte(testSettings), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	script := `
editor.command("user.hello", "Say Hello", function(args) end)
editor.bind("<C-g>", "user.hello")
`
	if err := os.WriteFile(filepath.Join(dir, "init.lua"), []byte(script), 0o644); err != nil {
		t.Fatalf("write init.lua: %v", err)
	}

	application, err := New(Options{ConfigPath: cfgPath})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(application.Shutdown)

	if !application.Registry().Has("user.hello") {
		t.Error("script command not registered")
	}
	binding, ok := application.Keymap().Resolve(key.MustParse("<C-g>"))
	if !ok || binding.Command != "user.hello" {
		t.Errorf("script binding missing: %+v ok=%v", binding, ok)
	}
}

func TestConfigChangeMarksLoopDirty(t *testing.T) {
	application := newTestApp(t, Options{})

	if err := application.Config().Set("ui.fontSize", 16); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !application.configDirty.Load() {
		t.Error("config change did not mark the loop dirty")
	}
}

func TestApplyConfigUpdatesBaseline(t *testing.T) {
	application := newTestApp(t, Options{})

	if err := application.Config().Set("ui.fontSize", 16); err != nil {
		t.Fatalf("set: %v", err)
	}
	application.applyConfig()

	fs, lh := application.Sheet().Baseline()
	if fs != "16px" || lh != "24px" {
		t.Errorf("baseline = %s/%s, want 16px/24px", fs, lh)
	}
}

func TestOverrideOutlivesConfigReload(t *testing.T) {
	application := newTestApp(t, Options{})

	mustExecute(t, application, view.CmdIncreaseFontSize)
	if err := application.Config().Set("ui.fontSize", 18); err != nil {
		t.Fatalf("set: %v", err)
	}
	application.applyConfig()

	fs, lh := application.Sheet().Computed()
	if fs != "15px" || lh != "22px" {
		t.Errorf("override lost after reload: %s/%s", fs, lh)
	}

	mustExecute(t, application, view.CmdRestoreFontSize)

	fs, lh = application.Sheet().Computed()
	if fs != "18px" || lh != "27px" {
		t.Errorf("restore did not land on new baseline: %s/%s", fs, lh)
	}
}

func TestShutdownClosesInitScriptRuntime(t *testing.T) {
	application := newTestApp(t, Options{})

	application.Shutdown()
	application.Shutdown()

	if err := application.Scripts().DoString("x = 1"); !errors.Is(err, rc.ErrClosed) {
		t.Errorf("DoString after shutdown = %v, want ErrClosed", err)
	}
}

func TestBaselineStyle(t *testing.T) {
	metrics, err := font.NewMetrics()
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}

	fs, lh := baselineStyle(config.UIConfig{FontSize: 14, LineHeight: 1.5}, metrics)
	if fs != "14px" || lh != "21px" {
		t.Errorf("multiplier baseline = %s/%s, want 14px/21px", fs, lh)
	}

	fs, lh = baselineStyle(config.UIConfig{FontSize: 0, LineHeight: 2}, metrics)
	if fs != "14px" || lh != "28px" {
		t.Errorf("zero size baseline = %s/%s, want 14px/28px", fs, lh)
	}

	// "normal" line height comes from the measured face.
	fs, lh = baselineStyle(config.UIConfig{FontSize: 14, LineHeight: 0}, metrics)
	if fs != "14px" {
		t.Errorf("font size = %s, want 14px", fs)
	}
	measured, err := metrics.LineHeight(14)
	if err != nil {
		t.Fatalf("LineHeight: %v", err)
	}
	if measured < 14 || measured > 28 {
		t.Fatalf("measured height %v out of sane range", measured)
	}
	if !strings.HasSuffix(lh, "px") {
		t.Errorf("line height %s not in pixels", lh)
	}
}

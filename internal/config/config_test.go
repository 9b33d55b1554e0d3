package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Elisabitao/brackets/internal/config/notify"
)

// newTestConfig builds a Config backed by a temp settings file with
// the watcher off. Returns the config and the settings path.
func newTestConfig(t *testing.T, contents string) (*Config, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "settings.toml")
	if contents != "" {
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatalf("writing settings: %v", err)
		}
	}

	cfg := New(WithPath(path), WithWatcher(false), WithEnvPrefix("BRACKETSTEST_"))
	if err := cfg.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	t.Cleanup(cfg.Close)
	return cfg, path
}

func TestDefaultsWithoutFile(t *testing.T) {
	cfg, _ := newTestConfig(t, "")

	if got := cfg.getIntOr("ui.fontSize", 0); got != DefaultFontSize {
		t.Errorf("ui.fontSize = %d, want %d", got, DefaultFontSize)
	}
	if got := cfg.getStringOr("ui.theme", ""); got != "dark" {
		t.Errorf("ui.theme = %q, want %q", got, "dark")
	}
	if got := cfg.getBoolOr("editor.lineNumbers", false); !got {
		t.Error("editor.lineNumbers default = false, want true")
	}
}

func TestFileLayerOverridesDefaults(t *testing.T) {
	cfg, _ := newTestConfig(t, "[ui]\nfontSize = 18\ntheme = \"light\"\n")

	if got := cfg.getIntOr("ui.fontSize", 0); got != 18 {
		t.Errorf("ui.fontSize = %d, want 18", got)
	}
	if got := cfg.getStringOr("ui.theme", ""); got != "light" {
		t.Errorf("ui.theme = %q, want %q", got, "light")
	}

	// Untouched settings keep their defaults.
	if got := cfg.getIntOr("editor.tabSize", 0); got != 4 {
		t.Errorf("editor.tabSize = %d, want 4", got)
	}
}

func TestEnvLayerOverridesFile(t *testing.T) {
	t.Setenv("BRACKETSTEST_FONT_SIZE", "20")
	cfg, _ := newTestConfig(t, "[ui]\nfontSize = 18\n")

	if got := cfg.getIntOr("ui.fontSize", 0); got != 20 {
		t.Errorf("ui.fontSize = %d, want 20 from environment", got)
	}
}

func TestRuntimeSetOverridesEverything(t *testing.T) {
	t.Setenv("BRACKETSTEST_FONT_SIZE", "20")
	cfg, _ := newTestConfig(t, "[ui]\nfontSize = 18\n")

	if err := cfg.Set("ui.fontSize", 22); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := cfg.getIntOr("ui.fontSize", 0); got != 22 {
		t.Errorf("ui.fontSize = %d, want 22 from runtime layer", got)
	}
}

func TestGetTypeErrors(t *testing.T) {
	cfg, _ := newTestConfig(t, "")

	if _, err := cfg.GetString("ui.fontSize"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("GetString(ui.fontSize) error = %v, want ErrTypeMismatch", err)
	}
	if _, err := cfg.GetInt("ui.theme"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("GetInt(ui.theme) error = %v, want ErrTypeMismatch", err)
	}
	if _, err := cfg.GetInt("no.such.setting"); !errors.Is(err, ErrSettingNotFound) {
		t.Errorf("GetInt(missing) error = %v, want ErrSettingNotFound", err)
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte("[ui\nbroken"), 0o644); err != nil {
		t.Fatalf("writing settings: %v", err)
	}

	cfg := New(WithPath(path), WithWatcher(false))
	if err := cfg.Load(); err == nil {
		t.Error("Load accepted malformed TOML")
	}
}

func TestSetNotifiesObservers(t *testing.T) {
	cfg, _ := newTestConfig(t, "")

	var changes []notify.Change
	cfg.SubscribePath("ui", func(change notify.Change) {
		changes = append(changes, change)
	})

	if err := cfg.Set("ui.fontSize", 16); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if len(changes) != 1 {
		t.Fatalf("observer called %d times, want 1", len(changes))
	}
	change := changes[0]
	if change.Path != "ui.fontSize" || change.Type != notify.ChangeSet {
		t.Errorf("change = %+v", change)
	}
	if change.NewValue != 16 {
		t.Errorf("NewValue = %v, want 16", change.NewValue)
	}
}

func TestReloadPicksUpFileEdits(t *testing.T) {
	cfg, path := newTestConfig(t, "[ui]\nfontSize = 18\n")

	reloads := 0
	cfg.Subscribe(func(change notify.Change) {
		if change.Type == notify.ChangeReload {
			reloads++
		}
	})

	if err := os.WriteFile(path, []byte("[ui]\nfontSize = 24\n"), 0o644); err != nil {
		t.Fatalf("rewriting settings: %v", err)
	}
	if err := cfg.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	if got := cfg.getIntOr("ui.fontSize", 0); got != 24 {
		t.Errorf("ui.fontSize after reload = %d, want 24", got)
	}
	if reloads != 1 {
		t.Errorf("reload notifications = %d, want 1", reloads)
	}
}

func TestUISection(t *testing.T) {
	cfg, _ := newTestConfig(t, "[ui]\nfontSize = 16\nlineHeight = 1.5\n")

	ui := cfg.UI()
	if ui.FontSize != 16 {
		t.Errorf("FontSize = %d, want 16", ui.FontSize)
	}
	if ui.LineHeight != 1.5 {
		t.Errorf("LineHeight = %v, want 1.5", ui.LineHeight)
	}
	if ui.Theme != "dark" {
		t.Errorf("Theme = %q, want %q", ui.Theme, "dark")
	}
}

func TestUISectionNormalLineHeight(t *testing.T) {
	cfg, _ := newTestConfig(t, "")

	// The default line height is "normal", expressed as zero.
	if lh := cfg.UI().LineHeight; lh != 0 {
		t.Errorf("LineHeight = %v, want 0", lh)
	}
}

func TestMergedReturnsCopy(t *testing.T) {
	cfg, _ := newTestConfig(t, "")

	merged := cfg.Merged()
	ui, ok := merged["ui"].(map[string]any)
	if !ok {
		t.Fatal("merged config missing ui section")
	}
	ui["theme"] = "mutated"

	if got := cfg.getStringOr("ui.theme", ""); got != "dark" {
		t.Errorf("mutating Merged() leaked into config: theme = %q", got)
	}
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		path string
		want int
	}{
		{"ui.fontSize", 2},
		{"a.b.c", 3},
		{"single", 1},
		{"", 0},
		{"a..b", 2},
	}

	for _, tt := range tests {
		if got := len(splitPath(tt.path)); got != tt.want {
			t.Errorf("splitPath(%q) len = %d, want %d", tt.path, got, tt.want)
		}
	}
}

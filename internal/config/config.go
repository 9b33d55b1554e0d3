// Package config provides layered configuration for the editor.
// Layer precedence, lowest to highest: built-in defaults, the user
// settings file, environment variables, runtime overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Elisabitao/brackets/internal/config/loader"
	"github.com/Elisabitao/brackets/internal/config/notify"
	"github.com/Elisabitao/brackets/internal/config/watcher"
)

const settingsFile = "settings.toml"

// Config provides unified access to the editor configuration.
type Config struct {
	mu sync.RWMutex

	defaults map[string]any
	file     map[string]any
	env      map[string]any
	runtime  map[string]any
	merged   map[string]any

	path      string
	envPrefix string

	notifier *notify.Notifier
	watcher  *watcher.Watcher

	enableWatcher bool
}

// Option configures a Config instance.
type Option func(*Config)

// WithPath sets the settings file path.
func WithPath(path string) Option {
	return func(c *Config) {
		c.path = path
	}
}

// WithEnvPrefix overrides the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// WithWatcher enables or disables live reload of the settings file.
func WithWatcher(enable bool) Option {
	return func(c *Config) {
		c.enableWatcher = enable
	}
}

// New creates a Config instance with the given options. Only the
// defaults layer is populated; call Load to read the rest.
func New(opts ...Option) *Config {
	c := &Config{
		defaults:      defaultConfig(),
		runtime:       make(map[string]any),
		envPrefix:     "BRACKETS_",
		notifier:      notify.New(),
		enableWatcher: true,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.path == "" {
		c.path = filepath.Join(defaultUserConfigDir(), settingsFile)
	}

	c.mu.Lock()
	c.remergeLocked()
	c.mu.Unlock()

	return c
}

// Load reads the settings file and environment layers, then starts the
// file watcher when enabled. A missing settings file is not an error.
func (c *Config) Load() error {
	fileData, err := loader.NewTOMLLoader(c.path).Load()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	envData, err := loader.NewEnvLoader(c.envPrefix).Load()
	if err != nil {
		return fmt.Errorf("loading environment: %w", err)
	}

	c.mu.Lock()
	c.file = fileData
	c.env = envData
	c.remergeLocked()
	c.mu.Unlock()

	if c.enableWatcher {
		// Failures here leave live reload off; the config still works.
		_ = c.startWatcher()
	}

	return nil
}

// Reload re-reads the settings file layer.
func (c *Config) Reload() error {
	data, err := loader.NewTOMLLoader(c.path).Load()
	if err != nil {
		return fmt.Errorf("reloading settings: %w", err)
	}

	c.mu.Lock()
	c.file = data
	c.remergeLocked()
	c.mu.Unlock()

	c.notifier.NotifyReload(c.path)
	return nil
}

// Close shuts down the configuration system.
func (c *Config) Close() {
	c.mu.RLock()
	w := c.watcher
	c.mu.RUnlock()

	if w != nil {
		w.Stop()
	}
	c.notifier.Close()
}

// FilePath returns the settings file path.
func (c *Config) FilePath() string {
	return c.path
}

// Get returns the value at the given path from the merged configuration.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return getPath(c.merged, path)
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value at the given path.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		return int(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
	}
}

// GetFloat returns a float64 value at the given path.
func (c *Config) GetFloat(path string) (float64, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "float64", Actual: typeName(v)}
	}
}

// GetBool returns a boolean value at the given path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// Set sets a value at the given path in the runtime overrides layer.
func (c *Config) Set(path string, value any) error {
	c.mu.Lock()
	oldValue, _ := getPath(c.merged, path)
	if err := setPath(c.runtime, path, value); err != nil {
		c.mu.Unlock()
		return err
	}
	c.remergeLocked()
	newValue, _ := getPath(c.merged, path)
	c.mu.Unlock()

	c.notifier.NotifySet(path, oldValue, newValue, "runtime")
	return nil
}

// Subscribe registers an observer for all configuration changes.
func (c *Config) Subscribe(observer notify.Observer) *notify.Subscription {
	return c.notifier.Subscribe(observer)
}

// SubscribePath registers an observer for changes to a specific path.
func (c *Config) SubscribePath(path string, observer notify.Observer) *notify.Subscription {
	return c.notifier.SubscribePath(path, observer)
}

// Merged returns a copy of the fully merged configuration.
func (c *Config) Merged() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return loader.Clone(c.merged)
}

// remergeLocked rebuilds the merged view. Callers hold c.mu.
func (c *Config) remergeLocked() {
	merged := loader.Clone(c.defaults)
	merged = loader.DeepMerge(merged, loader.Clone(c.file))
	merged = loader.DeepMerge(merged, loader.Clone(c.env))
	merged = loader.DeepMerge(merged, loader.Clone(c.runtime))
	c.merged = merged
}

// startWatcher wires live reload for the settings file.
func (c *Config) startWatcher() error {
	w, err := watcher.New()
	if err != nil {
		return err
	}
	if err := w.Watch(c.path); err != nil {
		w.Stop()
		return err
	}
	w.OnChange(c.handleFileChange)

	c.mu.Lock()
	c.watcher = w
	c.mu.Unlock()

	w.Start()
	return nil
}

// handleFileChange reloads or drops the file layer on watcher events.
func (c *Config) handleFileChange(event watcher.Event) {
	switch event.Op {
	case watcher.OpRemove, watcher.OpRename:
		c.mu.Lock()
		c.file = nil
		c.remergeLocked()
		c.mu.Unlock()
	default:
		data, err := loader.NewTOMLLoader(c.path).Load()
		if err != nil {
			return // keep the last good configuration
		}
		c.mu.Lock()
		c.file = data
		c.remergeLocked()
		c.mu.Unlock()
	}

	c.notifier.NotifyReload(event.Path)
}

// defaultUserConfigDir returns the default user configuration directory.
func defaultUserConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "brackets")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "brackets")
}

// defaultConfig returns the default configuration values.
func defaultConfig() map[string]any {
	return map[string]any{
		"ui": map[string]any{
			"theme":      "dark",
			"fontSize":   DefaultFontSize,
			"lineHeight": 0.0,
			"fontFamily": "monospace",
		},
		"editor": map[string]any{
			"tabSize":     4,
			"lineNumbers": true,
			"topPadding":  0,
		},
		"session": map[string]any{
			"enabled": true,
			"dir":     "",
		},
		"logging": map[string]any{
			"level": "info",
			"file":  "",
		},
	}
}

// getPath retrieves a value from a nested map using a dot-separated path.
func getPath(m map[string]any, path string) (any, bool) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil, false
	}

	current := any(m)
	for _, part := range parts {
		cm, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = cm[part]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// setPath sets a value in a nested map using a dot-separated path.
func setPath(m map[string]any, path string, value any) error {
	parts := splitPath(path)
	if len(parts) == 0 {
		return ErrInvalidPath
	}

	current := m
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part]
		if !ok {
			child := make(map[string]any)
			current[part] = child
			current = child
			continue
		}
		nextMap, ok := next.(map[string]any)
		if !ok {
			return ErrInvalidPath
		}
		current = nextMap
	}

	current[parts[len(parts)-1]] = value
	return nil
}

// splitPath splits a dot-separated path, dropping empty segments.
func splitPath(path string) []string {
	if path == "" {
		return nil
	}

	var parts []string
	for _, part := range strings.Split(path, ".") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case string:
		return "string"
	case int, int64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case []any:
		return "[]any"
	case map[string]any:
		return "map"
	default:
		return "unknown"
	}
}

package config

// Section accessor methods return snapshot structs. Mutating the returned
// struct does not modify the underlying configuration. Use Config.Set()
// to update configuration values.

// DefaultFontSize is the baseline font size in pixels.
const DefaultFontSize = 14

// UIConfig provides type-safe access to UI settings.
type UIConfig struct {
	// Theme is the color theme name.
	Theme string

	// FontSize is the baseline font size in pixels.
	FontSize int

	// FontFamily is the font family for the editor.
	FontFamily string

	// LineHeight is the line height multiplier. Zero means "normal":
	// the line height is resolved from the font metrics instead.
	LineHeight float64
}

// EditorConfig provides type-safe access to editor settings.
type EditorConfig struct {
	// TabSize is the number of columns a tab occupies.
	TabSize int

	// LineNumbers shows the line number gutter.
	LineNumbers bool

	// TopPadding is the blank space above the first line, in pixels.
	TopPadding int
}

// SessionConfig provides type-safe access to session persistence settings.
type SessionConfig struct {
	// Enabled controls whether per-file view state is saved.
	Enabled bool

	// Dir is the session state directory. Empty resolves to the
	// default data directory.
	Dir string
}

// LoggingConfig provides type-safe access to logging settings.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string

	// File is the log file path. Empty means stderr.
	File string
}

// UI returns type-safe access to UI settings.
func (c *Config) UI() UIConfig {
	return UIConfig{
		Theme:      c.getStringOr("ui.theme", "dark"),
		FontSize:   c.getIntOr("ui.fontSize", DefaultFontSize),
		FontFamily: c.getStringOr("ui.fontFamily", "monospace"),
		LineHeight: c.getFloatOr("ui.lineHeight", 0),
	}
}

// Editor returns type-safe access to editor settings.
func (c *Config) Editor() EditorConfig {
	return EditorConfig{
		TabSize:     c.getIntOr("editor.tabSize", 4),
		LineNumbers: c.getBoolOr("editor.lineNumbers", true),
		TopPadding:  c.getIntOr("editor.topPadding", 0),
	}
}

// Session returns type-safe access to session persistence settings.
func (c *Config) Session() SessionConfig {
	return SessionConfig{
		Enabled: c.getBoolOr("session.enabled", true),
		Dir:     c.getStringOr("session.dir", ""),
	}
}

// Logging returns type-safe access to logging settings.
func (c *Config) Logging() LoggingConfig {
	return LoggingConfig{
		Level: c.getStringOr("logging.level", "info"),
		File:  c.getStringOr("logging.file", ""),
	}
}

// getStringOr returns the string at path or def when unset or mistyped.
func (c *Config) getStringOr(path, def string) string {
	v, err := c.GetString(path)
	if err != nil {
		return def
	}
	return v
}

// getIntOr returns the int at path or def when unset or mistyped.
func (c *Config) getIntOr(path string, def int) int {
	v, err := c.GetInt(path)
	if err != nil {
		return def
	}
	return v
}

// getFloatOr returns the float at path or def when unset or mistyped.
func (c *Config) getFloatOr(path string, def float64) float64 {
	v, err := c.GetFloat(path)
	if err != nil {
		return def
	}
	return v
}

// getBoolOr returns the bool at path or def when unset or mistyped.
func (c *Config) getBoolOr(path string, def bool) bool {
	v, err := c.GetBool(path)
	if err != nil {
		return def
	}
	return v
}

// Package style holds the presentation style shared by all editor
// surfaces: parsed font measurements and the process-wide dynamic font
// override installed by the font-size commands.
package style

import "sync"

// Override is the dynamic font override forced onto every editor surface
// while active.
type Override struct {
	// FontSize is the forced font size.
	FontSize Value

	// LineHeight is the forced line height.
	LineHeight Value
}

// Sheet owns the computed style of the editor surface class. It layers an
// optional dynamic override over a configuration-sourced baseline. At most
// one override exists at a time: Set replaces any prior override, Clear
// removes it.
type Sheet struct {
	mu sync.RWMutex

	// Baseline style as raw strings. The host configuration may use units
	// the adjuster doesn't support; they stay untouched until parsed.
	baseFontSize   string
	baseLineHeight string

	override *Override

	onChange []func()
}

// NewSheet creates a sheet with the given baseline font size and line
// height strings.
func NewSheet(fontSize, lineHeight string) *Sheet {
	return &Sheet{
		baseFontSize:   fontSize,
		baseLineHeight: lineHeight,
	}
}

// Computed returns the font-size and line-height strings currently in
// effect: the override when active, the baseline otherwise.
func (s *Sheet) Computed() (fontSize, lineHeight string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.override != nil {
		return s.override.FontSize.String(), s.override.LineHeight.String()
	}
	return s.baseFontSize, s.baseLineHeight
}

// Set installs a dynamic override, replacing any existing one.
func (s *Sheet) Set(fontSize, lineHeight Value) {
	s.mu.Lock()
	s.override = &Override{FontSize: fontSize, LineHeight: lineHeight}
	s.mu.Unlock()

	s.notify()
}

// Clear removes the dynamic override. It reports whether an override was
// actually removed.
func (s *Sheet) Clear() bool {
	s.mu.Lock()
	removed := s.override != nil
	s.override = nil
	s.mu.Unlock()

	if removed {
		s.notify()
	}
	return removed
}

// Active reports whether a dynamic override is installed.
func (s *Sheet) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.override != nil
}

// Override returns the current override, if any.
func (s *Sheet) Override() (Override, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.override == nil {
		return Override{}, false
	}
	return *s.override, true
}

// Baseline returns the baseline style strings, ignoring any override.
func (s *Sheet) Baseline() (fontSize, lineHeight string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseFontSize, s.baseLineHeight
}

// SetBaseline replaces the baseline style. Configuration reload uses this;
// an active override keeps winning until cleared.
func (s *Sheet) SetBaseline(fontSize, lineHeight string) {
	s.mu.Lock()
	changed := s.baseFontSize != fontSize || s.baseLineHeight != lineHeight
	s.baseFontSize = fontSize
	s.baseLineHeight = lineHeight
	s.mu.Unlock()

	if changed {
		s.notify()
	}
}

// OnChange registers a callback invoked after every effective style
// change. Callbacks run synchronously on the mutating goroutine.
func (s *Sheet) OnChange(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

// notify calls change callbacks without holding the lock.
func (s *Sheet) notify() {
	s.mu.RLock()
	callbacks := make([]func(), len(s.onChange))
	copy(callbacks, s.onChange)
	s.mu.RUnlock()

	for _, fn := range callbacks {
		fn()
	}
}

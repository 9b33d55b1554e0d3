package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// ErrEmptySpec indicates an empty key specification.
	ErrEmptySpec = errors.New("empty key specification")

	// ErrUnknownKey indicates an unrecognized key name.
	ErrUnknownKey = errors.New("unknown key")

	// ErrUnknownModifier indicates an unrecognized modifier name.
	ErrUnknownModifier = errors.New("unknown modifier")
)

// Event is a single keyboard chord. Events are comparable and serve as
// keymap lookup keys, so they carry no timestamp.
type Event struct {
	Key       Key
	Rune      rune
	Modifiers Modifier
}

// NewRuneEvent builds a character event.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewKeyEvent builds a special-key event.
func NewKeyEvent(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}
}

// String renders the chord as "Ctrl+Shift+Up" or "Ctrl+A".
func (e Event) String() string {
	var name string
	switch {
	case e.Key == KeyRune && e.Rune == ' ':
		name = "Space"
	case e.Key == KeyRune:
		name = string(e.Rune)
	default:
		name = e.Key.String()
	}

	if mods := e.Modifiers.String(); mods != "" {
		return mods + "+" + name
	}
	return name
}

// Normalize folds Shift into the rune for letter keys so that "A" and
// "Shift+a" resolve to the same chord. Special keys are unchanged.
func (e Event) Normalize() Event {
	if e.Key != KeyRune || !unicode.IsLetter(e.Rune) {
		return e
	}
	if e.Modifiers.Has(ModShift) {
		e.Rune = unicode.ToUpper(e.Rune)
		e.Modifiers &^= ModShift
	}
	return e
}

// Matches reports whether the event corresponds to the given
// specification. Malformed specifications never match.
func (e Event) Matches(spec string) bool {
	parsed, err := Parse(spec)
	if err != nil {
		return false
	}
	return e.Normalize() == parsed.Normalize()
}

// Parse converts a key specification into an Event. Accepted formats:
//
//	<C-s>            Vim angle notation
//	Ctrl+Shift+Up    long modifier names, "+" separated
//	C-S-Up           short modifier names, "-" separated
//	a, A, Enter      single characters and bare key names
func Parse(spec string) (Event, error) {
	s := strings.TrimSpace(spec)
	if s == "" {
		return Event{}, ErrEmptySpec
	}

	if len(s) > 2 && strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">") {
		return parseChord(s[1:len(s)-1], "-")
	}

	// Single characters take priority so "-" and "+" remain bindable.
	if utf8.RuneCountInString(s) == 1 {
		return parseSingle(s), nil
	}

	if strings.Contains(s, "+") {
		return parseChord(s, "+")
	}
	if strings.Contains(s, "-") {
		return parseChord(s, "-")
	}

	if k, ok := lookupKey(s); ok {
		return NewKeyEvent(k, ModNone), nil
	}
	return Event{}, fmt.Errorf("%w: %q", ErrUnknownKey, s)
}

// MustParse is Parse that panics on error, for compile-time specs.
func MustParse(spec string) Event {
	e, err := Parse(spec)
	if err != nil {
		panic(fmt.Sprintf("key: parse %q: %v", spec, err))
	}
	return e
}

func parseSingle(s string) Event {
	r, _ := utf8.DecodeRuneInString(s)
	if unicode.IsUpper(r) {
		return NewRuneEvent(r, ModShift)
	}
	return NewRuneEvent(r, ModNone)
}

func parseChord(s, sep string) (Event, error) {
	parts := strings.Split(s, sep)

	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		m, ok := lookupModifier(p)
		if !ok {
			return Event{}, fmt.Errorf("%w: %q", ErrUnknownModifier, p)
		}
		mods |= m
	}

	last := strings.TrimSpace(parts[len(parts)-1])
	if last == "" {
		return Event{}, fmt.Errorf("%w: missing key in %q", ErrUnknownKey, s)
	}

	if k, ok := lookupKey(last); ok {
		return NewKeyEvent(k, mods), nil
	}
	if utf8.RuneCountInString(last) == 1 {
		r, _ := utf8.DecodeRuneInString(last)
		return NewRuneEvent(r, mods), nil
	}
	return Event{}, fmt.Errorf("%w: %q", ErrUnknownKey, last)
}

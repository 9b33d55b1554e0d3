// Package keymap maps keyboard chords to command identifiers.
package keymap

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Elisabitao/brackets/internal/input/key"
)

// Binding ties a key chord to a command.
type Binding struct {
	// Keys is the chord specification, e.g. "Ctrl+Shift+Up" or "<C-p>".
	Keys string

	// Command is the identifier executed when the chord fires.
	Command string

	// Args are fixed arguments passed to the command.
	Args map[string]any

	// Description documents the binding for display surfaces.
	Description string

	// Category groups bindings for display purposes.
	Category string

	// Priority breaks conflicts: a lower-priority Add never displaces
	// a higher-priority binding for the same chord.
	Priority int

	// Source records where the binding came from.
	// Examples: "default", "rc:init.lua"
	Source string
}

// Keymap resolves key events to bindings. Safe for concurrent use.
type Keymap struct {
	mu       sync.RWMutex
	name     string
	bindings map[key.Event]Binding
}

// New creates an empty keymap with the given name.
func New(name string) *Keymap {
	return &Keymap{
		name:     name,
		bindings: make(map[key.Event]Binding),
	}
}

// Name returns the keymap identifier.
func (km *Keymap) Name() string {
	return km.name
}

// Add installs a binding, parsing its chord specification. An existing
// binding for the same chord is replaced unless it outranks the new one.
func (km *Keymap) Add(b Binding) error {
	if b.Keys == "" {
		return fmt.Errorf("binding for %q: empty keys", b.Command)
	}
	if b.Command == "" {
		return fmt.Errorf("binding %q: empty command", b.Keys)
	}

	event, err := key.Parse(b.Keys)
	if err != nil {
		return fmt.Errorf("binding %q: %w", b.Keys, err)
	}
	event = event.Normalize()

	km.mu.Lock()
	defer km.mu.Unlock()

	if existing, ok := km.bindings[event]; ok && existing.Priority > b.Priority {
		return nil
	}
	km.bindings[event] = b
	return nil
}

// Bind is shorthand for Add with just a chord and a command.
func (km *Keymap) Bind(keys, command string) error {
	return km.Add(Binding{Keys: keys, Command: command})
}

// Remove drops the binding for the given chord. It reports whether a
// binding was removed.
func (km *Keymap) Remove(keys string) bool {
	event, err := key.Parse(keys)
	if err != nil {
		return false
	}
	event = event.Normalize()

	km.mu.Lock()
	defer km.mu.Unlock()

	if _, ok := km.bindings[event]; !ok {
		return false
	}
	delete(km.bindings, event)
	return true
}

// RemoveBySource drops every binding installed by the given source and
// returns how many were removed.
func (km *Keymap) RemoveBySource(source string) int {
	km.mu.Lock()
	defer km.mu.Unlock()

	removed := 0
	for event, b := range km.bindings {
		if b.Source == source {
			delete(km.bindings, event)
			removed++
		}
	}
	return removed
}

// Resolve looks up the binding for a key event.
func (km *Keymap) Resolve(event key.Event) (Binding, bool) {
	km.mu.RLock()
	defer km.mu.RUnlock()

	b, ok := km.bindings[event.Normalize()]
	return b, ok
}

// Bindings returns all bindings sorted by chord.
func (km *Keymap) Bindings() []Binding {
	km.mu.RLock()
	defer km.mu.RUnlock()

	out := make([]Binding, 0, len(km.bindings))
	for _, b := range km.bindings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Keys < out[j].Keys
	})
	return out
}

// Len returns the number of installed bindings.
func (km *Keymap) Len() int {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return len(km.bindings)
}

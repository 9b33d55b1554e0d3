// Package command provides the registry user-invokable commands are
// registered with. The view commands, the shell, and the init script all
// publish and execute commands through it.
package command

import (
	"errors"
	"fmt"
)

// Errors returned by registry operations.
var (
	// ErrNotFound indicates no command carries the requested ID.
	ErrNotFound = errors.New("command not found")

	// ErrInvalidCommand indicates a command definition is incomplete.
	ErrInvalidCommand = errors.New("invalid command")
)

// Handler executes a command. Args may be nil.
type Handler func(args map[string]any) error

// Command is a user-invokable action.
type Command struct {
	// ID is the unique namespaced identifier (e.g. "view.scrollLineUp").
	ID string

	// Title is the display name shown in the palette.
	Title string

	// Description provides additional context.
	Description string

	// Category groups related commands (e.g. "View", "Scrolling").
	Category string

	// Keybinding is the default key chord for display. Empty means the
	// command is reachable through the palette only.
	Keybinding string

	// Handler executes the command.
	Handler Handler

	// Source records who registered the command: "core", "user", or
	// "rc:<script>".
	Source string
}

// validate checks the definition is executable.
func (c *Command) validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil command", ErrInvalidCommand)
	}
	if c.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidCommand)
	}
	if c.Title == "" {
		return fmt.Errorf("%w: %s has no title", ErrInvalidCommand, c.ID)
	}
	if c.Handler == nil {
		return fmt.Errorf("%w: %s has no handler", ErrInvalidCommand, c.ID)
	}
	return nil
}

// run executes the handler with a cloned args map so handlers can't
// mutate the caller's copy.
func (c *Command) run(args map[string]any) error {
	cloned := make(map[string]any, len(args))
	for k, v := range args {
		cloned[k] = v
	}
	if err := c.Handler(cloned); err != nil {
		return fmt.Errorf("command %q: %w", c.ID, err)
	}
	return nil
}

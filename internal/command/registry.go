package command

import (
	"sort"
	"strings"
	"sync"
)

const defaultHistorySize = 50

// Registry holds the registered commands. Registration replaces by ID;
// execution records history. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]*Command

	history     []string
	historySize int

	onChange []func()
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands:    make(map[string]*Command),
		historySize: defaultHistorySize,
	}
}

// Register adds a command. A command with the same ID is replaced.
func (r *Registry) Register(cmd *Command) error {
	if err := cmd.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	r.commands[cmd.ID] = cmd
	r.mu.Unlock()

	r.notifyChange()
	return nil
}

// RegisterAll adds multiple commands, stopping at the first invalid one.
func (r *Registry) RegisterAll(commands []*Command) error {
	for _, cmd := range commands {
		if err := r.Register(cmd); err != nil {
			return err
		}
	}
	return nil
}

// Unregister removes a command by ID. It reports whether the command
// existed.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	_, exists := r.commands[id]
	delete(r.commands, id)
	r.mu.Unlock()

	if exists {
		r.notifyChange()
	}
	return exists
}

// UnregisterBySource removes every command registered by the given
// source and returns how many were removed.
func (r *Registry) UnregisterBySource(source string) int {
	r.mu.Lock()
	count := 0
	for id, cmd := range r.commands {
		if cmd.Source == source {
			delete(r.commands, id)
			count++
		}
	}
	r.mu.Unlock()

	if count > 0 {
		r.notifyChange()
	}
	return count
}

// Get retrieves a command by ID, or nil.
func (r *Registry) Get(id string) *Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.commands[id]
}

// Has reports whether a command with the given ID exists.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.commands[id]
	return exists
}

// All returns the registered commands sorted by title.
func (r *Registry) All() []*Command {
	r.mu.RLock()
	result := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		result = append(result, cmd)
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].Title < result[j].Title
	})
	return result
}

// Count returns the number of registered commands.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

// Filter returns commands whose ID, title, or category contains the
// query, case-insensitively. An empty query returns everything.
func (r *Registry) Filter(query string) []*Command {
	all := r.All()
	if query == "" {
		return all
	}

	q := strings.ToLower(query)
	result := make([]*Command, 0, len(all))
	for _, cmd := range all {
		if strings.Contains(strings.ToLower(cmd.ID), q) ||
			strings.Contains(strings.ToLower(cmd.Title), q) ||
			strings.Contains(strings.ToLower(cmd.Category), q) {
			result = append(result, cmd)
		}
	}
	return result
}

// Execute runs a command by ID with no arguments.
func (r *Registry) Execute(id string) error {
	return r.ExecuteWithArgs(id, nil)
}

// ExecuteWithArgs runs a command by ID. History records only successful
// executions.
func (r *Registry) ExecuteWithArgs(id string, args map[string]any) error {
	r.mu.RLock()
	cmd, exists := r.commands[id]
	r.mu.RUnlock()

	if !exists {
		return ErrNotFound
	}

	if err := cmd.run(args); err != nil {
		return err
	}

	r.recordHistory(id)
	return nil
}

// Recent returns the IDs of recently executed commands, most recent
// first.
func (r *Registry) Recent(limit int) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.history)
	if limit > 0 && limit < n {
		n = limit
	}
	result := make([]string, 0, n)
	for i := len(r.history) - 1; i >= 0 && len(result) < n; i-- {
		result = append(result, r.history[i])
	}
	return result
}

// OnChange registers a callback invoked after registration changes.
// Callbacks must not register or unregister commands.
func (r *Registry) OnChange(fn func()) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	r.onChange = append(r.onChange, fn)
	r.mu.Unlock()
}

// recordHistory appends an execution, dropping any older entry for the
// same ID and trimming to the history size.
func (r *Registry) recordHistory(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, prev := range r.history {
		if prev == id {
			r.history = append(r.history[:i], r.history[i+1:]...)
			break
		}
	}
	r.history = append(r.history, id)
	if len(r.history) > r.historySize {
		r.history = r.history[len(r.history)-r.historySize:]
	}
}

// notifyChange calls change callbacks without holding the lock.
func (r *Registry) notifyChange() {
	r.mu.RLock()
	callbacks := make([]func(), len(r.onChange))
	copy(callbacks, r.onChange)
	r.mu.RUnlock()

	for _, fn := range callbacks {
		fn()
	}
}

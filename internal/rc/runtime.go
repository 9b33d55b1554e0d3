// Package rc executes the user's init script. A single init.lua runs
// once at startup with an `editor` module in scope; the bindings,
// commands, and settings it installs live for the process lifetime.
package rc

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/Elisabitao/brackets/internal/command"
	"github.com/Elisabitao/brackets/internal/config"
	"github.com/Elisabitao/brackets/internal/input/keymap"
)

// Source tags everything the init script installs so its bindings and
// commands can be removed as a group.
const Source = "rc:init.lua"

// handlerGlobal names the Lua table that pins command handler
// functions. A handler referenced only from Go would be collected.
const handlerGlobal = "_rc_handlers"

// rcBindingPriority outranks the built-in bindings, so a chord bound in
// init.lua displaces the default it collides with.
const rcBindingPriority = 10

// ErrClosed is returned when the runtime is used after Close.
var ErrClosed = errors.New("rc: runtime closed")

// Logger is the subset of the application logger the runtime reports
// through.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// nopLogger discards everything. Used when no logger is wired.
type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Runtime hosts the Lua state the init script runs in.
//
// gopher-lua states are not goroutine safe. The state is confined to
// the startup and event-loop goroutine; the mutex guards the struct
// fields, not VM execution.
type Runtime struct {
	mu sync.Mutex
	L  *lua.LState

	registry *command.Registry
	keys     *keymap.Keymap
	cfg      *config.Config
	log      Logger

	handlers *lua.LTable
	closed   bool
}

// New creates a runtime wired to the given registry, keymap, and
// configuration. A nil logger is replaced with one that discards.
func New(registry *command.Registry, keys *keymap.Keymap, cfg *config.Config, log Logger) *Runtime {
	if log == nil {
		log = nopLogger{}
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)

	r := &Runtime{
		L:        L,
		registry: registry,
		keys:     keys,
		cfg:      cfg,
		log:      log,
	}
	r.install()
	return r
}

// openSafeLibraries opens the Lua standard libraries an init script
// needs. io, os, and debug stay closed.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// install publishes the handler table and the editor module.
func (r *Runtime) install() {
	L := r.L

	r.handlers = L.NewTable()
	L.SetGlobal(handlerGlobal, r.handlers)

	mod := L.NewTable()
	L.SetField(mod, "bind", L.NewFunction(r.bind))
	L.SetField(mod, "command", L.NewFunction(r.commandFn))
	L.SetField(mod, "execute", L.NewFunction(r.execute))
	L.SetField(mod, "set", L.NewFunction(r.set))
	L.SetField(mod, "get", L.NewFunction(r.get))
	L.SetField(mod, "log", L.NewFunction(r.logFn))
	L.SetGlobal("editor", mod)
}

// Run executes the init script at path. A missing file is not an
// error: most installs have none. A script failure is returned for the
// caller to report; the bindings and commands installed before the
// failure stay active.
func (r *Runtime) Run(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("rc: stat %s: %w", path, err)
	}

	r.mu.Lock()
	L, closed := r.L, r.closed
	r.mu.Unlock()

	if closed {
		return ErrClosed
	}

	if err := doWithRecovery(func() error { return L.DoFile(path) }); err != nil {
		return fmt.Errorf("rc: %s: %w", filepath.Base(path), err)
	}
	return nil
}

// DoString executes Lua source against the runtime. Tests use it in
// place of a script file.
func (r *Runtime) DoString(code string) error {
	r.mu.Lock()
	L, closed := r.L, r.closed
	r.mu.Unlock()

	if closed {
		return ErrClosed
	}

	if err := doWithRecovery(func() error { return L.DoString(code) }); err != nil {
		return fmt.Errorf("rc: %w", err)
	}
	return nil
}

// Close tears down the Lua state and unregisters everything the script
// installed. Idempotent.
func (r *Runtime) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.handlers = nil
	L := r.L
	r.mu.Unlock()

	L.SetGlobal(handlerGlobal, lua.LNil)
	L.Close()

	if r.registry != nil {
		r.registry.UnregisterBySource(Source)
	}
	if r.keys != nil {
		r.keys.RemoveBySource(Source)
	}
}

// bind(keys, command, opts?) installs a key binding. opts may carry
// description, category, and an args table passed to the command.
func (r *Runtime) bind(L *lua.LState) int {
	keys := L.CheckString(1)
	cmd := L.CheckString(2)

	b := keymap.Binding{
		Keys:     keys,
		Command:  cmd,
		Priority: rcBindingPriority,
		Source:   Source,
	}

	if L.GetTop() >= 3 {
		opts := L.CheckTable(3)
		b.Description = getTableString(L, opts, "description")
		b.Category = getTableString(L, opts, "category")
		if args, ok := L.GetField(opts, "args").(*lua.LTable); ok {
			b.Args = tableToMap(args)
		}
	}

	if err := r.keys.Add(b); err != nil {
		L.RaiseError("bind: %v", err)
	}
	return 0
}

// command(id, title, handler, opts?) registers a palette command whose
// handler is a Lua function. opts may carry description and category.
func (r *Runtime) commandFn(L *lua.LState) int {
	id := L.CheckString(1)
	title := L.CheckString(2)
	handler := L.CheckFunction(3)

	cmd := &command.Command{
		ID:       id,
		Title:    title,
		Category: "Script",
		Handler:  r.luaHandler(id),
		Source:   Source,
	}

	if L.GetTop() >= 4 {
		opts := L.CheckTable(4)
		cmd.Description = getTableString(L, opts, "description")
		if c := getTableString(L, opts, "category"); c != "" {
			cmd.Category = c
		}
	}

	r.handlers.RawSetString(id, handler)

	if err := r.registry.Register(cmd); err != nil {
		r.handlers.RawSetString(id, lua.LNil)
		L.RaiseError("command: %v", err)
	}
	return 0
}

// luaHandler wraps the Lua function stored under id in the handler
// table as a command.Handler.
func (r *Runtime) luaHandler(id string) command.Handler {
	return func(args map[string]any) error {
		r.mu.Lock()
		L, handlers, closed := r.L, r.handlers, r.closed
		r.mu.Unlock()

		if closed || handlers == nil {
			return ErrClosed
		}

		fn := L.GetField(handlers, id)
		if fn.Type() != lua.LTFunction {
			return fmt.Errorf("rc: no handler for %s", id)
		}

		L.Push(fn)
		L.Push(mapToTable(L, args))
		if err := L.PCall(1, 0, nil); err != nil {
			return fmt.Errorf("rc: %s: %w", id, err)
		}
		return nil
	}
}

// execute(id, args?) runs a registered command by ID.
func (r *Runtime) execute(L *lua.LState) int {
	id := L.CheckString(1)

	var args map[string]any
	if L.GetTop() >= 2 {
		args = tableToMap(L.CheckTable(2))
	}

	if err := r.registry.ExecuteWithArgs(id, args); err != nil {
		L.RaiseError("execute: %v", err)
	}
	return 0
}

// set(path, value) writes a runtime configuration override.
func (r *Runtime) set(L *lua.LState) int {
	path := L.CheckString(1)
	value := lvalueToAny(L.CheckAny(2))

	if err := r.cfg.Set(path, value); err != nil {
		L.RaiseError("set: %v", err)
	}
	return 0
}

// get(path) returns a configuration value, or nil when unset.
func (r *Runtime) get(L *lua.LState) int {
	path := L.CheckString(1)

	v, ok := r.cfg.Get(path)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(anyToLValue(L, v))
	return 1
}

// log(msg) writes to the editor log at info level.
func (r *Runtime) logFn(L *lua.LState) int {
	msg := L.CheckString(1)
	r.log.Info("init.lua: %s", msg)
	return 0
}

// doWithRecovery converts a panic inside the Lua VM into an error.
func doWithRecovery(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("lua panic: %v", rec)
		}
	}()
	return fn()
}

// Package runtimeengine is an in-process runtime engine: it tracks backend
// factories, the backends instantiated from them, the active backend and the
// environment flags.
package runtimeengine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var ErrBackendNotFound = errors.New("backend not found in registry")

type Engine struct {
	mu        sync.Mutex
	factories map[string]BackendFactory
	registry  map[string]Backend
	active    string
	env       *Environment
	log       *slog.Logger
}

// New creates an empty engine. A nil logger falls back to slog.Default().
func New(log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		factories: make(map[string]BackendFactory),
		registry:  make(map[string]Backend),
		env:       NewEnvironment(nil),
		log:       log.With(slog.String("component", "runtime-engine")),
	}
}

// RegisterBackend adds a backend factory under name. It returns false, keeping
// the existing factory, if name is already registered.
func (e *Engine) RegisterBackend(name string, factory BackendFactory) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.factories[name]; ok {
		e.log.Warn("backend was already registered, reusing existing backend factory",
			slog.String("backend", name))
		return false
	}
	e.factories[name] = factory
	return true
}

// RemoveBackend disposes the live instance of name, if any, and drops its
// factory. If name was the active backend, no backend is active afterwards.
func (e *Engine) RemoveBackend(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if b, ok := e.registry[name]; ok {
		b.Dispose()
		delete(e.registry, name)
	}
	delete(e.factories, name)
	if e.active == name {
		e.active = ""
	}
}

func (e *Engine) FindBackendFactory(name string) (BackendFactory, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	f, ok := e.factories[name]
	return f, ok
}

// HasFactory reports whether a factory is registered under name.
func (e *Engine) HasFactory(name string) bool {
	_, ok := e.FindBackendFactory(name)
	return ok
}

// IsLive reports whether name has been instantiated and not removed since.
func (e *Engine) IsLive(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.registry[name]
	return ok
}

// SetBackend makes name the active backend, instantiating it from its
// factory first if it is not live. The factory runs without the engine lock
// held; two concurrent calls for different backends race and the last to
// finish becomes active.
func (e *Engine) SetBackend(ctx context.Context, name string) error {
	e.mu.Lock()
	factory, registered := e.factories[name]
	_, live := e.registry[name]
	e.mu.Unlock()

	if !registered {
		return fmt.Errorf("%w: %s", ErrBackendNotFound, name)
	}

	if !live {
		e.log.Debug("initializing backend", slog.String("backend", name))
		b, err := factory(ctx)
		if err != nil {
			return fmt.Errorf("initialization of backend %s failed: %w", name, err)
		}
		e.mu.Lock()
		if old, ok := e.registry[name]; ok && old != b {
			old.Dispose()
		}
		e.registry[name] = b
		e.mu.Unlock()
	}

	e.mu.Lock()
	e.active = name
	e.mu.Unlock()
	e.log.Debug("backend selected", slog.String("backend", name))
	return nil
}

// Backend returns the active backend instance, or nil.
func (e *Engine) Backend() Backend {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == "" {
		return nil
	}
	return e.registry[e.active]
}

// BackendName returns the name of the active backend, or "".
func (e *Engine) BackendName() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// BackendNames lists registered backend names in lexical order.
func (e *Engine) BackendNames() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := maps.Keys(e.factories)
	slices.Sort(names)
	return names
}

// SetFlags applies flags to the engine environment as one batch.
func (e *Engine) SetFlags(flags map[string]any) {
	e.env.SetFlags(flags)
}

func (e *Engine) Env() *Environment {
	return e.env
}

// Dispose tears down every live backend and clears the active backend.
// Registered factories are kept.
func (e *Engine) Dispose() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for name, b := range e.registry {
		b.Dispose()
		delete(e.registry, name)
	}
	e.active = ""
}

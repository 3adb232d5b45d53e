package runtimeengine

import (
	"sync"

	"golang.org/x/exp/maps"
)

// Environment holds the engine's runtime flags.
type Environment struct {
	mu    sync.RWMutex
	flags map[string]any
}

// NewEnvironment creates an environment seeded with a copy of defaults.
func NewEnvironment(defaults map[string]any) *Environment {
	flags := make(map[string]any, len(defaults))
	maps.Copy(flags, defaults)
	return &Environment{flags: flags}
}

// SetFlags merges flags into the environment in a single step.
// Readers never observe a partially applied batch.
func (e *Environment) SetFlags(flags map[string]any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	maps.Copy(e.flags, flags)
}

// Get returns the value of a single flag.
func (e *Environment) Get(name string) (any, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.flags[name]
	return v, ok
}

// Flags returns a snapshot of all flags.
func (e *Environment) Flags() map[string]any {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return maps.Clone(e.flags)
}

// Reset drops every flag.
func (e *Environment) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.flags = make(map[string]any)
}

package runtimeengine

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
)

// Backend is a live numeric-execution backend held by an Engine.
type Backend interface {
	// ID identifies this particular instance. A re-created backend gets a new ID.
	ID() string
	Name() string
	Dispose()
}

// BackendFactory builds a new Backend instance. It may block while the
// backend initialises.
type BackendFactory func(ctx context.Context) (Backend, error)

// NamedBackend is a minimal Backend carrying only its identity.
type NamedBackend struct {
	id       string
	name     string
	disposed atomic.Bool
}

// NewNamedBackend returns a backend instance with a fresh random ID.
func NewNamedBackend(name string) *NamedBackend {
	return &NamedBackend{
		id:   uuid.NewString(),
		name: name,
	}
}

func (b *NamedBackend) ID() string {
	return b.id
}

func (b *NamedBackend) Name() string {
	return b.name
}

func (b *NamedBackend) Dispose() {
	b.disposed.Store(true)
}

// Disposed reports whether the engine has torn this instance down.
func (b *NamedBackend) Disposed() bool {
	return b.disposed.Load()
}

// NamedBackendFactory returns a factory producing a new NamedBackend per call.
func NamedBackendFactory(name string) BackendFactory {
	return func(ctx context.Context) (Backend, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return NewNamedBackend(name), nil
	}
}

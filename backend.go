package tunables

import (
	"context"
)

// ResetBackend selects backend name on engine. If the backend is already
// live, it is removed and its factory re-registered first so that selection
// builds a fresh instance instead of reusing the existing one.
//
// It blocks until the engine has finished initialising the backend.
func ResetBackend(ctx context.Context, engine Engine, name string) error {
	if !engine.HasFactory(name) {
		return &UnregisteredBackendError{Backend: name}
	}

	if engine.IsLive(name) {
		factory, ok := engine.FindBackendFactory(name)
		if !ok {
			return &UnregisteredBackendError{Backend: name}
		}
		engine.RemoveBackend(name)
		engine.RegisterBackend(name, factory)
	}

	return engine.SetBackend(ctx, name)
}

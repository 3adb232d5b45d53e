package tunables

import (
	"sync"
	"time"

	"github.com/blang/semver/v4"
)

// registryState is the Configurator's current flag registry.
type registryState struct {
	mu           sync.RWMutex
	registry     Registry
	backendFlags map[string][]string
	version      semver.Version
	updatedAt    time.Time
}

// Registry returns the current registry. Callers must not modify it.
func (s *registryState) Registry() Registry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry
}

func (s *registryState) BackendFlags() map[string][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.backendFlags
}

// UpdatedAt returns when the current registry document was last changed, or
// the zero time for registries that did not come from a document.
func (s *registryState) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

func (s *registryState) Version() semver.Version {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// SetRegistry swaps in registry. A nil backendFlags keeps the current one.
func (s *registryState) SetRegistry(registry Registry, backendFlags map[string][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry = registry
	if backendFlags != nil {
		s.backendFlags = backendFlags
	}
	s.version = SupportedRegistryVersion
	s.updatedAt = time.Time{}
}

// SetDocument swaps in doc. It reports false, leaving the state unchanged,
// if doc is older than the current document.
func (s *registryState) SetDocument(doc *RegistryDocument) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.updatedAt.IsZero() && doc.UpdatedAt.Before(s.updatedAt) {
		return false
	}
	s.registry = doc.Flags
	if len(doc.BackendFlags) > 0 {
		s.backendFlags = doc.BackendFlags
	}
	s.version = doc.Version
	s.updatedAt = doc.UpdatedAt
	return true
}

package tunables

import (
	"context"
	"strings"

	"github.com/Flagsmith/tunables-go/runtimeengine"
)

// RuntimeTFJS is the runtime token whose backends this package can reset.
const RuntimeTFJS = "tfjs"

// FlagConfig maps flag names to the values they should be set to.
type FlagConfig map[string]any

// Engine is the runtime engine whose flags and backends are configured.
// *runtimeengine.Engine implements it.
type Engine interface {
	HasFactory(name string) bool
	IsLive(name string) bool
	FindBackendFactory(name string) (runtimeengine.BackendFactory, bool)
	RemoveBackend(name string)
	RegisterBackend(name string, factory runtimeengine.BackendFactory) bool
	SetBackend(ctx context.Context, name string) error
	SetFlags(flags map[string]any)
}

var _ Engine = (*runtimeengine.Engine)(nil)

// BackendID is a parsed "<runtime>-<backend>" identifier such as "tfjs-webgl".
type BackendID struct {
	Runtime string
	Backend string
}

// ParseBackendID splits id on "-". Only the first two components are kept,
// so "tfjs-webgl-extra" yields runtime "tfjs" and backend "webgl". An id
// without a separator has an empty backend.
func ParseBackendID(id string) BackendID {
	parts := strings.Split(id, "-")
	b := BackendID{Runtime: parts[0]}
	if len(parts) > 1 {
		b.Backend = parts[1]
	}
	return b
}

func (b BackendID) String() string {
	return b.Runtime + "-" + b.Backend
}

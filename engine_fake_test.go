package tunables_test

import (
	"context"
	"sync"

	"golang.org/x/exp/maps"

	tunables "github.com/Flagsmith/tunables-go"
	"github.com/Flagsmith/tunables-go/runtimeengine"
)

// fakeEngine records every call made against it.
type fakeEngine struct {
	mu         sync.Mutex
	factories  map[string]runtimeengine.BackendFactory
	live       map[string]bool
	flags      map[string]any
	active     string
	calls      []string
	setFlags   int
	setBackend func(ctx context.Context, name string) error
}

var _ tunables.Engine = (*fakeEngine)(nil)

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		factories: map[string]runtimeengine.BackendFactory{},
		live:      map[string]bool{},
		flags:     map[string]any{},
	}
}

func (f *fakeEngine) withBackend(name string, live bool) *fakeEngine {
	f.factories[name] = runtimeengine.NamedBackendFactory(name)
	f.live[name] = live
	return f
}

func (f *fakeEngine) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeEngine) HasFactory(name string) bool {
	_, ok := f.factories[name]
	return ok
}

func (f *fakeEngine) IsLive(name string) bool {
	return f.live[name]
}

func (f *fakeEngine) FindBackendFactory(name string) (runtimeengine.BackendFactory, bool) {
	factory, ok := f.factories[name]
	return factory, ok
}

func (f *fakeEngine) RemoveBackend(name string) {
	f.record("remove:" + name)
	delete(f.factories, name)
	delete(f.live, name)
}

func (f *fakeEngine) RegisterBackend(name string, factory runtimeengine.BackendFactory) bool {
	f.record("register:" + name)
	if _, ok := f.factories[name]; ok {
		return false
	}
	f.factories[name] = factory
	return true
}

func (f *fakeEngine) SetBackend(ctx context.Context, name string) error {
	f.record("set:" + name)
	if f.setBackend != nil {
		if err := f.setBackend(ctx, name); err != nil {
			return err
		}
	}
	f.live[name] = true
	f.active = name
	return nil
}

func (f *fakeEngine) SetFlags(flags map[string]any) {
	f.record("flags")
	f.setFlags++
	maps.Copy(f.flags, flags)
}

func (f *fakeEngine) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

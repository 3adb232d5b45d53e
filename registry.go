package tunables

import (
	"reflect"

	"golang.org/x/exp/slices"
)

// Registry maps each tunable flag name to the values it may be set to.
type Registry map[string][]any

// DefaultRegistry returns the built-in tunable flags of the tfjs runtime.
func DefaultRegistry() Registry {
	return Registry{
		"WEBGL_VERSION":                     {1, 2},
		"WASM_HAS_SIMD_SUPPORT":             {true, false},
		"WASM_HAS_MULTITHREAD_SUPPORT":      {true, false},
		"WEBGL_CPU_FORWARD":                 {true, false},
		"WEBGL_PACK":                        {true, false},
		"WEBGL_FORCE_F16_TEXTURES":          {true, false},
		"WEBGL_RENDER_FLOAT32_CAPABLE":      {true, false},
		"WEBGL_FLUSH_THRESHOLD":             {-1, 0, 0.25, 0.5, 0.75, 1, 1.25, 1.5, 1.75, 2},
		"WEBGL_USE_SHAPES_UNIFORMS":         {true, false},
		"CHECK_COMPUTATION_FOR_ERRORS":      {true, false},
		"KEEP_INTERMEDIATE_TENSORS":         {true, false},
		"WEBGPU_DEFERRED_SUBMIT_BATCH_SIZE": {1, 5, 10, 15, 20, 25, 30, 35, 40, 45, 50},
	}
}

// DefaultBackendFlags returns, per backend, the flags that affect it.
func DefaultBackendFlags() map[string][]string {
	return map[string][]string{
		"general": {"CHECK_COMPUTATION_FOR_ERRORS", "KEEP_INTERMEDIATE_TENSORS"},
		"cpu":     {},
		"wasm":    {"WASM_HAS_SIMD_SUPPORT", "WASM_HAS_MULTITHREAD_SUPPORT"},
		"webgl": {
			"WEBGL_VERSION",
			"WEBGL_CPU_FORWARD",
			"WEBGL_PACK",
			"WEBGL_FORCE_F16_TEXTURES",
			"WEBGL_RENDER_FLOAT32_CAPABLE",
			"WEBGL_FLUSH_THRESHOLD",
			"WEBGL_USE_SHAPES_UNIFORMS",
		},
		"webgpu": {"WEBGPU_DEFERRED_SUBMIT_BATCH_SIZE"},
	}
}

// TunableFlagsForBackend returns the general flags followed by the flags
// specific to backend, leaving out flags registry does not know. Unknown
// backends only get the general flags.
func TunableFlagsForBackend(registry Registry, backendFlags map[string][]string, backend string) []string {
	names := backendFlags["general"]
	if backend != "general" {
		names = append(slices.Clone(names), backendFlags[backend]...)
	}
	flags := make([]string, 0, len(names))
	for _, flag := range names {
		if registry.Has(flag) {
			flags = append(flags, flag)
		}
	}
	return flags
}

func (r Registry) Has(flag string) bool {
	_, ok := r[flag]
	return ok
}

// ValueRange returns the legal values of flag.
func (r Registry) ValueRange(flag string) ([]any, bool) {
	values, ok := r[flag]
	return values, ok
}

// Allows reports whether value is a legal value of flag.
func (r Registry) Allows(flag string, value any) bool {
	values, ok := r[flag]
	if !ok {
		return false
	}
	return slices.IndexFunc(values, func(v any) bool {
		return valuesEqual(v, value)
	}) >= 0
}

// Flags returns the registered flag names in lexical order.
func (r Registry) Flags() []string {
	return sortedKeys(r)
}

func (r Registry) Clone() Registry {
	clone := make(Registry, len(r))
	for k, v := range r {
		clone[k] = slices.Clone(v)
	}
	return clone
}

// valuesEqual compares two flag values. Numbers compare by value regardless
// of their Go kind, since registry documents decode every number as float64.
func valuesEqual(a, b any) bool {
	af, aNum := toFloat(a)
	bf, bNum := toFloat(b)
	if aNum || bNum {
		return aNum && bNum && af == bf
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

package tunables

import (
	"context"
	"fmt"
	"reflect"
)

// SetBackendAndEnvFlags validates flagConfig against registry, applies it to
// engine in one batch, and resets the backend named by backend when its
// runtime is "tfjs".
//
// flagConfig must be nil or a map with string keys. A nil flagConfig is a
// no-op and leaves the backend untouched. Validation covers every flag before
// any is applied, so a rejected request changes nothing.
func SetBackendAndEnvFlags(ctx context.Context, engine Engine, registry Registry, flagConfig any, backend string) error {
	flags, err := validFlagConfig(registry, flagConfig)
	if err != nil || flags == nil {
		return err
	}
	engine.SetFlags(flags)
	return resetTFJSBackend(ctx, engine, backend)
}

// validFlagConfig converts flagConfig and validates it against registry. A nil
// result with a nil error means there is nothing to apply.
func validFlagConfig(registry Registry, flagConfig any) (FlagConfig, error) {
	flags, err := toFlagConfig(flagConfig)
	if err != nil || flags == nil {
		return nil, err
	}
	if err := ValidateFlags(registry, flags); err != nil {
		return nil, err
	}
	return flags, nil
}

// resetTFJSBackend resets the backend named by the backend identifier when
// its runtime is "tfjs".
func resetTFJSBackend(ctx context.Context, engine Engine, backend string) error {
	id := ParseBackendID(backend)
	if id.Runtime != RuntimeTFJS {
		return nil
	}
	return ResetBackend(ctx, engine, id.Backend)
}

// ValidateFlags checks every flag in flags against registry, in lexical order
// of flag names, and returns the first violation.
func ValidateFlags(registry Registry, flags FlagConfig) error {
	for _, flag := range sortedKeys(flags) {
		values, ok := registry.ValueRange(flag)
		if !ok {
			return &UnknownFlagError{Flag: flag}
		}
		if !registry.Allows(flag, flags[flag]) {
			return &ValueOutOfRangeError{Flag: flag, Range: values, Value: flags[flag]}
		}
	}
	return nil
}

// toFlagConfig converts v into a FlagConfig. It returns nil for nil input,
// including typed nil maps.
func toFlagConfig(v any) (FlagConfig, error) {
	switch c := v.(type) {
	case nil:
		return nil, nil
	case FlagConfig:
		return c, nil
	case map[string]any:
		return FlagConfig(c), nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil
		}
		if rv.Elem().Kind() == reflect.Map {
			rv = rv.Elem()
		}
	}
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, &InvalidArgumentError{Type: fmt.Sprintf("%T", v)}
	}
	if rv.IsNil() {
		return nil, nil
	}

	flags := make(FlagConfig, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		flags[iter.Key().String()] = iter.Value().Interface()
	}
	return flags, nil
}

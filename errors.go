package tunables

import (
	"fmt"
	"strings"
)

// UnregisteredBackendError is returned when a backend has no registered factory.
type UnregisteredBackendError struct {
	Backend string
}

func (e *UnregisteredBackendError) Error() string {
	return fmt.Sprintf("%s backend is not registered.", e.Backend)
}

// InvalidArgumentError is returned when a flag configuration is not a
// string-keyed map.
type InvalidArgumentError struct {
	Type string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("An object is expected, while a(n) %s is found", e.Type)
}

// UnknownFlagError is returned for a flag that is not in the registry.
type UnknownFlagError struct {
	Flag string
}

func (e *UnknownFlagError) Error() string {
	return fmt.Sprintf("%s is not tunable or valid environment flag.", e.Flag)
}

// ValueOutOfRangeError is returned when a flag value is not one of the
// registry's legal values for that flag.
type ValueOutOfRangeError struct {
	Flag  string
	Range []any
	Value any
}

func (e *ValueOutOfRangeError) Error() string {
	values := make([]string, len(e.Range))
	for i, v := range e.Range {
		values[i] = fmt.Sprint(v)
	}
	return fmt.Sprintf("%s value is expected to be in range [%s], while %v is found.",
		e.Flag, strings.Join(values, ","), e.Value)
}

// RegistryDocumentError is returned for registry documents that cannot be
// decoded or are not compatible with this version of the package.
type RegistryDocumentError struct {
	msg string
}

func (e RegistryDocumentError) Error() string {
	return e.msg
}

// TunablesAPIError is returned when the remote registry API fails.
type TunablesAPIError struct {
	msg string
}

func (e TunablesAPIError) Error() string {
	return e.msg
}

package node

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. The structured error types below match the first two via
// errors.Is.
var (
	ErrUnknownKey       = errors.New("unknown key")
	ErrReadOnly         = errors.New("read-only node")
	ErrTooDeep          = errors.New("tree exceeds maximum depth")
	ErrUnsupportedValue = errors.New("unsupported value")
	ErrNotMapping       = errors.New("value is not a mapping")
)

// UnknownKeyError is returned by Merge when a partial update names a key that
// the corresponding live mapping does not have.
type UnknownKeyError struct {
	Path   []string // Location of Target, from the root.
	Key    string
	Target *Mapping
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("the key %q is not in the object %s at %s", e.Key, e.Target, FormatPath(e.Path))
}

func (e *UnknownKeyError) Is(target error) bool {
	return target == ErrUnknownKey
}

// ReadOnlyViolationError is returned by every write attempted directly
// against a node.
type ReadOnlyViolationError struct {
	Key    string
	Target Node
}

func (e *ReadOnlyViolationError) Error() string {
	return fmt.Sprintf("cannot assign to read only property %q of %s", e.Key, e.Target)
}

func (e *ReadOnlyViolationError) Is(target error) bool {
	return target == ErrReadOnly
}

// FormatPath renders a path as "$.a.b". The root is "$".
func FormatPath(path []string) string {
	if len(path) == 0 {
		return "$"
	}
	return "$." + strings.Join(path, ".")
}

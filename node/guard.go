package node

import "strconv"

// Nodes are frozen from the moment they are built. The methods in this file
// are the only write-shaped entry points on the exported types and each one
// refuses the write. State changes go through a store's SetState, which
// builds new nodes with Merge instead of modifying existing ones.

// Set always fails with *ReadOnlyViolationError.
func (m *Mapping) Set(key string, value any) error {
	return &ReadOnlyViolationError{Key: key, Target: m}
}

// Delete always fails with *ReadOnlyViolationError.
func (m *Mapping) Delete(key string) error {
	return &ReadOnlyViolationError{Key: key, Target: m}
}

// Set always fails with *ReadOnlyViolationError.
func (s *Sequence) Set(i int, value any) error {
	return &ReadOnlyViolationError{Key: strconv.Itoa(i), Target: s}
}

// Append always fails with *ReadOnlyViolationError.
func (s *Sequence) Append(values ...any) error {
	return &ReadOnlyViolationError{Key: strconv.Itoa(s.Len()), Target: s}
}

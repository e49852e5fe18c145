// Package node implements the immutable value tree held by a store.
//
// A Node is one of six variants:
//
//   - Null
//   - Bool
//   - Number (float64)
//   - String
//   - *Sequence (ordered list of Node)
//   - *Mapping (string key to Node)
//
// Nodes are persistent values. Once built by the Freezer they are never
// modified; updates produced by Merge allocate fresh nodes along the touched
// path and share every untouched subtree with the previous version.
//
// # Freezing
//
// Freeze deep-copies a Go value tree into nodes:
//
//	root, err := node.FreezeMapping(map[string]any{
//	    "user":  map[string]any{"name": "ada", "age": 36},
//	    "tags":  []any{"admin"},
//	})
//
// Recursion depth is bounded by MaxDepth. Inputs deeper than that, including
// cyclic maps and slices, fail with ErrTooDeep.
//
// # Merging
//
// Merge applies a partial mapping onto a live mapping without ever adding a
// key. At the root, omitted keys are kept. Below the root, ModeReplace keeps
// only the keys the partial names and ModePreserve keeps the rest as well.
// Sequences are always replaced wholesale.
//
// # Guarding
//
// Nodes expose read accessors only. The write-shaped methods on Mapping and
// Sequence always fail with *ReadOnlyViolationError.
package node

import (
	"fmt"
	"strconv"
)

// Kind tags the variant held by a Node.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Node is a single value in a state tree. Only types in this package
// implement it.
type Node interface {
	Kind() Kind
	// Export returns a detached, mutable Go representation of the node.
	Export() any
	String() string

	sealed()
}

type Null struct{}

type Bool bool

// Number is a finite float64. Integers are exact up to MaxExactInt.
type Number float64

type String string

func (Null) Kind() Kind   { return KindNull }
func (Bool) Kind() Kind   { return KindBool }
func (Number) Kind() Kind { return KindNumber }
func (String) Kind() Kind { return KindString }

func (Null) Export() any     { return nil }
func (b Bool) Export() any   { return bool(b) }
func (n Number) Export() any { return float64(n) }
func (s String) Export() any { return string(s) }

func (Null) String() string     { return "null" }
func (b Bool) String() string   { return strconv.FormatBool(bool(b)) }
func (n Number) String() string { return strconv.FormatFloat(float64(n), 'g', -1, 64) }
func (s String) String() string { return strconv.Quote(string(s)) }

func (Null) sealed()   {}
func (Bool) sealed()   {}
func (Number) sealed() {}
func (String) sealed() {}

// Equal reports whether a and b hold structurally identical trees.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch av := a.(type) {
	case *Mapping:
		bv := b.(*Mapping)
		if av == bv {
			return true
		}
		if av.Len() != bv.Len() {
			return false
		}
		for _, k := range av.keys {
			other, ok := bv.values[k]
			if !ok || !Equal(av.values[k], other) {
				return false
			}
		}
		return true
	case *Sequence:
		bv := b.(*Sequence)
		if av == bv {
			return true
		}
		if av.Len() != bv.Len() {
			return false
		}
		for i, item := range av.items {
			if !Equal(item, bv.items[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

package node

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// DefaultMaxDepth bounds the nesting accepted by Freeze.
const DefaultMaxDepth = 512

// MaxExactInt is the largest integer magnitude a Number holds exactly.
// Freeze rejects integers beyond it rather than rounding them.
const MaxExactInt = 1 << 53

// Freezer converts Go values into immutable nodes.
type Freezer struct {
	// MaxDepth limits container nesting. Zero means DefaultMaxDepth.
	MaxDepth int
}

// Freeze converts v using DefaultMaxDepth.
func Freeze(v any) (Node, error) {
	return Freezer{}.Freeze(v)
}

// FreezeMapping converts v using DefaultMaxDepth and requires a mapping
// result. A nil v yields an empty mapping.
func FreezeMapping(v any) (*Mapping, error) {
	return Freezer{}.FreezeMapping(v)
}

// Freeze deep-copies v into a node tree. Accepted inputs are nil, booleans,
// strings, every integer and float kind, json.Number, maps with string keys,
// slices and arrays, pointers and interfaces to those, and existing nodes,
// which are shared since they are already immutable. NaN, infinities, and
// integers beyond MaxExactInt fail with ErrUnsupportedValue.
func (f Freezer) Freeze(v any) (Node, error) {
	return f.freeze(v, nil, 0)
}

func (f Freezer) FreezeMapping(v any) (*Mapping, error) {
	if v == nil {
		return EmptyMapping(), nil
	}
	n, err := f.Freeze(v)
	if err != nil {
		return nil, err
	}
	m, ok := n.(*Mapping)
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrNotMapping, n.Kind())
	}
	return m, nil
}

func (f Freezer) maxDepth() int {
	if f.MaxDepth > 0 {
		return f.MaxDepth
	}
	return DefaultMaxDepth
}

func (f Freezer) freeze(v any, path []string, depth int) (Node, error) {
	switch x := v.(type) {
	case nil:
		return Null{}, nil
	case Node:
		if isNilNode(x) {
			return Null{}, nil
		}
		if err := f.check(x, path, depth); err != nil {
			return nil, err
		}
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case float64:
		return number(x, path)
	case int:
		return intNumber(int64(x), path)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return intNumber(i, path)
		}
		n, err := x.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: %q at %s", ErrUnsupportedValue, x, FormatPath(path))
		}
		return number(n, path)
	case map[string]any:
		if depth >= f.maxDepth() {
			return nil, fmt.Errorf("%w: %d at %s", ErrTooDeep, f.maxDepth(), FormatPath(path))
		}
		values := make(map[string]Node, len(x))
		for k, item := range x {
			n, err := f.freeze(item, append(path, k), depth+1)
			if err != nil {
				return nil, err
			}
			values[k] = n
		}
		return newMapping(values), nil
	case []any:
		if depth >= f.maxDepth() {
			return nil, fmt.Errorf("%w: %d at %s", ErrTooDeep, f.maxDepth(), FormatPath(path))
		}
		items := make([]Node, len(x))
		for i, item := range x {
			n, err := f.freeze(item, append(path, strconv.Itoa(i)), depth+1)
			if err != nil {
				return nil, err
			}
			items[i] = n
		}
		return &Sequence{items: items}, nil
	}

	return f.freezeReflect(reflect.ValueOf(v), path, depth)
}

func (f Freezer) freezeReflect(rv reflect.Value, path []string, depth int) (Node, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null{}, nil
		}
		return f.freeze(rv.Elem().Interface(), path, depth)
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intNumber(rv.Int(), path)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > MaxExactInt {
			return nil, fmt.Errorf("%w: integer %d exceeds 2^53 at %s", ErrUnsupportedValue, u, FormatPath(path))
		}
		return Number(u), nil
	case reflect.Float32, reflect.Float64:
		return number(rv.Float(), path)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		if rv.IsNil() {
			return Null{}, nil
		}
		if depth >= f.maxDepth() {
			return nil, fmt.Errorf("%w: %d at %s", ErrTooDeep, f.maxDepth(), FormatPath(path))
		}
		values := make(map[string]Node, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key().String()
			n, err := f.freeze(iter.Value().Interface(), append(path, k), depth+1)
			if err != nil {
				return nil, err
			}
			values[k] = n
		}
		return newMapping(values), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Null{}, nil
		}
		if depth >= f.maxDepth() {
			return nil, fmt.Errorf("%w: %d at %s", ErrTooDeep, f.maxDepth(), FormatPath(path))
		}
		items := make([]Node, rv.Len())
		for i := range items {
			n, err := f.freeze(rv.Index(i).Interface(), append(path, strconv.Itoa(i)), depth+1)
			if err != nil {
				return nil, err
			}
			items[i] = n
		}
		return &Sequence{items: items}, nil
	}

	return nil, fmt.Errorf("%w: %s at %s", ErrUnsupportedValue, rv.Type(), FormatPath(path))
}

// Check reports whether an already-built node fits within MaxDepth and holds
// only finite numbers, returning the error Freeze would have.
func (f Freezer) Check(n Node) error {
	return f.check(n, nil, 0)
}

func (f Freezer) check(n Node, path []string, depth int) error {
	switch x := n.(type) {
	case Number:
		_, err := number(float64(x), path)
		return err
	case *Mapping:
		if x == nil {
			return nil
		}
		if depth >= f.maxDepth() {
			return fmt.Errorf("%w: %d at %s", ErrTooDeep, f.maxDepth(), FormatPath(path))
		}
		for k, v := range x.All() {
			if err := f.check(v, append(path, k), depth+1); err != nil {
				return err
			}
		}
	case *Sequence:
		if x == nil {
			return nil
		}
		if depth >= f.maxDepth() {
			return fmt.Errorf("%w: %d at %s", ErrTooDeep, f.maxDepth(), FormatPath(path))
		}
		for i, v := range x.All() {
			if err := f.check(v, append(path, strconv.Itoa(i)), depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

func number(v float64, path []string) (Node, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%w: %v at %s", ErrUnsupportedValue, v, FormatPath(path))
	}
	return Number(v), nil
}

func intNumber(v int64, path []string) (Node, error) {
	if v > MaxExactInt || v < -MaxExactInt {
		return nil, fmt.Errorf("%w: integer %d exceeds 2^53 at %s", ErrUnsupportedValue, v, FormatPath(path))
	}
	return Number(v), nil
}

func isNilNode(n Node) bool {
	switch v := n.(type) {
	case *Mapping:
		return v == nil
	case *Sequence:
		return v == nil
	}
	return false
}

package node

import (
	"encoding/json"
	"iter"
	"slices"
	"strconv"
	"strings"
)

// Mapping is an immutable string-keyed node. Keys iterate in sorted order.
type Mapping struct {
	keys   []string
	values map[string]Node
}

// newMapping takes ownership of values.
func newMapping(values map[string]Node) *Mapping {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return &Mapping{keys: keys, values: values}
}

// EmptyMapping returns a mapping with no keys.
func EmptyMapping() *Mapping {
	return newMapping(map[string]Node{})
}

func (*Mapping) Kind() Kind { return KindMapping }
func (*Mapping) sealed()    {}

// Len returns the number of keys.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in sorted order. The slice is a copy.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.keys)
}

// Has reports whether key is an own key of m.
func (m *Mapping) Has(key string) bool {
	if m == nil {
		return false
	}
	_, ok := m.values[key]
	return ok
}

// Get returns the value stored at key.
func (m *Mapping) Get(key string) (Node, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// All iterates key/value pairs in key order.
func (m *Mapping) All() iter.Seq2[string, Node] {
	return func(yield func(string, Node) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// Lookup walks path from m. Path elements address mapping keys or, for
// sequences, decimal indexes.
func (m *Mapping) Lookup(path ...string) (Node, bool) {
	var current Node = m
	for _, elem := range path {
		switch v := current.(type) {
		case *Mapping:
			next, ok := v.Get(elem)
			if !ok {
				return nil, false
			}
			current = next
		case *Sequence:
			i, err := strconv.Atoi(elem)
			if err != nil || i < 0 || i >= v.Len() {
				return nil, false
			}
			current = v.Index(i)
		default:
			return nil, false
		}
	}
	return current, true
}

// Export returns a map[string]any deep copy that the caller may mutate freely.
func (m *Mapping) Export() any {
	return m.ExportMap()
}

// ExportMap is Export with a concrete return type.
func (m *Mapping) ExportMap() map[string]any {
	out := make(map[string]any, m.Len())
	for k, v := range m.All() {
		out[k] = v.Export()
	}
	return out
}

func (m *Mapping) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range m.Keys() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(m.values[k].String())
	}
	b.WriteByte('}')
	return b.String()
}

func (m *Mapping) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.ExportMap())
}

// with returns a copy of m with overrides applied. Untouched values are
// shared with m.
func (m *Mapping) with(overrides map[string]Node) *Mapping {
	if len(overrides) == 0 {
		return m
	}
	values := make(map[string]Node, m.Len())
	for k, v := range m.values {
		values[k] = v
	}
	for k, v := range overrides {
		values[k] = v
	}
	return &Mapping{keys: m.keys, values: values}
}

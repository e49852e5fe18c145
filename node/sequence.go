package node

import (
	"encoding/json"
	"iter"
	"slices"
	"strings"
)

// Sequence is an immutable ordered list of nodes.
type Sequence struct {
	items []Node
}

// EmptySequence returns a sequence with no items.
func EmptySequence() *Sequence {
	return &Sequence{items: []Node{}}
}

func (*Sequence) Kind() Kind { return KindSequence }
func (*Sequence) sealed()    {}

func (s *Sequence) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Index returns the item at i. It panics if i is out of range, like a slice.
func (s *Sequence) Index(i int) Node {
	return s.items[i]
}

// Items returns a copy of the item slice. The items themselves are shared,
// which is safe because they are immutable.
func (s *Sequence) Items() []Node {
	if s == nil {
		return nil
	}
	return slices.Clone(s.items)
}

// All iterates index/item pairs in order.
func (s *Sequence) All() iter.Seq2[int, Node] {
	return func(yield func(int, Node) bool) {
		if s == nil {
			return
		}
		for i, item := range s.items {
			if !yield(i, item) {
				return
			}
		}
	}
}

// Export returns a []any deep copy that the caller may mutate freely.
func (s *Sequence) Export() any {
	out := make([]any, s.Len())
	for i, item := range s.All() {
		out[i] = item.Export()
	}
	return out
}

func (s *Sequence) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, item := range s.All() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(item.String())
	}
	b.WriteByte(']')
	return b.String()
}

func (s *Sequence) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Export())
}

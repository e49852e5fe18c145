package node

import (
	"fmt"
	"slices"
)

// Mode selects how Merge treats nested mapping keys that a partial update
// leaves out. The root mapping always keeps omitted keys.
type Mode uint8

const (
	// ModeReplace keeps only the keys the partial names below the root.
	ModeReplace Mode = iota
	// ModePreserve keeps omitted keys at every depth.
	ModePreserve
)

func (m Mode) String() string {
	switch m {
	case ModeReplace:
		return "replace"
	case ModePreserve:
		return "preserve"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// ParseMode parses "replace" or "preserve". The empty string is ModeReplace.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "replace":
		return ModeReplace, nil
	case "preserve":
		return ModePreserve, nil
	default:
		return ModeReplace, fmt.Errorf("unknown merge mode %q", s)
	}
}

// Merge returns the result of applying partial onto live. Neither argument is
// modified and untouched subtrees of live are shared with the result.
//
// Every key named by partial, at every depth where both sides hold a mapping,
// must already exist in live; otherwise Merge returns *UnknownKeyError and no
// result. A null slot counts as an empty mapping, so it accepts {} and nothing
// else shaped as a mapping. Any other pairing (scalars, sequences, or a change
// of kind) takes the partial's value as-is, so sequences are replaced
// wholesale.
func Merge(live, partial *Mapping, mode Mode) (*Mapping, error) {
	if live == nil {
		live = EmptyMapping()
	}
	return mergeMapping(live, partial, nil, true, mode)
}

func mergeMapping(live, partial *Mapping, path []string, keepOmitted bool, mode Mode) (*Mapping, error) {
	values := make(map[string]Node, partial.Len())
	for k, update := range partial.All() {
		old, ok := live.values[k]
		if !ok {
			return nil, &UnknownKeyError{Path: slices.Clone(path), Key: k, Target: live}
		}

		next, err := mergeValue(old, update, append(path, k), mode)
		if err != nil {
			return nil, err
		}
		values[k] = next
	}

	if keepOmitted {
		return live.with(values), nil
	}
	return newMapping(values), nil
}

func mergeValue(old, update Node, path []string, mode Mode) (Node, error) {
	oldMap, oldIsMap := old.(*Mapping)
	updateMap, updateIsMap := update.(*Mapping)
	if !updateIsMap {
		return update, nil
	}
	if oldIsMap {
		return mergeMapping(oldMap, updateMap, path, mode == ModePreserve, mode)
	}
	if _, ok := old.(Null); ok {
		return mergeMapping(EmptyMapping(), updateMap, path, false, mode)
	}
	return update, nil
}

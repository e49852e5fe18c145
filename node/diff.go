package node

import "slices"

// Diff returns the paths, formatted with FormatPath, at which before and after
// differ. Mapping keys are compared recursively; sequences and scalars are
// compared as whole values. Shared subtrees are skipped without inspection.
func Diff(before, after Node) []string {
	var changed []string
	diff(before, after, nil, &changed)
	slices.Sort(changed)
	return changed
}

func diff(before, after Node, path []string, changed *[]string) {
	bm, beforeIsMap := before.(*Mapping)
	am, afterIsMap := after.(*Mapping)
	if !beforeIsMap || !afterIsMap {
		if !Equal(before, after) {
			*changed = append(*changed, FormatPath(path))
		}
		return
	}
	if bm == am {
		return
	}

	for k, bv := range bm.All() {
		av, ok := am.Get(k)
		if !ok {
			*changed = append(*changed, FormatPath(append(path, k)))
			continue
		}
		diff(bv, av, append(path, k), changed)
	}
	for k := range am.All() {
		if !bm.Has(k) {
			*changed = append(*changed, FormatPath(append(path, k)))
		}
	}
}

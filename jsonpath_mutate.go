package strictjson

import "sort"

// Update compiles path, evaluates it against doc, and assigns a deep copy
// of newValue (spec.md §4.6: "assign new_value by copy to each matched
// node") into every matched node in place. It returns how many nodes were
// updated.
func Update(doc *Value, path string, newValue *Value) (int, error) {
	cp, err := compileViaPool(path)
	if err != nil {
		return 0, err
	}
	refs, err := evaluateMut(doc, cp.steps)
	if err != nil {
		return 0, err
	}
	for _, r := range refs {
		r.val.Assign(newValue)
	}
	return len(refs), nil
}

// Delete compiles path, evaluates it against doc, and removes every
// matched node from its parent container. Deleting the document root
// (path "$") is a documented no-op (spec.md §4.6): there is no parent
// container to remove the root from, so Delete reports zero nodes
// deleted rather than clearing doc in place.
//
// Matches sharing one array parent are removed in descending index order
// so that removing one never shifts the index of a match still pending
// (spec.md §4.6 "Delete ordering").
func Delete(doc *Value, path string) (int, error) {
	cp, err := compileViaPool(path)
	if err != nil {
		return 0, err
	}
	refs, err := evaluateMut(doc, cp.steps)
	if err != nil {
		return 0, err
	}

	byParent := make(map[*Value][]childRef)
	for _, r := range refs {
		if r.parent == nil {
			continue // root match: no-op, per spec.md §4.6
		}
		byParent[r.parent] = append(byParent[r.parent], r)
	}

	count := 0
	for parent, group := range byParent {
		var indices []int
		var keys []string
		for _, r := range group {
			if r.hasKey {
				keys = append(keys, r.key)
			} else {
				indices = append(indices, r.idx)
			}
		}
		sort.Sort(sort.Reverse(sort.IntSlice(indices)))
		for _, idx := range indices {
			if parent.DeleteIndex(idx) {
				count++
			}
		}
		for _, k := range keys {
			if parent.DeleteKey(k) {
				count++
			}
		}
	}
	return count, nil
}

package strictjson

// This is component C7, the path evaluator. spec.md §9 leaves open whether
// the evaluator should be one generic implementation parameterized over
// "can this call site mutate the tree" or two separate ones; Go has no
// cheap way to do the former without an interface-dispatch per node (which
// would undo the Value tagged-union's allocation-free design), so this
// resolves the question as two narrow, explicitly parallel implementations
// — evaluateConst for Query-style reads, evaluateMut for
// Update/Delete — that share the same per-kind step primitives
// (nameChild, wildcardChildren, indicesChildren, sliceChildren,
// unionChildren, filterChildren and their *Ref counterparts).

// collectRecursive returns v followed by every descendant of v in
// pre-order, the node set a recursive-descent segment (spec.md §4.3 "..")
// applies its step test against.
func collectRecursive(v *Value) []*Value {
	out := []*Value{v}
	switch v.kind {
	case KindArray:
		for _, e := range v.arr {
			out = append(out, collectRecursive(e)...)
		}
	case KindObject:
		for _, m := range v.obj {
			out = append(out, collectRecursive(m.val)...)
		}
	}
	return out
}

// estimateFanout gives evaluateConst a capacity hint for the next result
// slice, grounded on the pre-sized result buffers in
// dhawalhost-nqjson/nqjson_get.go's multi-path getter: a wildcard step is
// assumed to expand roughly 8x, an indices/union step expands by exactly
// as many entries as it names, and every other step keeps n (for a
// recursive step, n already counts the expanded descendant set).
func estimateFanout(st Step, n int) int {
	switch st.Kind {
	case StepWildcard:
		return n * 8
	case StepIndices:
		return n * len(st.indices)
	case StepUnion:
		return n * len(st.union)
	default:
		return n
	}
}

func nameChild(v *Value, name string) (*Value, bool) {
	if !v.IsObject() {
		return nil, false
	}
	c := v.GetKey(name)
	if c == nil {
		return nil, false
	}
	return c, true
}

func wildcardChildren(v *Value) []*Value {
	switch v.kind {
	case KindArray:
		return append([]*Value(nil), v.arr...)
	case KindObject:
		out := make([]*Value, len(v.obj))
		for i, m := range v.obj {
			out[i] = m.val
		}
		return out
	default:
		return nil
	}
}

func wrapIndex(i, n int) int {
	if i < 0 {
		return i + n
	}
	return i
}

func indicesChildren(v *Value, indices []int) []*Value {
	if !v.IsArray() {
		return nil
	}
	n := v.Len()
	var out []*Value
	for _, i := range indices {
		idx := wrapIndex(i, n)
		if idx >= 0 && idx < n {
			out = append(out, v.Get(idx))
		}
	}
	return out
}

// normalizeSliceBound applies Python-style slice-bound normalization: a
// negative bound counts from the end, and the result is clamped into the
// range a forward or backward walk can use directly (spec.md §4.3 Slice).
func normalizeSliceBound(i, n, step int) int {
	if i < 0 {
		i += n
	}
	if step > 0 {
		if i < 0 {
			return 0
		}
		if i > n {
			return n
		}
		return i
	}
	if i < -1 {
		return -1
	}
	if i >= n {
		return n - 1
	}
	return i
}

// errZeroStep is the runtime error produced by a `[a:b:0]` slice step,
// per spec.md §4.4: "step=0 is rejected at evaluation time as a runtime
// error" (compare a zero step, which would otherwise infinite-loop a
// forward/backward walk, to the compile-time-only "malformed path"
// category — this is deliberately a PathError, since spec.md §7 keeps
// path compile and evaluate failures in one runtime-error category,
// never mixed into parser Status values).
var errZeroStep = &PathError{Msg: "slice step must not be zero", Offset: -1}

func sliceChildren(v *Value, sl sliceBounds) ([]*Value, error) {
	if !v.IsArray() {
		return nil, nil
	}
	n := v.Len()
	step := 1
	if sl.step != nil {
		step = *sl.step
	}
	if step == 0 {
		return nil, errZeroStep
	}
	var start, end int
	if step > 0 {
		start, end = 0, n
	} else {
		start, end = n-1, -1
	}
	if sl.start != nil {
		start = normalizeSliceBound(*sl.start, n, step)
	}
	if sl.end != nil {
		end = normalizeSliceBound(*sl.end, n, step)
	}
	var out []*Value
	if step > 0 {
		for i := start; i < end; i += step {
			if i >= 0 && i < n {
				out = append(out, v.Get(i))
			}
		}
	} else {
		for i := start; i > end; i += step {
			if i >= 0 && i < n {
				out = append(out, v.Get(i))
			}
		}
	}
	return out, nil
}

func unionChildren(v *Value, entries []unionEntry) ([]*Value, error) {
	var out []*Value
	for _, e := range entries {
		switch e.kind {
		case StepName:
			if c, ok := nameChild(v, e.name); ok {
				out = append(out, c)
			}
		case StepWildcard:
			out = append(out, wildcardChildren(v)...)
		case StepIndices:
			out = append(out, indicesChildren(v, e.indices)...)
		case StepSlice:
			sl, err := sliceChildren(v, e.slice)
			if err != nil {
				return nil, err
			}
			out = append(out, sl...)
		}
	}
	return out, nil
}

func filterChildren(v *Value, fe *filterExpr, root *Value) []*Value {
	var out []*Value
	switch v.kind {
	case KindArray:
		for _, e := range v.arr {
			if evalFilter(fe, e, root) {
				out = append(out, e)
			}
		}
	case KindObject:
		for _, m := range v.obj {
			if evalFilter(fe, m.val, root) {
				out = append(out, m.val)
			}
		}
	}
	return out
}

func stepChildren(v *Value, st Step, root *Value) ([]*Value, error) {
	switch st.Kind {
	case StepName:
		if c, ok := nameChild(v, st.name); ok {
			return []*Value{c}, nil
		}
		return nil, nil
	case StepWildcard:
		return wildcardChildren(v), nil
	case StepIndices:
		return indicesChildren(v, st.indices), nil
	case StepSlice:
		return sliceChildren(v, st.slice)
	case StepUnion:
		return unionChildren(v, st.union)
	case StepFilter:
		return filterChildren(v, st.filter, root), nil
	default:
		return nil, nil
	}
}

// evaluateConst runs a compiled path read-only, returning every matched
// node (aliases into the document, never copies). It is used by
// QueryCompiled (and so by Query and QueryWith), and by evaluateMut to walk
// every step but the last.
func evaluateConst(root, start *Value, steps []Step) ([]*Value, error) {
	current := []*Value{start}
	for _, st := range steps {
		if st.Recursive {
			var pool []*Value
			for _, v := range current {
				pool = append(pool, collectRecursive(v)...)
			}
			current = pool
		}
		next := make([]*Value, 0, estimateFanout(st, len(current)))
		for _, v := range current {
			children, err := stepChildren(v, st, root)
			if err != nil {
				return nil, err
			}
			next = append(next, children...)
		}
		current = next
	}
	return current, nil
}

// childRef is a matched node plus a handle back to its direct container,
// letting the mutation layer (jsonpath_mutate.go) overwrite or remove it
// without re-walking the path. hasKey distinguishes an object member
// (key valid) from an array element (idx valid).
type childRef struct {
	val    *Value
	parent *Value
	key    string
	idx    int
	hasKey bool
}

func nameChildRef(v *Value, name string) (childRef, bool) {
	c, ok := nameChild(v, name)
	if !ok {
		return childRef{}, false
	}
	return childRef{val: c, parent: v, key: name, hasKey: true}, true
}

func wildcardChildrenRefs(v *Value) []childRef {
	switch v.kind {
	case KindArray:
		out := make([]childRef, len(v.arr))
		for i, e := range v.arr {
			out[i] = childRef{val: e, parent: v, idx: i}
		}
		return out
	case KindObject:
		out := make([]childRef, len(v.obj))
		for i, m := range v.obj {
			out[i] = childRef{val: m.val, parent: v, key: m.key, hasKey: true}
		}
		return out
	default:
		return nil
	}
}

func indicesChildrenRefs(v *Value, indices []int) []childRef {
	if !v.IsArray() {
		return nil
	}
	n := v.Len()
	var out []childRef
	for _, i := range indices {
		idx := wrapIndex(i, n)
		if idx >= 0 && idx < n {
			out = append(out, childRef{val: v.Get(idx), parent: v, idx: idx})
		}
	}
	return out
}

func sliceChildrenRefs(v *Value, sl sliceBounds) ([]childRef, error) {
	if !v.IsArray() {
		return nil, nil
	}
	n := v.Len()
	step := 1
	if sl.step != nil {
		step = *sl.step
	}
	if step == 0 {
		return nil, errZeroStep
	}
	var start, end int
	if step > 0 {
		start, end = 0, n
	} else {
		start, end = n-1, -1
	}
	if sl.start != nil {
		start = normalizeSliceBound(*sl.start, n, step)
	}
	if sl.end != nil {
		end = normalizeSliceBound(*sl.end, n, step)
	}
	var out []childRef
	if step > 0 {
		for i := start; i < end; i += step {
			if i >= 0 && i < n {
				out = append(out, childRef{val: v.Get(i), parent: v, idx: i})
			}
		}
	} else {
		for i := start; i > end; i += step {
			if i >= 0 && i < n {
				out = append(out, childRef{val: v.Get(i), parent: v, idx: i})
			}
		}
	}
	return out, nil
}

func unionChildrenRefs(v *Value, entries []unionEntry) ([]childRef, error) {
	var out []childRef
	for _, e := range entries {
		switch e.kind {
		case StepName:
			if r, ok := nameChildRef(v, e.name); ok {
				out = append(out, r)
			}
		case StepWildcard:
			out = append(out, wildcardChildrenRefs(v)...)
		case StepIndices:
			out = append(out, indicesChildrenRefs(v, e.indices)...)
		case StepSlice:
			refs, err := sliceChildrenRefs(v, e.slice)
			if err != nil {
				return nil, err
			}
			out = append(out, refs...)
		}
	}
	return out, nil
}

func filterChildrenRefs(v *Value, fe *filterExpr, root *Value) []childRef {
	var out []childRef
	switch v.kind {
	case KindArray:
		for i, e := range v.arr {
			if evalFilter(fe, e, root) {
				out = append(out, childRef{val: e, parent: v, idx: i})
			}
		}
	case KindObject:
		for _, m := range v.obj {
			if evalFilter(fe, m.val, root) {
				out = append(out, childRef{val: m.val, parent: v, key: m.key, hasKey: true})
			}
		}
	}
	return out
}

func stepChildrenRefs(v *Value, st Step, root *Value) ([]childRef, error) {
	switch st.Kind {
	case StepName:
		if r, ok := nameChildRef(v, st.name); ok {
			return []childRef{r}, nil
		}
		return nil, nil
	case StepWildcard:
		return wildcardChildrenRefs(v), nil
	case StepIndices:
		return indicesChildrenRefs(v, st.indices), nil
	case StepSlice:
		return sliceChildrenRefs(v, st.slice)
	case StepUnion:
		return unionChildrenRefs(v, st.union)
	case StepFilter:
		return filterChildrenRefs(v, st.filter, root), nil
	default:
		return nil, nil
	}
}

// Query evaluates path against doc, returning every matched node. It
// compiles path through the package's pooled PathCache (jsonpath_cache.go);
// QueryWith takes an explicit *PathCache for callers who want isolated or
// longer-lived cache state.
func Query(doc *Value, path string) ([]*Value, error) {
	cp, err := compileViaPool(path)
	if err != nil {
		return nil, err
	}
	return QueryCompiled(doc, cp)
}

// QueryWith evaluates path against doc using the caller-supplied cache
// instead of the package's pooled one.
func QueryWith(cache *PathCache, doc *Value, path string) ([]*Value, error) {
	cp, err := cache.Get(path)
	if err != nil {
		return nil, err
	}
	return QueryCompiled(doc, cp)
}

// QueryCompiled evaluates an already-compiled path against doc. A slice
// step with step=0 reports errZeroStep (spec.md §4.4: "rejected at
// evaluation time as a runtime error").
func QueryCompiled(doc *Value, cp *CompiledPath) ([]*Value, error) {
	return evaluateConst(doc, doc, cp.steps)
}

// evaluateMut runs a compiled path for mutation purposes, returning a
// childRef per match so the caller can overwrite (Update) or remove
// (Delete) each matched node in its parent. It walks every step but the
// last with evaluateConst — reusing the read-only traversal verbatim,
// since only the final step's matches are ever mutated — and only
// resolves parent/key-or-index handles for that last step.
func evaluateMut(root *Value, steps []Step) ([]childRef, error) {
	if len(steps) == 0 {
		return []childRef{{val: root}}, nil
	}
	parents, err := evaluateConst(root, root, steps[:len(steps)-1])
	if err != nil {
		return nil, err
	}
	last := steps[len(steps)-1]
	var out []childRef
	for _, p := range parents {
		current := []*Value{p}
		if last.Recursive {
			var pool []*Value
			for _, v := range current {
				pool = append(pool, collectRecursive(v)...)
			}
			current = pool
		}
		for _, v := range current {
			refs, err := stepChildrenRefs(v, last, root)
			if err != nil {
				return nil, err
			}
			out = append(out, refs...)
		}
	}
	return out, nil
}

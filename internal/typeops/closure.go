package typeops

import (
	"slices"
	"strconv"

	"typemirror/internal/trace"
	"typemirror/internal/types"
)

// Closure returns every supertype of id including id itself, sorted by
// Precedes and free of duplicates by element. id must be a declared type,
// a type variable, an intersection or Error; an intersection contributes
// the closures of its bounds but not itself, and the closure of Error is
// Error alone.
//
// When Options.DedupTypeVarClosure is off, a type variable whose supertype
// is another type variable is prepended to that variable's closure without
// an ordering check, so a closure may hold the same variable twice.
//
// The returned slice is owned by the caller.
func (t *Types) Closure(id types.TypeID) []types.TypeID {
	span := trace.Begin(t.tracer, trace.ScopeQuery, "closure", 0)
	cl := t.closure(id, make(map[types.TypeID]bool))
	span.WithExtra("size", strconv.Itoa(len(cl))).End(t.label(id))
	return slices.Clone(cl)
}

func (t *Types) closure(id types.TypeID, visiting map[types.TypeID]bool) []types.TypeID {
	if cl, ok := t.closures.get(id); ok {
		return cl
	}
	switch k := t.kind(id); k {
	case types.KindDeclared, types.KindTypeVar, types.KindIntersection:
	case types.KindError:
		return []types.TypeID{id}
	default:
		types.Unsupportedf("closure of %s", k)
	}
	if visiting[id] {
		types.Contractf("cyclic supertype chain through %s", t.label(id))
	}
	visiting[id] = true
	defer delete(visiting, id)
	return t.closures.compute(id, func() []types.TypeID {
		return t.computeClosure(id, visiting)
	})
}

func (t *Types) computeClosure(id types.TypeID, visiting map[types.TypeID]bool) []types.TypeID {
	st := t.Supertype(id)
	var cl []types.TypeID
	switch t.kind(st) {
	case types.KindDeclared:
		cl = t.ClosureInsert(t.closure(st, visiting), id)
	case types.KindTypeVar:
		if t.opts.DedupTypeVarClosure {
			cl = t.ClosureInsert(t.closure(st, visiting), id)
		} else {
			base := t.closure(st, visiting)
			cl = make([]types.TypeID, 0, len(base)+1)
			cl = append(cl, id)
			cl = append(cl, base...)
		}
	default:
		cl = []types.TypeID{id}
	}
	if t.kind(id) == types.KindIntersection {
		cl = slices.DeleteFunc(slices.Clone(cl), func(x types.TypeID) bool { return x == id })
	}
	for _, iface := range t.Interfaces(id) {
		cl = t.ClosureUnion(cl, t.closure(iface, visiting))
	}
	return cl
}

// ClosureInsert returns cl with id inserted at its Precedes position. cl is
// returned unchanged when it already holds a type of id's element.
// cl is never modified.
func (t *Types) ClosureInsert(cl []types.TypeID, id types.TypeID) []types.TypeID {
	for i, head := range cl {
		if t.Precedes(id, head) {
			out := make([]types.TypeID, 0, len(cl)+1)
			out = append(out, cl[:i]...)
			out = append(out, id)
			return append(out, cl[i:]...)
		}
		if !t.Precedes(head, id) {
			return cl
		}
	}
	return append(slices.Clip(cl), id)
}

// ClosureUnion merges two sorted closures. Of two entries that precede
// neither other, the one from a is kept. Neither input is modified.
func (t *Types) ClosureUnion(a, b []types.TypeID) []types.TypeID {
	out := make([]types.TypeID, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		x, y := a[i], b[j]
		switch {
		case t.Precedes(x, y):
			out = append(out, x)
			i++
		case t.Precedes(y, x):
			out = append(out, y)
			j++
		default:
			out = append(out, x)
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}

// MinimumTypes reduces a closure to its minimal elements: no returned type
// is a subtype of another. Classes come first, then interfaces, each in
// closure order. A type variable is dropped when a later entry is a proper
// subtype of it.
func (t *Types) MinimumTypes(cl []types.TypeID) []types.TypeID {
	var classes, ifaces []types.TypeID
	skip := make([]bool, len(cl))
	for i, cur := range cl {
		if skip[i] {
			continue
		}
		if t.kind(cur) == types.KindTypeVar && t.hasProperSubtypeAfter(cl[i+1:], cur) {
			continue
		}
		if t.isInterface(cur) {
			ifaces = append(ifaces, cur)
		} else {
			classes = append(classes, cur)
		}
		for j := i + 1; j < len(cl); j++ {
			if t.IsSubtypeNoCapture(cur, cl[j]) {
				skip[j] = true
			}
		}
	}
	return append(classes, ifaces...)
}

func (t *Types) hasProperSubtypeAfter(rest []types.TypeID, v types.TypeID) bool {
	for _, x := range rest {
		if !t.IsSameType(x, v) && t.IsSubtypeNoCapture(x, v) {
			return true
		}
	}
	return false
}

// CachedClosures returns the number of closures held by the cache.
func (t *Types) CachedClosures() int {
	return t.closures.Len()
}

// PurgeClosures empties the closure cache.
func (t *Types) PurgeClosures() {
	t.closures.Purge()
}

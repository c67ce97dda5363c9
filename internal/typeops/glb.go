package typeops

import (
	"typemirror/internal/trace"
	"typemirror/internal/types"
)

// Glb returns the greatest lower bound of a and b: the more specific of the
// two when they are related, otherwise the intersection of their minimal
// bounds with the class bound first. Two unrelated class bounds have no
// lower bound and yield the Error type.
func (t *Types) Glb(a, b types.TypeID) types.TypeID {
	if a == b {
		return a
	}
	if t.kind(a) == types.KindError || t.kind(b) == types.KindError {
		return t.b.Error
	}
	if t.IsSubtypeNoCapture(a, b) {
		return a
	}
	if t.IsSubtypeNoCapture(b, a) {
		return b
	}

	bounds := append(t.glbBounds(a), t.glbBounds(b)...)
	kept := make([]types.TypeID, 0, len(bounds))
	for i, x := range bounds {
		redundant := false
		for j, y := range bounds {
			if i == j {
				continue
			}
			if t.IsSameType(x, y) {
				if j < i {
					redundant = true
					break
				}
				continue
			}
			if t.IsSubtypeNoCapture(y, x) {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, x)
		}
	}
	if len(kept) == 1 {
		return kept[0]
	}

	var classes, ifaces []types.TypeID
	for _, x := range kept {
		if k := t.kind(x); k != types.KindDeclared && k != types.KindTypeVar {
			// arrays and other kinds cannot be intersection bounds
			return t.b.Error
		}
		if t.isInterface(x) {
			ifaces = append(ifaces, x)
		} else {
			classes = append(classes, x)
		}
	}
	if len(classes) > 1 {
		trace.Point(t.tracer, trace.ScopeStep, "glb.unrelated", types.Labels(t.u, classes))
		return t.b.Error
	}
	return t.u.Intersection(append(classes, ifaces...))
}

func (t *Types) glbBounds(id types.TypeID) []types.TypeID {
	if t.kind(id) == types.KindIntersection {
		return t.u.Members(id)
	}
	return []types.TypeID{id}
}

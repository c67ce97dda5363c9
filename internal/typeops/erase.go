package typeops

import (
	"typemirror/internal/types"
)

// Erasure returns the erasure of id: declared types lose their arguments,
// type variables and wildcards become the erasure of their upper bound and
// an intersection becomes the erasure of its first bound. Arrays, unions and
// executable types are erased member-wise. An erased declared type carries
// no annotations. Already erased types are returned unchanged.
func (t *Types) Erasure(id types.TypeID) types.TypeID {
	return t.eraser().apply(id)
}

func (t *Types) eraser() *mapper {
	var m *mapper
	vars := make(map[types.TypeID]bool)
	m = t.newMapper(func(id types.TypeID) (types.TypeID, bool) {
		switch t.kind(id) {
		case types.KindDeclared:
			info := t.u.MustDeclared(id)
			if info.Erased {
				return id, true
			}
			enc := info.Enclosing
			if t.kind(enc) == types.KindDeclared {
				enc = m.apply(enc)
			}
			if len(info.Args) == 0 && enc == info.Enclosing {
				return t.u.Unannotated(id), true
			}
			return t.u.Raw(info.Element, enc), true
		case types.KindTypeVar:
			if vars[id] {
				types.Contractf("type variable %s is bounded by itself", t.label(id))
			}
			vars[id] = true
			defer delete(vars, id)
			return m.apply(t.u.UpperBound(id)), true
		case types.KindWildcard:
			return m.apply(t.wildUpper(id)), true
		case types.KindIntersection:
			return m.apply(t.u.Members(id)[0]), true
		default:
			return id, false
		}
	})
	return m
}

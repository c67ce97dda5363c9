package typeops

import (
	"typemirror/internal/types"
)

// IsSameType reports whether a and b denote the same type. Unlike
// Universe.Equal it treats a wildcard without an extends bound as bounded by
// Object, compares arrays through containment and regards the Error type as
// the same as anything.
func (t *Types) IsSameType(a, b types.TypeID) bool {
	if a == b {
		return true
	}
	ka, kb := t.kind(a), t.kind(b)
	if ka == types.KindError || kb == types.KindError {
		return true
	}
	if ka != kb {
		return false
	}
	switch ka {
	case types.KindArray:
		ca, cb := t.u.MustLookup(a).Elem, t.u.MustLookup(b).Elem
		if t.IsSameType(ca, cb) {
			return true
		}
		return t.Contains(ca, cb) && t.Contains(cb, ca)
	case types.KindDeclared:
		da, db := t.u.MustDeclared(a), t.u.MustDeclared(b)
		if da.Element != db.Element || len(da.Args) != len(db.Args) {
			return false
		}
		if !t.sameEnclosing(da.Enclosing, db.Enclosing) {
			return false
		}
		for i := range da.Args {
			if !t.IsSameType(da.Args[i], db.Args[i]) {
				return false
			}
		}
		return true
	case types.KindTypeVar:
		return t.sameVar(a, b)
	case types.KindWildcard:
		wa, _ := t.u.WildcardInfo(a)
		wb, _ := t.u.WildcardInfo(b)
		if !t.IsSameType(t.wildUpper(a), t.wildUpper(b)) {
			return false
		}
		if (wa.Super == types.NoTypeID) != (wb.Super == types.NoTypeID) {
			return false
		}
		return wa.Super == types.NoTypeID || t.IsSameType(wa.Super, wb.Super)
	case types.KindIntersection, types.KindUnion:
		ma, mb := t.u.Members(a), t.u.Members(b)
		return t.coveredBy(ma, mb) && t.coveredBy(mb, ma)
	case types.KindExecutable:
		ea, _ := t.u.ExecutableInfo(a)
		eb, _ := t.u.ExecutableInfo(b)
		if len(ea.Params) != len(eb.Params) || len(ea.TypeVars) != len(eb.TypeVars) {
			return false
		}
		for i := range ea.Params {
			if !t.IsSameType(ea.Params[i], eb.Params[i]) {
				return false
			}
		}
		return t.IsSameType(ea.Return, eb.Return)
	default:
		// primitives, no-types and null are singletons of their kind
		return true
	}
}

func (t *Types) sameEnclosing(a, b types.TypeID) bool {
	ka, kb := t.kind(a), t.kind(b)
	if ka != types.KindDeclared && kb != types.KindDeclared {
		return true
	}
	return t.IsSameType(a, b)
}

// coveredBy reports whether every type of as has a same type in bs.
func (t *Types) coveredBy(as, bs []types.TypeID) bool {
	for _, x := range as {
		found := false
		for _, y := range bs {
			if t.IsSameType(x, y) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

package typeops

import (
	"typemirror/internal/types"
)

// IsSubtype reports whether a is a subtype of b, applying capture
// conversion to a first.
func (t *Types) IsSubtype(a, b types.TypeID) bool {
	return t.isSubtype(a, b, true)
}

// IsSubtypeNoCapture reports whether a is a subtype of b without capturing
// wildcard arguments of a.
func (t *Types) IsSubtypeNoCapture(a, b types.TypeID) bool {
	return t.isSubtype(a, b, false)
}

func (t *Types) isSubtype(a, b types.TypeID, capture bool) bool {
	if a == b {
		return true
	}
	ka, kb := t.kind(a), t.kind(b)
	if ka == types.KindError || kb == types.KindError {
		return true
	}
	if ka.IsPrimitive() || kb.IsPrimitive() {
		return ka.IsPrimitive() && kb.IsPrimitive() && primitiveWidens(ka, kb)
	}
	if t.IsSameType(a, b) {
		return true
	}
	if kb == types.KindTypeVar {
		if lower := t.u.LowerBound(b); t.kind(lower) != types.KindNull && t.isSubtype(a, lower, false) {
			return true
		}
	}
	if t.isObject(b) && ka.IsReference() {
		return true
	}
	if ka == types.KindNull {
		return kb.IsReference()
	}
	if kb == types.KindIntersection {
		// intersections are supertypes only of the same intersection
		return false
	}

	switch ka {
	case types.KindArray:
		return t.arraySubtype(a, b, capture)
	case types.KindDeclared:
		if kb != types.KindDeclared {
			return false
		}
		if capture {
			a = t.captureIfNeeded(a)
		}
		return t.declaredSubtype(a, b)
	case types.KindTypeVar:
		upper := t.u.UpperBound(a)
		if upper == a {
			return false
		}
		return t.isSubtype(upper, b, false)
	case types.KindIntersection:
		for _, m := range t.u.Members(a) {
			if t.isSubtype(m, b, capture) {
				return true
			}
		}
		return false
	case types.KindUnion:
		for _, m := range t.u.Members(a) {
			if !t.isSubtype(m, b, capture) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (t *Types) declaredSubtype(a, b types.TypeID) bool {
	sup := t.AsSuper(a, t.u.AsElement(b))
	if sup == types.NoTypeID {
		return false
	}
	if t.kind(sup) != types.KindDeclared {
		return true
	}
	binfo := t.u.MustDeclared(b)
	if t.IsParameterized(b) && !t.IsRaw(b) {
		sinfo := t.u.MustDeclared(sup)
		if !t.ContainsTypes(binfo.Args, sinfo.Args) {
			return false
		}
	}
	if t.kind(binfo.Enclosing) != types.KindDeclared {
		return true
	}
	sinfo := t.u.MustDeclared(sup)
	return t.isSubtype(sinfo.Enclosing, binfo.Enclosing, false)
}

func (t *Types) arraySubtype(a, b types.TypeID, capture bool) bool {
	switch t.kind(b) {
	case types.KindArray:
		ca, cb := t.u.MustLookup(a).Elem, t.u.MustLookup(b).Elem
		if t.kind(ca).IsPrimitive() || t.kind(cb).IsPrimitive() {
			return t.kind(ca) == t.kind(cb)
		}
		return t.isSubtype(ca, cb, capture)
	case types.KindDeclared:
		switch t.u.AsElement(b) {
		case t.b.ObjectElem, t.b.CloneableElem, t.b.SerializableElem:
			return true
		}
	}
	return false
}

// primitiveWidens reports whether primitive kind a widens to b.
func primitiveWidens(a, b types.Kind) bool {
	if a == b {
		return true
	}
	switch a {
	case types.KindByte:
		return b == types.KindShort || b == types.KindInt || b == types.KindLong ||
			b == types.KindFloat || b == types.KindDouble
	case types.KindShort, types.KindChar:
		return b == types.KindInt || b == types.KindLong || b == types.KindFloat || b == types.KindDouble
	case types.KindInt:
		return b == types.KindLong || b == types.KindFloat || b == types.KindDouble
	case types.KindLong:
		return b == types.KindFloat || b == types.KindDouble
	case types.KindFloat:
		return b == types.KindDouble
	default:
		return false
	}
}

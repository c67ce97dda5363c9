package typeops

import (
	"typemirror/internal/types"
)

// Subst replaces every occurrence of formals[i] in id by actuals[i].
// Formals are matched by identity of the type variable; the type variables
// declared by an executable type are never replaced. Subst returns id itself
// when nothing was replaced.
func (t *Types) Subst(id types.TypeID, formals, actuals []types.TypeID) types.TypeID {
	if len(formals) != len(actuals) {
		types.Contractf("substitution of %d formals by %d actuals", len(formals), len(actuals))
	}
	if len(formals) == 0 {
		return id
	}
	m := t.newMapper(func(x types.TypeID) (types.TypeID, bool) {
		if t.kind(x) != types.KindTypeVar {
			return x, false
		}
		for i, f := range formals {
			if t.sameVar(x, f) {
				return actuals[i], true
			}
		}
		return x, true
	})
	return m.apply(id)
}

// SubstAll applies Subst to each of ids.
func (t *Types) SubstAll(ids, formals, actuals []types.TypeID) []types.TypeID {
	out := make([]types.TypeID, len(ids))
	for i, id := range ids {
		out[i] = t.Subst(id, formals, actuals)
	}
	return out
}

// sameVar reports whether two type variables are the same variable.
func (t *Types) sameVar(a, b types.TypeID) bool {
	if a == b {
		return true
	}
	return t.u.Unannotated(a) == t.u.Unannotated(b)
}

// MemberType returns the type of member type element elem as seen from
// outer. An inner class of a parameterized outer type is nested in outer;
// an inner class of a raw outer type is raw; a static nested type is its
// own element type.
func (t *Types) MemberType(outer types.TypeID, elem types.ElemID) types.TypeID {
	if k := t.kind(outer); k != types.KindDeclared {
		types.Contractf("member type of %s", k)
	}
	canon := t.u.MustElement(elem).Type
	info := t.u.MustDeclared(canon)
	if t.kind(info.Enclosing) != types.KindDeclared {
		return canon
	}
	if t.u.AsElement(info.Enclosing) != t.u.AsElement(outer) {
		if sup := t.AsSuper(outer, t.u.AsElement(info.Enclosing)); sup != types.NoTypeID {
			outer = sup
		} else {
			types.Contractf("%s is not a member of %s", t.u.QualifiedName(elem), t.label(outer))
		}
	}
	if t.IsRaw(outer) {
		return t.u.Raw(elem, t.Erasure(outer))
	}
	return t.u.Declared(elem, outer, info.Args)
}

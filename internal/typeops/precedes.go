package typeops

import (
	"typemirror/internal/types"
)

// Rank returns the length of the longest supertype path from id to
// Object. Object, Error and the no-types have rank 0. Ranks of declared
// types depend only on their element and are cached per element.
func (t *Types) Rank(id types.TypeID) int {
	switch k := t.kind(id); {
	case k == types.KindError, k.IsNoType():
		return 0
	case k == types.KindDeclared:
		elem := t.u.AsElement(id)
		if elem == t.b.ObjectElem {
			return 0
		}
		t.rankMu.RLock()
		r, ok := t.ranks[elem]
		t.rankMu.RUnlock()
		if ok {
			return r
		}
		r = t.computeRank(t.u.MustElement(elem).Type)
		t.rankMu.Lock()
		if prev, ok := t.ranks[elem]; ok {
			r = prev
		} else {
			t.ranks[elem] = r
		}
		t.rankMu.Unlock()
		return r
	case k == types.KindTypeVar, k == types.KindIntersection:
		return t.computeRank(id)
	default:
		types.Unsupportedf("rank of %s", k)
		return 0
	}
}

func (t *Types) computeRank(id types.TypeID) int {
	r := t.Rank(t.Supertype(id))
	for _, iface := range t.Interfaces(id) {
		r = max(r, t.Rank(iface))
	}
	return r + 1
}

// Precedes is the strict order that keeps closures sorted. A type variable
// precedes every non-variable; of two type variables the subtype comes
// first. Declared types are ordered by descending rank and, on equal
// rank, by descending qualified name. Types of the same element never
// precede each other.
func (t *Types) Precedes(a, b types.TypeID) bool {
	ka, kb := t.kind(a), t.kind(b)
	switch {
	case ka == types.KindTypeVar && kb == types.KindTypeVar:
		if t.sameVar(a, b) {
			return false
		}
		return t.IsSubtypeNoCapture(a, b)
	case ka == types.KindTypeVar:
		return kb == types.KindDeclared
	case kb == types.KindTypeVar:
		return false
	case ka == types.KindDeclared && kb == types.KindDeclared:
		ea, eb := t.u.AsElement(a), t.u.AsElement(b)
		if ea == eb {
			return false
		}
		ra, rb := t.Rank(a), t.Rank(b)
		if ra != rb {
			return ra > rb
		}
		return t.u.QualifiedName(ea) > t.u.QualifiedName(eb)
	default:
		return false
	}
}

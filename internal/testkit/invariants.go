// Package testkit holds invariant checkers over the type-algebra engine,
// shared by package tests.
package testkit

import (
	"fmt"

	"typemirror/internal/typeops"
	"typemirror/internal/types"
)

// CheckClosure verifies the closure of id:
// 1) a declared or type-variable input is the first entry
// 2) entries are sorted by Precedes, with no entry preceding an earlier one
// 3) no two entries share a declared element
// 4) every entry is a supertype of id
func CheckClosure(ts *typeops.Types, id types.TypeID) error {
	u := ts.Universe()
	cl := ts.Closure(id)
	if len(cl) == 0 {
		return fmt.Errorf("closure of %s is empty", types.Label(u, id))
	}
	if k := u.KindOf(id); (k == types.KindDeclared || k == types.KindTypeVar) && cl[0] != id {
		return fmt.Errorf("closure of %s starts with %s", types.Label(u, id), types.Label(u, cl[0]))
	}
	elems := make(map[types.ElemID]types.TypeID, len(cl))
	for i, x := range cl {
		for _, y := range cl[i+1:] {
			if ts.Precedes(y, x) {
				return fmt.Errorf("closure of %s: %s precedes earlier %s",
					types.Label(u, id), types.Label(u, y), types.Label(u, x))
			}
		}
		if u.KindOf(x) == types.KindDeclared {
			e := u.AsElement(x)
			if prev, dup := elems[e]; dup {
				return fmt.Errorf("closure of %s holds %s and %s",
					types.Label(u, id), types.Label(u, prev), types.Label(u, x))
			}
			elems[e] = x
		}
		if u.KindOf(id) != types.KindIntersection && !ts.IsSubtypeNoCapture(id, x) {
			return fmt.Errorf("closure of %s holds non-supertype %s", types.Label(u, id), types.Label(u, x))
		}
	}
	return nil
}

// CheckMinimal verifies that no type of minimal is a proper subtype of another
// and that classes come before interfaces.
func CheckMinimal(ts *typeops.Types, minimal []types.TypeID) error {
	u := ts.Universe()
	seenInterface := false
	for i, x := range minimal {
		isIface := false
		if info, ok := u.DeclaredInfo(x); ok {
			isIface = u.MustElement(info.Element).Kind.IsInterface()
		}
		if seenInterface && !isIface {
			return fmt.Errorf("class %s after an interface in %s", types.Label(u, x), types.Labels(u, minimal))
		}
		seenInterface = seenInterface || isIface
		for j, y := range minimal {
			if i != j && ts.IsSubtypeNoCapture(x, y) {
				return fmt.Errorf("%s is a subtype of %s in %s", types.Label(u, x), types.Label(u, y), types.Labels(u, minimal))
			}
		}
	}
	return nil
}

// CheckErasure verifies that the erasure of id is idempotent and carries no
// type arguments, type variables or wildcards.
func CheckErasure(ts *typeops.Types, id types.TypeID) error {
	u := ts.Universe()
	e := ts.Erasure(id)
	if again := ts.Erasure(e); again != e {
		return fmt.Errorf("erasure of %s is not idempotent: %s then %s",
			types.Label(u, id), types.Label(u, e), types.Label(u, again))
	}
	if ts.IsParameterized(e) {
		return fmt.Errorf("erasure of %s is parameterized: %s", types.Label(u, id), types.Label(u, e))
	}
	switch k := u.KindOf(e); k {
	case types.KindTypeVar, types.KindWildcard, types.KindIntersection:
		return fmt.Errorf("erasure of %s is a %s", types.Label(u, id), k)
	}
	return nil
}

// CheckPrecedesStrict verifies that Precedes is irreflexive and asymmetric
// over ids.
func CheckPrecedesStrict(ts *typeops.Types, ids []types.TypeID) error {
	u := ts.Universe()
	for _, a := range ids {
		if ts.Precedes(a, a) {
			return fmt.Errorf("%s precedes itself", types.Label(u, a))
		}
		for _, b := range ids {
			if ts.Precedes(a, b) && ts.Precedes(b, a) {
				return fmt.Errorf("%s and %s precede each other", types.Label(u, a), types.Label(u, b))
			}
		}
	}
	return nil
}

// CheckEqualHash verifies that Equal implies equal hashes for every pair of
// ids.
func CheckEqualHash(u *types.Universe, ids []types.TypeID) error {
	for _, a := range ids {
		for _, b := range ids {
			if u.Equal(a, b) && u.Hash(a) != u.Hash(b) {
				return fmt.Errorf("%s and %s are equal with different hashes", types.Label(u, a), types.Label(u, b))
			}
		}
	}
	return nil
}

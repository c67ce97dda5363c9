package typeops

import (
	"typemirror/internal/types"
)

// Contains reports whether type argument a contains type argument b: a
// wildcard contains every argument whose bounds lie within its own, and any
// other argument contains only the same type.
func (t *Types) Contains(a, b types.TypeID) bool {
	ka, kb := t.kind(a), t.kind(b)
	if ka == types.KindError || kb == types.KindError {
		return true
	}
	if ka == types.KindWildcard {
		if kb == types.KindTypeVar && t.isCaptureOf(b, a) {
			return true
		}
		return t.IsSubtypeNoCapture(t.wildLower(a), t.wildLower(b)) &&
			t.IsSubtypeNoCapture(t.wildUpper(b), t.wildUpper(a))
	}
	if ka == types.KindTypeVar && kb == types.KindWildcard && t.isCaptureOf(a, b) {
		return true
	}
	return t.IsSameType(a, b)
}

// ContainsTypes reports whether each of as contains the argument at the
// same position of bs. Lists of different length never contain each other.
func (t *Types) ContainsTypes(as, bs []types.TypeID) bool {
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !t.Contains(as[i], bs[i]) {
			return false
		}
	}
	return true
}

// isCaptureOf reports whether v is a captured variable of wildcard w.
func (t *Types) isCaptureOf(v, w types.TypeID) bool {
	info, ok := t.u.TypeVarInfo(v)
	if !ok || !info.Synthetic() {
		return false
	}
	return t.IsSameType(info.CapturedFrom, w)
}

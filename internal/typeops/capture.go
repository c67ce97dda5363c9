package typeops

import (
	"typemirror/internal/trace"
	"typemirror/internal/types"
)

// Capture applies capture conversion to a declared type with wildcard
// arguments, in it or in its enclosing types. Each wildcard argument is
// replaced by a fresh captured type variable whose upper bound combines the
// wildcard's extends bound with the declared bound of the formal, and whose
// lower bound is the wildcard's super bound. The result is a fresh declared
// type of the same element.
//
// Capture of a type that has nothing to capture is a contract violation;
// raw and non-generic types are returned unchanged.
func (t *Types) Capture(id types.TypeID) types.TypeID {
	if k := t.kind(id); k != types.KindDeclared {
		types.Contractf("capture of %s", k)
	}
	span := trace.Begin(t.tracer, trace.ScopeQuery, "capture", 0)
	out := t.capture(id)
	span.End(t.label(out))
	return out
}

// captureIfNeeded captures id only when it has wildcard arguments.
func (t *Types) captureIfNeeded(id types.TypeID) types.TypeID {
	if !t.HasWildcardArgs(id) {
		return id
	}
	return t.capture(id)
}

func (t *Types) capture(id types.TypeID) types.TypeID {
	info := t.u.MustDeclared(id)
	elem := info.Element
	canon := t.u.MustElement(elem).Type

	enclosingChanged := false
	if t.kind(info.Enclosing) == types.KindDeclared {
		capEnc := t.captureIfNeeded(info.Enclosing)
		if capEnc != info.Enclosing {
			enclosingChanged = true
			member := t.MemberType(capEnc, elem)
			if !info.Erased && len(info.Args) > 0 {
				member = t.Subst(member, t.u.TypeParamVars(elem), info.Args)
			}
			id = member
			info = t.u.MustDeclared(id)
		}
	}

	if t.IsRaw(id) || len(info.Args) == 0 {
		return id
	}

	own := t.u.TypeParamVars(elem)
	captured := make([]types.TypeID, len(info.Args))
	wild := false
	for i, a := range info.Args {
		if t.kind(a) == types.KindWildcard {
			captured[i] = t.u.NewCapturedTypeVar(a)
			wild = true
			continue
		}
		captured[i] = a
	}
	if !wild {
		if !enclosingChanged {
			types.Contractf("nothing to capture in %s", t.label(id))
		}
		return id
	}

	formals := own
	actuals := captured
	if t.kind(info.Enclosing) == types.KindDeclared {
		formals = append(t.allParams(t.u.AsElement(info.Enclosing)), own...)
		actuals = append(t.allArgs(info.Enclosing), captured...)
	}
	for i, a := range info.Args {
		if captured[i] == a {
			continue
		}
		w, _ := t.u.WildcardInfo(a)
		declaredUpper := t.Subst(t.u.UpperBound(own[i]), formals, actuals)
		upper := declaredUpper
		if w.Extends != types.NoTypeID {
			upper = t.Glb(w.Extends, declaredUpper)
		}
		if upper == captured[i] {
			upper = t.b.Object
		}
		lower := t.b.Null
		if w.Super != types.NoTypeID {
			lower = w.Super
		}
		t.u.SetTypeVarBounds(captured[i], upper, lower)
	}

	out := t.u.FreshDeclared(elem, info.Enclosing, captured)
	if t.u.MustElement(t.u.AsElement(out)).Type != canon {
		types.Contractf("capture of %s changed its element", t.label(id))
	}
	return out
}

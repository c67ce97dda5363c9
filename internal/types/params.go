package types

// TypeVarInfo stores metadata about a type variable.
type TypeVarInfo struct {
	Element ElemID // type parameter element, NoElemID for captured variables
	Upper   TypeID // NoTypeID until bounds are set
	Lower   TypeID // Null when unbounded below
	// CapturedFrom is the wildcard a captured variable stands for.
	CapturedFrom TypeID
	boundsSet    bool
}

// Synthetic reports whether the variable was produced by capture conversion.
func (i TypeVarInfo) Synthetic() bool {
	return i.CapturedFrom != NoTypeID
}

// TypeVarInfo returns metadata for the provided type variable.
func (u *Universe) TypeVarInfo(id TypeID) (TypeVarInfo, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	tt, ok := u.lookupLocked(id)
	if !ok || tt.Kind != KindTypeVar {
		return TypeVarInfo{}, false
	}
	return u.vars[tt.Payload], true
}

// MustTypeVar returns type variable metadata or panics.
func (u *Universe) MustTypeVar(id TypeID) TypeVarInfo {
	info, ok := u.TypeVarInfo(id)
	if !ok {
		Contractf("type %d is not a type variable", id)
	}
	return info
}

// UpperBound returns the upper bound of a type variable, Object when the
// bound has not been declared.
func (u *Universe) UpperBound(id TypeID) TypeID {
	info := u.MustTypeVar(id)
	if info.Upper == NoTypeID {
		return u.builtins.Object
	}
	return info.Upper
}

// LowerBound returns the lower bound of a type variable, Null when absent.
func (u *Universe) LowerBound(id TypeID) TypeID {
	info := u.MustTypeVar(id)
	if info.Lower == NoTypeID {
		return u.builtins.Null
	}
	return info.Lower
}

// NewCapturedTypeVar allocates a fresh synthetic type variable standing for
// wildcard. Its bounds are assigned later with SetTypeVarBounds.
func (u *Universe) NewCapturedTypeVar(wildcard TypeID) TypeID {
	u.mu.Lock()
	defer u.mu.Unlock()
	if k := u.mustLookupLocked(wildcard).Kind; k != KindWildcard {
		Contractf("captured variable must stand for a wildcard, got %s", k)
	}
	return u.newTypeVarLocked(TypeVarInfo{CapturedFrom: wildcard})
}

// SetTypeVarBounds assigns the bounds of a type variable exactly once.
// A repeated call with the same bounds is a no-op; different bounds are a
// contract violation.
func (u *Universe) SetTypeVarBounds(id, upper, lower TypeID) {
	u.mu.Lock()
	defer u.mu.Unlock()
	tt := u.mustLookupLocked(id)
	if tt.Kind != KindTypeVar {
		Contractf("SetTypeVarBounds on %s", tt.Kind)
	}
	if upper == NoTypeID {
		upper = u.builtins.Object
	}
	if lower == NoTypeID {
		lower = u.builtins.Null
	}
	switch k := u.mustLookupLocked(upper).Kind; k {
	case KindDeclared, KindTypeVar, KindIntersection, KindArray, KindError:
	default:
		Contractf("upper bound cannot be %s", k)
	}
	switch k := u.mustLookupLocked(lower).Kind; k {
	case KindNull, KindDeclared, KindTypeVar, KindArray, KindIntersection, KindError:
	default:
		Contractf("lower bound cannot be %s", k)
	}
	info := &u.vars[tt.Payload]
	if info.boundsSet {
		if info.Upper == upper && info.Lower == lower {
			return
		}
		Contractf("bounds of type variable %d already set", id)
	}
	info.Upper = upper
	info.Lower = lower
	info.boundsSet = true
}

func (u *Universe) newTypeVarLocked(info TypeVarInfo) TypeID {
	u.vars = append(u.vars, info)
	slot := slotOf(len(u.vars), "type variable")
	id := u.appendLocked(Type{Kind: KindTypeVar, Payload: slot})
	u.index[typeKey{Kind: KindTypeVar, A: slot}] = id
	return id
}

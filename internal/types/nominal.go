package types

import "slices"

// DeclaredInfo stores metadata for a declared (class/interface) type.
type DeclaredInfo struct {
	Element   ElemID
	Enclosing TypeID // None for top-level and static nested types
	Args      []TypeID
	Erased    bool // raw type: no arguments, no annotations
}

// Declared returns the interned declared type elem<args> nested in
// enclosing. args must be empty for non-generic elements and match the
// element's type parameters in length otherwise; use Raw for raw usages.
func (u *Universe) Declared(elem ElemID, enclosing TypeID, args []TypeID) TypeID {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.checkDeclaredLocked(elem, enclosing, args)
	return u.internDeclaredLocked(DeclaredInfo{
		Element:   elem,
		Enclosing: u.noneIfZero(enclosing),
		Args:      cloneTypeIDs(args),
	})
}

// Raw returns the erased declared type of elem nested in enclosing.
func (u *Universe) Raw(elem ElemID, enclosing TypeID) TypeID {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.checkDeclaredLocked(elem, enclosing, nil)
	return u.internDeclaredLocked(DeclaredInfo{
		Element:   elem,
		Enclosing: u.noneIfZero(enclosing),
		Erased:    true,
	})
}

// FreshDeclared allocates a declared type that is never shared with any
// structurally equal instance. Capture conversion uses it for its results.
func (u *Universe) FreshDeclared(elem ElemID, enclosing TypeID, args []TypeID) TypeID {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.checkDeclaredLocked(elem, enclosing, args)
	u.declared = append(u.declared, DeclaredInfo{
		Element:   elem,
		Enclosing: u.noneIfZero(enclosing),
		Args:      cloneTypeIDs(args),
	})
	slot := slotOf(len(u.declared), "declared info")
	return u.appendLocked(Type{Kind: KindDeclared, Payload: slot})
}

// DeclaredInfo returns metadata for the provided declared TypeID.
func (u *Universe) DeclaredInfo(id TypeID) (DeclaredInfo, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	tt, ok := u.lookupLocked(id)
	if !ok || tt.Kind != KindDeclared {
		return DeclaredInfo{}, false
	}
	info := u.declared[tt.Payload]
	info.Args = cloneTypeIDs(info.Args)
	return info, true
}

// MustDeclared returns declared metadata or panics when id is not declared.
func (u *Universe) MustDeclared(id TypeID) DeclaredInfo {
	info, ok := u.DeclaredInfo(id)
	if !ok {
		Contractf("type %d is not a declared type", id)
	}
	return info
}

// AsElement returns the defining element of a declared type or type
// variable.
func (u *Universe) AsElement(id TypeID) ElemID {
	u.mu.RLock()
	defer u.mu.RUnlock()
	tt, ok := u.lookupLocked(id)
	if !ok {
		return NoElemID
	}
	switch tt.Kind {
	case KindDeclared:
		return u.declared[tt.Payload].Element
	case KindTypeVar:
		return u.vars[tt.Payload].Element
	default:
		return NoElemID
	}
}

func (u *Universe) internDeclaredLocked(info DeclaredInfo) TypeID {
	return u.internKeyedLocked(declaredKey(info, 0), func() Type {
		u.declared = append(u.declared, info)
		return Type{Kind: KindDeclared, Payload: slotOf(len(u.declared), "declared info")}
	})
}

// newCanonicalLocked allocates the element type of a type element. It is
// interned, so spelling the element with its own type parameters (or with
// no arguments when it has none) yields the same TypeID.
func (u *Universe) newCanonicalLocked(elem ElemID, enclosing TypeID, args []TypeID) TypeID {
	return u.internDeclaredLocked(DeclaredInfo{
		Element:   elem,
		Enclosing: u.noneIfZero(enclosing),
		Args:      cloneTypeIDs(args),
	})
}

func (u *Universe) checkDeclaredLocked(elem ElemID, enclosing TypeID, args []TypeID) {
	el := u.elemLocked(elem)
	if el == nil || !el.Kind.IsClassLike() {
		Contractf("declared type needs a type element, got element %d", elem)
	}
	if enclosing != NoTypeID {
		switch k := u.mustLookupLocked(enclosing).Kind; k {
		case KindNone, KindDeclared, KindError:
		default:
			Contractf("enclosing type of %s cannot be %s", el.Name, k)
		}
	}
	params := u.typeElems[el.Payload].TypeParams
	if len(args) != 0 && len(args) != len(params) {
		Contractf("%s takes %d type arguments, got %d", el.Name, len(params), len(args))
	}
	for _, arg := range args {
		switch k := u.mustLookupLocked(arg).Kind; k {
		case KindDeclared, KindArray, KindTypeVar, KindWildcard, KindError:
		default:
			Contractf("type argument of %s cannot be %s", el.Name, k)
		}
	}
}

func (u *Universe) noneIfZero(id TypeID) TypeID {
	if id == NoTypeID {
		return u.builtins.None
	}
	return id
}

func cloneTypeIDs(ids []TypeID) []TypeID {
	if len(ids) == 0 {
		return nil
	}
	return slices.Clone(ids)
}

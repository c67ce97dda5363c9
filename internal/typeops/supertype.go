package typeops

import (
	"typemirror/internal/types"
)

// Supertype returns the direct superclass type of id, None when there is
// none. For a parameterized type the superclass is expressed in terms of
// id's arguments; for a raw type it is erased.
func (t *Types) Supertype(id types.TypeID) types.TypeID {
	switch k := t.kind(id); k {
	case types.KindArray:
		comp := t.u.MustLookup(id).Elem
		if t.kind(comp).IsPrimitive() || t.isObject(comp) {
			return t.arraySuperType()
		}
		st := t.Supertype(comp)
		if t.kind(st) == types.KindNone {
			// interface component: the array of Object is the direct supertype
			st = t.b.Object
		}
		return t.u.Array(st)
	case types.KindDeclared:
		info := t.u.MustDeclared(id)
		el := t.u.MustTypeElement(info.Element)
		sup := el.Superclass
		if sup == types.NoTypeID {
			// supertypes never assigned
			if t.isInterfaceElem(info.Element) || info.Element == t.b.ObjectElem {
				return t.b.None
			}
			return t.b.Object
		}
		if t.kind(sup) != types.KindDeclared {
			return sup
		}
		return t.viewedFrom(id, sup)
	case types.KindTypeVar:
		upper := t.u.UpperBound(id)
		if t.kind(upper) == types.KindIntersection {
			return t.Supertype(upper)
		}
		return upper
	case types.KindIntersection:
		return t.u.Members(id)[0]
	case types.KindError:
		return t.b.None
	default:
		types.Unsupportedf("supertype of %s", k)
		return types.NoTypeID
	}
}

// Interfaces returns the direct superinterfaces of id, in declaration
// order, expressed in terms of id's arguments.
func (t *Types) Interfaces(id types.TypeID) []types.TypeID {
	switch t.kind(id) {
	case types.KindDeclared:
		info := t.u.MustDeclared(id)
		el := t.u.MustTypeElement(info.Element)
		if len(el.Interfaces) == 0 {
			return nil
		}
		out := make([]types.TypeID, len(el.Interfaces))
		for i, iface := range el.Interfaces {
			out[i] = t.viewedFrom(id, iface)
		}
		return out
	case types.KindIntersection:
		members := t.u.Members(id)
		if t.isInterface(members[0]) {
			return members
		}
		return members[1:]
	case types.KindTypeVar:
		upper := t.u.UpperBound(id)
		switch {
		case t.isInterface(upper):
			return []types.TypeID{upper}
		case t.kind(upper) == types.KindIntersection:
			return t.Interfaces(upper)
		}
		return nil
	default:
		return nil
	}
}

// viewedFrom expresses a supertype sup, written against the formals of
// id's element, in terms of id.
func (t *Types) viewedFrom(id, sup types.TypeID) types.TypeID {
	if t.kind(sup) != types.KindDeclared {
		return sup
	}
	if t.IsRaw(id) {
		return t.Erasure(sup)
	}
	formals := t.allParams(t.u.AsElement(id))
	if len(formals) == 0 {
		return sup
	}
	actuals := t.allArgs(t.ClassBound(id))
	if len(actuals) != len(formals) {
		types.Contractf("%s supplies %d type arguments for %d formals",
			t.label(id), len(actuals), len(formals))
	}
	return t.Subst(sup, formals, actuals)
}

func (t *Types) arraySuperType() types.TypeID {
	return t.u.Intersection([]types.TypeID{t.b.Object, t.b.Serializable, t.b.Cloneable})
}

// ClassBound replaces type variables in enclosing-type position by their
// class bound. Other types are returned unchanged.
func (t *Types) ClassBound(id types.TypeID) types.TypeID {
	switch t.kind(id) {
	case types.KindDeclared:
		info := t.u.MustDeclared(id)
		if t.kind(info.Enclosing) != types.KindDeclared {
			return id
		}
		enc := t.ClassBound(info.Enclosing)
		if enc == info.Enclosing {
			return id
		}
		if info.Erased {
			return t.u.Raw(info.Element, enc)
		}
		return t.u.Declared(info.Element, enc, info.Args)
	case types.KindTypeVar:
		return t.ClassBound(t.Supertype(id))
	default:
		return id
	}
}

// AsSuper returns the supertype of id whose element is elem, or NoTypeID
// when elem is not a supertype element of id.
func (t *Types) AsSuper(id types.TypeID, elem types.ElemID) types.TypeID {
	return t.asSuper(id, elem, make(map[types.TypeID]bool))
}

func (t *Types) asSuper(id types.TypeID, elem types.ElemID, seen map[types.TypeID]bool) types.TypeID {
	switch t.kind(id) {
	case types.KindDeclared:
		if t.u.AsElement(id) == elem {
			return id
		}
		if seen[id] {
			return types.NoTypeID
		}
		seen[id] = true
		defer delete(seen, id)
		if st := t.Supertype(id); t.kind(st) == types.KindDeclared {
			if sup := t.asSuper(st, elem, seen); sup != types.NoTypeID {
				return sup
			}
		}
		if elem == t.b.ObjectElem {
			return t.b.Object
		}
		if t.isInterfaceElem(elem) {
			for _, iface := range t.Interfaces(id) {
				if sup := t.asSuper(iface, elem, seen); sup != types.NoTypeID {
					return sup
				}
			}
		}
		return types.NoTypeID
	case types.KindArray:
		switch elem {
		case t.b.ObjectElem, t.b.CloneableElem, t.b.SerializableElem:
			return t.u.MustElement(elem).Type
		}
		return types.NoTypeID
	case types.KindTypeVar:
		if seen[id] {
			return types.NoTypeID
		}
		seen[id] = true
		defer delete(seen, id)
		return t.asSuper(t.u.UpperBound(id), elem, seen)
	case types.KindIntersection:
		for _, m := range t.u.Members(id) {
			if sup := t.asSuper(m, elem, seen); sup != types.NoTypeID {
				return sup
			}
		}
		return types.NoTypeID
	case types.KindError:
		return id
	default:
		return types.NoTypeID
	}
}

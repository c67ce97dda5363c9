package types

import (
	"slices"
	"strings"
)

// WildcardInfo stores the bounds of a wildcard. At most one is set.
type WildcardInfo struct {
	Extends TypeID
	Super   TypeID
}

// ExecutableInfo stores the signature of a method or constructor type.
type ExecutableInfo struct {
	Params   []TypeID
	Receiver TypeID // None when absent
	Return   TypeID
	Thrown   []TypeID
	TypeVars []TypeID
}

// Array returns the array type with the given component.
func (u *Universe) Array(component TypeID) TypeID {
	u.mu.Lock()
	defer u.mu.Unlock()
	switch k := u.mustLookupLocked(component).Kind; {
	case k.IsPrimitive(), k == KindDeclared, k == KindArray, k == KindTypeVar,
		k == KindIntersection, k == KindUnion, k == KindError:
	default:
		Contractf("array component cannot be %s", k)
	}
	return u.internLocked(Type{Kind: KindArray, Elem: component})
}

// Wildcard returns the wildcard with the given bounds; pass NoTypeID for an
// absent bound. Setting both bounds is a contract violation.
func (u *Universe) Wildcard(extends, super TypeID) TypeID {
	u.mu.Lock()
	defer u.mu.Unlock()
	if extends != NoTypeID && super != NoTypeID {
		Contractf("wildcard cannot have both extends and super bounds")
	}
	for _, b := range [...]TypeID{extends, super} {
		if b == NoTypeID {
			continue
		}
		switch k := u.mustLookupLocked(b).Kind; k {
		case KindDeclared, KindArray, KindTypeVar, KindError:
		default:
			Contractf("wildcard bound cannot be %s", k)
		}
	}
	info := WildcardInfo{Extends: extends, Super: super}
	return u.internKeyedLocked(wildcardKey(info, 0), func() Type {
		u.wildcards = append(u.wildcards, info)
		return Type{Kind: KindWildcard, Payload: slotOf(len(u.wildcards), "wildcard")}
	})
}

// WildcardInfo returns the bounds of a wildcard.
func (u *Universe) WildcardInfo(id TypeID) (WildcardInfo, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	tt, ok := u.lookupLocked(id)
	if !ok || tt.Kind != KindWildcard {
		return WildcardInfo{}, false
	}
	return u.wildcards[tt.Payload], true
}

// Intersection returns the intersection of bounds. The first bound is the
// class bound; callers order bounds accordingly.
func (u *Universe) Intersection(bounds []TypeID) TypeID {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(bounds) == 0 {
		Contractf("intersection needs at least one bound")
	}
	for _, b := range bounds {
		switch k := u.mustLookupLocked(b).Kind; k {
		case KindDeclared, KindTypeVar, KindError:
		default:
			Contractf("intersection bound cannot be %s", k)
		}
	}
	return u.internCompoundLocked(KindIntersection, bounds)
}

// Union returns the union of alternatives.
func (u *Universe) Union(alts []TypeID) TypeID {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(alts) == 0 {
		Contractf("union needs at least one alternative")
	}
	for _, a := range alts {
		switch k := u.mustLookupLocked(a).Kind; k {
		case KindDeclared, KindTypeVar, KindError:
		default:
			Contractf("union alternative cannot be %s", k)
		}
	}
	return u.internCompoundLocked(KindUnion, alts)
}

// Members returns the bounds of an intersection or alternatives of a union.
func (u *Universe) Members(id TypeID) []TypeID {
	u.mu.RLock()
	defer u.mu.RUnlock()
	tt, ok := u.lookupLocked(id)
	if !ok || (tt.Kind != KindIntersection && tt.Kind != KindUnion) {
		Contractf("Members on non-compound type %d", id)
	}
	return slices.Clone(u.compounds[tt.Payload])
}

func (u *Universe) internCompoundLocked(kind Kind, members []TypeID) TypeID {
	return u.internKeyedLocked(compoundKey(kind, members, 0), func() Type {
		u.compounds = append(u.compounds, slices.Clone(members))
		return Type{Kind: kind, Payload: slotOf(len(u.compounds), "compound")}
	})
}

// Executable returns the interned executable type for info.
func (u *Universe) Executable(info ExecutableInfo) TypeID {
	u.mu.Lock()
	defer u.mu.Unlock()
	info.Receiver = u.noneIfZero(info.Receiver)
	if info.Return == NoTypeID {
		info.Return = u.builtins.Void
	}
	for _, tv := range info.TypeVars {
		if k := u.mustLookupLocked(tv).Kind; k != KindTypeVar {
			Contractf("executable type variable cannot be %s", k)
		}
	}
	info.Params = cloneTypeIDs(info.Params)
	info.Thrown = cloneTypeIDs(info.Thrown)
	info.TypeVars = cloneTypeIDs(info.TypeVars)
	return u.internKeyedLocked(executableKey(info, 0), func() Type {
		u.executable = append(u.executable, info)
		return Type{Kind: KindExecutable, Payload: slotOf(len(u.executable), "executable")}
	})
}

// ExecutableInfo returns the signature of an executable type.
func (u *Universe) ExecutableInfo(id TypeID) (ExecutableInfo, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	tt, ok := u.lookupLocked(id)
	if !ok || tt.Kind != KindExecutable {
		return ExecutableInfo{}, false
	}
	info := u.executable[tt.Payload]
	info.Params = cloneTypeIDs(info.Params)
	info.Thrown = cloneTypeIDs(info.Thrown)
	info.TypeVars = cloneTypeIDs(info.TypeVars)
	return info, true
}

// WithAnnotations returns the variant of id carrying the given annotation
// type names. Order and duplicates in names are insignificant. Raw types
// carry no annotations and are returned unchanged.
func (u *Universe) WithAnnotations(id TypeID, names ...string) TypeID {
	u.mu.Lock()
	defer u.mu.Unlock()
	tt := u.mustLookupLocked(id)
	base := id
	if tt.Base != NoTypeID {
		base = tt.Base
		tt = u.types[base]
	}
	if tt.Kind == KindDeclared && u.declared[tt.Payload].Erased {
		return id
	}
	slot := u.annotationSetLocked(names)
	if slot == 0 {
		return base
	}
	variant := tt
	variant.Annos = slot
	variant.Base = base
	return u.internLocked(variant)
}

// Unannotated returns the variant of id without annotations.
func (u *Universe) Unannotated(id TypeID) TypeID {
	tt := u.MustLookup(id)
	if tt.Base != NoTypeID {
		return tt.Base
	}
	return id
}

// Annotations returns the sorted annotation type names carried by id.
func (u *Universe) Annotations(id TypeID) []string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	tt, ok := u.lookupLocked(id)
	if !ok || tt.Annos == 0 {
		return nil
	}
	return slices.Clone(u.annos[tt.Annos])
}

func (u *Universe) annotationSetLocked(names []string) uint32 {
	set := slices.Clone(names)
	slices.Sort(set)
	set = slices.Compact(set)
	if len(set) == 0 {
		return 0
	}
	key := strings.Join(set, "\x00")
	if slot, ok := u.annoIndex[key]; ok {
		return slot
	}
	u.annos = append(u.annos, set)
	slot := slotOf(len(u.annos), "annotation set")
	u.annoIndex[key] = slot
	return slot
}

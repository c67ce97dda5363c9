package types

import (
	"encoding/binary"
	"fmt"
	"sync"

	"fortio.org/safecast"
)

// Universe owns every type descriptor and element of one program model.
// Types and elements are addressed by stable handles; structural types are
// interned so that building the same shape twice yields the same TypeID.
// A Universe is safe for concurrent use.
type Universe struct {
	mu sync.RWMutex

	types []Type
	index map[typeKey]TypeID

	declared   []DeclaredInfo
	vars       []TypeVarInfo
	wildcards  []WildcardInfo
	compounds  [][]TypeID
	executable []ExecutableInfo
	annos      [][]string
	annoIndex  map[string]uint32

	elems     []Element
	typeElems []TypeElementInfo
	qualified map[string]ElemID
	packages  map[string]ElemID
	modules   map[string]ElemID

	builtins Builtins

	annotationsInEquality bool
}

// NewUniverse constructs a universe seeded with primitives, pseudo-types
// and the core declarations java.lang.Object, java.lang.Cloneable and
// java.io.Serializable.
func NewUniverse() *Universe {
	u := &Universe{
		index:     make(map[typeKey]TypeID, 128),
		annoIndex: make(map[string]uint32, 8),
		qualified: make(map[string]ElemID, 32),
		packages:  make(map[string]ElemID, 8),
		modules:   make(map[string]ElemID, 2),
	}
	// slot 0 of every table is the invalid sentinel
	u.types = append(u.types, Type{})
	u.declared = append(u.declared, DeclaredInfo{})
	u.vars = append(u.vars, TypeVarInfo{})
	u.wildcards = append(u.wildcards, WildcardInfo{})
	u.compounds = append(u.compounds, nil)
	u.executable = append(u.executable, ExecutableInfo{})
	u.annos = append(u.annos, nil)
	u.elems = append(u.elems, Element{})
	u.typeElems = append(u.typeElems, TypeElementInfo{})

	b := &u.builtins
	b.Boolean = u.Intern(Type{Kind: KindBoolean})
	b.Byte = u.Intern(Type{Kind: KindByte})
	b.Char = u.Intern(Type{Kind: KindChar})
	b.Short = u.Intern(Type{Kind: KindShort})
	b.Int = u.Intern(Type{Kind: KindInt})
	b.Long = u.Intern(Type{Kind: KindLong})
	b.Float = u.Intern(Type{Kind: KindFloat})
	b.Double = u.Intern(Type{Kind: KindDouble})
	b.None = u.Intern(Type{Kind: KindNone})
	b.Void = u.Intern(Type{Kind: KindVoid})
	b.Package = u.Intern(Type{Kind: KindPackage})
	b.Module = u.Intern(Type{Kind: KindModule})
	b.Null = u.Intern(Type{Kind: KindNull})
	b.Error = u.Intern(Type{Kind: KindError})

	lang := u.NewPackage("java.lang")
	io := u.NewPackage("java.io")
	b.ObjectElem = u.NewTypeElement(TypeElementSpec{
		Kind:      ElemClass,
		Name:      "Object",
		Modifiers: ModPublic,
		Enclosing: lang,
	})
	b.Object = u.MustElement(b.ObjectElem).Type
	u.SetSupertypes(b.ObjectElem, b.None, nil)

	b.CloneableElem = u.NewTypeElement(TypeElementSpec{
		Kind:      ElemInterface,
		Name:      "Cloneable",
		Modifiers: ModPublic | ModAbstract,
		Enclosing: lang,
	})
	b.Cloneable = u.MustElement(b.CloneableElem).Type
	u.SetSupertypes(b.CloneableElem, b.None, nil)

	b.SerializableElem = u.NewTypeElement(TypeElementSpec{
		Kind:      ElemInterface,
		Name:      "Serializable",
		Modifiers: ModPublic | ModAbstract,
		Enclosing: io,
	})
	b.Serializable = u.MustElement(b.SerializableElem).Type
	u.SetSupertypes(b.SerializableElem, b.None, nil)
	return u
}

// Builtins returns TypeIDs for primitives, pseudo-types and core declarations.
func (u *Universe) Builtins() Builtins {
	return u.builtins
}

// SetAnnotationsInEquality controls whether Equal and Hash take type
// annotations into account.
func (u *Universe) SetAnnotationsInEquality(on bool) {
	u.mu.Lock()
	u.annotationsInEquality = on
	u.mu.Unlock()
}

// AnnotationsInEquality reports the current equality mode.
func (u *Universe) AnnotationsInEquality() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.annotationsInEquality
}

// Intern ensures the provided descriptor has a stable TypeID. Only leaf
// descriptors (primitives and pseudo-types) are accepted directly; composite
// types go through their dedicated constructors.
func (u *Universe) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if !t.Kind.IsPrimitive() && !t.Kind.IsNoType() && t.Kind != KindNull && t.Kind != KindError {
		Contractf("Intern accepts leaf kinds only, got %s", t.Kind)
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.internLocked(t)
}

// Lookup returns the descriptor for a TypeID.
func (u *Universe) Lookup(id TypeID) (Type, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.lookupLocked(id)
}

// MustLookup panics when id is invalid.
func (u *Universe) MustLookup(id TypeID) Type {
	tt, ok := u.Lookup(id)
	if !ok {
		Contractf("invalid TypeID %d", id)
	}
	return tt
}

// KindOf returns the kind of id, KindInvalid for unknown ids.
func (u *Universe) KindOf(id TypeID) Kind {
	tt, ok := u.Lookup(id)
	if !ok {
		return KindInvalid
	}
	return tt.Kind
}

// Len returns the number of types allocated so far, sentinel included.
func (u *Universe) Len() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.types)
}

func (u *Universe) lookupLocked(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(u.types) {
		return Type{}, false
	}
	return u.types[id], true
}

func (u *Universe) mustLookupLocked(id TypeID) Type {
	tt, ok := u.lookupLocked(id)
	if !ok {
		Contractf("invalid TypeID %d", id)
	}
	return tt
}

// internLocked returns the interned id for t, allocating it when absent.
// The side-table payload of t, if any, must already exist.
func (u *Universe) internLocked(t Type) TypeID {
	key := u.keyLocked(t)
	if id, ok := u.index[key]; ok {
		return id
	}
	id := u.appendLocked(t)
	u.index[key] = id
	return id
}

// internKeyedLocked looks key up and calls alloc to build the descriptor
// only when the key is new.
func (u *Universe) internKeyedLocked(key typeKey, alloc func() Type) TypeID {
	if id, ok := u.index[key]; ok {
		return id
	}
	id := u.appendLocked(alloc())
	u.index[key] = id
	return id
}

// appendLocked adds the descriptor without consulting the index. Used for
// type variables and captured types, which are never shared with
// structurally equal instances.
func (u *Universe) appendLocked(t Type) TypeID {
	n, err := safecast.Conv[uint32](len(u.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	u.types = append(u.types, t)
	return TypeID(n)
}

func slotOf(n int, what string) uint32 {
	slot, err := safecast.Conv[uint32](n - 1)
	if err != nil {
		panic(fmt.Errorf("%s overflow: %w", what, err))
	}
	return slot
}

type typeKey struct {
	Kind  Kind
	Elem  TypeID
	A     uint32
	B     uint32
	Flag  bool
	List  string
	Annos uint32
}

// keyLocked rebuilds the interning key of an existing descriptor.
func (u *Universe) keyLocked(t Type) typeKey {
	switch t.Kind {
	case KindDeclared:
		return declaredKey(u.declared[t.Payload], t.Annos)
	case KindTypeVar:
		return typeKey{Kind: KindTypeVar, A: t.Payload, Annos: t.Annos}
	case KindWildcard:
		return wildcardKey(u.wildcards[t.Payload], t.Annos)
	case KindIntersection, KindUnion:
		return compoundKey(t.Kind, u.compounds[t.Payload], t.Annos)
	case KindExecutable:
		return executableKey(u.executable[t.Payload], t.Annos)
	default:
		return typeKey{Kind: t.Kind, Elem: t.Elem, Annos: t.Annos}
	}
}

func declaredKey(info DeclaredInfo, annos uint32) typeKey {
	return typeKey{
		Kind:  KindDeclared,
		A:     uint32(info.Element),
		B:     uint32(info.Enclosing),
		Flag:  info.Erased,
		List:  encodeIDs(info.Args),
		Annos: annos,
	}
}

func wildcardKey(info WildcardInfo, annos uint32) typeKey {
	return typeKey{Kind: KindWildcard, A: uint32(info.Extends), B: uint32(info.Super), Annos: annos}
}

func compoundKey(kind Kind, members []TypeID, annos uint32) typeKey {
	return typeKey{Kind: kind, List: encodeIDs(members), Annos: annos}
}

func executableKey(info ExecutableInfo, annos uint32) typeKey {
	return typeKey{
		Kind:  KindExecutable,
		A:     uint32(info.Return),
		B:     uint32(info.Receiver),
		List:  encodeIDs(info.Params) + "|" + encodeIDs(info.Thrown) + "|" + encodeIDs(info.TypeVars),
		Annos: annos,
	}
}

func encodeIDs(ids []TypeID) string {
	if len(ids) == 0 {
		return ""
	}
	buf := make([]byte, 0, 4*len(ids))
	for _, id := range ids {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(id))
	}
	return string(buf)
}

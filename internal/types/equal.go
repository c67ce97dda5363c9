package types

import (
	"encoding/binary"
	"slices"

	"github.com/cespare/xxhash/v2"
)

// Equal reports structural equality of two types. Type variables are equal
// only to themselves (or an annotated variant of themselves); their bounds
// are never compared. The erased flag of declared types is ignored.
// Annotations participate only when AnnotationsInEquality is on.
func (u *Universe) Equal(a, b TypeID) bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.equalLocked(a, b)
}

func (u *Universe) equalLocked(a, b TypeID) bool {
	if a == b {
		return true
	}
	ta, okA := u.lookupLocked(a)
	tb, okB := u.lookupLocked(b)
	if !okA || !okB || ta.Kind != tb.Kind {
		return false
	}
	if u.annotationsInEquality && ta.Annos != tb.Annos {
		return false
	}
	switch ta.Kind {
	case KindArray:
		return u.equalLocked(ta.Elem, tb.Elem)
	case KindDeclared:
		da, db := u.declared[ta.Payload], u.declared[tb.Payload]
		return da.Element == db.Element &&
			u.equalLocked(da.Enclosing, db.Enclosing) &&
			u.equalListsLocked(da.Args, db.Args)
	case KindTypeVar:
		va, vb := u.vars[ta.Payload], u.vars[tb.Payload]
		if ta.Payload == tb.Payload {
			return true
		}
		return va.Element != NoElemID && va.Element == vb.Element
	case KindWildcard:
		wa, wb := u.wildcards[ta.Payload], u.wildcards[tb.Payload]
		return u.equalOptLocked(wa.Extends, wb.Extends) && u.equalOptLocked(wa.Super, wb.Super)
	case KindIntersection, KindUnion:
		return u.equalListsLocked(u.compounds[ta.Payload], u.compounds[tb.Payload])
	case KindExecutable:
		ea, eb := u.executable[ta.Payload], u.executable[tb.Payload]
		return u.equalLocked(ea.Return, eb.Return) &&
			u.equalLocked(ea.Receiver, eb.Receiver) &&
			u.equalListsLocked(ea.Params, eb.Params) &&
			u.equalListsLocked(ea.Thrown, eb.Thrown) &&
			u.equalListsLocked(ea.TypeVars, eb.TypeVars)
	default:
		// primitives, no-types, null and error are equal by kind
		return true
	}
}

func (u *Universe) equalOptLocked(a, b TypeID) bool {
	if a == NoTypeID || b == NoTypeID {
		return a == b
	}
	return u.equalLocked(a, b)
}

func (u *Universe) equalListsLocked(as, bs []TypeID) bool {
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !u.equalLocked(as[i], bs[i]) {
			return false
		}
	}
	return true
}

// Hash returns a structural hash consistent with Equal.
func (u *Universe) Hash(id TypeID) uint64 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	d := xxhash.New()
	u.hashLocked(d, id)
	return d.Sum64()
}

func (u *Universe) hashLocked(d *xxhash.Digest, id TypeID) {
	var buf [8]byte
	put := func(v uint32) {
		binary.LittleEndian.PutUint32(buf[:4], v)
		_, _ = d.Write(buf[:4])
	}
	tt, ok := u.lookupLocked(id)
	if !ok {
		put(0)
		return
	}
	put(uint32(tt.Kind))
	if u.annotationsInEquality && tt.Annos != 0 {
		for _, name := range u.annos[tt.Annos] {
			_, _ = d.WriteString(name)
			put(0)
		}
	}
	switch tt.Kind {
	case KindArray:
		u.hashLocked(d, tt.Elem)
	case KindDeclared:
		info := u.declared[tt.Payload]
		put(uint32(info.Element))
		u.hashLocked(d, info.Enclosing)
		u.hashListLocked(d, info.Args, put)
	case KindTypeVar:
		info := u.vars[tt.Payload]
		if info.Element != NoElemID {
			put(uint32(info.Element))
		} else {
			put(^tt.Payload)
		}
	case KindWildcard:
		info := u.wildcards[tt.Payload]
		u.hashLocked(d, info.Extends)
		u.hashLocked(d, info.Super)
	case KindIntersection, KindUnion:
		u.hashListLocked(d, u.compounds[tt.Payload], put)
	case KindExecutable:
		info := u.executable[tt.Payload]
		u.hashLocked(d, info.Return)
		u.hashListLocked(d, info.Params, put)
		u.hashListLocked(d, info.Thrown, put)
	}
}

func (u *Universe) hashListLocked(d *xxhash.Digest, ids []TypeID, put func(uint32)) {
	put(uint32(len(ids)))
	for _, id := range ids {
		u.hashLocked(d, id)
	}
}

// ElementsEqual reports identity of two elements; elements are never
// compared structurally.
func ElementsEqual(a, b ElemID) bool {
	return a == b
}

// IndexOf returns the position of id in ids by Equal, or -1.
func (u *Universe) IndexOf(ids []TypeID, id TypeID) int {
	return slices.IndexFunc(ids, func(x TypeID) bool { return u.Equal(x, id) })
}

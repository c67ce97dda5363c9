package typeops

import (
	"typemirror/internal/types"
)

// mapper rewrites a type bottom-up. leaf decides the image of a type before
// its children are visited; it returns ok=false to let the mapper descend.
// Results are memoized for the lifetime of one mapper.
type mapper struct {
	t    *Types
	leaf func(id types.TypeID) (types.TypeID, bool)
	memo map[types.TypeID]types.TypeID
}

func (t *Types) newMapper(leaf func(types.TypeID) (types.TypeID, bool)) *mapper {
	return &mapper{t: t, leaf: leaf, memo: make(map[types.TypeID]types.TypeID, 8)}
}

func (m *mapper) apply(id types.TypeID) types.TypeID {
	if out, ok := m.memo[id]; ok {
		return out
	}
	out, ok := m.leaf(id)
	if !ok {
		out = m.children(id)
	}
	m.memo[id] = out
	return out
}

func (m *mapper) list(ids []types.TypeID) ([]types.TypeID, bool) {
	var out []types.TypeID
	for i, id := range ids {
		n := m.apply(id)
		if n != id && out == nil {
			out = make([]types.TypeID, len(ids))
			copy(out, ids[:i])
		}
		if out != nil {
			out[i] = n
		}
	}
	if out == nil {
		return ids, false
	}
	return out, true
}

// children rebuilds id from its mapped children. It returns id itself when
// no child changed, so unchanged subtrees keep their identity.
func (m *mapper) children(id types.TypeID) types.TypeID {
	u := m.t.u
	tt := u.MustLookup(id)
	var out types.TypeID
	switch tt.Kind {
	case types.KindArray:
		c := m.apply(tt.Elem)
		if c == tt.Elem {
			return id
		}
		out = u.Array(m.t.asComponent(c))
	case types.KindDeclared:
		info := u.MustDeclared(id)
		enc := info.Enclosing
		if k := u.KindOf(enc); k == types.KindDeclared {
			enc = m.apply(enc)
		}
		args, changed := m.list(info.Args)
		if !changed && enc == info.Enclosing {
			return id
		}
		if info.Erased {
			out = u.Raw(info.Element, enc)
		} else {
			out = u.Declared(info.Element, enc, args)
		}
	case types.KindWildcard:
		info, _ := u.WildcardInfo(id)
		ext, sup := info.Extends, info.Super
		if ext == types.NoTypeID && sup == types.NoTypeID {
			ext = m.t.b.Object
		}
		nExt, nSup := ext, sup
		if ext != types.NoTypeID {
			nExt = m.t.wildUpper(m.apply(ext))
		}
		if sup != types.NoTypeID {
			nSup = m.t.wildLower(m.apply(sup))
		}
		if nExt == ext && nSup == sup {
			return id
		}
		if nSup == m.t.b.Null {
			nSup = types.NoTypeID
		}
		out = u.Wildcard(nExt, nSup)
	case types.KindIntersection, types.KindUnion:
		members, changed := m.list(u.Members(id))
		if !changed {
			return id
		}
		if tt.Kind == types.KindIntersection {
			out = u.Intersection(members)
		} else {
			out = u.Union(members)
		}
	case types.KindExecutable:
		info, _ := u.ExecutableInfo(id)
		params, pc := m.list(info.Params)
		thrown, tc := m.list(info.Thrown)
		ret := m.apply(info.Return)
		if !pc && !tc && ret == info.Return {
			return id
		}
		info.Params, info.Thrown, info.Return = params, thrown, ret
		out = u.Executable(info)
	default:
		return id
	}
	if annos := u.Annotations(id); len(annos) > 0 {
		out = u.WithAnnotations(out, annos...)
	}
	return out
}

// asComponent replaces a wildcard that substitution placed in array
// component position by its upper bound.
func (t *Types) asComponent(id types.TypeID) types.TypeID {
	if t.kind(id) == types.KindWildcard {
		return t.wildUpper(id)
	}
	return id
}

// wildUpper returns the upper bound of a wildcard (Object when it has none)
// and any other type unchanged.
func (t *Types) wildUpper(id types.TypeID) types.TypeID {
	if t.kind(id) != types.KindWildcard {
		return id
	}
	info, _ := t.u.WildcardInfo(id)
	if info.Extends == types.NoTypeID {
		return t.b.Object
	}
	return info.Extends
}

// wildLower returns the lower bound of a wildcard (Null when it has none)
// and any other type unchanged.
func (t *Types) wildLower(id types.TypeID) types.TypeID {
	if t.kind(id) != types.KindWildcard {
		return id
	}
	info, _ := t.u.WildcardInfo(id)
	if info.Super == types.NoTypeID {
		return t.b.Null
	}
	return info.Super
}

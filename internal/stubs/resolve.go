package stubs

import (
	"fmt"
	"strings"

	"typemirror/internal/types"
)

var primitiveKinds = map[string]types.Kind{
	"boolean": types.KindBoolean,
	"byte":    types.KindByte,
	"char":    types.KindChar,
	"short":   types.KindShort,
	"int":     types.KindInt,
	"long":    types.KindLong,
	"float":   types.KindFloat,
	"double":  types.KindDouble,
}

// scope is the set of names visible to a type reference.
type scope struct {
	vars    map[string]types.TypeID
	lexical []types.ElemID // innermost class first
	pkg     string
}

func (sc *scope) with(vars map[string]types.TypeID) *scope {
	out := &scope{vars: make(map[string]types.TypeID, len(sc.vars)+len(vars)), lexical: sc.lexical, pkg: sc.pkg}
	for k, v := range sc.vars {
		out.vars[k] = v
	}
	for k, v := range vars {
		out.vars[k] = v
	}
	return out
}

// resolveString parses and resolves one type reference.
func (b *builder) resolveString(src string, sc *scope) (types.TypeID, error) {
	r, err := parseTypeRef(src)
	if err != nil {
		return types.NoTypeID, err
	}
	return b.resolve(r, sc)
}

func (b *builder) resolve(r *typeRef, sc *scope) (types.TypeID, error) {
	var id types.TypeID
	switch r.kind {
	case refPrimitive:
		if r.prim == "void" {
			id = b.builtins.Void
		} else {
			id = b.builtins.Primitive(primitiveKinds[r.prim])
		}
	case refWildcard:
		var ext, sup types.TypeID
		if r.bound != nil {
			bound, err := b.resolve(r.bound, sc)
			if err != nil {
				return types.NoTypeID, err
			}
			if r.super {
				sup = bound
			} else {
				ext = bound
			}
		}
		id = b.u.Wildcard(ext, sup)
	default:
		var err error
		if id, err = b.resolveNamed(r, sc); err != nil {
			return types.NoTypeID, err
		}
	}
	if len(r.annos) > 0 {
		id = b.u.WithAnnotations(id, r.annos...)
	}
	for range r.dims {
		id = b.u.Array(id)
	}
	return id, nil
}

func (b *builder) resolveNamed(r *typeRef, sc *scope) (types.TypeID, error) {
	segs := r.segs
	if len(segs) == 1 && !segs[0].generic {
		if v, ok := sc.vars[segs[0].name]; ok {
			return v, nil
		}
	}

	head, elem, lexical, err := b.resolveHead(segs, sc)
	if err != nil {
		return types.NoTypeID, fmt.Errorf("%s: %w", r, err)
	}

	cur := types.NoTypeID
	for k := head; k < len(segs); k++ {
		if k > head {
			qualified := b.u.QualifiedName(elem) + "." + segs[k].name
			next, ok := b.u.LookupTypeElement(qualified)
			if !ok {
				return types.NoTypeID, fmt.Errorf("%s: %w %s", r, ErrUnknownType, qualified)
			}
			elem = next
		}
		canon := b.u.MustDeclared(b.u.MustElement(elem).Type)
		enclosing := b.builtins.None
		if b.u.KindOf(canon.Enclosing) == types.KindDeclared {
			switch {
			case k > head:
				enclosing = cur
			case lexical:
				enclosing = canon.Enclosing
			default:
				enclosing = b.plainType(b.u.AsElement(canon.Enclosing))
			}
		}

		args := make([]types.TypeID, 0, len(segs[k].args))
		for _, a := range segs[k].args {
			id, err := b.resolve(a, sc)
			if err != nil {
				return types.NoTypeID, err
			}
			if b.u.KindOf(id) == types.KindVoid {
				return types.NoTypeID, fmt.Errorf("%s: %w: void type argument", r, ErrInvalidManifest)
			}
			args = append(args, id)
		}
		params := b.u.TypeParamVars(elem)
		switch {
		case len(args) == 0 && len(params) > 0:
			cur = b.u.Raw(elem, b.rawEnclosing(enclosing))
		case len(args) != len(params):
			return types.NoTypeID, fmt.Errorf("%s: %w: %s takes %d type arguments, got %d",
				r, ErrInvalidManifest, b.u.QualifiedName(elem), len(params), len(args))
		case len(args) > 0 && b.isRaw(enclosing):
			return types.NoTypeID, fmt.Errorf("%s: %w: type arguments on a member of a raw type", r, ErrInvalidManifest)
		default:
			cur = b.u.Declared(elem, enclosing, args)
		}
	}
	return cur, nil
}

// resolveHead finds the first segment naming a class. lexical reports that
// the class was found by simple name from inside its declaring class.
func (b *builder) resolveHead(segs []segment, sc *scope) (head int, elem types.ElemID, lexical bool, err error) {
	elem, lexical, err = b.lookupSimple(segs[0].name, sc)
	if err == nil {
		return 0, elem, lexical, nil
	}
	if len(segs) == 1 || segs[0].generic {
		return 0, types.NoElemID, false, err
	}
	parts := []string{segs[0].name}
	for i := 1; i < len(segs); i++ {
		parts = append(parts, segs[i].name)
		if id, ok := b.u.LookupTypeElement(strings.Join(parts, ".")); ok {
			return i, id, false, nil
		}
		if segs[i].generic {
			break
		}
	}
	return 0, types.NoElemID, false, fmt.Errorf("%w %s", ErrUnknownType, joinSegs(segs))
}

// lookupSimple resolves a simple class name: member classes of the
// enclosing classes, then the current package, then java.lang, then any
// unique class of that simple name.
func (b *builder) lookupSimple(name string, sc *scope) (types.ElemID, bool, error) {
	for _, cls := range sc.lexical {
		if id, ok := b.u.LookupTypeElement(b.u.QualifiedName(cls) + "." + name); ok {
			return id, true, nil
		}
	}
	candidates := []string{name}
	if sc.pkg != "" {
		candidates = []string{sc.pkg + "." + name, name}
	}
	candidates = append(candidates, "java.lang."+name)
	for _, q := range candidates {
		if id, ok := b.u.LookupTypeElement(q); ok {
			return id, false, nil
		}
	}
	switch matches := b.simple[name]; len(matches) {
	case 0:
		return types.NoElemID, false, fmt.Errorf("%w %s", ErrUnknownType, name)
	case 1:
		return matches[0], false, nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = b.u.QualifiedName(m)
		}
		return types.NoElemID, false, fmt.Errorf("%w %s: %s", ErrAmbiguousType, name, strings.Join(names, ", "))
	}
}

// plainType is the type of elem written without type arguments: raw when
// elem is generic.
func (b *builder) plainType(elem types.ElemID) types.TypeID {
	canon := b.u.MustDeclared(b.u.MustElement(elem).Type)
	enclosing := canon.Enclosing
	if b.u.KindOf(enclosing) == types.KindDeclared {
		enclosing = b.plainType(b.u.AsElement(enclosing))
	}
	if len(b.u.TypeParamVars(elem)) > 0 {
		return b.u.Raw(elem, b.rawEnclosing(enclosing))
	}
	return b.u.Declared(elem, enclosing, nil)
}

func (b *builder) rawEnclosing(enclosing types.TypeID) types.TypeID {
	if b.u.KindOf(enclosing) != types.KindDeclared || b.isRaw(enclosing) {
		return enclosing
	}
	return b.plainType(b.u.AsElement(enclosing))
}

func (b *builder) isRaw(id types.TypeID) bool {
	info, ok := b.u.DeclaredInfo(id)
	return ok && info.Erased
}

func joinSegs(segs []segment) string {
	names := make([]string, len(segs))
	for i, s := range segs {
		names[i] = s.name
	}
	return strings.Join(names, ".")
}

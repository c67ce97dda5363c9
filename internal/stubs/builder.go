package stubs

import (
	"errors"
	"fmt"
	"strings"

	"typemirror/internal/types"
)

var classKinds = map[string]types.ElemKind{
	"":           types.ElemClass,
	"class":      types.ElemClass,
	"interface":  types.ElemInterface,
	"enum":       types.ElemEnum,
	"record":     types.ElemRecord,
	"annotation": types.ElemAnnotationType,
}

type classEntry struct {
	decl      *Class
	qualified string
	pkg       string
	kind      types.ElemKind
	mods      types.Modifier
	params    []typeParamDecl
	elem      types.ElemID
}

type builder struct {
	u        *types.Universe
	builtins types.Builtins
	entries  []*classEntry
	byName   map[string]*classEntry
	simple   map[string][]types.ElemID
}

// Build declares every class of m in u. It returns the new type elements
// in manifest order. On error u may hold a partial set of declarations and
// should be discarded.
func Build(u *types.Universe, m *Manifest) ([]types.ElemID, error) {
	return build(u, m, "manifest")
}

func build(u *types.Universe, m *Manifest, source string) (elems []types.ElemID, err error) {
	b := &builder{
		u:        u,
		builtins: u.Builtins(),
		byName:   make(map[string]*classEntry, len(m.Classes)),
		simple:   make(map[string][]types.ElemID),
	}
	defer func() {
		if err != nil {
			err = fmt.Errorf("%s: %w", source, err)
		}
	}()
	defer types.Recover(&err)

	if err := b.declareSkeletons(m); err != nil {
		return nil, err
	}
	for _, e := range b.entries {
		if err := b.resolveHeader(e); err != nil {
			return nil, fmt.Errorf("class %s: %w", e.qualified, err)
		}
	}
	if err := b.checkHierarchy(); err != nil {
		return nil, err
	}
	for _, e := range b.entries {
		if err := b.declareMembers(e); err != nil {
			return nil, fmt.Errorf("class %s: %w", e.qualified, err)
		}
	}
	elems = make([]types.ElemID, 0, len(m.Classes))
	for i := range m.Classes {
		elems = append(elems, b.byName[qualifiedOf(&m.Classes[i])].elem)
	}
	return elems, nil
}

func qualifiedOf(c *Class) string {
	if c.Outer != "" {
		return c.Outer + "." + c.Name
	}
	return c.Name
}

// declareSkeletons allocates packages, type elements, type parameters and
// canonical types. Outer classes are declared before their members.
func (b *builder) declareSkeletons(m *Manifest) error {
	pending := make([]*classEntry, 0, len(m.Classes))
	for i := range m.Classes {
		c := &m.Classes[i]
		if c.Name == "" {
			return fmt.Errorf("%w: class without a name", ErrInvalidManifest)
		}
		if c.Outer != "" && strings.Contains(c.Name, ".") {
			return fmt.Errorf("%w: member class %q must have a simple name", ErrInvalidManifest, c.Name)
		}
		e := &classEntry{decl: c, qualified: qualifiedOf(c)}
		if _, dup := b.byName[e.qualified]; dup {
			return fmt.Errorf("%w: duplicate class %s", ErrInvalidManifest, e.qualified)
		}
		if _, exists := b.u.LookupTypeElement(e.qualified); exists {
			return fmt.Errorf("%w: class %s already declared", ErrInvalidManifest, e.qualified)
		}
		kind, ok := classKinds[c.Kind]
		if !ok {
			return fmt.Errorf("%w: class %s: unknown kind %q", ErrInvalidManifest, e.qualified, c.Kind)
		}
		e.kind = kind
		mods, err := parseModifiers(c.Modifiers)
		if err != nil {
			return fmt.Errorf("class %s: %w", e.qualified, err)
		}
		if err := types.ValidateModifiers(kind, mods); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidManifest, err)
		}
		e.mods = mods
		for _, src := range c.TypeParams {
			p, err := parseTypeParam(src)
			if err != nil {
				return fmt.Errorf("class %s: %w", e.qualified, err)
			}
			e.params = append(e.params, p)
		}
		b.byName[e.qualified] = e
		pending = append(pending, e)
	}

	for len(pending) > 0 {
		progressed := false
		rest := pending[:0]
		for _, e := range pending {
			if e.decl.Outer != "" {
				if _, ok := b.u.LookupTypeElement(e.decl.Outer); !ok {
					rest = append(rest, e)
					continue
				}
			}
			b.declareSkeleton(e)
			progressed = true
		}
		if !progressed {
			return fmt.Errorf("%w outer class %s of %s", ErrUnknownType, rest[0].decl.Outer, rest[0].qualified)
		}
		pending = rest
	}

	for _, id := range b.u.TypeElements() {
		name := b.u.SimpleName(id)
		b.simple[name] = append(b.simple[name], id)
	}
	return nil
}

func (b *builder) declareSkeleton(e *classEntry) {
	names := make([]string, len(e.params))
	for i, p := range e.params {
		names[i] = p.name
	}
	spec := types.TypeElementSpec{
		Kind:        e.kind,
		Modifiers:   e.mods,
		Annotations: e.decl.Annotations,
		TypeParams:  names,
	}
	if e.decl.Outer != "" {
		outer, _ := b.u.LookupTypeElement(e.decl.Outer)
		spec.Name = e.decl.Name
		spec.Enclosing = outer
		e.pkg = b.packageOf(outer)
	} else {
		e.pkg, spec.Name = splitQualified(e.decl.Name)
		spec.Enclosing = b.u.NewPackage(e.pkg)
	}
	e.elem = b.u.NewTypeElement(spec)
	b.entries = append(b.entries, e)
}

func (b *builder) packageOf(elem types.ElemID) string {
	for elem != types.NoElemID {
		el := b.u.MustElement(elem)
		if el.Kind == types.ElemPackage {
			return el.Name
		}
		elem = el.Enclosing
	}
	return ""
}

// classScope returns the names visible inside e: its type parameters, those
// of enclosing classes reachable through inner (non-static) nesting, and
// its lexically enclosing classes.
func (b *builder) classScope(e *classEntry) *scope {
	sc := &scope{vars: make(map[string]types.TypeID), pkg: e.pkg}
	varsVisible := true
	for cur := e.elem; cur != types.NoElemID; {
		el := b.u.MustElement(cur)
		if !el.Kind.IsClassLike() {
			break
		}
		sc.lexical = append(sc.lexical, cur)
		if varsVisible {
			for _, v := range b.u.TypeParamVars(cur) {
				name := b.u.MustElement(b.u.AsElement(v)).Name
				if _, shadowed := sc.vars[name]; !shadowed {
					sc.vars[name] = v
				}
			}
		}
		if b.u.KindOf(b.u.MustDeclared(el.Type).Enclosing) != types.KindDeclared {
			varsVisible = false
		}
		cur = el.Enclosing
	}
	return sc
}

// resolveHeader assigns type parameter bounds, supertypes and permitted
// subclasses.
func (b *builder) resolveHeader(e *classEntry) error {
	sc := b.classScope(e)
	if err := b.setBounds(b.u.TypeParamVars(e.elem), e.params, sc); err != nil {
		return err
	}

	c := e.decl
	superclass := b.builtins.None
	switch {
	case e.kind.IsInterface():
		if c.Extends != "" {
			return fmt.Errorf("%w: interface cannot extend a class; list superinterfaces under implements", ErrInvalidManifest)
		}
	case c.Extends != "":
		st, err := b.resolveString(c.Extends, sc)
		if err != nil {
			return fmt.Errorf("extends: %w", err)
		}
		if err := b.checkSuperclass(st); err != nil {
			return err
		}
		superclass = st
	default:
		superclass = b.builtins.Object
	}

	ifaces := make([]types.TypeID, 0, len(c.Implements))
	for _, src := range c.Implements {
		it, err := b.resolveString(src, sc)
		if err != nil {
			return fmt.Errorf("implements: %w", err)
		}
		if !b.isInterfaceType(it) {
			return fmt.Errorf("%w: %s is not an interface", ErrInvalidManifest, src)
		}
		ifaces = append(ifaces, it)
	}
	b.u.SetSupertypes(e.elem, superclass, ifaces)

	if len(c.Permits) > 0 {
		if !e.mods.Has(types.ModSealed) {
			return fmt.Errorf("%w: permits on a class that is not sealed", ErrInvalidManifest)
		}
		permitted := make([]types.TypeID, 0, len(c.Permits))
		for _, src := range c.Permits {
			pt, err := b.resolveString(src, sc)
			if err != nil {
				return fmt.Errorf("permits: %w", err)
			}
			if b.u.KindOf(pt) != types.KindDeclared {
				return fmt.Errorf("%w: permitted subclass %s is not a class", ErrInvalidManifest, src)
			}
			permitted = append(permitted, pt)
		}
		b.u.SetPermitted(e.elem, permitted)
	}
	return nil
}

func (b *builder) checkSuperclass(st types.TypeID) error {
	info, ok := b.u.DeclaredInfo(st)
	if !ok {
		return fmt.Errorf("%w: superclass must be a class type", ErrInvalidManifest)
	}
	el := b.u.MustElement(info.Element)
	if el.Kind != types.ElemClass {
		return fmt.Errorf("%w: cannot extend %s %s", ErrInvalidManifest, el.Kind, b.u.QualifiedName(info.Element))
	}
	if el.Modifiers.Has(types.ModFinal) {
		return fmt.Errorf("%w: cannot extend final class %s", ErrInvalidManifest, b.u.QualifiedName(info.Element))
	}
	return nil
}

func (b *builder) isInterfaceType(id types.TypeID) bool {
	info, ok := b.u.DeclaredInfo(id)
	return ok && b.u.MustElement(info.Element).Kind.IsInterface()
}

// setBounds resolves declared bounds and assigns them to vars. Several
// bounds become an intersection; only the first may be a class or type
// variable.
func (b *builder) setBounds(vars []types.TypeID, decls []typeParamDecl, sc *scope) error {
	for i, d := range decls {
		bounds := make([]types.TypeID, 0, len(d.bounds))
		for j, r := range d.bounds {
			bt, err := b.resolve(r, sc)
			if err != nil {
				return fmt.Errorf("bound of %s: %w", d.name, err)
			}
			switch k := b.u.KindOf(bt); {
			case k == types.KindTypeVar && len(d.bounds) > 1:
				return fmt.Errorf("%w: type variable bound of %s cannot be combined", ErrInvalidManifest, d.name)
			case k != types.KindDeclared && k != types.KindTypeVar:
				return fmt.Errorf("%w: bound of %s cannot be %s", ErrInvalidManifest, d.name, k)
			case j > 0 && !b.isInterfaceType(bt):
				return fmt.Errorf("%w: additional bound %s of %s is not an interface", ErrInvalidManifest, r, d.name)
			}
			bounds = append(bounds, bt)
		}
		upper := b.builtins.Object
		switch len(bounds) {
		case 0:
		case 1:
			upper = bounds[0]
		default:
			upper = b.u.Intersection(bounds)
		}
		b.u.SetTypeVarBounds(vars[i], upper, types.NoTypeID)
	}
	return nil
}

// checkHierarchy rejects cyclic inheritance, type variables bounded by
// themselves and permitted subclasses that do not extend their sealed
// parent.
func (b *builder) checkHierarchy() error {
	const (
		white = iota
		grey
		black
	)
	color := make(map[types.ElemID]int, len(b.entries))
	var path []types.ElemID
	var visit func(elem types.ElemID) error
	visit = func(elem types.ElemID) error {
		switch color[elem] {
		case grey:
			names := make([]string, 0, len(path)+1)
			start := 0
			for i, p := range path {
				if p == elem {
					start = i
				}
			}
			for _, p := range path[start:] {
				names = append(names, b.u.QualifiedName(p))
			}
			names = append(names, b.u.QualifiedName(elem))
			return fmt.Errorf("%w: %s", ErrCyclicInheritance, strings.Join(names, " -> "))
		case black:
			return nil
		}
		color[elem] = grey
		path = append(path, elem)
		for _, sup := range b.directSupers(elem) {
			if err := visit(sup); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		color[elem] = black
		return nil
	}
	for _, e := range b.entries {
		if err := visit(e.elem); err != nil {
			return err
		}
	}

	for _, e := range b.entries {
		for _, v := range b.u.TypeParamVars(e.elem) {
			if err := b.checkBoundChain(v); err != nil {
				return fmt.Errorf("class %s: %w", e.qualified, err)
			}
		}
		if err := b.checkPermitted(e); err != nil {
			return fmt.Errorf("class %s: %w", e.qualified, err)
		}
	}
	return nil
}

func (b *builder) directSupers(elem types.ElemID) []types.ElemID {
	info, ok := b.u.TypeElement(elem)
	if !ok {
		return nil
	}
	var out []types.ElemID
	if b.u.KindOf(info.Superclass) == types.KindDeclared {
		out = append(out, b.u.AsElement(info.Superclass))
	}
	for _, i := range info.Interfaces {
		if b.u.KindOf(i) == types.KindDeclared {
			out = append(out, b.u.AsElement(i))
		}
	}
	return out
}

// checkBoundChain follows type-variable bounds from v and fails when it
// returns to a variable already seen.
func (b *builder) checkBoundChain(v types.TypeID) error {
	seen := map[types.TypeID]bool{}
	for cur := v; b.u.KindOf(cur) == types.KindTypeVar; cur = b.u.UpperBound(cur) {
		if seen[cur] {
			return fmt.Errorf("%w: type variable %s is bounded by itself", ErrCyclicInheritance, types.Label(b.u, v))
		}
		seen[cur] = true
	}
	return nil
}

func (b *builder) checkPermitted(e *classEntry) error {
	info, ok := b.u.TypeElement(e.elem)
	if !ok {
		return nil
	}
	for _, p := range info.Permitted {
		sub := b.u.AsElement(p)
		found := false
		for _, sup := range b.directSupers(sub) {
			if sup == e.elem {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: permitted subclass %s does not extend %s",
				ErrInvalidManifest, b.u.QualifiedName(sub), e.qualified)
		}
	}
	return nil
}

// declareMembers allocates fields, record components, enum constants,
// constructors and methods.
func (b *builder) declareMembers(e *classEntry) error {
	c := e.decl
	sc := b.classScope(e)

	for _, f := range c.Fields {
		if err := b.declareVariable(types.ElemField, f, e, sc); err != nil {
			return err
		}
	}
	if len(c.Components) > 0 && e.kind != types.ElemRecord {
		return fmt.Errorf("%w: components on a %s", ErrInvalidManifest, e.kind)
	}
	for _, rc := range c.Components {
		if err := b.declareVariable(types.ElemRecordComponent, rc, e, sc); err != nil {
			return err
		}
	}
	if len(c.Constants) > 0 && e.kind != types.ElemEnum {
		return fmt.Errorf("%w: constants on a %s", ErrInvalidManifest, e.kind)
	}
	canon := b.u.MustElement(e.elem).Type
	for _, name := range c.Constants {
		b.u.NewVariable(types.ElemEnumConstant, name, types.ModPublic|types.ModStatic|types.ModFinal, canon, e.elem)
	}
	for _, ctor := range c.Constructors {
		if e.kind.IsInterface() {
			return fmt.Errorf("%w: constructor in an interface", ErrInvalidManifest)
		}
		if err := b.declareExecutable(types.ElemConstructor, ctor, e, sc); err != nil {
			return fmt.Errorf("constructor: %w", err)
		}
	}
	for _, m := range c.Methods {
		if err := b.declareExecutable(types.ElemMethod, m, e, sc); err != nil {
			return fmt.Errorf("method %s: %w", m.Name, err)
		}
	}
	return nil
}

func (b *builder) declareVariable(kind types.ElemKind, v Variable, e *classEntry, sc *scope) error {
	if v.Name == "" {
		return fmt.Errorf("%w: %s without a name", ErrInvalidManifest, kind)
	}
	mods, err := parseModifiers(v.Modifiers)
	if err != nil {
		return err
	}
	if err := types.ValidateModifiers(kind, mods); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	typ, err := b.resolveString(v.Type, sc)
	if err != nil {
		return fmt.Errorf("%s %s: %w", kind, v.Name, err)
	}
	if b.u.KindOf(typ) == types.KindVoid {
		return fmt.Errorf("%w: %s %s has type void", ErrInvalidManifest, kind, v.Name)
	}
	b.u.NewVariable(kind, v.Name, mods, typ, e.elem)
	return nil
}

func (b *builder) declareExecutable(kind types.ElemKind, m Method, e *classEntry, sc *scope) error {
	if kind == types.ElemMethod && m.Name == "" {
		return fmt.Errorf("%w: method without a name", ErrInvalidManifest)
	}
	mods, err := parseModifiers(m.Modifiers)
	if err != nil {
		return err
	}
	if err := types.ValidateModifiers(kind, mods); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	decls := make([]typeParamDecl, len(m.TypeParams))
	names := make([]string, len(m.TypeParams))
	for i, src := range m.TypeParams {
		if decls[i], err = parseTypeParam(src); err != nil {
			return err
		}
		names[i] = decls[i].name
	}
	exec := b.u.NewExecutable(types.ExecutableSpec{
		Kind:       kind,
		Name:       m.Name,
		Modifiers:  mods,
		Enclosing:  e.elem,
		TypeParams: names,
	})
	vars := b.u.TypeParamVars(exec)
	local := make(map[string]types.TypeID, len(vars))
	for i, v := range vars {
		local[names[i]] = v
	}
	msc := sc.with(local)
	if err := b.setBounds(vars, decls, msc); err != nil {
		return err
	}
	for _, v := range vars {
		if err := b.checkBoundChain(v); err != nil {
			return err
		}
	}

	sig := types.Signature{Return: b.builtins.Void}
	for i, src := range m.Params {
		pt, err := b.resolveString(src, msc)
		if err != nil {
			return fmt.Errorf("parameter %d: %w", i, err)
		}
		if b.u.KindOf(pt) == types.KindVoid {
			return fmt.Errorf("%w: parameter %d has type void", ErrInvalidManifest, i)
		}
		sig.Params = append(sig.Params, types.Param{Name: fmt.Sprintf("arg%d", i), Type: pt})
	}
	if kind == types.ElemMethod && m.Returns != "" {
		if sig.Return, err = b.resolveString(m.Returns, msc); err != nil {
			return fmt.Errorf("returns: %w", err)
		}
	} else if kind == types.ElemConstructor && m.Returns != "" {
		return fmt.Errorf("%w: constructor with a return type", ErrInvalidManifest)
	}
	for _, src := range m.Throws {
		tt, err := b.resolveString(src, msc)
		if err != nil {
			return fmt.Errorf("throws: %w", err)
		}
		if k := b.u.KindOf(tt); k != types.KindDeclared && k != types.KindTypeVar {
			return fmt.Errorf("%w: cannot throw %s", ErrInvalidManifest, k)
		}
		sig.Thrown = append(sig.Thrown, tt)
	}
	b.u.SetSignature(exec, sig)
	return nil
}

func parseModifiers(words []string) (types.Modifier, error) {
	var mods types.Modifier
	var errs []error
	for _, w := range words {
		m, ok := types.ParseModifier(strings.TrimSpace(w))
		if !ok {
			errs = append(errs, fmt.Errorf("%w: unknown modifier %q", ErrInvalidManifest, w))
			continue
		}
		mods |= m
	}
	return mods, errors.Join(errs...)
}

package types

import (
	"slices"
	"strings"
)

// TypeElementSpec describes a class-like declaration to allocate.
type TypeElementSpec struct {
	Kind        ElemKind
	Name        string // simple name
	Modifiers   Modifier
	Annotations []string
	Enclosing   ElemID // package or outer type element
	// Nesting defaults to top-level under a package and member under a type.
	Nesting    NestingKind
	TypeParams []string
}

// ExecutableSpec describes a method, constructor or initializer.
type ExecutableSpec struct {
	Kind        ElemKind
	Name        string
	Modifiers   Modifier
	Annotations []string
	Enclosing   ElemID
	TypeParams  []string
}

// Param is one formal parameter of a signature.
type Param struct {
	Name string
	Type TypeID
}

// Signature completes an executable element.
type Signature struct {
	Params   []Param
	Receiver TypeID
	Return   TypeID
	Thrown   []TypeID
}

// NewModule allocates a module element, or returns the existing one.
func (u *Universe) NewModule(name string) ElemID {
	u.mu.Lock()
	defer u.mu.Unlock()
	if id, ok := u.modules[name]; ok {
		return id
	}
	id := u.appendElemLocked(Element{Kind: ElemModule, Name: name, Type: u.builtins.Module})
	u.modules[name] = id
	return id
}

// NewPackage allocates a package element named by its qualified name, or
// returns the existing one.
func (u *Universe) NewPackage(name string) ElemID {
	u.mu.Lock()
	defer u.mu.Unlock()
	if id, ok := u.packages[name]; ok {
		return id
	}
	id := u.appendElemLocked(Element{Kind: ElemPackage, Name: name, Type: u.builtins.Package})
	u.packages[name] = id
	return id
}

// NewTypeElement allocates a class-like element together with its type
// parameters and its canonical declared type, and encloses it in
// spec.Enclosing. Bounds, supertypes and members are assigned later.
func (u *Universe) NewTypeElement(spec TypeElementSpec) ElemID {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !spec.Kind.IsClassLike() {
		Contractf("NewTypeElement with kind %s", spec.Kind)
	}
	if spec.Name == "" {
		Contractf("type element needs a name")
	}
	mods := implicitModifiers(spec.Kind, spec.Modifiers)
	if err := ValidateModifiers(spec.Kind, mods); err != nil {
		Contractf("%s: %v", spec.Name, err)
	}

	var outer *Element
	if spec.Enclosing != NoElemID {
		el := u.elemLocked(spec.Enclosing)
		if el == nil {
			Contractf("unknown enclosing element %d", spec.Enclosing)
		}
		copied := *el
		outer = &copied
	}
	nesting := spec.Nesting
	if nesting == NestingTopLevel && outer != nil && outer.Kind.IsClassLike() {
		nesting = NestingMember
	}
	if outer != nil && outer.Kind.IsClassLike() && outer.Kind.IsInterface() && nesting == NestingMember {
		mods |= ModStatic
	}

	qualified := spec.Name
	if outer != nil {
		switch {
		case outer.Kind == ElemPackage && outer.Name != "":
			qualified = outer.Name + "." + spec.Name
		case outer.Kind.IsClassLike():
			qualified = u.typeElems[outer.Payload].Qualified + "." + spec.Name
		}
	}
	if nesting == NestingTopLevel || nesting == NestingMember {
		if _, dup := u.qualified[qualified]; dup {
			Contractf("duplicate type element %s", qualified)
		}
	}

	u.typeElems = append(u.typeElems, TypeElementInfo{Nesting: nesting, Qualified: qualified})
	payload := slotOf(len(u.typeElems), "type element")
	id := u.appendElemLocked(Element{
		Kind:        spec.Kind,
		Name:        spec.Name,
		Modifiers:   mods,
		Annotations: slices.Clone(spec.Annotations),
		Payload:     payload,
	})
	if nesting == NestingTopLevel || nesting == NestingMember {
		u.qualified[qualified] = id
	}

	params, vars := u.newTypeParamsLocked(id, spec.TypeParams)
	u.typeElems[payload].TypeParams = params

	enclosingType := u.builtins.None
	if outer != nil && outer.Kind.IsClassLike() && nesting == NestingMember &&
		spec.Kind == ElemClass && !mods.Has(ModStatic) {
		enclosingType = outer.Type
	}
	u.elems[id].Type = u.newCanonicalLocked(id, enclosingType, vars)

	if outer != nil {
		u.encloseLocked(spec.Enclosing, id)
	}
	return id
}

// NewExecutable allocates a method, constructor or initializer element with
// its type parameters. SetSignature completes it.
func (u *Universe) NewExecutable(spec ExecutableSpec) ElemID {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !spec.Kind.IsExecutable() {
		Contractf("NewExecutable with kind %s", spec.Kind)
	}
	if err := ValidateModifiers(spec.Kind, spec.Modifiers); err != nil {
		Contractf("%s: %v", spec.Name, err)
	}
	name := spec.Name
	switch spec.Kind {
	case ElemConstructor:
		name = "<init>"
	case ElemStaticInit:
		name = "<clinit>"
	case ElemInstanceInit:
		name = ""
	}
	id := u.appendElemLocked(Element{
		Kind:        spec.Kind,
		Name:        name,
		Modifiers:   spec.Modifiers,
		Annotations: slices.Clone(spec.Annotations),
	})
	u.newTypeParamsLocked(id, spec.TypeParams)
	if spec.Enclosing != NoElemID {
		u.encloseLocked(spec.Enclosing, id)
	}
	return id
}

// SetSignature allocates the parameter elements and the executable type of
// an executable element. It may be called once.
func (u *Universe) SetSignature(exec ElemID, sig Signature) TypeID {
	u.mu.Lock()
	el := u.elemLocked(exec)
	if el == nil || !el.Kind.IsExecutable() {
		u.mu.Unlock()
		Contractf("SetSignature on element %d", exec)
	}
	if el.Type != NoTypeID {
		u.mu.Unlock()
		Contractf("signature of %s already set", el.Name)
	}
	var vars []TypeID
	for _, child := range el.Enclosed {
		if c := u.elems[child]; c.Kind == ElemTypeParameter {
			vars = append(vars, c.Type)
		}
	}
	u.mu.Unlock()

	params := make([]TypeID, len(sig.Params))
	for i, p := range sig.Params {
		params[i] = p.Type
	}
	typ := u.Executable(ExecutableInfo{
		Params:   params,
		Receiver: sig.Receiver,
		Return:   sig.Return,
		Thrown:   sig.Thrown,
		TypeVars: vars,
	})
	for _, p := range sig.Params {
		u.NewVariable(ElemParameter, p.Name, 0, p.Type, exec)
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	el = u.elemLocked(exec)
	if el.Type != NoTypeID && el.Type != typ {
		Contractf("signature of %s already set", el.Name)
	}
	el.Type = typ
	return typ
}

// NewVariable allocates a field, parameter, enum constant, record component
// or local variable of type typ and encloses it.
func (u *Universe) NewVariable(kind ElemKind, name string, mods Modifier, typ TypeID, enclosing ElemID) ElemID {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !kind.IsVariable() && kind != ElemRecordComponent {
		Contractf("NewVariable with kind %s", kind)
	}
	if err := ValidateModifiers(kind, mods); err != nil {
		Contractf("%s: %v", name, err)
	}
	u.mustLookupLocked(typ)
	id := u.appendElemLocked(Element{Kind: kind, Name: name, Modifiers: mods, Type: typ})
	if enclosing != NoElemID {
		u.encloseLocked(enclosing, id)
	}
	return id
}

// Enclose records child as enclosed by parent. The child's enclosing
// element is set at most once; the pair must be kind-compatible.
func (u *Universe) Enclose(parent, child ElemID) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.encloseLocked(parent, child)
}

// SetSupertypes assigns the superclass and interfaces of a type element.
// It may be called once; repeating identical values is a no-op.
func (u *Universe) SetSupertypes(elem ElemID, superclass TypeID, interfaces []TypeID) {
	u.mu.Lock()
	defer u.mu.Unlock()
	el := u.elemLocked(elem)
	if el == nil || !el.Kind.IsClassLike() {
		Contractf("SetSupertypes on element %d", elem)
	}
	superclass = u.noneIfZero(superclass)
	switch k := u.mustLookupLocked(superclass).Kind; k {
	case KindNone, KindDeclared, KindError:
	default:
		Contractf("superclass of %s cannot be %s", el.Name, k)
	}
	if el.Kind.IsInterface() && superclass != u.builtins.None {
		Contractf("interface %s cannot have a superclass", el.Name)
	}
	for _, i := range interfaces {
		if k := u.mustLookupLocked(i).Kind; k != KindDeclared && k != KindError {
			Contractf("interface of %s cannot be %s", el.Name, k)
		}
	}
	info := &u.typeElems[el.Payload]
	if info.supersSet {
		if info.Superclass == superclass && slices.Equal(info.Interfaces, interfaces) {
			return
		}
		Contractf("supertypes of %s already set", el.Name)
	}
	info.Superclass = superclass
	info.Interfaces = cloneTypeIDs(interfaces)
	info.supersSet = true
}

// SetPermitted assigns the permitted subclasses of a sealed type element.
func (u *Universe) SetPermitted(elem ElemID, permitted []TypeID) {
	u.mu.Lock()
	defer u.mu.Unlock()
	el := u.elemLocked(elem)
	if el == nil || !el.Kind.IsClassLike() {
		Contractf("SetPermitted on element %d", elem)
	}
	if !el.Modifiers.Has(ModSealed) {
		Contractf("%s is not sealed", el.Name)
	}
	info := &u.typeElems[el.Payload]
	if info.permitsSet {
		if slices.Equal(info.Permitted, permitted) {
			return
		}
		Contractf("permitted subclasses of %s already set", el.Name)
	}
	info.Permitted = cloneTypeIDs(permitted)
	info.permitsSet = true
}

func (u *Universe) newTypeParamsLocked(owner ElemID, names []string) ([]ElemID, []TypeID) {
	if len(names) == 0 {
		return nil, nil
	}
	params := make([]ElemID, len(names))
	vars := make([]TypeID, len(names))
	for i, name := range names {
		p := u.appendElemLocked(Element{Kind: ElemTypeParameter, Name: name})
		tv := u.newTypeVarLocked(TypeVarInfo{Element: p})
		u.elems[p].Type = tv
		u.encloseLocked(owner, p)
		params[i] = p
		vars[i] = tv
	}
	return params, vars
}

func (u *Universe) appendElemLocked(el Element) ElemID {
	u.elems = append(u.elems, el)
	return ElemID(slotOf(len(u.elems), "element"))
}

func (u *Universe) elemLocked(id ElemID) *Element {
	if id == NoElemID || int(id) >= len(u.elems) {
		return nil
	}
	return &u.elems[id]
}

func (u *Universe) encloseLocked(parent, child ElemID) {
	p := u.elemLocked(parent)
	c := u.elemLocked(child)
	if p == nil || c == nil {
		Contractf("enclose %d in %d: unknown element", child, parent)
	}
	if !CanEnclose(p.Kind, c.Kind) {
		Contractf("%s %s cannot enclose %s %s", p.Kind, p.Name, c.Kind, c.Name)
	}
	if c.Enclosing != NoElemID {
		if c.Enclosing == parent {
			return
		}
		Contractf("enclosing element of %s already set", c.Name)
	}
	c.Enclosing = parent
	p.Enclosed = append(p.Enclosed, child)
}

// CanEnclose reports whether a parent of kind p may enclose a child of
// kind c.
func CanEnclose(p, c ElemKind) bool {
	switch {
	case p == ElemModule:
		return c == ElemPackage
	case p == ElemPackage:
		return c.IsClassLike()
	case p.IsClassLike():
		switch {
		case c.IsClassLike(), c == ElemField, c == ElemMethod, c == ElemConstructor,
			c == ElemStaticInit, c == ElemInstanceInit, c == ElemTypeParameter:
			return true
		case c == ElemEnumConstant:
			return p == ElemEnum
		case c == ElemRecordComponent:
			return p == ElemRecord
		}
		return false
	case p == ElemMethod || p == ElemConstructor:
		return c == ElemParameter || c == ElemTypeParameter
	default:
		return false
	}
}

// implicitModifiers adds the modifiers the language implies for kind.
func implicitModifiers(kind ElemKind, m Modifier) Modifier {
	switch kind {
	case ElemInterface, ElemAnnotationType:
		m |= ModAbstract
	case ElemRecord:
		m |= ModFinal
	}
	return m
}

// Element returns a copy of the element with id.
func (u *Universe) Element(id ElemID) (Element, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	el := u.elemLocked(id)
	if el == nil {
		return Element{}, false
	}
	out := *el
	out.Enclosed = slices.Clone(el.Enclosed)
	out.Annotations = slices.Clone(el.Annotations)
	return out, true
}

// MustElement returns the element or panics when id is invalid.
func (u *Universe) MustElement(id ElemID) Element {
	el, ok := u.Element(id)
	if !ok {
		Contractf("invalid ElemID %d", id)
	}
	return el
}

// TypeElement returns the class-like data of elem.
func (u *Universe) TypeElement(elem ElemID) (TypeElementInfo, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	el := u.elemLocked(elem)
	if el == nil || !el.Kind.IsClassLike() {
		return TypeElementInfo{}, false
	}
	info := u.typeElems[el.Payload]
	info.Interfaces = cloneTypeIDs(info.Interfaces)
	info.Permitted = cloneTypeIDs(info.Permitted)
	info.TypeParams = slices.Clone(info.TypeParams)
	return info, true
}

// MustTypeElement returns class-like data or panics.
func (u *Universe) MustTypeElement(elem ElemID) TypeElementInfo {
	info, ok := u.TypeElement(elem)
	if !ok {
		Contractf("element %d is not a type element", elem)
	}
	return info
}

// TypeParamVars returns the type variables of a type element or executable.
func (u *Universe) TypeParamVars(elem ElemID) []TypeID {
	u.mu.RLock()
	defer u.mu.RUnlock()
	el := u.elemLocked(elem)
	if el == nil {
		return nil
	}
	var vars []TypeID
	for _, child := range el.Enclosed {
		if c := u.elems[child]; c.Kind == ElemTypeParameter {
			vars = append(vars, c.Type)
		}
	}
	return vars
}

// LookupTypeElement finds a top-level or member type by qualified name.
func (u *Universe) LookupTypeElement(qualified string) (ElemID, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	id, ok := u.qualified[qualified]
	return id, ok
}

// LookupPackage finds a package by qualified name.
func (u *Universe) LookupPackage(name string) (ElemID, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	id, ok := u.packages[name]
	return id, ok
}

// TypeElements returns every class-like element in allocation order.
func (u *Universe) TypeElements() []ElemID {
	u.mu.RLock()
	defer u.mu.RUnlock()
	var out []ElemID
	for i := 1; i < len(u.elems); i++ {
		if u.elems[i].Kind.IsClassLike() {
			out = append(out, ElemID(i))
		}
	}
	return out
}

// QualifiedName returns the qualified name of a type element or package,
// and the simple name of anything else.
func (u *Universe) QualifiedName(id ElemID) string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	el := u.elemLocked(id)
	if el == nil {
		return ""
	}
	if el.Kind.IsClassLike() {
		return u.typeElems[el.Payload].Qualified
	}
	return el.Name
}

// SimpleName returns the last segment of an element's name.
func (u *Universe) SimpleName(id ElemID) string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	el := u.elemLocked(id)
	if el == nil {
		return ""
	}
	if el.Kind == ElemPackage || el.Kind == ElemModule {
		if i := strings.LastIndexByte(el.Name, '.'); i >= 0 {
			return el.Name[i+1:]
		}
	}
	return el.Name
}

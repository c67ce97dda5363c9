package types

import (
	"fmt"
	"strings"
)

// ElemID uniquely identifies an element inside the universe.
type ElemID uint32

// NoElemID marks the absence of an element.
const NoElemID ElemID = 0

// ElemKind enumerates the kinds of declarations.
type ElemKind uint8

const (
	ElemInvalid ElemKind = iota
	ElemModule
	ElemPackage
	ElemClass
	ElemInterface
	ElemEnum
	ElemRecord
	ElemAnnotationType
	ElemTypeParameter
	ElemMethod
	ElemConstructor
	ElemStaticInit
	ElemInstanceInit
	ElemField
	ElemEnumConstant
	ElemParameter
	ElemLocalVariable
	ElemExceptionParameter
	ElemResourceVariable
	ElemBindingVariable
	ElemRecordComponent
)

var elemKindNames = [...]string{
	ElemInvalid:            "invalid",
	ElemModule:             "module",
	ElemPackage:            "package",
	ElemClass:              "class",
	ElemInterface:          "interface",
	ElemEnum:               "enum",
	ElemRecord:             "record",
	ElemAnnotationType:     "annotation",
	ElemTypeParameter:      "type parameter",
	ElemMethod:             "method",
	ElemConstructor:        "constructor",
	ElemStaticInit:         "static initializer",
	ElemInstanceInit:       "instance initializer",
	ElemField:              "field",
	ElemEnumConstant:       "enum constant",
	ElemParameter:          "parameter",
	ElemLocalVariable:      "local variable",
	ElemExceptionParameter: "exception parameter",
	ElemResourceVariable:   "resource variable",
	ElemBindingVariable:    "binding variable",
	ElemRecordComponent:    "record component",
}

func (k ElemKind) String() string {
	if int(k) < len(elemKindNames) {
		return elemKindNames[k]
	}
	return fmt.Sprintf("ElemKind(%d)", k)
}

// IsClassLike reports whether k declares a type.
func (k ElemKind) IsClassLike() bool {
	return k >= ElemClass && k <= ElemAnnotationType
}

// IsInterface reports whether k declares an interface type.
func (k ElemKind) IsInterface() bool {
	return k == ElemInterface || k == ElemAnnotationType
}

// IsExecutable reports whether k declares code.
func (k ElemKind) IsExecutable() bool {
	return k >= ElemMethod && k <= ElemInstanceInit
}

// IsVariable reports whether k declares a variable.
func (k ElemKind) IsVariable() bool {
	return k >= ElemField && k <= ElemBindingVariable
}

// NestingKind describes where a type element is declared.
type NestingKind uint8

const (
	NestingTopLevel NestingKind = iota
	NestingMember
	NestingLocal
	NestingAnonymous
)

func (n NestingKind) String() string {
	switch n {
	case NestingTopLevel:
		return "top-level"
	case NestingMember:
		return "member"
	case NestingLocal:
		return "local"
	case NestingAnonymous:
		return "anonymous"
	default:
		return fmt.Sprintf("NestingKind(%d)", n)
	}
}

// Modifier is a set of declaration modifiers.
type Modifier uint16

const (
	ModPublic Modifier = 1 << iota
	ModProtected
	ModPrivate
	ModAbstract
	ModDefault
	ModStatic
	ModSealed
	ModNonSealed
	ModFinal
	ModTransient
	ModVolatile
	ModSynchronized
	ModNative
	ModStrictfp
)

var modifierNames = [...]struct {
	mod  Modifier
	name string
}{
	{ModPublic, "public"},
	{ModProtected, "protected"},
	{ModPrivate, "private"},
	{ModAbstract, "abstract"},
	{ModDefault, "default"},
	{ModStatic, "static"},
	{ModSealed, "sealed"},
	{ModNonSealed, "non-sealed"},
	{ModFinal, "final"},
	{ModTransient, "transient"},
	{ModVolatile, "volatile"},
	{ModSynchronized, "synchronized"},
	{ModNative, "native"},
	{ModStrictfp, "strictfp"},
}

// Has reports whether every modifier of m2 is in m.
func (m Modifier) Has(m2 Modifier) bool {
	return m&m2 == m2
}

func (m Modifier) String() string {
	var parts []string
	for _, mn := range modifierNames {
		if m.Has(mn.mod) {
			parts = append(parts, mn.name)
		}
	}
	return strings.Join(parts, " ")
}

// ParseModifier maps a source keyword to its modifier.
func ParseModifier(s string) (Modifier, bool) {
	for _, mn := range modifierNames {
		if mn.name == s {
			return mn.mod, true
		}
	}
	return 0, false
}

// ValidateModifiers rejects modifier sets that no declaration of kind may
// carry.
func ValidateModifiers(kind ElemKind, m Modifier) error {
	access := 0
	for _, a := range [...]Modifier{ModPublic, ModProtected, ModPrivate} {
		if m.Has(a) {
			access++
		}
	}
	switch {
	case access > 1:
		return fmt.Errorf("%s: conflicting access modifiers %q", kind, m)
	case m.Has(ModAbstract | ModFinal):
		return fmt.Errorf("%s: abstract and final", kind)
	case m.Has(ModSealed|ModNonSealed), m.Has(ModSealed|ModFinal), m.Has(ModNonSealed|ModFinal):
		return fmt.Errorf("%s: at most one of sealed, non-sealed, final", kind)
	}
	if m&(ModSealed|ModNonSealed) != 0 && kind != ElemClass && kind != ElemInterface {
		return fmt.Errorf("%s cannot be %q", kind, m&(ModSealed|ModNonSealed))
	}
	if m.Has(ModDefault) && kind != ElemMethod {
		return fmt.Errorf("%s cannot be default", kind)
	}
	if m&(ModTransient|ModVolatile) != 0 && kind != ElemField {
		return fmt.Errorf("%s cannot be transient or volatile", kind)
	}
	if m&(ModSynchronized|ModNative) != 0 && kind != ElemMethod {
		return fmt.Errorf("%s cannot be synchronized or native", kind)
	}
	return nil
}

// Element is a declaration.
type Element struct {
	Kind        ElemKind
	Name        string // simple name; qualified name for packages and modules
	Modifiers   Modifier
	Annotations []string
	Type        TypeID
	Enclosing   ElemID
	Enclosed    []ElemID
	Payload     uint32 // slot in the type element table for class-like kinds
}

// TypeElementInfo stores the extra data of a class-like element.
type TypeElementInfo struct {
	Superclass TypeID // None for interfaces and java.lang.Object
	Interfaces []TypeID
	Permitted  []TypeID
	Nesting    NestingKind
	TypeParams []ElemID
	Qualified  string

	supersSet  bool
	permitsSet bool
}

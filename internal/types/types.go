package types

import "fmt"

// TypeID uniquely identifies a type inside the universe.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBoolean
	KindByte
	KindChar
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindArray
	KindDeclared
	KindTypeVar
	KindWildcard
	KindIntersection
	KindUnion
	KindExecutable
	KindNone
	KindVoid
	KindPackage
	KindModule
	KindNull
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindBoolean:
		return "boolean"
	case KindByte:
		return "byte"
	case KindChar:
		return "char"
	case KindShort:
		return "short"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindArray:
		return "array"
	case KindDeclared:
		return "declared"
	case KindTypeVar:
		return "typevar"
	case KindWildcard:
		return "wildcard"
	case KindIntersection:
		return "intersection"
	case KindUnion:
		return "union"
	case KindExecutable:
		return "executable"
	case KindNone:
		return "none"
	case KindVoid:
		return "void"
	case KindPackage:
		return "package"
	case KindModule:
		return "module"
	case KindNull:
		return "null"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// IsPrimitive reports whether k is one of the eight primitive kinds.
func (k Kind) IsPrimitive() bool {
	return k >= KindBoolean && k <= KindDouble
}

// IsNoType reports whether k is a pseudo-type (none, void, package, module).
func (k Kind) IsNoType() bool {
	return k >= KindNone && k <= KindModule
}

// IsReference reports whether values of kind k are references.
func (k Kind) IsReference() bool {
	switch k {
	case KindArray, KindDeclared, KindTypeVar, KindIntersection, KindUnion, KindNull, KindError:
		return true
	default:
		return false
	}
}

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind    Kind
	Elem    TypeID // array component
	Payload uint32 // slot in the side table of Kind
	Annos   uint32 // slot in the annotation table, 0 when unannotated
	Base    TypeID // unannotated variant for annotated types
}

// Builtins stores TypeIDs for primitives, pseudo-types and the core
// declarations every universe starts with.
type Builtins struct {
	Boolean TypeID
	Byte    TypeID
	Char    TypeID
	Short   TypeID
	Int     TypeID
	Long    TypeID
	Float   TypeID
	Double  TypeID

	None    TypeID
	Void    TypeID
	Package TypeID
	Module  TypeID
	Null    TypeID
	Error   TypeID

	Object       TypeID
	Cloneable    TypeID
	Serializable TypeID

	ObjectElem       ElemID
	CloneableElem    ElemID
	SerializableElem ElemID
}

// Primitive returns the builtin TypeID for a primitive kind.
func (b Builtins) Primitive(k Kind) TypeID {
	switch k {
	case KindBoolean:
		return b.Boolean
	case KindByte:
		return b.Byte
	case KindChar:
		return b.Char
	case KindShort:
		return b.Short
	case KindInt:
		return b.Int
	case KindLong:
		return b.Long
	case KindFloat:
		return b.Float
	case KindDouble:
		return b.Double
	default:
		return NoTypeID
	}
}

// Qualified names of the core declarations.
const (
	ObjectName       = "java.lang.Object"
	CloneableName    = "java.lang.Cloneable"
	SerializableName = "java.io.Serializable"
)

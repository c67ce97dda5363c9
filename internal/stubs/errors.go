package stubs

import "errors"

var (
	// ErrSyntax reports a malformed type reference or type parameter.
	ErrSyntax = errors.New("syntax error")
	// ErrUnknownType reports a name that resolves to no type.
	ErrUnknownType = errors.New("unknown type")
	// ErrAmbiguousType reports a simple name matching several classes.
	ErrAmbiguousType = errors.New("ambiguous type")
	// ErrCyclicInheritance reports a class that is its own supertype, or a
	// type variable bounded by itself.
	ErrCyclicInheritance = errors.New("cyclic inheritance")
	// ErrInvalidManifest reports a manifest entry that breaks a declaration
	// rule: bad kind or modifiers, misplaced supertypes, wrong arity.
	ErrInvalidManifest = errors.New("invalid manifest")
)

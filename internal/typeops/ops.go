// Package typeops implements the type algebra over a types.Universe:
// supertypes, interfaces, erasure, substitution, capture conversion,
// greatest lower bounds, same-type/containment/subtype tests and ordered
// supertype closures.
//
// Every operation is synchronous and CPU-bound. Operations that receive a
// type of the wrong kind panic with an error wrapping types.ErrContract or
// types.ErrUnsupported; Error types are accepted everywhere and satisfy
// every relational test.
package typeops

import (
	"sync"

	"typemirror/internal/trace"
	"typemirror/internal/types"
)

// DefaultClosureCacheSize bounds the closure cache when Options leaves it 0.
const DefaultClosureCacheSize = 4096

// Options configures an engine.
type Options struct {
	// DedupTypeVarClosure inserts a type variable into the closure of its
	// type-variable supertype by the precedes order. When false the variable
	// is prepended unconditionally and may appear twice.
	DedupTypeVarClosure bool
	// ClosureCacheSize bounds the number of cached closures.
	ClosureCacheSize int
	// Tracer receives query, cache and step events; nil means trace.Nop.
	Tracer trace.Tracer
}

// Types is the type-algebra engine over one universe. It is safe for
// concurrent use.
type Types struct {
	u      *types.Universe
	b      types.Builtins
	opts   Options
	tracer trace.Tracer

	closures *closureCache

	rankMu sync.RWMutex
	ranks  map[types.ElemID]int
}

// New returns an engine over u.
func New(u *types.Universe, opts Options) *Types {
	if opts.ClosureCacheSize <= 0 {
		opts.ClosureCacheSize = DefaultClosureCacheSize
	}
	tr := opts.Tracer
	if tr == nil {
		tr = trace.Nop
	}
	return &Types{
		u:        u,
		b:        u.Builtins(),
		opts:     opts,
		tracer:   tr,
		closures: newClosureCache(opts.ClosureCacheSize, tr),
		ranks:    make(map[types.ElemID]int, 64),
	}
}

// Universe returns the universe the engine works on.
func (t *Types) Universe() *types.Universe {
	return t.u
}

// Tracer returns the engine's tracer.
func (t *Types) Tracer() trace.Tracer {
	return t.tracer
}

// Close flushes and closes the engine's tracer.
func (t *Types) Close() error {
	return t.tracer.Close()
}

func (t *Types) kind(id types.TypeID) types.Kind {
	return t.u.KindOf(id)
}

func (t *Types) label(id types.TypeID) string {
	return types.Label(t.u, id)
}

// isObject reports whether id is java.lang.Object in any form.
func (t *Types) isObject(id types.TypeID) bool {
	return t.kind(id) == types.KindDeclared && t.u.AsElement(id) == t.b.ObjectElem
}

// isInterface reports whether id is a declared type of an interface element.
func (t *Types) isInterface(id types.TypeID) bool {
	if t.kind(id) != types.KindDeclared {
		return false
	}
	return t.u.MustElement(t.u.AsElement(id)).Kind.IsInterface()
}

func (t *Types) isInterfaceElem(elem types.ElemID) bool {
	el, ok := t.u.Element(elem)
	return ok && el.Kind.IsInterface()
}

// IsRaw reports whether id is a raw use of a generic declaration, directly
// or through a raw enclosing type.
func (t *Types) IsRaw(id types.TypeID) bool {
	if t.kind(id) != types.KindDeclared {
		return false
	}
	info := t.u.MustDeclared(id)
	if info.Erased {
		return true
	}
	if len(info.Args) == 0 && len(t.u.TypeParamVars(info.Element)) > 0 {
		return true
	}
	return t.kind(info.Enclosing) == types.KindDeclared && t.IsRaw(info.Enclosing)
}

// IsParameterized reports whether id or one of its enclosing types carries
// type arguments.
func (t *Types) IsParameterized(id types.TypeID) bool {
	if t.kind(id) != types.KindDeclared {
		return false
	}
	info := t.u.MustDeclared(id)
	if len(info.Args) > 0 {
		return true
	}
	return t.kind(info.Enclosing) == types.KindDeclared && t.IsParameterized(info.Enclosing)
}

// HasWildcardArgs reports whether id or one of its enclosing types has a
// wildcard type argument.
func (t *Types) HasWildcardArgs(id types.TypeID) bool {
	if t.kind(id) != types.KindDeclared {
		return false
	}
	info := t.u.MustDeclared(id)
	for _, a := range info.Args {
		if t.kind(a) == types.KindWildcard {
			return true
		}
	}
	return t.kind(info.Enclosing) == types.KindDeclared && t.HasWildcardArgs(info.Enclosing)
}

// allParams returns the formal type variables of elem, those of the
// enclosing instance types first.
func (t *Types) allParams(elem types.ElemID) []types.TypeID {
	canon := t.u.MustElement(elem).Type
	info := t.u.MustDeclared(canon)
	own := t.u.TypeParamVars(elem)
	if t.kind(info.Enclosing) != types.KindDeclared {
		return own
	}
	outer := t.allParams(t.u.AsElement(info.Enclosing))
	return append(outer, own...)
}

// allArgs returns the actual type arguments of id, those of the enclosing
// types first.
func (t *Types) allArgs(id types.TypeID) []types.TypeID {
	info := t.u.MustDeclared(id)
	if t.kind(info.Enclosing) != types.KindDeclared {
		return info.Args
	}
	outer := t.allArgs(info.Enclosing)
	return append(outer, info.Args...)
}

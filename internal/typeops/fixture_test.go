package typeops_test

import (
	"errors"
	"testing"

	"typemirror/internal/stubs"
	"typemirror/internal/typeops"
	"typemirror/internal/types"
)

const fixture = `
[[class]]
name = "java.lang.Iterable"
kind = "interface"
type_params = ["T"]

[[class]]
name = "java.lang.Comparable"
kind = "interface"
type_params = ["T"]

[[class]]
name = "java.lang.CharSequence"
kind = "interface"

[[class]]
name = "java.lang.Number"
modifiers = ["public", "abstract"]
implements = ["java.io.Serializable"]

[[class]]
name = "java.lang.Integer"
modifiers = ["public", "final"]
extends = "Number"
implements = ["Comparable<Integer>"]

[[class]]
name = "java.lang.String"
modifiers = ["public", "final"]
implements = ["java.io.Serializable", "Comparable<String>", "CharSequence"]

[[class]]
name = "java.util.Collection"
kind = "interface"
type_params = ["E"]
implements = ["java.lang.Iterable<E>"]

[[class]]
name = "java.util.List"
kind = "interface"
type_params = ["E"]
implements = ["Collection<E>"]

[[class]]
name = "java.util.AbstractList"
modifiers = ["public", "abstract"]
type_params = ["E"]
implements = ["List<E>"]

[[class]]
name = "java.util.ArrayList"
type_params = ["E"]
extends = "AbstractList<E>"
implements = ["List<E>", "Cloneable", "java.io.Serializable"]

[[class]]
name = "test.A"

[[class]]
name = "test.B"
extends = "A"

[[class]]
name = "test.Box"
type_params = ["T extends Number"]

[[class]]
name = "test.Pair"
type_params = ["X", "Y extends X"]

[[class]]
name = "test.Outer"
type_params = ["T"]

[[class]]
name = "Inner"
outer = "test.Outer"
type_params = ["U"]

  [[class.field]]
  name = "value"
  type = "T"
`

type env struct {
	t  *testing.T
	u  *types.Universe
	ts *typeops.Types
	b  types.Builtins
}

func newEnv(t *testing.T, opts typeops.Options) *env {
	t.Helper()
	u, err := stubs.LoadString(fixture)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	return &env{t: t, u: u, ts: typeops.New(u, opts), b: u.Builtins()}
}

func (e *env) elem(name string) types.ElemID {
	e.t.Helper()
	id, ok := e.u.LookupTypeElement(name)
	if !ok {
		e.t.Fatalf("no type element %s", name)
	}
	return id
}

// class returns the canonical type of a type element.
func (e *env) class(name string) types.TypeID {
	e.t.Helper()
	return e.u.MustElement(e.elem(name)).Type
}

// decl returns name<args...>.
func (e *env) decl(name string, args ...types.TypeID) types.TypeID {
	e.t.Helper()
	return e.u.Declared(e.elem(name), types.NoTypeID, args)
}

func (e *env) raw(name string) types.TypeID {
	e.t.Helper()
	return e.u.Raw(e.elem(name), types.NoTypeID)
}

func (e *env) param(name string, i int) types.TypeID {
	e.t.Helper()
	return e.u.TypeParamVars(e.elem(name))[i]
}

func (e *env) extends(bound types.TypeID) types.TypeID {
	return e.u.Wildcard(bound, types.NoTypeID)
}

func (e *env) super(bound types.TypeID) types.TypeID {
	return e.u.Wildcard(types.NoTypeID, bound)
}

func (e *env) unbounded() types.TypeID {
	return e.u.Wildcard(types.NoTypeID, types.NoTypeID)
}

func (e *env) label(id types.TypeID) string {
	return types.Label(e.u, id)
}

func (e *env) labels(ids []types.TypeID) string {
	return types.Labels(e.u, ids)
}

func expectPanic(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, target) {
			t.Fatalf("expected panic wrapping %v, got %v", target, r)
		}
	}()
	fn()
}

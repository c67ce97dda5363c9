package stubs

import (
	"errors"
	"strings"
	"testing"

	"typemirror/internal/types"
)

const sample = `
[[class]]
name = "java.lang.Comparable"
kind = "interface"
type_params = ["T"]

[[class]]
name = "p.Base"
type_params = ["T"]

[[class]]
name = "p.Sub"
modifiers = ["public"]
annotations = ["Deprecated"]
type_params = ["E extends Comparable<E>"]
extends = "Base<E[]>"
implements = ["java.io.Serializable"]

  [[class.field]]
  name = "items"
  type = "Base<? extends E>"
  modifiers = ["private", "final"]

  [[class.method]]
  name = "map"
  type_params = ["R"]
  params = ["Base<? super E>", "int"]
  returns = "@Nullable R[]"
  throws = ["Oops"]

  [[class.constructor]]
  params = ["E"]

[[class]]
name = "p.Oops"

[[class]]
name = "p.Color"
kind = "enum"
constants = ["RED", "GREEN"]

[[class]]
name = "p.Point"
kind = "record"

  [[class.component]]
  name = "x"
  type = "int"

[[class]]
name = "p.Outer"
type_params = ["T"]

[[class]]
name = "Inner"
outer = "p.Outer"

  [[class.field]]
  name = "owner"
  type = "T"

  [[class.field]]
  name = "self"
  type = "Inner"

[[class]]
name = "Nested"
outer = "p.Outer"
modifiers = ["static"]

[[class]]
name = "p.Shape"
modifiers = ["sealed", "abstract"]
permits = ["Circle"]

[[class]]
name = "p.Circle"
modifiers = ["final"]
extends = "Shape"
`

func loadSample(t *testing.T) *types.Universe {
	t.Helper()
	u, err := LoadString(sample)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	return u
}

func lookup(t *testing.T, u *types.Universe, name string) types.ElemID {
	t.Helper()
	id, ok := u.LookupTypeElement(name)
	if !ok {
		t.Fatalf("no class %s", name)
	}
	return id
}

func member(t *testing.T, u *types.Universe, owner types.ElemID, name string) types.Element {
	t.Helper()
	for _, id := range u.MustElement(owner).Enclosed {
		if el := u.MustElement(id); el.Name == name {
			return el
		}
	}
	t.Fatalf("%s has no member %s", u.QualifiedName(owner), name)
	return types.Element{}
}

func TestBuildHeaders(t *testing.T) {
	u := loadSample(t)
	sub := lookup(t, u, "p.Sub")
	info := u.MustTypeElement(sub)

	if got := types.Label(u, info.Superclass); got != "p.Base<E[]>" {
		t.Fatalf("superclass = %s", got)
	}
	if got := types.Labels(u, info.Interfaces); got != "[java.io.Serializable]" {
		t.Fatalf("interfaces = %s", got)
	}
	e := u.TypeParamVars(sub)[0]
	if got := types.Label(u, u.UpperBound(e)); got != "java.lang.Comparable<E>" {
		t.Fatalf("bound of E = %s", got)
	}
	el := u.MustElement(sub)
	if !el.Modifiers.Has(types.ModPublic) || len(el.Annotations) != 1 || el.Annotations[0] != "Deprecated" {
		t.Fatalf("unexpected modifiers %q or annotations %v", el.Modifiers, el.Annotations)
	}
	if got := types.Label(u, u.MustTypeElement(lookup(t, u, "p.Oops")).Superclass); got != "java.lang.Object" {
		t.Fatalf("default superclass = %s", got)
	}
	if got := u.MustTypeElement(lookup(t, u, "java.lang.Comparable")).Superclass; got != u.Builtins().None {
		t.Fatalf("interface superclass = %s", types.Label(u, got))
	}
	if got := types.Labels(u, u.MustTypeElement(lookup(t, u, "p.Shape")).Permitted); got != "[p.Circle]" {
		t.Fatalf("permitted = %s", got)
	}
}

func TestBuildMembers(t *testing.T) {
	u := loadSample(t)
	sub := lookup(t, u, "p.Sub")

	items := member(t, u, sub, "items")
	if items.Kind != types.ElemField || !items.Modifiers.Has(types.ModPrivate|types.ModFinal) {
		t.Fatalf("unexpected field %+v", items)
	}
	if got := types.Label(u, items.Type); got != "p.Base<? extends E>" {
		t.Fatalf("field type = %s", got)
	}

	m := member(t, u, sub, "map")
	sig, ok := u.ExecutableInfo(m.Type)
	if !ok {
		t.Fatalf("method map has no executable type")
	}
	checks := map[string][2]string{
		"params": {types.Labels(u, sig.Params), "[p.Base<? super E>, int]"},
		"return": {types.Label(u, sig.Return), "@Nullable R[]"},
		"thrown": {types.Labels(u, sig.Thrown), "[p.Oops]"},
		"vars":   {types.Labels(u, sig.TypeVars), "[R]"},
	}
	for what, c := range checks {
		if c[0] != c[1] {
			t.Fatalf("map %s = %s, want %s", what, c[0], c[1])
		}
	}

	ctor := member(t, u, sub, "<init>")
	csig, _ := u.ExecutableInfo(ctor.Type)
	if got := types.Labels(u, csig.Params); got != "[E]" || csig.Return != u.Builtins().Void {
		t.Fatalf("constructor params %s return %s", got, types.Label(u, csig.Return))
	}

	color := lookup(t, u, "p.Color")
	for _, name := range []string{"RED", "GREEN"} {
		c := member(t, u, color, name)
		if c.Kind != types.ElemEnumConstant || c.Type != u.MustElement(color).Type {
			t.Fatalf("unexpected enum constant %+v", c)
		}
	}
	if x := member(t, u, lookup(t, u, "p.Point"), "x"); x.Kind != types.ElemRecordComponent || x.Type != u.Builtins().Int {
		t.Fatalf("unexpected record component %+v", x)
	}
}

func TestBuildNestedClasses(t *testing.T) {
	u := loadSample(t)
	inner := lookup(t, u, "p.Outer.Inner")
	if got := types.Label(u, member(t, u, inner, "owner").Type); got != "T" {
		t.Fatalf("owner type = %s", got)
	}
	self := member(t, u, inner, "self").Type
	if self != u.MustElement(inner).Type {
		t.Fatalf("self type %s is not the element type of Inner", types.Label(u, self))
	}
	if got := types.Label(u, self); got != "p.Outer<T>.Inner" {
		t.Fatalf("self type = %s", got)
	}
	nested := u.MustElement(lookup(t, u, "p.Outer.Nested"))
	if got := types.Label(u, nested.Type); got != "p.Outer.Nested" {
		t.Fatalf("static nested type = %s", got)
	}
}

func TestBuildNormalizesNames(t *testing.T) {
	u, err := LoadString("[[class]]\nname = \"p.Cafe\u0301\"\n" +
		"[[class]]\nname = \"p.Sub\"\nextends = \"Caf\u00e9\"\n")
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	cafe, ok := u.LookupTypeElement("p.Caf\u00e9")
	if !ok {
		t.Fatalf("class name was not normalized")
	}
	sub := lookup(t, u, "p.Sub")
	if got := u.AsElement(u.MustTypeElement(sub).Superclass); got != cafe {
		t.Fatalf("superclass of p.Sub is %s", u.QualifiedName(got))
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		want     error
		contains string
	}{
		{
			name:     "unknown key",
			manifest: "[[class]]\nname = \"p.A\"\nsupers = \"p.B\"\n",
			want:     ErrInvalidManifest,
			contains: "supers",
		},
		{
			name:     "cycle",
			manifest: "[[class]]\nname = \"p.A\"\nextends = \"B\"\n[[class]]\nname = \"p.B\"\nextends = \"A\"\n",
			want:     ErrCyclicInheritance,
			contains: "p.A -> p.B -> p.A",
		},
		{
			name:     "interface cycle",
			manifest: "[[class]]\nname = \"p.I\"\nkind = \"interface\"\nimplements = [\"J\"]\n[[class]]\nname = \"p.J\"\nkind = \"interface\"\nimplements = [\"I\"]\n",
			want:     ErrCyclicInheritance,
		},
		{
			name:     "unknown type",
			manifest: "[[class]]\nname = \"p.A\"\nextends = \"Missing\"\n",
			want:     ErrUnknownType,
			contains: "Missing",
		},
		{
			name:     "ambiguous simple name",
			manifest: "[[class]]\nname = \"a.X\"\n[[class]]\nname = \"b.X\"\n[[class]]\nname = \"c.Y\"\nextends = \"X\"\n",
			want:     ErrAmbiguousType,
			contains: "a.X, b.X",
		},
		{
			name:     "interface extends",
			manifest: "[[class]]\nname = \"p.I\"\nkind = \"interface\"\nextends = \"Object\"\n",
			want:     ErrInvalidManifest,
		},
		{
			name:     "final superclass",
			manifest: "[[class]]\nname = \"p.F\"\nmodifiers = [\"final\"]\n[[class]]\nname = \"p.G\"\nextends = \"F\"\n",
			want:     ErrInvalidManifest,
			contains: "final class p.F",
		},
		{
			name:     "extends interface",
			manifest: "[[class]]\nname = \"p.A\"\nextends = \"java.io.Serializable\"\n",
			want:     ErrInvalidManifest,
		},
		{
			name:     "implements class",
			manifest: "[[class]]\nname = \"p.A\"\nimplements = [\"Object\"]\n",
			want:     ErrInvalidManifest,
		},
		{
			name:     "wrong arity",
			manifest: "[[class]]\nname = \"p.Box\"\ntype_params = [\"T\"]\n[[class]]\nname = \"p.A\"\nextends = \"Box<Object, Object>\"\n",
			want:     ErrInvalidManifest,
			contains: "takes 1 type arguments",
		},
		{
			name:     "syntax",
			manifest: "[[class]]\nname = \"p.A\"\nextends = \"Object<\"\n",
			want:     ErrSyntax,
		},
		{
			name:     "self bounded variable",
			manifest: "[[class]]\nname = \"p.A\"\ntype_params = [\"T extends U\", \"U extends T\"]\n",
			want:     ErrCyclicInheritance,
		},
		{
			name:     "class as additional bound",
			manifest: "[[class]]\nname = \"p.A\"\ntype_params = [\"T extends java.io.Serializable & Object\"]\n",
			want:     ErrInvalidManifest,
		},
		{
			name:     "permits without sealed",
			manifest: "[[class]]\nname = \"p.S\"\npermits = [\"C\"]\n[[class]]\nname = \"p.C\"\nextends = \"S\"\n",
			want:     ErrInvalidManifest,
		},
		{
			name:     "permitted class does not extend",
			manifest: "[[class]]\nname = \"p.S\"\nmodifiers = [\"sealed\"]\npermits = [\"C\"]\n[[class]]\nname = \"p.C\"\n",
			want:     ErrInvalidManifest,
			contains: "does not extend",
		},
		{
			name:     "duplicate class",
			manifest: "[[class]]\nname = \"p.A\"\n[[class]]\nname = \"p.A\"\n",
			want:     ErrInvalidManifest,
		},
		{
			name:     "redeclared core class",
			manifest: "[[class]]\nname = \"java.lang.Object\"\n",
			want:     ErrInvalidManifest,
		},
		{
			name:     "unknown modifier",
			manifest: "[[class]]\nname = \"p.A\"\nmodifiers = [\"publik\"]\n",
			want:     ErrInvalidManifest,
		},
		{
			name:     "conflicting modifiers",
			manifest: "[[class]]\nname = \"p.A\"\nmodifiers = [\"abstract\", \"final\"]\n",
			want:     ErrInvalidManifest,
		},
		{
			name:     "unknown kind",
			manifest: "[[class]]\nname = \"p.A\"\nkind = \"struct\"\n",
			want:     ErrInvalidManifest,
		},
		{
			name:     "unknown outer",
			manifest: "[[class]]\nname = \"Inner\"\nouter = \"p.Missing\"\n",
			want:     ErrUnknownType,
		},
		{
			name:     "constants on a class",
			manifest: "[[class]]\nname = \"p.A\"\nconstants = [\"X\"]\n",
			want:     ErrInvalidManifest,
		},
		{
			name:     "void field",
			manifest: "[[class]]\nname = \"p.A\"\n[[class.field]]\nname = \"f\"\ntype = \"void\"\n",
			want:     ErrInvalidManifest,
		},
		{
			name:     "constructor in interface",
			manifest: "[[class]]\nname = \"p.I\"\nkind = \"interface\"\n[[class.constructor]]\nparams = []\n",
			want:     ErrInvalidManifest,
		},
		{
			name:     "throws primitive",
			manifest: "[[class]]\nname = \"p.A\"\n[[class.method]]\nname = \"m\"\nthrows = [\"int\"]\n",
			want:     ErrInvalidManifest,
		},
		{
			name:     "arguments on member of raw type",
			manifest: "[[class]]\nname = \"p.O\"\ntype_params = [\"T\"]\n[[class]]\nname = \"In\"\nouter = \"p.O\"\ntype_params = [\"U\"]\n[[class]]\nname = \"p.A\"\n[[class.field]]\nname = \"f\"\ntype = \"p.O.In<Object>\"\n",
			want:     ErrInvalidManifest,
			contains: "raw type",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadString(tt.manifest)
			if !errors.Is(err, tt.want) {
				t.Fatalf("LoadString error = %v, want %v", err, tt.want)
			}
			if tt.contains != "" && !strings.Contains(err.Error(), tt.contains) {
				t.Fatalf("error %q does not mention %q", err, tt.contains)
			}
		})
	}
}

func TestBuildIntoExistingUniverse(t *testing.T) {
	u := types.NewUniverse()
	m, err := Decode("[[class]]\nname = \"p.A\"\n[[class]]\nname = \"p.B\"\nextends = \"A\"\n")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	elems, err := Build(u, m)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(elems) != 2 || u.QualifiedName(elems[1]) != "p.B" {
		t.Fatalf("unexpected elements %v", elems)
	}

	more, err := Decode("[[class]]\nname = \"q.C\"\nextends = \"p.B\"\n")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if _, err := Build(u, more); err != nil {
		t.Fatalf("Build onto existing universe: %v", err)
	}
	if _, err := Build(u, m); !errors.Is(err, ErrInvalidManifest) {
		t.Fatalf("second Build of the same classes = %v", err)
	}
}

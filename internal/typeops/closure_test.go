package typeops_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"typemirror/internal/config"
	"typemirror/internal/testkit"
	"typemirror/internal/trace"
	"typemirror/internal/typeops"
	"typemirror/internal/types"
)

func TestClosure(t *testing.T) {
	e := newEnv(t, typeops.Options{})
	str := e.class("java.lang.String")

	tests := []struct {
		name string
		in   types.TypeID
		want string
	}{
		{"class chain", e.class("test.B"), "[test.B, test.A, java.lang.Object]"},
		{"object", e.b.Object, "[java.lang.Object]"},
		{
			"interfaces by rank then name",
			e.class("java.lang.Integer"),
			"[java.lang.Integer, java.lang.Number, java.lang.Comparable<java.lang.Integer>, java.io.Serializable, java.lang.Object]",
		},
		{
			"parameterized",
			e.decl("java.util.ArrayList", str),
			"[java.util.ArrayList<java.lang.String>, java.util.AbstractList<java.lang.String>, " +
				"java.util.List<java.lang.String>, java.util.Collection<java.lang.String>, " +
				"java.lang.Iterable<java.lang.String>, java.lang.Cloneable, java.io.Serializable, java.lang.Object]",
		},
		{"interface", e.decl("java.util.List", str), "[java.util.List<java.lang.String>, java.util.Collection<java.lang.String>, java.lang.Iterable<java.lang.String>]"},
		{"type variable", e.param("test.Box", 0), "[T, java.lang.Number, java.io.Serializable, java.lang.Object]"},
		{"variable chain", e.param("test.Pair", 1), "[Y, X, java.lang.Object]"},
		{
			"intersection",
			e.u.Intersection([]types.TypeID{e.class("java.lang.Number"), e.b.Cloneable}),
			"[java.lang.Number, java.lang.Cloneable, java.io.Serializable, java.lang.Object]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.labels(e.ts.Closure(tt.in)); got != tt.want {
				t.Fatalf("Closure(%s) =\n  %s\nwant\n  %s", e.label(tt.in), got, tt.want)
			}
			if err := testkit.CheckClosure(e.ts, tt.in); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestClosureDedupTypeVars(t *testing.T) {
	for _, dedup := range []bool{false, true} {
		e := newEnv(t, typeops.Options{DedupTypeVarClosure: dedup})
		y := e.param("test.Pair", 1)
		if got, want := e.labels(e.ts.Closure(y)), "[Y, X, java.lang.Object]"; got != want {
			t.Fatalf("dedup=%v: Closure(Y) = %s, want %s", dedup, got, want)
		}
	}
}

func TestClosureUnsupported(t *testing.T) {
	e := newEnv(t, typeops.Options{})
	expectPanic(t, types.ErrUnsupported, func() { e.ts.Closure(e.b.Int) })
	expectPanic(t, types.ErrUnsupported, func() { e.ts.Closure(e.u.Array(e.b.Object)) })
}

func TestClosureOverErrorSupertypes(t *testing.T) {
	e := newEnv(t, typeops.Options{})
	pkg := e.u.NewPackage("test")
	declare := func(name string, superclass types.TypeID, ifaces ...types.TypeID) types.TypeID {
		elem := e.u.NewTypeElement(types.TypeElementSpec{Kind: types.ElemClass, Name: name, Enclosing: pkg})
		e.u.SetSupertypes(elem, superclass, ifaces)
		return e.u.MustElement(elem).Type
	}

	if got := e.ts.Closure(e.b.Error); len(got) != 1 || got[0] != e.b.Error {
		t.Fatalf("Closure(error) = %s", e.labels(got))
	}
	badIface := declare("BadIface", e.b.Object, e.b.Error)
	cl := e.ts.Closure(badIface)
	if len(cl) == 0 || cl[0] != badIface || !slices.Contains(cl, e.b.Object) {
		t.Fatalf("Closure(BadIface) = %s", e.labels(cl))
	}
	badSuper := declare("BadSuper", e.b.Error)
	if cl := e.ts.Closure(badSuper); len(cl) == 0 || cl[0] != badSuper {
		t.Fatalf("Closure(BadSuper) = %s", e.labels(cl))
	}
}

func TestClosureCacheHitsUntraced(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelOff)
	e := newEnv(t, typeops.Options{Tracer: ring})
	b := e.class("test.B")
	first := e.labels(e.ts.Closure(b))
	if again := e.labels(e.ts.Closure(b)); again != first {
		t.Fatalf("cached Closure(B) = %s, want %s", again, first)
	}
	if snap := ring.Snapshot(); len(snap) != 0 {
		t.Fatalf("disabled tracer recorded %d events", len(snap))
	}
}

func TestClosureReturnsCopy(t *testing.T) {
	e := newEnv(t, typeops.Options{})
	b := e.class("test.B")
	first := e.ts.Closure(b)
	first[0] = e.b.Object
	if got := e.labels(e.ts.Closure(b)); got != "[test.B, test.A, java.lang.Object]" {
		t.Fatalf("cached closure was modified through a returned slice: %s", got)
	}
}

func TestClosureCache(t *testing.T) {
	ring := trace.NewRingTracer(256, trace.LevelDetail)
	e := newEnv(t, typeops.Options{Tracer: ring, ClosureCacheSize: 2})
	b := e.class("test.B")
	e.ts.Closure(b)
	e.ts.Closure(b)

	var hits, misses int
	for _, ev := range ring.Snapshot() {
		switch ev.Name {
		case "closure.hit":
			hits++
		case "closure.miss":
			misses++
		}
	}
	if misses != 3 || hits == 0 {
		t.Fatalf("expected 3 misses and some hits, got %d misses and %d hits", misses, hits)
	}
	if n := e.ts.CachedClosures(); n != 2 {
		t.Fatalf("cache holds %d closures, want 2", n)
	}
	e.ts.PurgeClosures()
	if n := e.ts.CachedClosures(); n != 0 {
		t.Fatalf("cache holds %d closures after purge", n)
	}
}

func TestClosureInsertAndUnion(t *testing.T) {
	e := newEnv(t, typeops.Options{})
	a, b := e.class("test.A"), e.class("test.B")
	base := e.ts.Closure(a)

	got := e.ts.ClosureInsert(base, b)
	if e.labels(got) != "[test.B, test.A, java.lang.Object]" {
		t.Fatalf("ClosureInsert = %s", e.labels(got))
	}
	if e.labels(base) != "[test.A, java.lang.Object]" {
		t.Fatalf("ClosureInsert modified its input: %s", e.labels(base))
	}
	if again := e.ts.ClosureInsert(base, a); e.labels(again) != e.labels(base) {
		t.Fatalf("inserting a present element changed the closure: %s", e.labels(again))
	}

	u := e.ts.ClosureUnion(e.ts.Closure(e.class("java.lang.Integer")), e.ts.Closure(e.class("java.lang.String")))
	want := "[java.lang.Integer, java.lang.String, java.lang.Number, java.lang.Comparable<java.lang.Integer>, " +
		"java.lang.CharSequence, java.io.Serializable, java.lang.Object]"
	if e.labels(u) != want {
		t.Fatalf("ClosureUnion =\n  %s\nwant\n  %s", e.labels(u), want)
	}
}

func TestMinimumTypes(t *testing.T) {
	e := newEnv(t, typeops.Options{})
	integer, str := e.class("java.lang.Integer"), e.class("java.lang.String")

	tests := []struct {
		name string
		in   []types.TypeID
		want string
	}{
		{"single closure", e.ts.Closure(integer), "[java.lang.Integer]"},
		{"union of closures", e.ts.ClosureUnion(e.ts.Closure(integer), e.ts.Closure(str)), "[java.lang.Integer, java.lang.String]"},
		{"interfaces after classes", []types.TypeID{e.decl("java.util.List", str), e.class("test.A"), e.b.Object}, "[test.A, java.util.List<java.lang.String>]"},
		{"variable with subtype", []types.TypeID{e.param("test.Pair", 0), e.param("test.Pair", 1)}, "[Y]"},
		{"empty", nil, "[]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.ts.MinimumTypes(tt.in)
			if e.labels(got) != tt.want {
				t.Fatalf("MinimumTypes(%s) = %s, want %s", e.labels(tt.in), e.labels(got), tt.want)
			}
			if err := testkit.CheckMinimal(e.ts, got); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestRank(t *testing.T) {
	e := newEnv(t, typeops.Options{})
	tests := []struct {
		in   types.TypeID
		want int
	}{
		{e.b.Object, 0},
		{e.b.Error, 0},
		{e.b.None, 0},
		{e.class("test.A"), 1},
		{e.class("test.B"), 2},
		{e.b.Serializable, 1},
		{e.class("java.lang.Number"), 2},
		{e.class("java.lang.Integer"), 3},
		{e.decl("java.util.ArrayList", e.class("java.lang.String")), 5},
		{e.param("test.Box", 0), 3},
	}
	for _, tt := range tests {
		if got := e.ts.Rank(tt.in); got != tt.want {
			t.Fatalf("Rank(%s) = %d, want %d", e.label(tt.in), got, tt.want)
		}
	}
	expectPanic(t, types.ErrUnsupported, func() { e.ts.Rank(e.b.Int) })
}

func TestPrecedes(t *testing.T) {
	e := newEnv(t, typeops.Options{})
	a, b := e.class("test.A"), e.class("test.B")
	x, y := e.param("test.Pair", 0), e.param("test.Pair", 1)
	str := e.class("java.lang.String")

	tests := []struct {
		name string
		a, b types.TypeID
		want bool
	}{
		{"higher rank first", b, a, true},
		{"lower rank second", a, b, false},
		{"equal rank by descending name", a, e.b.Serializable, true},
		{"equal rank reversed", e.b.Serializable, a, false},
		{"same element", e.decl("java.util.List", str), e.class("java.util.List"), false},
		{"variable before declared", x, e.b.Object, true},
		{"declared after variable", e.b.Object, x, false},
		{"subtype variable first", y, x, true},
		{"supertype variable second", x, y, false},
		{"variable and itself", x, x, false},
		{"arrays are unordered", e.u.Array(str), str, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.ts.Precedes(tt.a, tt.b); got != tt.want {
				t.Fatalf("Precedes(%s, %s) = %v, want %v", e.label(tt.a), e.label(tt.b), got, tt.want)
			}
		})
	}
	all := []types.TypeID{a, b, x, y, str, e.b.Object, e.b.Serializable, e.b.Cloneable, e.class("java.lang.Integer")}
	if err := testkit.CheckPrecedesStrict(e.ts, all); err != nil {
		t.Fatal(err)
	}
}

func TestWarm(t *testing.T) {
	e := newEnv(t, typeops.Options{})
	str := e.class("java.lang.String")
	ids := []types.TypeID{
		e.class("test.B"),
		e.class("java.lang.Integer"),
		e.decl("java.util.ArrayList", str),
		e.param("test.Box", 0),
	}
	if err := e.ts.Warm(context.Background(), ids); err != nil {
		t.Fatalf("Warm: %v", err)
	}
	if e.ts.CachedClosures() < len(ids) {
		t.Fatalf("cache holds %d closures after warming %d types", e.ts.CachedClosures(), len(ids))
	}
	for _, id := range ids {
		if err := testkit.CheckClosure(e.ts, id); err != nil {
			t.Fatal(err)
		}
	}
}

func TestWarmReportsUnsupported(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelError)
	e := newEnv(t, typeops.Options{})
	ctx := trace.WithTracer(context.Background(), ring)

	err := e.ts.Warm(ctx, []types.TypeID{e.class("test.B"), e.b.Int})
	if !errors.Is(err, types.ErrUnsupported) {
		t.Fatalf("Warm error = %v, want ErrUnsupported", err)
	}
	snap := ring.Snapshot()
	if len(snap) != 1 || snap[0].Kind != trace.KindFault || snap[0].Name != "warm" {
		t.Fatalf("expected one warm fault, got %+v", snap)
	}
}

func TestWarmCancelled(t *testing.T) {
	e := newEnv(t, typeops.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := e.ts.Warm(ctx, []types.TypeID{e.class("test.B")}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Warm on cancelled context = %v", err)
	}
}

func TestNewFromConfig(t *testing.T) {
	cfg, err := config.Parse(`
[equality]
annotations = true

[closure]
cache_size = 8
dedup_type_vars = true
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	e := newEnv(t, typeops.Options{})
	ts, err := typeops.NewFromConfig(e.u, cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	defer ts.Close()
	if !e.u.AnnotationsInEquality() {
		t.Fatalf("annotation equality was not applied")
	}
	if ts.Tracer() != trace.Nop {
		t.Fatalf("tracing is off by default, got %T", ts.Tracer())
	}
	str := e.class("java.lang.String")
	if e.u.Equal(e.u.WithAnnotations(str, "NonNull"), str) {
		t.Fatalf("annotated type equal to plain type with annotation equality on")
	}

	bad := config.Default()
	bad.Closure.CacheSize = -1
	if _, err := typeops.NewFromConfig(e.u, bad); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("NewFromConfig with negative cache size = %v", err)
	}
}

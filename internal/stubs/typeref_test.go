package stubs

import (
	"errors"
	"testing"
)

func TestParseTypeRef(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"String", "String"},
		{"java.util.Map<K, ? extends V>[]", "java.util.Map<K,? extends V>[]"},
		{"List<? super Integer>", "List<? super Integer>"},
		{"List<?>", "List<?>"},
		{"int[][]", "int[][]"},
		{"void", "void"},
		{"Outer<String>.Inner<T>", "Outer<String>.Inner<T>"},
		{"@NonNull String", "@NonNull String"},
		{"@javax.annotation.Nullable List<@A T>", "@javax.annotation.Nullable List<@A T>"},
		{"Box<int[]>", "Box<int[]>"},
		{"  Map<K,List<V>>  ", "Map<K,List<V>>"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r, err := parseTypeRef(tt.in)
			if err != nil {
				t.Fatalf("parseTypeRef(%q): %v", tt.in, err)
			}
			if got := r.String(); got != tt.want {
				t.Fatalf("parseTypeRef(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseTypeRefErrors(t *testing.T) {
	for _, in := range []string{
		"",
		"List<>",
		"List<int>",
		"?",
		"List<String",
		"List<String>>",
		"a..b",
		"List<? extends int>",
		"void[]",
		"Map<K;V>",
		"String[",
		"@ String",
	} {
		t.Run(in, func(t *testing.T) {
			if _, err := parseTypeRef(in); !errors.Is(err, ErrSyntax) {
				t.Fatalf("parseTypeRef(%q) error = %v, want ErrSyntax", in, err)
			}
		})
	}
}

func TestParseTypeParam(t *testing.T) {
	tests := []struct {
		in     string
		name   string
		bounds []string
	}{
		{"T", "T", nil},
		{"E extends Comparable<E>", "E", []string{"Comparable<E>"}},
		{"T extends Number & Comparable<T> & java.io.Serializable", "T", []string{"Number", "Comparable<T>", "java.io.Serializable"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := parseTypeParam(tt.in)
			if err != nil {
				t.Fatalf("parseTypeParam(%q): %v", tt.in, err)
			}
			if d.name != tt.name || len(d.bounds) != len(tt.bounds) {
				t.Fatalf("parseTypeParam(%q) = %s with %d bounds", tt.in, d.name, len(d.bounds))
			}
			for i, b := range d.bounds {
				if b.String() != tt.bounds[i] {
					t.Fatalf("bound %d = %s, want %s", i, b, tt.bounds[i])
				}
			}
		})
	}
	for _, in := range []string{"T extends", "T extends int", "T extends String[]", "T super Number", "<T>"} {
		if _, err := parseTypeParam(in); !errors.Is(err, ErrSyntax) {
			t.Fatalf("parseTypeParam(%q) error = %v, want ErrSyntax", in, err)
		}
	}
}

func TestLexerNormalizesIdentifiers(t *testing.T) {
	r, err := parseTypeRef("Cafe\u0301")
	if err != nil {
		t.Fatalf("parseTypeRef: %v", err)
	}
	if got := r.segs[0].name; got != "Caf\u00e9" {
		t.Fatalf("identifier not normalized: %q", got)
	}
}

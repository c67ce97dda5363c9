// Package stubs builds declarations into a types.Universe from TOML stub
// manifests.
//
// A manifest lists classes by qualified name together with their type
// parameters, supertypes and members, whose types are written as source
// type references ("java.util.Map<K,? extends V>[]"). Construction runs in
// two phases so that declarations may refer to each other in any order:
// every class skeleton is allocated first, then bounds, supertypes and
// members are resolved, and finally the hierarchy is checked for cycles.
package stubs

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/unicode/norm"
)

// Manifest is a decoded stub manifest.
type Manifest struct {
	Classes []Class `toml:"class" msgpack:"classes"`
}

// Class declares one class-like type.
type Class struct {
	Name        string   `toml:"name" msgpack:"name"` // qualified, or simple when Outer is set
	Kind        string   `toml:"kind" msgpack:"kind"` // class|interface|enum|record|annotation
	Modifiers   []string `toml:"modifiers" msgpack:"modifiers"`
	Annotations []string `toml:"annotations" msgpack:"annotations"`
	TypeParams  []string `toml:"type_params" msgpack:"type_params"`
	Extends     string   `toml:"extends" msgpack:"extends"`
	Implements  []string `toml:"implements" msgpack:"implements"`
	Permits     []string `toml:"permits" msgpack:"permits"`
	Outer       string   `toml:"outer" msgpack:"outer"`

	Fields       []Variable `toml:"field" msgpack:"fields"`
	Methods      []Method   `toml:"method" msgpack:"methods"`
	Constructors []Method   `toml:"constructor" msgpack:"constructors"`
	Components   []Variable `toml:"component" msgpack:"components"`
	Constants    []string   `toml:"constants" msgpack:"constants"`
}

// Variable declares a field or record component.
type Variable struct {
	Name      string   `toml:"name" msgpack:"name"`
	Type      string   `toml:"type" msgpack:"type"`
	Modifiers []string `toml:"modifiers" msgpack:"modifiers"`
}

// Method declares a method or constructor.
type Method struct {
	Name       string   `toml:"name" msgpack:"name"`
	Modifiers  []string `toml:"modifiers" msgpack:"modifiers"`
	TypeParams []string `toml:"type_params" msgpack:"type_params"`
	Params     []string `toml:"params" msgpack:"params"`
	Returns    string   `toml:"returns" msgpack:"returns"`
	Throws     []string `toml:"throws" msgpack:"throws"`
}

// Decode parses a manifest from TOML text.
func Decode(data string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.Decode(data, &m)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys %s", ErrInvalidManifest, strings.Join(keys, ", "))
	}
	m.normalize()
	return &m, nil
}

// normalize trims names and brings them to NFC.
func (m *Manifest) normalize() {
	for i := range m.Classes {
		c := &m.Classes[i]
		c.Name = normName(c.Name)
		c.Outer = normName(c.Outer)
		c.Kind = strings.ToLower(strings.TrimSpace(c.Kind))
		for j := range c.Fields {
			c.Fields[j].Name = normName(c.Fields[j].Name)
		}
		for j := range c.Components {
			c.Components[j].Name = normName(c.Components[j].Name)
		}
		for j := range c.Methods {
			c.Methods[j].Name = normName(c.Methods[j].Name)
		}
		for j := range c.Constants {
			c.Constants[j] = normName(c.Constants[j])
		}
	}
}

func normName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// splitQualified splits "a.b.C" into "a.b" and "C".
func splitQualified(name string) (pkg, simple string) {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

package stubs

import (
	"fmt"
	"strings"
)

type refKind uint8

const (
	refNamed refKind = iota
	refPrimitive
	refWildcard
)

// typeRef is a parsed, unresolved type reference.
type typeRef struct {
	kind  refKind
	annos []string
	segs  []segment // refNamed: dotted name, arguments per segment
	prim  string    // refPrimitive: primitive keyword or "void"
	bound *typeRef  // refWildcard: nil when unbounded
	super bool
	dims  int
}

type segment struct {
	name    string
	args    []*typeRef
	generic bool
}

// typeParamDecl is a parsed "T extends A & B" declaration.
type typeParamDecl struct {
	name   string
	bounds []*typeRef
}

func (r *typeRef) String() string {
	var sb strings.Builder
	r.write(&sb)
	return sb.String()
}

func (r *typeRef) write(sb *strings.Builder) {
	for _, a := range r.annos {
		sb.WriteString("@" + a + " ")
	}
	switch r.kind {
	case refPrimitive:
		sb.WriteString(r.prim)
	case refWildcard:
		sb.WriteString("?")
		if r.bound != nil {
			if r.super {
				sb.WriteString(" super ")
			} else {
				sb.WriteString(" extends ")
			}
			r.bound.write(sb)
		}
	default:
		for i, s := range r.segs {
			if i > 0 {
				sb.WriteString(".")
			}
			sb.WriteString(s.name)
			if s.generic {
				sb.WriteString("<")
				for j, a := range s.args {
					if j > 0 {
						sb.WriteString(",")
					}
					a.write(sb)
				}
				sb.WriteString(">")
			}
		}
	}
	for range r.dims {
		sb.WriteString("[]")
	}
}

var primitiveNames = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true,
}

type parser struct {
	src string
	lx  lexer
	tok token
}

func newParser(src string) (*parser, error) {
	p := &parser{src: src, lx: lexer{src: src}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *parser) advance() error {
	tok, err := p.lx.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s at offset %d in %q", ErrSyntax, fmt.Sprintf(format, args...), p.tok.off, p.src)
}

func (p *parser) expect(k tokKind) (token, error) {
	if p.tok.kind != k {
		return token{}, p.errorf("expected %s, found %s", k, p.tok.kind)
	}
	tok := p.tok
	return tok, p.advance()
}

func (p *parser) expectEOF() error {
	if p.tok.kind != tokEOF {
		return p.errorf("unexpected %s", p.tok.kind)
	}
	return nil
}

// parseTypeRef parses a complete type reference such as
// "java.util.Map<K,? extends V>[]".
func parseTypeRef(src string) (*typeRef, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	r, err := p.parseType(false)
	if err != nil {
		return nil, err
	}
	return r, p.expectEOF()
}

// parseTypeParam parses a type parameter declaration such as
// "T extends Comparable<T> & java.io.Serializable".
func parseTypeParam(src string) (typeParamDecl, error) {
	p, err := newParser(src)
	if err != nil {
		return typeParamDecl{}, err
	}
	name, err := p.expect(tokIdent)
	if err != nil {
		return typeParamDecl{}, err
	}
	decl := typeParamDecl{name: name.text}
	if p.tok.kind == tokIdent && p.tok.text == "extends" {
		if err := p.advance(); err != nil {
			return typeParamDecl{}, err
		}
		for {
			b, err := p.parseType(false)
			if err != nil {
				return typeParamDecl{}, err
			}
			if b.kind == refPrimitive || b.dims > 0 {
				return typeParamDecl{}, p.errorf("bound %s is not a class or type variable", b)
			}
			decl.bounds = append(decl.bounds, b)
			if p.tok.kind != tokAmp {
				break
			}
			if err := p.advance(); err != nil {
				return typeParamDecl{}, err
			}
		}
	}
	return decl, p.expectEOF()
}

func (p *parser) parseType(wildcardOK bool) (*typeRef, error) {
	annos, err := p.parseAnnotations()
	if err != nil {
		return nil, err
	}
	if p.tok.kind == tokQuestion {
		if !wildcardOK {
			return nil, p.errorf("wildcard outside a type argument list")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		r := &typeRef{kind: refWildcard, annos: annos}
		if p.tok.kind == tokIdent && (p.tok.text == "extends" || p.tok.text == "super") {
			r.super = p.tok.text == "super"
			if err := p.advance(); err != nil {
				return nil, err
			}
			if r.bound, err = p.parseType(false); err != nil {
				return nil, err
			}
			if r.bound.kind == refPrimitive && r.bound.dims == 0 {
				return nil, p.errorf("wildcard bound %s is primitive", r.bound)
			}
		}
		return r, nil
	}
	if p.tok.kind != tokIdent {
		return nil, p.errorf("expected a type, found %s", p.tok.kind)
	}

	r := &typeRef{annos: annos}
	if primitiveNames[p.tok.text] || p.tok.text == "void" {
		r.kind = refPrimitive
		r.prim = p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
	} else {
		for {
			seg := segment{name: p.tok.text}
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.tok.kind == tokLT {
				seg.generic = true
				if seg.args, err = p.parseArgs(); err != nil {
					return nil, err
				}
			}
			r.segs = append(r.segs, seg)
			if p.tok.kind != tokDot {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.tok.kind != tokIdent {
				return nil, p.errorf("expected a name after '.', found %s", p.tok.kind)
			}
		}
	}

	for p.tok.kind == tokLBracket {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRBracket); err != nil {
			return nil, err
		}
		r.dims++
	}
	if r.prim == "void" && r.dims > 0 {
		return nil, p.errorf("array of void")
	}
	return r, nil
}

func (p *parser) parseArgs() ([]*typeRef, error) {
	if _, err := p.expect(tokLT); err != nil {
		return nil, err
	}
	if p.tok.kind == tokGT {
		return nil, p.errorf("empty type argument list")
	}
	var args []*typeRef
	for {
		a, err := p.parseType(true)
		if err != nil {
			return nil, err
		}
		if a.kind == refPrimitive && a.dims == 0 {
			return nil, p.errorf("primitive type argument %s", a)
		}
		args = append(args, a)
		if p.tok.kind != tokComma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(tokGT); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) parseAnnotations() ([]string, error) {
	var annos []string
	for p.tok.kind == tokAt {
		if err := p.advance(); err != nil {
			return nil, err
		}
		name, err := p.expect(tokIdent)
		if err != nil {
			return nil, err
		}
		parts := []string{name.text}
		for p.tok.kind == tokDot {
			if err := p.advance(); err != nil {
				return nil, err
			}
			next, err := p.expect(tokIdent)
			if err != nil {
				return nil, err
			}
			parts = append(parts, next.text)
		}
		annos = append(annos, strings.Join(parts, "."))
	}
	return annos, nil
}

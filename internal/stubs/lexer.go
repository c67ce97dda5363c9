package stubs

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

type tokKind uint8

const (
	tokEOF tokKind = iota
	tokIdent
	tokLT       // <
	tokGT       // >
	tokComma    // ,
	tokDot      // .
	tokLBracket // [
	tokRBracket // ]
	tokQuestion // ?
	tokAmp      // &
	tokAt       // @
)

var tokNames = [...]string{
	tokEOF:      "end of input",
	tokIdent:    "identifier",
	tokLT:       "'<'",
	tokGT:       "'>'",
	tokComma:    "','",
	tokDot:      "'.'",
	tokLBracket: "'['",
	tokRBracket: "']'",
	tokQuestion: "'?'",
	tokAmp:      "'&'",
	tokAt:       "'@'",
}

func (k tokKind) String() string {
	if int(k) < len(tokNames) {
		return tokNames[k]
	}
	return fmt.Sprintf("tokKind(%d)", k)
}

type token struct {
	kind tokKind
	text string
	off  int
}

// lexer splits a type reference into tokens. Identifiers are returned in
// NFC so that differently composed spellings of a name resolve alike.
type lexer struct {
	src string
	off int
}

func (lx *lexer) next() (token, error) {
	for lx.off < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[lx.off:])
		if !unicode.IsSpace(r) {
			break
		}
		lx.off += size
	}
	if lx.off >= len(lx.src) {
		return token{kind: tokEOF, off: lx.off}, nil
	}
	start := lx.off
	r, size := utf8.DecodeRuneInString(lx.src[lx.off:])
	if isIdentStart(r) {
		lx.off += size
		for lx.off < len(lx.src) {
			r, size = utf8.DecodeRuneInString(lx.src[lx.off:])
			if !isIdentPart(r) {
				break
			}
			lx.off += size
		}
		return token{kind: tokIdent, text: norm.NFC.String(lx.src[start:lx.off]), off: start}, nil
	}
	lx.off += size
	var kind tokKind
	switch r {
	case '<':
		kind = tokLT
	case '>':
		kind = tokGT
	case ',':
		kind = tokComma
	case '.':
		kind = tokDot
	case '[':
		kind = tokLBracket
	case ']':
		kind = tokRBracket
	case '?':
		kind = tokQuestion
	case '&':
		kind = tokAmp
	case '@':
		kind = tokAt
	default:
		return token{}, fmt.Errorf("%w: unexpected %q at offset %d in %q", ErrSyntax, r, start, lx.src)
	}
	return token{kind: kind, text: lx.src[start:lx.off], off: start}, nil
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r)
}

package types

import (
	"strconv"
	"strings"
)

// Label returns a source-like rendering of a type, for diagnostics,
// tracing and tests.
func Label(u *Universe, id TypeID) string {
	var sb strings.Builder
	labelDepth(u, &sb, id, 0)
	return sb.String()
}

// Labels renders a list of types as "[A, B, C]".
func Labels(u *Universe, ids []TypeID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = Label(u, id)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func labelDepth(u *Universe, sb *strings.Builder, id TypeID, depth int) {
	if id == NoTypeID {
		sb.WriteString("?")
		return
	}
	if depth > 8 {
		sb.WriteString("...")
		return
	}
	tt, ok := u.Lookup(id)
	if !ok {
		sb.WriteString("?")
		return
	}
	for _, a := range u.Annotations(id) {
		sb.WriteString("@")
		sb.WriteString(a)
		sb.WriteString(" ")
	}
	switch tt.Kind {
	case KindArray:
		labelDepth(u, sb, tt.Elem, depth+1)
		sb.WriteString("[]")
	case KindDeclared:
		labelDeclared(u, sb, id, depth)
	case KindTypeVar:
		info := u.MustTypeVar(id)
		if info.Synthetic() {
			sb.WriteString("capture#")
			sb.WriteString(strconv.FormatUint(uint64(tt.Payload), 10))
			sb.WriteString(" of ")
			labelDepth(u, sb, info.CapturedFrom, depth+1)
			return
		}
		sb.WriteString(u.SimpleName(info.Element))
	case KindWildcard:
		info, _ := u.WildcardInfo(id)
		sb.WriteString("?")
		if info.Extends != NoTypeID {
			sb.WriteString(" extends ")
			labelDepth(u, sb, info.Extends, depth+1)
		}
		if info.Super != NoTypeID {
			sb.WriteString(" super ")
			labelDepth(u, sb, info.Super, depth+1)
		}
	case KindIntersection, KindUnion:
		sep := " & "
		if tt.Kind == KindUnion {
			sep = " | "
		}
		for i, m := range u.Members(id) {
			if i > 0 {
				sb.WriteString(sep)
			}
			labelDepth(u, sb, m, depth+1)
		}
	case KindExecutable:
		info, _ := u.ExecutableInfo(id)
		if len(info.TypeVars) > 0 {
			sb.WriteString("<")
			labelList(u, sb, info.TypeVars, depth)
			sb.WriteString(">")
		}
		sb.WriteString("(")
		labelList(u, sb, info.Params, depth)
		sb.WriteString(")")
		labelDepth(u, sb, info.Return, depth+1)
		if len(info.Thrown) > 0 {
			sb.WriteString(" throws ")
			labelList(u, sb, info.Thrown, depth)
		}
	case KindNone:
		sb.WriteString("none")
	case KindNull:
		sb.WriteString("null")
	case KindError:
		sb.WriteString("<error>")
	default:
		sb.WriteString(tt.Kind.String())
	}
}

func labelDeclared(u *Universe, sb *strings.Builder, id TypeID, depth int) {
	info := u.MustDeclared(id)
	if k := u.KindOf(info.Enclosing); k == KindDeclared || k == KindError {
		labelDepth(u, sb, info.Enclosing, depth+1)
		sb.WriteString(".")
		sb.WriteString(u.SimpleName(info.Element))
	} else {
		sb.WriteString(u.QualifiedName(info.Element))
	}
	if len(info.Args) > 0 {
		sb.WriteString("<")
		labelList(u, sb, info.Args, depth)
		sb.WriteString(">")
	}
}

func labelList(u *Universe, sb *strings.Builder, ids []TypeID, depth int) {
	for i, id := range ids {
		if i > 0 {
			sb.WriteString(",")
		}
		labelDepth(u, sb, id, depth+1)
	}
}

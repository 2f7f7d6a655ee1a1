// Package docid derives the canonical documentation-comment identifiers
// ("T:", "M:", "P:") used to look up authored comments.
//
// The grammar is fixed by the comment corpora compilers emit, so every rule
// here is exact: lookups never fall back to fuzzy matching.
package docid

import (
	"strconv"
	"strings"

	"git.home.luguber.info/inful/refdoc/internal/symbols"
)

// Prefixes by symbol kind.
const (
	TypePrefix     = "T:"
	MethodPrefix   = "M:"
	PropertyPrefix = "P:"
)

// ForType returns "T:Namespace.Outer`1.Name`2".
func ForType(t *symbols.Type) string {
	return TypePrefix + typePath(t)
}

// ForMethod returns the ID of a method or constructor, e.g.
// "M:NS.Box`1.#ctor(`0)" or "M:NS.Box`1.Map``1(System.Func{`0,``0})".
func ForMethod(m *symbols.Method) string {
	var b strings.Builder
	b.WriteString(MethodPrefix)
	b.WriteString(typePath(m.DeclaringType))
	b.WriteByte('.')
	b.WriteString(escapeMember(m.Name))
	if m.IsGeneric() {
		b.WriteString("``")
		b.WriteString(strconv.Itoa(len(m.GenericParameters)))
	}
	writeParameters(&b, m.Parameters, scope{method: m, typ: m.DeclaringType})
	return b.String()
}

// ForProperty returns the ID of a property; indexers carry a parameter list.
func ForProperty(p *symbols.Property) string {
	var b strings.Builder
	b.WriteString(PropertyPrefix)
	b.WriteString(typePath(p.DeclaringType))
	b.WriteByte('.')
	b.WriteString(escapeMember(p.Name))
	writeParameters(&b, p.Parameters, scope{typ: p.DeclaringType})
	return b.String()
}

// ForTypeRef returns the "T:" ID of a named reference, or "" for generic
// parameters, arrays and by-ref wrappers, which have no type ID of their own.
func ForTypeRef(r *symbols.TypeRef) string {
	if r == nil || r.Kind != symbols.RefNamed {
		return ""
	}
	if r.Resolved != nil {
		return ForType(r.Resolved)
	}
	return TypePrefix + strings.ReplaceAll(r.FullName(), "+", ".")
}

// typePath is the namespace plus enclosing chain joined by '.', each segment
// carrying its own arity suffix.
func typePath(t *symbols.Type) string {
	var b strings.Builder
	if t.Namespace != "" {
		b.WriteString(t.Namespace)
		b.WriteByte('.')
	}
	for _, e := range t.EnclosingChain() {
		b.WriteString(e.ClrName())
		b.WriteByte('.')
	}
	b.WriteString(t.ClrName())
	return b.String()
}

// escapeMember maps '.' to '#': ".ctor" becomes "#ctor" and explicit
// interface implementations keep a single member segment.
func escapeMember(name string) string {
	return strings.ReplaceAll(name, ".", "#")
}

// scope holds the generic parameter lists back-references index into.
type scope struct {
	method *symbols.Method
	typ    *symbols.Type
}

func writeParameters(b *strings.Builder, params []*symbols.Parameter, sc scope) {
	if len(params) == 0 {
		return
	}
	b.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			b.WriteByte(',')
		}
		writeRef(b, p.Type, sc)
	}
	b.WriteByte(')')
}

func writeRef(b *strings.Builder, r *symbols.TypeRef, sc scope) {
	switch r.Kind {
	case symbols.RefByRef:
		writeRef(b, r.Element, sc)
		b.WriteByte('@')
	case symbols.RefArray:
		writeRef(b, r.Element, sc)
		writeRank(b, r.Rank)
	case symbols.RefGenericParameter:
		b.WriteString(backReference(r.Name, sc))
	default:
		writeNamed(b, r, sc)
	}
}

func writeRank(b *strings.Builder, rank int) {
	if rank <= 1 {
		b.WriteString("[]")
		return
	}
	b.WriteByte('[')
	for i := 0; i < rank; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString("0:")
	}
	b.WriteByte(']')
}

// writeNamed renders a named reference. A closed generic drops every arity
// suffix and lists its arguments in braces.
func writeNamed(b *strings.Builder, r *symbols.TypeRef, sc scope) {
	if len(r.Args) == 0 {
		b.WriteString(strings.ReplaceAll(r.FullName(), "+", "."))
		return
	}
	if r.Namespace != "" {
		b.WriteString(r.Namespace)
		b.WriteByte('.')
	}
	for _, e := range r.Enclosing {
		b.WriteString(stripArity(e))
		b.WriteByte('.')
	}
	b.WriteString(r.Name)
	b.WriteByte('{')
	for i, a := range r.Args {
		if i > 0 {
			b.WriteByte(',')
		}
		writeRef(b, a, sc)
	}
	b.WriteByte('}')
}

// backReference resolves an unbound generic parameter name to its positional
// form. Method scope is searched first, then the declaring type's full
// parameter list (enclosing types' parameters included). An unknown name is
// emitted as-is.
func backReference(name string, sc scope) string {
	if sc.method != nil {
		for i, gp := range sc.method.GenericParameters {
			if gp.Name == name {
				return "``" + strconv.Itoa(i)
			}
		}
	}
	if sc.typ != nil {
		for i, gp := range sc.typ.AllGenericParameters() {
			if gp.Name == name {
				return "`" + strconv.Itoa(i)
			}
		}
	}
	return name
}

func stripArity(segment string) string {
	if i := strings.IndexByte(segment, '`'); i >= 0 {
		return segment[:i]
	}
	return segment
}

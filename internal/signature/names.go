package signature

import (
	"strings"

	"git.home.luguber.info/inful/refdoc/internal/symbols"
	"git.home.luguber.info/inful/refdoc/internal/util/sets"
)

// TypeName renders a type reference. By-ref wrappers are dropped: the passing
// mode keyword belongs to the parameter list.
func TypeName(r *symbols.TypeRef, ctx Context) string {
	var b strings.Builder
	writeTypeName(&b, r, ctx)
	return b.String()
}

func writeTypeName(b *strings.Builder, r *symbols.TypeRef, ctx Context) {
	switch r.Kind {
	case symbols.RefByRef:
		writeTypeName(b, r.Element, ctx)
		return
	case symbols.RefArray:
		writeTypeName(b, r.Element, ctx)
		b.WriteByte('[')
		b.WriteString(strings.Repeat(",", r.Rank-1))
		b.WriteByte(']')
		return
	case symbols.RefGenericParameter:
		b.WriteString(r.Name)
		return
	}
	if ctx.AliasPrimitives && len(r.Args) == 0 {
		if a, ok := aliases[r.FullName()]; ok {
			b.WriteString(a)
			return
		}
	}
	b.WriteString(r.Name)
	own := r.OwnArgs()
	if len(own) == 0 {
		return
	}
	b.WriteString(ctx.Open)
	for i, a := range own {
		if i > 0 {
			b.WriteByte(',')
		}
		writeTypeName(b, a, ctx)
	}
	b.WriteString(ctx.Close)
}

// TypeSymbolName renders a declared type with its own generic parameters,
// e.g. "Box<T>".
func TypeSymbolName(t *symbols.Type, ctx Context) string {
	if ctx.AliasPrimitives {
		if a, ok := aliases[t.FullName()]; ok {
			return a
		}
	}
	return t.Name + genericBlock(t.GenericParameters, ctx)
}

// QualifiedTypeName prefixes the enclosing chain, e.g. "Outer<T>.Inner".
func QualifiedTypeName(t *symbols.Type, ctx Context) string {
	var b strings.Builder
	for _, e := range t.EnclosingChain() {
		b.WriteString(TypeSymbolName(e, ctx))
		b.WriteByte('.')
	}
	b.WriteString(TypeSymbolName(t, ctx))
	return b.String()
}

func genericBlock(params []*symbols.GenericParameter, ctx Context) string {
	if len(params) == 0 {
		return ""
	}
	names := make([]string, len(params))
	for i, gp := range params {
		names[i] = gp.Name
	}
	return ctx.Open + strings.Join(names, ",") + ctx.Close
}

// MemberName renders a method name: constructors use the declaring type's
// simple name, and generic methods carry their own parameter block.
func MemberName(m *symbols.Method, ctx Context) string {
	name := m.Name
	if m.IsConstructor() {
		name = m.DeclaringType.Name
	}
	return name + genericBlock(m.GenericParameters, ctx)
}

// ParameterList renders "(mode Type name, ...)". Names appear only when the
// context includes them.
func ParameterList(m *symbols.Method, ctx Context) string {
	return parameters(m.Parameters, ctx, true)
}

// ParameterTypes renders "(Type, ...)" without modes or names, the form used
// in titles and overload tables.
func ParameterTypes(m *symbols.Method, ctx Context) string {
	ctx.IncludeParameterNames = false
	return parameters(m.Parameters, ctx, false)
}

func parameters(params []*symbols.Parameter, ctx Context, modes bool) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		writeParameter(&b, p, ctx, modes)
	}
	b.WriteByte(')')
	return b.String()
}

func writeParameter(b *strings.Builder, p *symbols.Parameter, ctx Context, modes bool) {
	if modes {
		switch p.Mode {
		case symbols.In:
			b.WriteString("in ")
		case symbols.Out:
			b.WriteString("out ")
		case symbols.Ref:
			b.WriteString("ref ")
		}
	}
	writeTypeName(b, p.Type, ctx)
	if ctx.IncludeParameterNames {
		b.WriteByte(' ')
		b.WriteString(p.Name)
	}
}

// Signature renders the call form of a method: constructors as
// "Box<T>(T value)", methods as "Map<TResult>(Func<T,TResult> selector)".
func Signature(m *symbols.Method, ctx Context) string {
	if m.IsConstructor() {
		return TypeSymbolName(m.DeclaringType, ctx) + ParameterList(m, ctx)
	}
	return MemberName(m, ctx) + ParameterList(m, ctx)
}

// InheritanceChain renders the base types from the root ancestor down to t
// itself, t last.
func InheritanceChain(t *symbols.Type, ctx Context) []string {
	chain := t.InheritanceChain()
	out := make([]string, 0, len(chain)+1)
	for _, r := range chain {
		out = append(out, TypeName(r, ctx))
	}
	return append(out, TypeSymbolName(t, ctx))
}

// InterfaceList returns the interfaces t newly introduces: every implemented
// interface minus those reachable through another implemented interface and
// minus those the base type already implements. Model order is kept.
func InterfaceList(t *symbols.Type) []*symbols.TypeRef {
	all := t.AllInterfaces()
	inherited := sets.New[string]()
	for _, iface := range all {
		if iface.Resolved == nil {
			continue
		}
		bindings := symbols.Bindings(iface)
		for _, r := range iface.Resolved.AllInterfaces() {
			inherited.Add(r.Substitute(bindings).String())
		}
	}
	if t.Base != nil && t.Base.Resolved != nil {
		bindings := symbols.Bindings(t.Base)
		for _, r := range t.Base.Resolved.AllInterfaces() {
			inherited.Add(r.Substitute(bindings).String())
		}
	}
	out := make([]*symbols.TypeRef, 0, len(all))
	for _, iface := range all {
		if !inherited.Has(iface.String()) {
			out = append(out, iface)
		}
	}
	return out
}

// ShortName is the best-effort display of a reference that cannot be
// resolved: the last dotted segment with any arity suffix removed.
func ShortName(name string) string {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndexAny(name, ".+"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexByte(name, '`'); i >= 0 {
		name = name[:i]
	}
	return name
}

package signature

import (
	"strings"

	"git.home.luguber.info/inful/refdoc/internal/symbols"
)

// Base classes never shown in a declaration.
var implicitBases = map[string]bool{
	"System.Object":    true,
	"System.ValueType": true,
	"System.Enum":      true,
	"System.Delegate":  true,
}

func visibilityKeyword(v symbols.Visibility) string {
	if v == symbols.Protected {
		return "protected"
	}
	return "public"
}

// KindKeyword is the declaration keyword of a type kind, e.g. "class".
func KindKeyword(t *symbols.Type) string {
	return string(t.Kind)
}

// KindTitle is the capitalized kind used in page titles, e.g. "Class".
func KindTitle(t *symbols.Type) string {
	switch t.Kind {
	case symbols.KindStruct:
		return "Struct"
	case symbols.KindInterface:
		return "Interface"
	case symbols.KindEnum:
		return "Enum"
	case symbols.KindDelegate:
		return "Delegate"
	default:
		return "Class"
	}
}

func typeModifier(t *symbols.Type) string {
	switch t.Kind {
	case symbols.KindClass:
		switch {
		case t.Static || (t.Sealed && t.Abstract):
			return " static"
		case t.Sealed:
			return " sealed"
		case t.Abstract:
			return " abstract"
		}
	case symbols.KindStruct:
		if t.ReadOnly {
			return " readonly"
		}
	}
	return ""
}

// SignatureBlock renders the declaration line of a method or constructor.
// Interface members carry no static/abstract/virtual keyword, and new-slot
// members never render as virtual.
func SignatureBlock(m *symbols.Method, ownerIsInterface bool) string {
	var b strings.Builder
	b.WriteString(visibilityKeyword(m.Visibility))
	if !ownerIsInterface {
		switch {
		case m.Static:
			b.WriteString(" static")
		case m.Abstract:
			b.WriteString(" abstract")
		case m.Virtual && !m.Sealed && !m.NewSlot:
			b.WriteString(" virtual")
		}
	}
	b.WriteByte(' ')
	if !m.IsConstructor() {
		if m.Return == nil {
			b.WriteString("void")
		} else {
			b.WriteString(TypeName(m.Return, Code))
		}
		b.WriteByte(' ')
	}
	b.WriteString(MemberName(m, Code))
	b.WriteString(ParameterList(m, Code))
	return b.String()
}

// TypeDeclaration renders e.g. "public sealed class Box<T> : Base, IFoo<T>".
// Delegates render through DelegateDeclaration.
func TypeDeclaration(t *symbols.Type) string {
	if t.IsDelegate() {
		return DelegateDeclaration(t)
	}
	var b strings.Builder
	b.WriteString(visibilityKeyword(t.Visibility))
	b.WriteString(typeModifier(t))
	b.WriteByte(' ')
	b.WriteString(KindKeyword(t))
	b.WriteByte(' ')
	b.WriteString(TypeSymbolName(t, Code))

	var bases []string
	if t.Base != nil && !implicitBases[t.Base.FullName()] {
		bases = append(bases, TypeName(t.Base, Code))
	}
	for _, iface := range InterfaceList(t) {
		bases = append(bases, TypeName(iface, Code))
	}
	if len(bases) > 0 {
		b.WriteString(" : ")
		b.WriteString(strings.Join(bases, ", "))
	}
	return b.String()
}

// DelegateDeclaration renders e.g. "public delegate bool Predicate<T>(T obj)"
// from the delegate's Invoke method.
func DelegateDeclaration(t *symbols.Type) string {
	var b strings.Builder
	b.WriteString(visibilityKeyword(t.Visibility))
	b.WriteString(" delegate ")
	invoke, ok := t.DelegateInvoke()
	if !ok || invoke.Return == nil {
		b.WriteString("void")
	} else {
		b.WriteString(TypeName(invoke.Return, Code))
	}
	b.WriteByte(' ')
	b.WriteString(TypeSymbolName(t, Code))
	if ok {
		b.WriteString(ParameterList(invoke, Code))
	} else {
		b.WriteString("()")
	}
	return b.String()
}

// PropertyDeclaration renders e.g. "public int Count { get; set; }".
// Indexers render as "this[int index]".
func PropertyDeclaration(p *symbols.Property, ownerIsInterface bool) string {
	var b strings.Builder
	b.WriteString(visibilityKeyword(p.Visibility))
	if !ownerIsInterface {
		switch {
		case p.Static:
			b.WriteString(" static")
		case p.Abstract:
			b.WriteString(" abstract")
		case p.Virtual:
			b.WriteString(" virtual")
		}
	}
	b.WriteByte(' ')
	b.WriteString(TypeName(p.Type, Code))
	b.WriteByte(' ')
	if len(p.Parameters) > 0 {
		b.WriteString("this")
		list := parameters(p.Parameters, Code, true)
		b.WriteByte('[')
		b.WriteString(list[1 : len(list)-1])
		b.WriteByte(']')
	} else {
		b.WriteString(p.Name)
	}
	b.WriteString(" {")
	if p.Get {
		b.WriteString(" get;")
	}
	if p.Set {
		b.WriteString(" set;")
	}
	b.WriteString(" }")
	return b.String()
}

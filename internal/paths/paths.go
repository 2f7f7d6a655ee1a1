// Package paths derives the relative output file of every page.
//
// Paths are lower-cased CLR names with '+' (nesting) and '`' (arity) mapped
// to '-'. Parameter information never contributes, so overloads merged onto
// one page share its path.
package paths

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/refdoc/internal/symbols"
)

// Ext is the page file extension.
const Ext = ".md"

// EmptyNamespace is the file stem of the global namespace page.
const EmptyNamespace = "empty-namespace"

// lower applies invariant-culture lower-casing. A Caser is stateful, so one
// is made per call.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

func normaliseType(t *symbols.Type) string {
	r := strings.NewReplacer("+", "-", "`", "-")
	return lower(r.Replace(t.FullName()))
}

func memberSegment(name string) string {
	return lower(strings.ReplaceAll(name, ".", "-"))
}

// TypeFile is the page of a type, e.g. "acme.box-1.md".
func TypeFile(t *symbols.Type) string {
	return normaliseType(t) + Ext
}

// ConstructorFile is the page shared by every constructor of t.
func ConstructorFile(t *symbols.Type) string {
	return normaliseType(t) + "." + memberSegment(symbols.ConstructorName) + Ext
}

// MethodFile is the page shared by every overload named like m. Constructors
// map to ConstructorFile.
func MethodFile(m *symbols.Method) string {
	if m.IsConstructor() {
		return ConstructorFile(m.DeclaringType)
	}
	return MethodGroupFile(m.DeclaringType, m.Name)
}

// MethodGroupFile is the page of the overload set name on t.
func MethodGroupFile(t *symbols.Type, name string) string {
	return normaliseType(t) + "." + memberSegment(name) + Ext
}

// PropertyFile is the page of a property; '.' in explicit implementations maps to '-'.
func PropertyFile(p *symbols.Property) string {
	return PropertyGroupFile(p.DeclaringType, p.Name)
}

// PropertyGroupFile is the page of property name on t.
func PropertyGroupFile(t *symbols.Type, name string) string {
	return normaliseType(t) + "." + memberSegment(name) + Ext
}

// NamespaceFile is the index page of a namespace.
func NamespaceFile(namespace string) string {
	if namespace == "" {
		return EmptyNamespace + Ext
	}
	return lower(namespace) + Ext
}

// AssemblyFile is the assembly index page, e.g. "acme.core-1.2.0.0.md".
func AssemblyFile(asm *symbols.Assembly) string {
	version := asm.Version
	if version == "" {
		version = "0.0.0.0"
	}
	return lower(asm.Name) + "-" + version + Ext
}

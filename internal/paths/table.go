package paths

import (
	"strconv"
	"strings"

	"git.home.luguber.info/inful/refdoc/internal/docid"
	"git.home.luguber.info/inful/refdoc/internal/symbols"
	"git.home.luguber.info/inful/refdoc/internal/util/sets"
)

// PageKind identifies what a page documents.
type PageKind string

const (
	PageType         PageKind = "type"
	PageConstructors PageKind = "constructors"
	PageMethods      PageKind = "methods"
	PageProperty     PageKind = "property"
	PageNamespace    PageKind = "namespace"
	PageAssembly     PageKind = "assembly"
)

// Key identifies one page independent of its file name.
type Key struct {
	Kind PageKind
	Name string
}

// TypeKey is the key of a type page.
func TypeKey(t *symbols.Type) Key { return Key{PageType, docid.ForType(t)} }

// ConstructorsKey is the key of the constructor group page of t.
func ConstructorsKey(t *symbols.Type) Key { return Key{PageConstructors, docid.ForType(t)} }

// MethodsKey is the key of the overload set name on t.
func MethodsKey(t *symbols.Type, name string) Key {
	return Key{PageMethods, docid.ForType(t) + "." + name}
}

// PropertyKey is the key of the page of property name on t. Indexer
// overloads share one page.
func PropertyKey(t *symbols.Type, name string) Key {
	return Key{PageProperty, docid.ForType(t) + "." + name}
}

// NamespaceKey is the key of a namespace index page.
func NamespaceKey(namespace string) Key { return Key{PageNamespace, namespace} }

// AssemblyKey is the key of the assembly index page.
func AssemblyKey(asm *symbols.Assembly) Key { return Key{PageAssembly, asm.Name} }

// Table assigns every page of a run a distinct path. Two keys whose derived
// paths collide (types "Alpha" and "alpha", say) are kept apart by suffixing
// the later one with "~2", "~3" and so on. A table is filled once and then
// only read.
type Table struct {
	paths map[Key]string
	used  sets.Set[string] // lower-cased assigned paths
	order []Key
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{paths: make(map[Key]string), used: sets.New[string]()}
}

// Add registers key with its derived path and returns the path actually
// assigned. Adding a key twice returns the first assignment.
func (t *Table) Add(key Key, derived string) string {
	if p, ok := t.paths[key]; ok {
		return p
	}
	assigned := derived
	stem := strings.TrimSuffix(derived, Ext)
	for n := 2; t.used.Has(lower(assigned)); n++ {
		assigned = stem + "~" + strconv.Itoa(n) + Ext
	}
	t.used.Add(lower(assigned))
	t.paths[key] = assigned
	t.order = append(t.order, key)
	return assigned
}

// Path returns the path assigned to key.
func (t *Table) Path(key Key) (string, bool) {
	p, ok := t.paths[key]
	return p, ok
}

// Keys returns every key in registration order.
func (t *Table) Keys() []Key {
	return append([]Key(nil), t.order...)
}

// Len is the number of pages in the table.
func (t *Table) Len() int { return len(t.order) }

// Paths returns the set of assigned paths.
func (t *Table) Paths() sets.Set[string] {
	out := make(sets.Set[string], len(t.paths))
	for _, p := range t.paths {
		out.Add(p)
	}
	return out
}

// MethodGroups returns the names of t's methods that get their own page, in
// declaration order of first appearance.
func MethodGroups(t *symbols.Type) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range t.Methods {
		if !m.HasOwnPage() || seen[m.Name] {
			continue
		}
		seen[m.Name] = true
		names = append(names, m.Name)
	}
	return names
}

// PropertyNames returns the distinct property names declared on t, in
// declaration order of first appearance.
func PropertyNames(t *symbols.Type) []string {
	seen := make(map[string]bool)
	var names []string
	for _, p := range t.Properties {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		names = append(names, p.Name)
	}
	return names
}

// Build fills a table for the given types, which must already be in
// emission order (namespaces ordered, types ordered within each). Each type
// page is registered before its member pages so type pages keep their plain
// names on collision; namespaces follow the types and the assembly page comes
// last when more than one namespace exists.
func Build(asm *symbols.Assembly, types []*symbols.Type) *Table {
	table := NewTable()
	var namespaces []string
	seenNS := make(map[string]bool)
	for _, t := range types {
		if !seenNS[t.Namespace] {
			seenNS[t.Namespace] = true
			namespaces = append(namespaces, t.Namespace)
		}
		table.Add(TypeKey(t), TypeFile(t))
		if !t.IsDelegate() {
			if len(t.Constructors) > 0 {
				table.Add(ConstructorsKey(t), ConstructorFile(t))
			}
			for _, name := range PropertyNames(t) {
				table.Add(PropertyKey(t, name), PropertyGroupFile(t, name))
			}
			for _, name := range MethodGroups(t) {
				table.Add(MethodsKey(t, name), MethodGroupFile(t, name))
			}
		}
	}
	for _, ns := range namespaces {
		table.Add(NamespaceKey(ns), NamespaceFile(ns))
	}
	if len(namespaces) > 1 {
		table.Add(AssemblyKey(asm), AssemblyFile(asm))
	}
	return table
}

// Package symbols is the read-only symbol model of one documented assembly:
// types, constructors, methods, properties, parameters and generic parameters.
//
// A model is built once by Load or Parse and never mutated afterwards, so it
// can be shared by concurrent page emitters without locking.
package symbols

import (
	"strings"

	ferrors "git.home.luguber.info/inful/refdoc/internal/foundation/errors"
)

// Kind is the kind of a type.
type Kind string

const (
	KindClass     Kind = "class"
	KindStruct    Kind = "struct"
	KindInterface Kind = "interface"
	KindEnum      Kind = "enum"
	KindDelegate  Kind = "delegate"
)

// Visibility of a type or member. Only public and protected members survive loading.
type Visibility string

const (
	Public    Visibility = "public"
	Protected Visibility = "protected"
	Other     Visibility = "other"
)

// Mode is a parameter passing mode.
type Mode string

const (
	ByValue Mode = "value"
	In      Mode = "in"
	Out     Mode = "out"
	Ref     Mode = "ref"
)

// ObjectType is the universal base excluded from inheritance chains.
const ObjectType = "System.Object"

// Assembly is the documented program unit plus the referenced types used to
// resolve signatures.
type Assembly struct {
	Name    string
	Version string
	File    string

	// Types are the documented types in dump order.
	Types []*Type
	// References are non-documented types (framework types) known to the model.
	References []*Type

	// Diagnostics holds one resolution error per symbol skipped or degraded while loading.
	Diagnostics []*ferrors.ClassifiedError

	byName map[string]*Type
}

// Lookup finds a type by CLR full name ("NS.Outer+Inner`1").
func (a *Assembly) Lookup(fullName string) (*Type, bool) {
	t, ok := a.byName[fullName]
	return t, ok
}

// ExportedTypes returns the documented types visible outside the assembly:
// public types whose enclosing chain is public too. Dump order is kept.
func (a *Assembly) ExportedTypes() []*Type {
	out := make([]*Type, 0, len(a.Types))
	for _, t := range a.Types {
		if t.Exported() {
			out = append(out, t)
		}
	}
	return out
}

// GenericParameter is a declared generic parameter of a type or method.
type GenericParameter struct {
	Name     string
	Position int

	// Exactly one of DeclaringType and DeclaringMethod is set.
	DeclaringType   *Type
	DeclaringMethod *Method
}

// Type is a type declaration.
type Type struct {
	Namespace  string
	Name       string // simple name, no arity suffix
	Kind       Kind
	Visibility Visibility

	Abstract bool
	Sealed   bool
	Static   bool
	ReadOnly bool

	// GenericParameters are the type's own parameters in declaration order.
	GenericParameters []*GenericParameter
	Enclosing         *Type
	Base              *TypeRef
	Interfaces        []*TypeRef

	Constructors []*Method
	Methods      []*Method
	Properties   []*Property

	// Documented is false for reference-only types.
	Documented bool
	Assembly   *Assembly

	inheritance   []*TypeRef
	allInterfaces []*TypeRef
}

// ClrName is the type's own segment, e.g. "Box`1".
func (t *Type) ClrName() string {
	return clrSegment(t.Name, len(t.GenericParameters))
}

// FullName is the CLR full name: "NS.Outer+Inner`1".
func (t *Type) FullName() string {
	if t.Enclosing != nil {
		return t.Enclosing.FullName() + "+" + t.ClrName()
	}
	if t.Namespace == "" {
		return t.ClrName()
	}
	return t.Namespace + "." + t.ClrName()
}

// EnclosingChain returns the enclosing types from outermost to innermost.
func (t *Type) EnclosingChain() []*Type {
	var chain []*Type
	for e := t.Enclosing; e != nil; e = e.Enclosing {
		chain = append([]*Type{e}, chain...)
	}
	return chain
}

// AllGenericParameters returns the enclosing types' parameters followed by the
// type's own, the order positional back-references index into.
func (t *Type) AllGenericParameters() []*GenericParameter {
	if t.Enclosing == nil {
		return t.GenericParameters
	}
	all := append([]*GenericParameter(nil), t.Enclosing.AllGenericParameters()...)
	return append(all, t.GenericParameters...)
}

// IsGeneric reports whether the type declares its own generic parameters.
func (t *Type) IsGeneric() bool { return len(t.GenericParameters) > 0 }

// IsDelegate reports whether the type is a delegate.
func (t *Type) IsDelegate() bool { return t.Kind == KindDelegate }

// IsInterface reports whether the type is an interface.
func (t *Type) IsInterface() bool { return t.Kind == KindInterface }

// Exported reports whether the type and all its enclosing types are public.
func (t *Type) Exported() bool {
	for c := t; c != nil; c = c.Enclosing {
		if c.Visibility != Public {
			return false
		}
	}
	return t.Documented
}

// SelfRef returns an open reference to the type itself, using its generic
// parameters as arguments.
func (t *Type) SelfRef() *TypeRef {
	ref := &TypeRef{Kind: RefNamed, Namespace: t.Namespace, Name: t.Name, Arity: len(t.GenericParameters), Resolved: t}
	for _, e := range t.EnclosingChain() {
		ref.Enclosing = append(ref.Enclosing, e.ClrName())
	}
	for _, gp := range t.AllGenericParameters() {
		ref.Args = append(ref.Args, GenericParam(gp.Name))
	}
	return ref
}

// InheritanceChain returns the base types from the root ancestor (excluding
// System.Object) down to the direct base. Populated once at load.
func (t *Type) InheritanceChain() []*TypeRef { return t.inheritance }

// AllInterfaces returns every interface the type implements, directly,
// through other interfaces or through its base types. Populated once at load.
func (t *Type) AllInterfaces() []*TypeRef { return t.allInterfaces }

// Method finds the first declared method with the given name.
func (t *Type) Method(name string) (*Method, bool) {
	for _, m := range t.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// DelegateInvoke returns the Invoke method carrying a delegate's signature.
func (t *Type) DelegateInvoke() (*Method, bool) {
	if !t.IsDelegate() {
		return nil, false
	}
	return t.Method("Invoke")
}

// Bindings maps the resolved type's generic parameter names onto the
// arguments of ref, for substituting through inherited declarations.
func Bindings(ref *TypeRef) map[string]*TypeRef {
	if ref == nil || ref.Resolved == nil || len(ref.Args) == 0 {
		return nil
	}
	params := ref.Resolved.AllGenericParameters()
	if len(params) != len(ref.Args) {
		return nil
	}
	out := make(map[string]*TypeRef, len(params))
	for i, gp := range params {
		out[gp.Name] = ref.Args[i]
	}
	return out
}

// InheritedMember is a member reached through the inheritance chain.
type InheritedMember[T any] struct {
	Member *T
	From   *Type
}

// InheritedMethods returns public and protected methods declared on resolved
// base types that are not redeclared by a more derived type. Constructors and
// accessors are never inherited.
func (t *Type) InheritedMethods() []InheritedMember[Method] {
	seen := make(map[string]bool)
	for _, m := range t.Methods {
		seen[m.OverrideKey()] = true
	}
	var out []InheritedMember[Method]
	for i := len(t.inheritance) - 1; i >= 0; i-- {
		base := t.inheritance[i].Resolved
		if base == nil || !base.Documented {
			continue
		}
		for _, m := range base.Methods {
			if m.SpecialName {
				continue
			}
			key := m.OverrideKey()
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, InheritedMember[Method]{Member: m, From: base})
		}
	}
	return out
}

// InheritedProperties returns properties of resolved, documented base types
// not redeclared by a more derived type.
func (t *Type) InheritedProperties() []InheritedMember[Property] {
	seen := make(map[string]bool)
	for _, p := range t.Properties {
		seen[p.Name] = true
	}
	var out []InheritedMember[Property]
	for i := len(t.inheritance) - 1; i >= 0; i-- {
		base := t.inheritance[i].Resolved
		if base == nil || !base.Documented {
			continue
		}
		for _, p := range base.Properties {
			if seen[p.Name] {
				continue
			}
			seen[p.Name] = true
			out = append(out, InheritedMember[Property]{Member: p, From: base})
		}
	}
	return out
}

// Method is a method or constructor.
type Method struct {
	// Name is ".ctor" for instance constructors and ".cctor" for static ones.
	Name          string
	DeclaringType *Type
	Visibility    Visibility

	Static      bool
	Abstract    bool
	Virtual     bool
	Sealed      bool
	NewSlot     bool
	SpecialName bool

	GenericParameters []*GenericParameter
	Parameters        []*Parameter
	// Return is nil for constructors and void methods declared without a return.
	Return *TypeRef
}

// Constructor names.
const (
	ConstructorName       = ".ctor"
	StaticConstructorName = ".cctor"
)

// IsConstructor reports whether the method is an instance or static constructor.
func (m *Method) IsConstructor() bool {
	return m.Name == ConstructorName || m.Name == StaticConstructorName
}

// IsGeneric reports whether the method declares its own generic parameters.
func (m *Method) IsGeneric() bool { return len(m.GenericParameters) > 0 }

// IsOverride reports a plain override of a base member: virtual, not new-slot.
func (m *Method) IsOverride() bool { return m.Virtual && !m.NewSlot && !m.Abstract }

// HasOwnPage reports whether the method gets a dedicated page: non-virtual,
// new-slot or abstract-defining methods only, never accessors.
func (m *Method) HasOwnPage() bool {
	if m.SpecialName || m.IsConstructor() {
		return false
	}
	return !m.Virtual || m.NewSlot || m.Abstract
}

// IsVoid reports whether the method returns nothing.
func (m *Method) IsVoid() bool {
	return m.Return == nil || (m.Return.Kind == RefNamed && m.Return.FullName() == "System.Void")
}

// OverrideKey identifies the slot a method occupies: name plus parameter types.
func (m *Method) OverrideKey() string {
	var b strings.Builder
	b.WriteString(m.Name)
	b.WriteByte('(')
	for i, p := range m.Parameters {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.Type.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Property is a property or indexer.
type Property struct {
	Name          string
	DeclaringType *Type
	Visibility    Visibility
	Type          *TypeRef

	Get bool
	Set bool

	// Parameters is non-empty for indexers.
	Parameters []*Parameter

	Static   bool
	Abstract bool
	Virtual  bool
}

// Parameter is a method, constructor or indexer parameter.
type Parameter struct {
	Name string
	Type *TypeRef
	Mode Mode
}

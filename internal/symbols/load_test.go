package symbols

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/refdoc/internal/foundation/errors"
)

const fixture = `
assembly: {name: Acme.Core, version: 1.2.0.0, file: Acme.Core.dll}
types:
  - namespace: Acme
    name: Box
    kind: class
    visibility: public
    sealed: true
    generic_parameters: [T]
    base: System.Object
    interfaces: ["Acme.IContainer` + "`" + `1<@T>"]
    constructors:
      - parameters: [{name: value, type: "@T"}]
      - visibility: private
    properties:
      - {name: Value, type: "@T", get: true}
      - {name: Hidden, type: System.Int32, get: true, visibility: internal}
    methods:
      - name: Map
        generic_parameters: [TResult]
        return: "Acme.Box` + "`" + `1<@TResult>"
        parameters: [{name: selector, type: "System.Func` + "`" + `2<@T,@TResult>"}]
      - name: get_Value
        return: "@T"
      - name: TryGet
        return: System.Boolean
        parameters: [{name: value, type: "@T", mode: out}]
      - name: Broken
        parameters: [{name: x, type: "System.List<"}]
  - namespace: Acme
    name: IContainer
    kind: interface
    visibility: public
    generic_parameters: [T]
    interfaces: ["Acme.IBase"]
  - namespace: Acme
    name: IBase
    kind: interface
    visibility: public
  - namespace: Acme
    name: Outer
    kind: class
    visibility: public
    generic_parameters: [T]
  - namespace: Acme
    name: Inner
    kind: class
    visibility: public
    declaring_type: "Acme.Outer` + "`" + `1"
    base: Acme.Animal
  - namespace: Acme
    name: Animal
    kind: class
    visibility: public
    abstract: true
    base: Acme.Missing
  - namespace: Acme
    name: Secret
    kind: class
    visibility: internal
  - namespace: Acme
    name: Weird
    kind: gadget
references:
  - {namespace: System, name: Object, kind: class}
  - {namespace: System, name: Int32, kind: struct}
`

func mustParse(t *testing.T) *Assembly {
	t.Helper()
	asm, err := Parse([]byte(fixture))
	require.NoError(t, err)
	return asm
}

func TestParse_AssemblyIdentityAndTypes(t *testing.T) {
	asm := mustParse(t)

	assert.Equal(t, "Acme.Core", asm.Name)
	assert.Equal(t, "1.2.0.0", asm.Version)
	assert.Equal(t, "Acme.Core.dll", asm.File)

	box, ok := asm.Lookup("Acme.Box`1")
	require.True(t, ok)
	assert.Equal(t, KindClass, box.Kind)
	assert.True(t, box.Sealed)
	assert.True(t, box.Documented)
	require.Len(t, box.GenericParameters, 1)
	assert.Same(t, box, box.GenericParameters[0].DeclaringType)

	obj, ok := asm.Lookup("System.Object")
	require.True(t, ok)
	assert.False(t, obj.Documented)
}

func TestParse_FiltersNonVisibleMembers(t *testing.T) {
	box, _ := mustParse(t).Lookup("Acme.Box`1")

	require.Len(t, box.Constructors, 1)
	assert.Equal(t, ConstructorName, box.Constructors[0].Name)
	require.Len(t, box.Properties, 1)
	assert.Equal(t, "Value", box.Properties[0].Name)
}

func TestParse_SkipsBrokenMembersWithDiagnostic(t *testing.T) {
	asm := mustParse(t)
	box, _ := asm.Lookup("Acme.Box`1")

	names := make([]string, 0, len(box.Methods))
	for _, m := range box.Methods {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"Map", "get_Value", "TryGet"}, names)

	var resolution int
	for _, d := range asm.Diagnostics {
		assert.True(t, d.IsCategory(ferrors.CategoryResolution), d.Error())
		resolution++
	}
	// Broken method, unknown kind, unresolved base of Animal.
	assert.Equal(t, 3, resolution)
}

func TestParse_AccessorsAreSpecialNames(t *testing.T) {
	box, _ := mustParse(t).Lookup("Acme.Box`1")
	getter, ok := box.Method("get_Value")
	require.True(t, ok)
	assert.True(t, getter.SpecialName)
	assert.False(t, getter.HasOwnPage())
}

func TestParse_OutParameterIsByRef(t *testing.T) {
	box, _ := mustParse(t).Lookup("Acme.Box`1")
	m, ok := box.Method("TryGet")
	require.True(t, ok)
	require.Len(t, m.Parameters, 1)
	assert.Equal(t, Out, m.Parameters[0].Mode)
	assert.Equal(t, RefByRef, m.Parameters[0].Type.Kind)
}

func TestParse_NestedTypeInheritsNamespaceAndParameters(t *testing.T) {
	asm := mustParse(t)
	inner, ok := asm.Lookup("Acme.Outer`1+Inner")
	require.True(t, ok)
	require.NotNil(t, inner.Enclosing)
	assert.Equal(t, "Acme", inner.Namespace)
	assert.Equal(t, "Acme.Outer`1+Inner", inner.FullName())
	assert.Empty(t, inner.GenericParameters)
	require.Len(t, inner.AllGenericParameters(), 1)
	assert.Equal(t, "T", inner.AllGenericParameters()[0].Name)
}

func TestParse_InheritanceChainStopsAtUnresolvedBase(t *testing.T) {
	asm := mustParse(t)
	inner, _ := asm.Lookup("Acme.Outer`1+Inner")

	chain := make([]string, 0)
	for _, r := range inner.InheritanceChain() {
		chain = append(chain, r.String())
	}
	assert.Equal(t, []string{"Acme.Missing", "Acme.Animal"}, chain)

	box, _ := asm.Lookup("Acme.Box`1")
	assert.Empty(t, box.InheritanceChain(), "System.Object is excluded")
}

func TestParse_InterfaceClosureSubstitutesArguments(t *testing.T) {
	box, _ := mustParse(t).Lookup("Acme.Box`1")

	all := make([]string, 0)
	for _, r := range box.AllInterfaces() {
		all = append(all, r.String())
	}
	assert.Equal(t, []string{"Acme.IContainer`1<@T>", "Acme.IBase"}, all)
}

func TestExportedTypes_PublicDocumentedOnly(t *testing.T) {
	asm := mustParse(t)
	var names []string
	for _, typ := range asm.ExportedTypes() {
		names = append(names, typ.FullName())
	}
	assert.Equal(t, []string{"Acme.Box`1", "Acme.IContainer`1", "Acme.IBase", "Acme.Outer`1", "Acme.Outer`1+Inner", "Acme.Animal"}, names)
}

func TestParse_InvalidYAMLIsFatalLoadError(t *testing.T) {
	_, err := Parse([]byte("types: [unterminated"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryLoad))
	assert.Equal(t, ferrors.SeverityFatal, ferrors.GetSeverity(err))
}

func TestParse_MissingAssemblyName(t *testing.T) {
	_, err := Parse([]byte("types: []\n"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryLoad))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryLoad))
}

func TestLoad_DefaultsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.yaml")
	require.NoError(t, os.WriteFile(path, []byte("assembly: {name: Tiny}\n"), 0o600))

	asm, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Tiny", asm.Name)
	assert.Empty(t, asm.File)
	assert.Equal(t, "0.0.0.0", asm.Version)
}

func TestInheritedMembers(t *testing.T) {
	src := `
assembly: {name: Zoo}
types:
  - namespace: Zoo
    name: Animal
    kind: class
    visibility: public
    properties:
      - {name: Name, type: System.String, get: true}
      - {name: Legs, type: System.Int32, get: true}
    methods:
      - {name: Speak, virtual: true, return: System.String}
      - {name: Eat}
  - namespace: Zoo
    name: Dog
    kind: class
    visibility: public
    base: Zoo.Animal
    properties:
      - {name: Legs, type: System.Int32, get: true}
    methods:
      - {name: Speak, virtual: true, return: System.String}
`
	asm, err := Parse([]byte(src))
	require.NoError(t, err)
	dog, _ := asm.Lookup("Zoo.Dog")

	methods := dog.InheritedMethods()
	require.Len(t, methods, 1)
	assert.Equal(t, "Eat", methods[0].Member.Name)
	assert.Equal(t, "Animal", methods[0].From.Name)

	props := dog.InheritedProperties()
	require.Len(t, props, 1)
	assert.Equal(t, "Name", props[0].Member.Name)

	speak, _ := dog.Method("Speak")
	assert.True(t, speak.IsOverride())
	assert.False(t, speak.HasOwnPage())
}

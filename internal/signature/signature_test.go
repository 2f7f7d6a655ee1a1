package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/refdoc/internal/symbols"
)

const metadata = `
assembly: {name: NS}
types:
  - namespace: NS
    name: Box
    kind: class
    visibility: public
    sealed: true
    generic_parameters: [T]
    base: NS.Base
    interfaces: ["NS.IFoo", "NS.IBase", "NS.IDisposable"]
    constructors:
      - parameters: [{name: value, type: "@T"}]
    methods:
      - name: Map
        generic_parameters: [TResult]
        return: "NS.Box` + "`" + `1<@TResult>"
        parameters: [{name: selector, type: "System.Func` + "`" + `2<@T,@TResult>"}]
      - name: DoWork
        parameters: [{name: x, type: System.Int32}]
      - name: TryParse
        static: true
        return: System.Boolean
        parameters:
          - {name: text, type: "System.String[]"}
          - {name: result, type: "@T", mode: out}
          - {name: state, type: "System.Int64", mode: in}
          - {name: count, type: "System.Int32&"}
      - {name: Render, visibility: protected, virtual: true, return: System.String}
      - {name: Hide, virtual: true, new_slot: true, return: System.Void}
      - {name: Close, virtual: true, sealed: true}
      - {name: Compute, abstract: true, return: "System.Double[,]"}
    properties:
      - {name: Count, type: System.Int32, get: true, set: true}
      - {name: Item, type: "@T", get: true, parameters: [{name: index, type: System.Int32}]}
  - namespace: NS
    name: Base
    kind: class
    visibility: public
    abstract: true
    base: NS.Root
    interfaces: ["NS.IDisposable"]
  - namespace: NS
    name: Root
    kind: class
    visibility: public
    base: System.Object
  - {namespace: NS, name: IFoo, kind: interface, visibility: public, interfaces: ["NS.IBase"]}
  - {namespace: NS, name: IBase, kind: interface, visibility: public}
  - {namespace: NS, name: IDisposable, kind: interface, visibility: public}
  - namespace: NS
    name: Predicate
    kind: delegate
    visibility: public
    generic_parameters: [T]
    base: System.MulticastDelegate
    methods:
      - name: Invoke
        virtual: true
        return: System.Boolean
        parameters: [{name: obj, type: "@T"}]
  - namespace: NS
    name: Point
    kind: struct
    visibility: public
    readonly: true
    base: System.ValueType
  - namespace: NS
    name: Helpers
    kind: class
    visibility: public
    static: true
    methods:
      - {name: Run, static: true}
  - namespace: NS
    name: IService
    kind: interface
    visibility: public
    methods:
      - {name: Start, abstract: true, virtual: true}
references:
  - {namespace: System, name: Object, kind: class}
`

func load(t *testing.T) *symbols.Assembly {
	t.Helper()
	asm, err := symbols.Parse([]byte(metadata))
	require.NoError(t, err)
	return asm
}

func lookup(t *testing.T, asm *symbols.Assembly, name string) *symbols.Type {
	t.Helper()
	typ, ok := asm.Lookup(name)
	require.True(t, ok, name)
	return typ
}

func method(t *testing.T, typ *symbols.Type, name string) *symbols.Method {
	t.Helper()
	m, ok := typ.Method(name)
	require.True(t, ok, name)
	return m
}

func TestTypeName_Aliasing(t *testing.T) {
	ref := symbols.Named("System", "Int32")
	assert.Equal(t, "int", TypeName(ref, Code))
	assert.Equal(t, "Int32", TypeName(ref, Prose))
	assert.Equal(t, "int", TypeName(ref, ProseAliased))
}

func TestTypeName_AliasTableIsComplete(t *testing.T) {
	assert.Len(t, aliases, 16)
	for _, name := range []string{"Byte", "SByte", "Int16", "UInt16", "Int32", "UInt32", "Int64", "UInt64",
		"Single", "Double", "Decimal", "Object", "Boolean", "Char", "String", "Void"} {
		_, ok := Alias("System." + name)
		assert.True(t, ok, name)
	}
}

func TestTypeName_Shapes(t *testing.T) {
	cases := []struct {
		src  string
		ctx  Context
		want string
	}{
		{"System.Int32[]", Code, "int[]"},
		{"System.Int32[]", Prose, "Int32[]"},
		{"System.Double[,]", Code, "double[,]"},
		{"System.Int32&", Code, "int"},
		{"@T", Code, "T"},
		{"System.Collections.Generic.List`1<System.String>", Code, "List<string>"},
		{"System.Collections.Generic.List`1<System.String>", Prose, "List&lt;String&gt;"},
		{"System.Collections.Generic.Dictionary`2<System.String,System.Collections.Generic.List`1<@T[]>>", Code, "Dictionary<string,List<T[]>>"},
		{"NS.Outer`1+Inner<System.Int32>", Code, "Inner"},
	}
	for _, tc := range cases {
		ref, err := symbols.ParseTypeRef(tc.src)
		require.NoError(t, err)
		assert.Equal(t, tc.want, TypeName(ref, tc.ctx), tc.src)
	}
}

func TestConstructorSignature_GenericBox(t *testing.T) {
	box := lookup(t, load(t), "NS.Box`1")
	ctx := Context{Open: "<", Close: ">", AliasPrimitives: true, IncludeParameterNames: true}
	assert.Equal(t, "Box<T>(T value)", Signature(box.Constructors[0], ctx))
	assert.Equal(t, "Box", MemberName(box.Constructors[0], ctx))
}

func TestParameterList_AliasToggle(t *testing.T) {
	box := lookup(t, load(t), "NS.Box`1")
	doWork := method(t, box, "DoWork")

	assert.Equal(t, "(int x)", ParameterList(doWork, Code))
	noAlias := Code
	noAlias.AliasPrimitives = false
	assert.Equal(t, "(Int32 x)", ParameterList(doWork, noAlias))
}

func TestParameterList_ModesAndNames(t *testing.T) {
	box := lookup(t, load(t), "NS.Box`1")
	tryParse := method(t, box, "TryParse")

	assert.Equal(t, "(string[] text, out T result, in long state, ref int count)", ParameterList(tryParse, Code))
	assert.Equal(t, "(String[], T, Int64, Int32)", ParameterTypes(tryParse, Prose))
}

func TestMemberName_GenericMethod(t *testing.T) {
	box := lookup(t, load(t), "NS.Box`1")
	m := method(t, box, "Map")
	assert.Equal(t, "Map<TResult>", MemberName(m, Code))
	assert.Equal(t, "Map&lt;TResult&gt;", MemberName(m, Prose))
	assert.Equal(t, "Map<TResult>(Func<T,TResult> selector)", Signature(m, Code))
}

func TestSignatureBlock(t *testing.T) {
	asm := load(t)
	box := lookup(t, asm, "NS.Box`1")
	svc := lookup(t, asm, "NS.IService")

	cases := []struct {
		name        string
		m           *symbols.Method
		onInterface bool
		want        string
	}{
		{"constructor", box.Constructors[0], false, "public Box(T value)"},
		{"generic method", method(t, box, "Map"), false, "public Box<TResult> Map<TResult>(Func<T,TResult> selector)"},
		{"void without return", method(t, box, "DoWork"), false, "public void DoWork(int x)"},
		{"static", method(t, box, "TryParse"), false, "public static bool TryParse(string[] text, out T result, in long state, ref int count)"},
		{"protected virtual", method(t, box, "Render"), false, "protected virtual string Render()"},
		{"new slot is not virtual", method(t, box, "Hide"), false, "public void Hide()"},
		{"sealed is not virtual", method(t, box, "Close"), false, "public void Close()"},
		{"abstract", method(t, box, "Compute"), false, "public abstract double[,] Compute()"},
		{"interface member", method(t, svc, "Start"), true, "public void Start()"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SignatureBlock(tc.m, tc.onInterface))
		})
	}
}

func TestInterfaceList_OnlyNewlyIntroduced(t *testing.T) {
	box := lookup(t, load(t), "NS.Box`1")

	var names []string
	for _, r := range InterfaceList(box) {
		names = append(names, r.String())
	}
	// IBase comes through IFoo, IDisposable through Base.
	assert.Equal(t, []string{"NS.IFoo"}, names)
}

func TestInterfaceList_DirectInterfaceNotRepeatedFromParent(t *testing.T) {
	asm, err := symbols.Parse([]byte(`
assembly: {name: NS}
types:
  - {namespace: NS, name: Impl, kind: class, visibility: public, interfaces: ["NS.IFoo", "NS.IBase"]}
  - {namespace: NS, name: IFoo, kind: interface, visibility: public, interfaces: ["NS.IBase"]}
  - {namespace: NS, name: IBase, kind: interface, visibility: public}
`))
	require.NoError(t, err)
	impl := lookup(t, asm, "NS.Impl")
	list := InterfaceList(impl)
	require.Len(t, list, 1)
	assert.Equal(t, "IFoo", TypeName(list[0], Code))
}

func TestInheritanceChain(t *testing.T) {
	box := lookup(t, load(t), "NS.Box`1")
	assert.Equal(t, []string{"Root", "Base", "Box&lt;T&gt;"}, InheritanceChain(box, Prose))
}

func TestTypeDeclaration(t *testing.T) {
	asm := load(t)
	cases := map[string]string{
		"NS.Box`1":       "public sealed class Box<T> : Base, IFoo",
		"NS.Base":        "public abstract class Base : Root, IDisposable",
		"NS.Root":        "public class Root",
		"NS.Point":       "public readonly struct Point",
		"NS.Helpers":     "public static class Helpers",
		"NS.IFoo":        "public interface IFoo : IBase",
		"NS.Predicate`1": "public delegate bool Predicate<T>(T obj)",
	}
	for name, want := range cases {
		assert.Equal(t, want, TypeDeclaration(lookup(t, asm, name)), name)
	}
}

func TestPropertyDeclaration(t *testing.T) {
	box := lookup(t, load(t), "NS.Box`1")
	assert.Equal(t, "public int Count { get; set; }", PropertyDeclaration(box.Properties[0], false))
	assert.Equal(t, "public T this[int index] { get; }", PropertyDeclaration(box.Properties[1], false))
}

func TestKindTitle(t *testing.T) {
	asm := load(t)
	assert.Equal(t, "Class", KindTitle(lookup(t, asm, "NS.Box`1")))
	assert.Equal(t, "Struct", KindTitle(lookup(t, asm, "NS.Point")))
	assert.Equal(t, "Interface", KindTitle(lookup(t, asm, "NS.IFoo")))
	assert.Equal(t, "Delegate", KindTitle(lookup(t, asm, "NS.Predicate`1")))
	assert.Equal(t, "delegate", KindKeyword(lookup(t, asm, "NS.Predicate`1")))
}

func TestShortName(t *testing.T) {
	assert.Equal(t, "ArgumentNullException", ShortName("T:System.ArgumentNullException"))
	assert.Equal(t, "List", ShortName("T:System.Collections.Generic.List`1"))
	assert.Equal(t, "Map", ShortName("M:NS.Box`1.Map``1(System.Func{`0,``0})"))
	assert.Equal(t, "Inner", ShortName("NS.Outer`1+Inner"))
}

func TestRenderingIsIdempotent(t *testing.T) {
	asm := load(t)
	box := lookup(t, asm, "NS.Box`1")
	for _, m := range box.Methods {
		assert.Equal(t, SignatureBlock(m, false), SignatureBlock(m, false))
		assert.Equal(t, Signature(m, Prose), Signature(m, Prose))
	}
	assert.Equal(t, TypeDeclaration(box), TypeDeclaration(box))
}

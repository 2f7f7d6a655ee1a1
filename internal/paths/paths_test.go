package paths

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/refdoc/internal/symbols"
)

const metadata = `
assembly: {name: Acme.Core, version: 1.2.0.0}
types:
  - namespace: Acme
    name: Box
    kind: class
    visibility: public
    generic_parameters: [T]
    constructors:
      - parameters: [{name: value, type: "@T"}]
      - {}
    methods:
      - {name: Map, parameters: [{name: f, type: System.Int32}]}
      - {name: Map, parameters: [{name: f, type: System.String}]}
      - {name: Acme.IRunnable.Run}
      - {name: ToString, virtual: true, return: System.String}
      - {name: get_Count, special_name: true, return: System.Int32}
    properties:
      - {name: Count, type: System.Int32, get: true}
      - {name: Acme.IBag.Size, type: System.Int32, get: true}
      - {name: Item, type: "@T", get: true, parameters: [{name: i, type: System.Int32}]}
      - {name: Item, type: "@T", get: true, parameters: [{name: k, type: System.String}]}
  - namespace: Acme
    name: Outer
    kind: class
    visibility: public
  - namespace: Acme
    name: Inner
    kind: class
    visibility: public
    declaring_type: Acme.Outer
  - {namespace: Acme, name: Alpha, kind: class, visibility: public}
  - {namespace: Acme, name: alpha, kind: class, visibility: public}
  - namespace: Acme
    name: Handler
    kind: delegate
    visibility: public
    constructors: [{}]
    methods: [{name: Invoke, virtual: true}]
  - {name: Loose, kind: class, visibility: public}
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

func TestDerivedFiles(t *testing.T) {
	asm := load(t)
	box := lookup(t, asm, "Acme.Box`1")
	inner := lookup(t, asm, "Acme.Outer+Inner")

	assert.Equal(t, "acme.box-1.md", TypeFile(box))
	assert.Equal(t, "acme.outer-inner.md", TypeFile(inner))
	assert.Equal(t, "acme.box-1.-ctor.md", ConstructorFile(box))
	assert.Equal(t, "acme.box-1.-ctor.md", MethodFile(box.Constructors[1]))
	assert.Equal(t, "acme.box-1.map.md", MethodFile(box.Methods[0]))
	assert.Equal(t, "acme.box-1.acme-irunnable-run.md", MethodFile(box.Methods[2]))
	assert.Equal(t, "acme.box-1.count.md", PropertyFile(box.Properties[0]))
	assert.Equal(t, "acme.box-1.acme-ibag-size.md", PropertyFile(box.Properties[1]))
	assert.Equal(t, "acme.md", NamespaceFile("Acme"))
	assert.Equal(t, "empty-namespace.md", NamespaceFile(""))
	assert.Equal(t, "acme.core-1.2.0.0.md", AssemblyFile(asm))
}

func TestOverloadsSharePath(t *testing.T) {
	box := lookup(t, load(t), "Acme.Box`1")
	assert.Equal(t, MethodFile(box.Methods[0]), MethodFile(box.Methods[1]))
	assert.Equal(t, MethodFile(box.Constructors[0]), MethodFile(box.Constructors[1]))
	assert.Equal(t, PropertyFile(box.Properties[2]), PropertyFile(box.Properties[3]))
}

func TestGroups(t *testing.T) {
	box := lookup(t, load(t), "Acme.Box`1")
	assert.Equal(t, []string{"Map", "Acme.IRunnable.Run"}, MethodGroups(box))
	assert.Equal(t, []string{"Count", "Acme.IBag.Size", "Item"}, PropertyNames(box))
}

func TestTable_SuffixesCollisions(t *testing.T) {
	table := NewTable()
	assert.Equal(t, "acme.alpha.md", table.Add(Key{PageType, "T:Acme.Alpha"}, "acme.alpha.md"))
	assert.Equal(t, "acme.alpha~2.md", table.Add(Key{PageType, "T:Acme.alpha"}, "acme.alpha.md"))
	assert.Equal(t, "acme.alpha~3.md", table.Add(Key{PageType, "T:Acme.ALPHA"}, "acme.alpha.md"))
	assert.Equal(t, "acme.alpha.md", table.Add(Key{PageType, "T:Acme.Alpha"}, "ignored.md"), "re-adding keeps the first assignment")
	assert.Equal(t, 3, table.Len())
}

func TestBuild_InjectiveAcrossDocumentedSet(t *testing.T) {
	asm := load(t)
	table := Build(asm, asm.ExportedTypes())

	seen := make(map[string]Key)
	for _, key := range table.Keys() {
		p, ok := table.Path(key)
		require.True(t, ok)
		if other, dup := seen[p]; dup {
			t.Fatalf("%v and %v share %s", key, other, p)
		}
		seen[p] = key
	}

	alpha, _ := table.Path(TypeKey(lookup(t, asm, "Acme.Alpha")))
	lowerAlpha, _ := table.Path(TypeKey(lookup(t, asm, "Acme.alpha")))
	assert.Equal(t, "acme.alpha.md", alpha)
	assert.Equal(t, "acme.alpha~2.md", lowerAlpha)
}

func TestBuild_PageSet(t *testing.T) {
	asm := load(t)
	box := lookup(t, asm, "Acme.Box`1")
	handler := lookup(t, asm, "Acme.Handler")
	table := Build(asm, asm.ExportedTypes())

	_, ok := table.Path(ConstructorsKey(box))
	assert.True(t, ok)
	_, ok = table.Path(MethodsKey(box, "ToString"))
	assert.False(t, ok, "plain overrides get no page")
	_, ok = table.Path(MethodsKey(box, "get_Count"))
	assert.False(t, ok, "accessors get no page")
	_, ok = table.Path(ConstructorsKey(handler))
	assert.False(t, ok, "delegates only get a type page")

	ns, ok := table.Path(NamespaceKey(""))
	require.True(t, ok)
	assert.Equal(t, "empty-namespace.md", ns)
	_, ok = table.Path(AssemblyKey(asm))
	assert.True(t, ok, "two namespaces produce an assembly page")
}

func TestBuild_SingleNamespaceHasNoAssemblyPage(t *testing.T) {
	asm, err := symbols.Parse([]byte("assembly: {name: One}\ntypes:\n  - {namespace: One, name: A, kind: class, visibility: public}\n"))
	require.NoError(t, err)
	table := Build(asm, asm.ExportedTypes())
	_, ok := table.Path(AssemblyKey(asm))
	assert.False(t, ok)
	assert.Equal(t, 2, table.Len())
}

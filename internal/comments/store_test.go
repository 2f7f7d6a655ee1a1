package comments

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/refdoc/internal/foundation/errors"
)

const corpus = `<?xml version="1.0"?>
<doc>
    <assembly><name>NS</name></assembly>
    <members>
        <member name="T:NS.Box` + "`" + `1">
            <summary>
                A box holding a <typeparamref name="T"/> value.
                <para>Boxes are immutable.</para>
            </summary>
            <typeparam name="T">The boxed type.</typeparam>
            <remarks>Use <see cref="M:NS.Box` + "`" + `1.Map` + "``" + `1(System.Func{` + "`" + `0,` + "``" + `0})"/> to project.</remarks>
        </member>
        <member name="M:NS.Box` + "`" + `1.#ctor(` + "`" + `0)">
            <summary>Creates a box around <paramref name="value"/>.</summary>
            <param name="value">The value, never <see langword="null"/>.</param>
            <exception cref="T:System.ArgumentNullException"><paramref name="value"/> is null.</exception>
        </member>
        <member name="P:NS.Box` + "`" + `1.Value">
            <summary>Gets the value.</summary>
            <value>The <c>T</c> instance.</value>
        </member>
        <member name="M:NS.Box` + "`" + `1.ToString">
            <inheritdoc cref="M:System.Object.ToString"/>
        </member>
        <member name="M:NS.Box` + "`" + `1.Describe">
            <returns>See <see href="https://example.org/format">the format</see>.</returns>
        </member>
    </members>
</doc>`

func parse(t *testing.T) *Store {
	t.Helper()
	store, err := Parse(strings.NewReader(corpus))
	require.NoError(t, err)
	return store
}

func TestParse_SummaryInlineTagsAndWhitespace(t *testing.T) {
	c := parse(t).Lookup("T:NS.Box`1")
	assert.Equal(t, "A box holding a `T` value. Boxes are immutable.", c.Summary)
	assert.Equal(t, "The boxed type.", c.TypeParam("T"))
	assert.Equal(t, "Use `Map` to project.", c.Remarks)
}

func TestParse_ParamsAndExceptions(t *testing.T) {
	c := parse(t).Lookup("M:NS.Box`1.#ctor(`0)")
	assert.Equal(t, "Creates a box around `value`.", c.Summary)
	assert.Equal(t, "The value, never `null`.", c.Param("value"))
	require.Len(t, c.Exceptions, 1)
	assert.Equal(t, "T:System.ArgumentNullException", c.Exceptions[0].Cref)
	assert.Equal(t, "`value` is null.", c.Exceptions[0].Text)
}

func TestParse_ValueAndCode(t *testing.T) {
	c := parse(t).Lookup("P:NS.Box`1.Value")
	assert.Equal(t, "Gets the value.", c.Summary)
	assert.Equal(t, "The `T` instance.", c.Value)
}

func TestParse_InheritDoc(t *testing.T) {
	c := parse(t).Lookup("M:NS.Box`1.ToString")
	assert.True(t, c.InheritDoc)
	assert.Equal(t, "M:System.Object.ToString", c.InheritCref)
	assert.Empty(t, c.Summary)
}

func TestParse_Href(t *testing.T) {
	c := parse(t).Lookup("M:NS.Box`1.Describe")
	assert.Equal(t, "See [the format](https://example.org/format).", c.Returns)
}

func TestLookup_MissingIDIsEmpty(t *testing.T) {
	store := parse(t)
	c := store.Lookup("T:NS.Nope")
	assert.True(t, c.IsEmpty())
	assert.Empty(t, c.Param("x"))
	assert.False(t, store.Has("T:NS.Nope"))
	assert.True(t, store.Has("T:NS.Box`1"))
	assert.Equal(t, 5, store.Len())
}

func TestLoad_MissingCorpusResolvesEverythingEmpty(t *testing.T) {
	store, err := Load(filepath.Join(t.TempDir(), "absent.xml"))
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())
	c := store.Lookup("M:NS.Box`1.#ctor(`0)")
	assert.Equal(t, "", c.Summary)
	assert.True(t, c.IsEmpty())
}

func TestLoad_MalformedCorpusIsWarning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xml")
	require.NoError(t, os.WriteFile(path, []byte("<doc><members><member name=\"T:X\">"), 0o600))

	store, err := Load(path)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryComment))
	assert.Equal(t, ferrors.SeverityWarning, ferrors.GetSeverity(err))
	require.NotNil(t, store)
	assert.Equal(t, 0, store.Len())
}

func TestNilStoreIsEmpty(t *testing.T) {
	var store *Store
	assert.True(t, store.Lookup("T:X").IsEmpty())
	assert.Equal(t, 0, store.Len())
}

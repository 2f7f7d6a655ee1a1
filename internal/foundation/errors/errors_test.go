package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "refdoc.yaml").
			Build()

		assert.Equal(t, CategoryConfig, err.Category())
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.Equal(t, "invalid configuration", err.Message())
		assert.True(t, err.Stops())

		file, exists := err.Context().GetString("file")
		require.True(t, exists)
		assert.Equal(t, "refdoc.yaml", file)
	})

	t.Run("Wrapped chain is searched", func(t *testing.T) {
		base := LoadError("metadata unreadable").Build()
		wrapped := fmt.Errorf("generate: %w", base)

		assert.True(t, IsClassified(wrapped))
		assert.True(t, HasCategory(wrapped, CategoryLoad))
		assert.Equal(t, SeverityFatal, GetSeverity(wrapped))
	})

	t.Run("Unclassified defaults", func(t *testing.T) {
		plain := stderrors.New("boom")
		assert.Equal(t, CategoryInternal, CategoryOf(plain))
		assert.Equal(t, SeverityError, GetSeverity(plain))
	})
}

func TestTaxonomyConstructors(t *testing.T) {
	cases := []struct {
		name     string
		err      *ClassifiedError
		category ErrorCategory
		severity ErrorSeverity
	}{
		{"load", LoadError("x").Build(), CategoryLoad, SeverityFatal},
		{"resolution", ResolutionError("x").Build(), CategoryResolution, SeverityWarning},
		{"comment", CommentError("x").Build(), CategoryComment, SeverityInfo},
		{"output", OutputError("x").Build(), CategoryOutput, SeverityError},
		{"config", ConfigError("x").Build(), CategoryConfig, SeverityFatal},
		{"canceled", CanceledError("x").Build(), CategoryCanceled, SeverityWarning},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.category, tc.err.Category())
			assert.Equal(t, tc.severity, tc.err.Severity())
		})
	}
	assert.False(t, OutputError("x").Build().Stops())
}

func TestErrorBuilderWrap(t *testing.T) {
	original := stderrors.New("permission denied")
	err := WrapError(original, CategoryOutput, "write page").
		WithContext("page", "acme.box.md").
		Build()

	require.ErrorIs(t, err, original)
	assert.Contains(t, err.Error(), "[output:error] write page: permission denied")

	withMore := err.WithContext("attempt", 2)
	_, had := err.Context().Get("attempt")
	assert.False(t, had, "WithContext must not mutate the receiver")
	v, ok := withMore.Context().Get("attempt")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestErrorBuilder_BuildsAreIndependent(t *testing.T) {
	b := ResolutionError("unresolved").WithContext("reference", "Acme.Gone")
	first := b.Build()
	second := b.WithContext("reference", "Acme.Other").Build()

	ref, _ := first.Context().GetString("reference")
	assert.Equal(t, "Acme.Gone", ref)
	ref, _ = second.Context().GetString("reference")
	assert.Equal(t, "Acme.Other", ref)
}

func TestErrorContext_Subject(t *testing.T) {
	err := ResolutionError("broken link").
		WithContext("page", "acme.box.md").
		WithContext("reference", "acme.gone.md").
		Build()
	assert.Equal(t, "acme.gone.md", err.Context().Subject(), "reference is more specific than page")
	assert.Equal(t, "M:Acme.Box.Run", err.WithContext("symbol", "M:Acme.Box.Run").Context().Subject())
	assert.Empty(t, InternalError("x").Build().Context().Subject())
}

func TestCLIErrorAdapter_ExitCodes(t *testing.T) {
	a := NewCLIErrorAdapter(false, nil)
	assert.Equal(t, 0, a.ExitCodeFor(nil))
	assert.Equal(t, 1, a.ExitCodeFor(stderrors.New("plain")))
	assert.Equal(t, 3, a.ExitCodeFor(LoadError("x").Build()))
	assert.Equal(t, 7, a.ExitCodeFor(ConfigError("x").Build()))
	assert.Equal(t, 2, a.ExitCodeFor(ValidationError("x").Build()))
	assert.Equal(t, 11, a.ExitCodeFor(fmt.Errorf("wrap: %w", OutputError("x").Build())))
	assert.Equal(t, 130, a.ExitCodeFor(CanceledError("x").Build()))
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	err := WrapError(stderrors.New("no such file"), CategoryLoad, "read metadata").Fatal().Build()

	quiet := NewCLIErrorAdapter(false, nil)
	assert.Equal(t, "Error: read metadata: no such file", quiet.FormatError(err))

	verbose := NewCLIErrorAdapter(true, nil)
	assert.Equal(t, "[load:fatal] read metadata: no such file", verbose.FormatError(err))

	assert.Equal(t, "Error: plain", quiet.FormatError(stderrors.New("plain")))

	hinted := ConfigError("configuration file not found").WithHint("run 'refdoc init'").Build()
	assert.Equal(t, "Error: configuration file not found\nHint: run 'refdoc init'", quiet.FormatError(hinted))
}

package frontmatter

import (
	"testing"

	"github.com/inful/mdfp"
	"github.com/stretchr/testify/require"
)

func TestFingerprint_IgnoresExistingFingerprint(t *testing.T) {
	body := []byte("# Box\n")
	a, err := Fingerprint(map[string]any{"title": "Box"}, body)
	require.NoError(t, err)
	b, err := Fingerprint(map[string]any{"title": "Box", mdfp.FingerprintField: "stale"}, body)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestFingerprint_MatchesCanonicalParts(t *testing.T) {
	body := []byte("hello")
	got, err := Fingerprint(map[string]any{"title": "Box"}, body)
	require.NoError(t, err)
	require.Equal(t, mdfp.CalculateFingerprintFromParts("title: Box", "hello"), got)
}

func TestFingerprint_ChangesWithBody(t *testing.T) {
	a, err := Fingerprint(map[string]any{"title": "Box"}, []byte("one"))
	require.NoError(t, err)
	b, err := Fingerprint(map[string]any{"title": "Box"}, []byte("two"))
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestFingerprint_NilFields(t *testing.T) {
	_, err := Fingerprint(nil, nil)
	require.Error(t, err)
}

func TestStampAndReadFingerprint(t *testing.T) {
	body := []byte("# Box\n")
	fields := map[string]any{"title": "Box", "kind": "type"}

	page, err := Stamp(fields, body)
	require.NoError(t, err)

	want, err := Fingerprint(fields, body)
	require.NoError(t, err)
	require.Equal(t, want, ReadFingerprint(page))
	require.NotContains(t, fields, mdfp.FingerprintField, "input fields are not mutated")

	_, gotBody, had, err := Split(page)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, body, gotBody)
}

func TestReadFingerprint_NoHeader(t *testing.T) {
	require.Empty(t, ReadFingerprint([]byte("# Box\n")))
}

package frontmatter

import (
	"errors"
	"strings"

	"github.com/inful/mdfp"
)

// Fingerprint computes the content fingerprint of a page: the header fields
// (minus the fingerprint itself) serialized canonically, hashed together with
// the body. Unchanged pages keep their fingerprint across runs.
func Fingerprint(fields map[string]any, body []byte) (string, error) {
	if fields == nil {
		return "", errors.New("fields map is nil")
	}
	forHash := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == mdfp.FingerprintField {
			continue
		}
		forHash[k] = v
	}
	header := ""
	if len(forHash) > 0 {
		serialized, err := SerializeYAML(forHash)
		if err != nil {
			return "", err
		}
		header = strings.TrimSuffix(string(serialized), "\n")
	}
	return mdfp.CalculateFingerprintFromParts(header, string(body)), nil
}

// Stamp adds the fingerprint to fields and returns the complete page.
func Stamp(fields map[string]any, body []byte) ([]byte, error) {
	fp, err := Fingerprint(fields, body)
	if err != nil {
		return nil, err
	}
	stamped := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		stamped[k] = v
	}
	stamped[mdfp.FingerprintField] = fp
	header, err := SerializeYAML(stamped)
	if err != nil {
		return nil, err
	}
	return Join(header, body), nil
}

// ReadFingerprint returns the fingerprint stored in a page's header, or ""
// when the page has none.
func ReadFingerprint(content []byte) string {
	header, _, had, err := Split(content)
	if err != nil || !had {
		return ""
	}
	fields, err := ParseYAML(header)
	if err != nil {
		return ""
	}
	fp, _ := fields[mdfp.FingerprintField].(string)
	return fp
}

// Package normalization maps loosely written strings from YAML inputs onto typed enums.
package normalization

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	ferrors "git.home.luguber.info/inful/refdoc/internal/foundation/errors"
)

// Normalizer maps case-insensitive spellings of one input field onto an enum.
// Several spellings may name the same value.
type Normalizer[T comparable] struct {
	field     string
	values    map[string]T
	fallback  T
	spellings []string
}

// NewNormalizer builds a normalizer for field. Empty or unknown input
// normalizes to fallback.
func NewNormalizer[T comparable](field string, values map[string]T, fallback T) *Normalizer[T] {
	n := &Normalizer[T]{field: field, values: make(map[string]T, len(values)), fallback: fallback}
	for spelling, v := range values {
		n.values[fold(spelling)] = v
	}
	n.spellings = slices.Sorted(maps.Keys(n.values))
	return n
}

// Normalize returns the value raw spells, or the fallback.
func (n *Normalizer[T]) Normalize(raw string) T {
	if v, ok := n.values[fold(raw)]; ok {
		return v
	}
	return n.fallback
}

// Parse is Normalize for inputs where a misspelling must not pass silently.
// Empty input is still the fallback; unknown input is a validation error
// carrying the field, the value and the accepted spellings.
func (n *Normalizer[T]) Parse(raw string) (T, error) {
	key := fold(raw)
	if key == "" {
		return n.fallback, nil
	}
	if v, ok := n.values[key]; ok {
		return v, nil
	}
	var zero T
	return zero, ferrors.ValidationError(fmt.Sprintf("unknown %s %q", n.field, raw)).
		WithContext("field", n.field).
		WithContext("value", raw).
		WithContext("valid", n.Spellings()).
		Build()
}

// Spellings lists the accepted spellings, sorted.
func (n *Normalizer[T]) Spellings() []string {
	return slices.Clone(n.spellings)
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

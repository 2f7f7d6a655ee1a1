// Package storage persists generated pages.
//
// Pages are addressed by their slash-separated path relative to the output
// root. Every write replaces the page as a whole.
package storage

import (
	"context"
	"errors"
)

// PageStore holds the pages of one output directory.
type PageStore interface {
	// Write stores data at path, replacing any previous page atomically.
	Write(ctx context.Context, path string, data []byte) error

	// Read returns the page at path, or ErrNotFound.
	Read(ctx context.Context, path string) ([]byte, error)

	// List returns the paths of every stored page, sorted. Only ".md" files
	// are pages; other files written through the store (the run report) are
	// not listed.
	List(ctx context.Context) ([]string, error)

	// Remove deletes the page at path. Removing a missing page is not an error.
	Remove(ctx context.Context, path string) error

	// Close releases any resources held by the store.
	Close() error
}

const pageExt = ".md"

// ErrNotFound is returned when a page doesn't exist.
var ErrNotFound = errors.New("page not found")

// IsNotFound returns true if err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

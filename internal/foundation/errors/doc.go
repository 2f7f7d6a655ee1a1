// Package errors provides the classified error primitives used across refdoc.
//
// The documentation run distinguishes four failure classes:
//
//   - CategoryLoad: the metadata dump cannot be loaded; the run aborts and nothing is written.
//   - CategoryResolution: a referenced type or member is not in the model; render a short name.
//   - CategoryComment: no authored comment for an ID; render an empty string.
//   - CategoryOutput: a page cannot be written; skip it and keep writing siblings.
//
// Only CategoryLoad (plus configuration and validation problems) stops a run.
//
// Example usage:
//
//	err := errors.WrapError(readErr, errors.CategoryLoad, "metadata unreadable").
//		Fatal().
//		WithContext("path", path).
//		Build()
package errors

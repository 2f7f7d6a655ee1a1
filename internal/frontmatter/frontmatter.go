// Package frontmatter reads and writes the YAML header of generated pages.
//
// Generated pages always use LF newlines, so no newline style is tracked.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

const delimiter = "---\n"

// ErrMissingClosingDelimiter indicates the page started with a front matter
// delimiter but did not contain a closing one.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Split separates the YAML header from the Markdown body. When the page has
// no header, had is false and body is the whole input.
func Split(content []byte) (header []byte, body []byte, had bool, err error) {
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(content, []byte(delimiter)) {
		return nil, content, false, nil
	}
	rest := content[len(delimiter):]
	if bytes.HasPrefix(rest, []byte(delimiter)) {
		return []byte{}, rest[len(delimiter):], true, nil
	}
	idx := bytes.Index(rest, []byte("\n"+delimiter))
	if idx < 0 {
		return nil, nil, false, ErrMissingClosingDelimiter
	}
	return rest[:idx+1], rest[idx+1+len(delimiter):], true, nil
}

// Join prefixes body with header between delimiters. An empty header yields
// the body unchanged.
func Join(header []byte, body []byte) []byte {
	if len(header) == 0 {
		return body
	}
	out := make([]byte, 0, 2*len(delimiter)+len(header)+len(body))
	out = append(out, delimiter...)
	out = append(out, header...)
	if !bytes.HasSuffix(header, []byte("\n")) {
		out = append(out, '\n')
	}
	out = append(out, delimiter...)
	return append(out, body...)
}

// ParseYAML parses a raw header (without delimiters) into a map.
func ParseYAML(header []byte) (map[string]any, error) {
	if len(header) == 0 {
		return map[string]any{}, nil
	}
	var fields map[string]any
	if err := yaml.Unmarshal(header, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

package markdown

import (
	"net/url"
	"path"
	"strings"
)

// Options controls how Markdown is parsed for link analysis.
type Options struct {
	// Tables enables GFM pipe tables so links inside cells are found with
	// escaped pipes handled.
	Tables bool
}

type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindImage               LinkKind = "image"
	LinkKindAuto                LinkKind = "auto"
	LinkKindReferenceDefinition LinkKind = "reference_definition"
)

type Link struct {
	Kind        LinkKind
	Destination string
}

// LocalTarget returns the page path a link destination points at, relative
// to the linking page's directory. Destinations with a scheme or host, pure
// fragments and absolute paths are not local.
func LocalTarget(dest string) (string, bool) {
	dest = strings.TrimSpace(dest)
	if dest == "" || strings.HasPrefix(dest, "#") {
		return "", false
	}
	u, err := url.Parse(dest)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return "", false
	}
	if strings.HasPrefix(u.Path, "/") {
		return "", false
	}
	return path.Clean(u.Path), true
}

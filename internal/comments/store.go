// Package comments indexes an XML documentation file by canonical ID.
//
// A store is built once and only read afterwards. Lookups of unknown IDs
// return an all-empty Comment: a missing comment is never an error.
package comments

import (
	"bytes"
	"encoding/xml"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"strings"

	ferrors "git.home.luguber.info/inful/refdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/refdoc/internal/signature"
)

// Exception documents one exception a member may throw.
type Exception struct {
	Cref string
	Text string
}

// Comment is the rendered documentation of one member. Every field defaults
// to empty.
type Comment struct {
	Summary    string
	Remarks    string
	Returns    string
	Value      string
	Params     map[string]string
	TypeParams map[string]string
	Exceptions []Exception

	// InheritDoc is set by <inheritdoc/>; InheritCref carries its cref, if any.
	InheritDoc  bool
	InheritCref string
}

// Param returns the text of the named parameter.
func (c Comment) Param(name string) string { return c.Params[name] }

// TypeParam returns the text of the named generic parameter.
func (c Comment) TypeParam(name string) string { return c.TypeParams[name] }

// IsEmpty reports whether the comment carries nothing at all.
func (c Comment) IsEmpty() bool {
	return c.Summary == "" && c.Remarks == "" && c.Returns == "" && c.Value == "" &&
		len(c.Params) == 0 && len(c.TypeParams) == 0 && len(c.Exceptions) == 0 && !c.InheritDoc
}

// Store maps canonical IDs to comments.
type Store struct {
	members map[string]Comment
}

// Empty returns a store that resolves every ID to an empty comment.
func Empty() *Store {
	return &Store{members: map[string]Comment{}}
}

// Lookup returns the comment for id, or an empty comment.
func (s *Store) Lookup(id string) Comment {
	if s == nil {
		return Comment{}
	}
	return s.members[id]
}

// Has reports whether the corpus documents id.
func (s *Store) Has(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.members[id]
	return ok
}

// Len is the number of documented members.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.members)
}

// Load reads the documentation file at path. A missing file yields an empty
// store and no error. An unreadable or malformed file yields an empty store
// and a warning-level comment error for the caller to report.
func Load(path string) (*Store, error) {
	// #nosec G304 -- the comment file path is supplied by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return Empty(), nil
		}
		return Empty(), ferrors.WrapError(err, ferrors.CategoryComment, "read documentation comments").
			Warning().WithContext("path", path).Build()
	}
	store, err := Parse(bytes.NewReader(data))
	if err != nil {
		return Empty(), ferrors.WrapError(err, ferrors.CategoryComment, "parse documentation comments").
			Warning().WithContext("path", path).Build()
	}
	return store, nil
}

// Parse reads a documentation file of the form
// <doc><members><member name="ID">...</member></members></doc>.
func Parse(r io.Reader) (*Store, error) {
	root, err := decodeTree(r)
	if err != nil {
		return nil, err
	}
	store := Empty()
	for _, members := range root.elements("members") {
		for _, member := range members.elements("member") {
			id := member.attr("name")
			if id == "" {
				continue
			}
			if _, dup := store.members[id]; dup {
				continue
			}
			store.members[id] = buildComment(member)
		}
	}
	return store, nil
}

func buildComment(member *node) Comment {
	var c Comment
	for _, child := range member.children {
		switch child.name {
		case "summary":
			c.Summary = render(child)
		case "remarks":
			c.Remarks = render(child)
		case "returns":
			c.Returns = render(child)
		case "value":
			c.Value = render(child)
		case "param":
			if c.Params == nil {
				c.Params = make(map[string]string)
			}
			c.Params[child.attr("name")] = render(child)
		case "typeparam":
			if c.TypeParams == nil {
				c.TypeParams = make(map[string]string)
			}
			c.TypeParams[child.attr("name")] = render(child)
		case "exception":
			c.Exceptions = append(c.Exceptions, Exception{Cref: child.attr("cref"), Text: render(child)})
		case "inheritdoc":
			c.InheritDoc = true
			c.InheritCref = child.attr("cref")
		}
	}
	return c
}

// node is a parsed element, or character data when name is empty.
type node struct {
	name     string
	attrs    map[string]string
	text     string
	children []*node
}

func (n *node) attr(key string) string { return n.attrs[key] }

func (n *node) elements(name string) []*node {
	var out []*node
	for _, c := range n.children {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

// decodeTree builds the element tree below the document element.
func decodeTree(r io.Reader) (*node, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true
	var stack []*node
	var root *node
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: t.Name.Local, attrs: make(map[string]string, len(t.Attr))}
			for _, a := range t.Attr {
				n.attrs[a.Name.Local] = a.Value
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			} else if root == nil {
				root = n
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, &node{text: string(t)})
			}
		}
	}
	if root == nil {
		return nil, stderrors.New("no document element")
	}
	return root, nil
}

// render flattens an element into one line of Markdown text.
func render(n *node) string {
	var b strings.Builder
	renderInto(&b, n)
	return strings.Join(strings.Fields(b.String()), " ")
}

func renderInto(b *strings.Builder, n *node) {
	for _, c := range n.children {
		switch c.name {
		case "":
			b.WriteString(c.text)
		case "paramref", "typeparamref":
			code(b, c.attr("name"))
		case "see", "seealso":
			switch {
			case c.attr("cref") != "":
				code(b, signature.ShortName(c.attr("cref")))
			case c.attr("langword") != "":
				code(b, c.attr("langword"))
			case c.attr("href") != "":
				text := render(c)
				if text == "" {
					text = c.attr("href")
				}
				b.WriteString("[" + text + "](" + c.attr("href") + ")")
			default:
				renderInto(b, c)
			}
		case "c":
			code(b, render(c))
		case "para", "br":
			b.WriteByte(' ')
			renderInto(b, c)
			b.WriteByte(' ')
		default:
			renderInto(b, c)
		}
	}
}

func code(b *strings.Builder, s string) {
	b.WriteByte('`')
	b.WriteString(s)
	b.WriteByte('`')
}

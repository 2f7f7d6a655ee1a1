package symbols

import (
	"fmt"
	"strconv"
	"strings"
)

// RefKind tags the variant of a TypeRef.
type RefKind int

const (
	// RefNamed is a (possibly closed generic) named type.
	RefNamed RefKind = iota
	// RefGenericParameter is an unbound generic parameter, identified by name.
	RefGenericParameter
	// RefArray wraps Element with Rank dimensions.
	RefArray
	// RefByRef wraps Element passed by reference.
	RefByRef
)

// TypeRef is a type as it appears in a signature.
//
// For named references Enclosing holds the CLR segment names of the enclosing
// types (arity suffix included, e.g. "Outer`1") and Args holds every closed
// generic argument in CLR order: enclosing arguments first, then the type's own.
type TypeRef struct {
	Kind      RefKind
	Namespace string
	Enclosing []string
	Name      string
	Arity     int
	Args      []*TypeRef
	Element   *TypeRef
	Rank      int

	// Resolved links a named reference to the model type it names, when present.
	Resolved *Type
}

// Named builds a named reference. Used by tests and the loader.
func Named(namespace, name string, args ...*TypeRef) *TypeRef {
	return &TypeRef{Kind: RefNamed, Namespace: namespace, Name: name, Arity: len(args), Args: args}
}

// GenericParam builds an unbound generic parameter reference.
func GenericParam(name string) *TypeRef {
	return &TypeRef{Kind: RefGenericParameter, Name: name}
}

// ArrayOf builds an array reference of the given rank.
func ArrayOf(element *TypeRef, rank int) *TypeRef {
	if rank < 1 {
		rank = 1
	}
	return &TypeRef{Kind: RefArray, Element: element, Rank: rank}
}

// ByRefOf builds a by-reference wrapper.
func ByRefOf(element *TypeRef) *TypeRef {
	return &TypeRef{Kind: RefByRef, Element: element}
}

// ClrName is the type's own segment name with its arity suffix, e.g. "List`1".
func (r *TypeRef) ClrName() string {
	return clrSegment(r.Name, r.Arity)
}

// FullName is the CLR full name without generic arguments, e.g. "NS.Outer+Inner`1".
// Only meaningful for named references.
func (r *TypeRef) FullName() string {
	var b strings.Builder
	if r.Namespace != "" {
		b.WriteString(r.Namespace)
		b.WriteByte('.')
	}
	for _, e := range r.Enclosing {
		b.WriteString(e)
		b.WriteByte('+')
	}
	b.WriteString(r.ClrName())
	return b.String()
}

// OwnArgs returns the arguments that belong to the type's own generic parameters.
func (r *TypeRef) OwnArgs() []*TypeRef {
	if r.Arity == 0 || r.Arity > len(r.Args) {
		return nil
	}
	return r.Args[len(r.Args)-r.Arity:]
}

// Innermost strips array and by-ref wrappers.
func (r *TypeRef) Innermost() *TypeRef {
	for r.Kind == RefArray || r.Kind == RefByRef {
		r = r.Element
	}
	return r
}

// String renders the reference in the dump grammar. It is also the
// identity key used for set operations on references.
func (r *TypeRef) String() string {
	switch r.Kind {
	case RefGenericParameter:
		return "@" + r.Name
	case RefArray:
		return r.Element.String() + "[" + strings.Repeat(",", r.Rank-1) + "]"
	case RefByRef:
		return r.Element.String() + "&"
	}
	if len(r.Args) == 0 {
		return r.FullName()
	}
	parts := make([]string, len(r.Args))
	for i, a := range r.Args {
		parts[i] = a.String()
	}
	return r.FullName() + "<" + strings.Join(parts, ",") + ">"
}

// Substitute replaces generic parameter references using bindings, returning a
// new reference. Unbound names are kept.
func (r *TypeRef) Substitute(bindings map[string]*TypeRef) *TypeRef {
	if r == nil || len(bindings) == 0 {
		return r
	}
	switch r.Kind {
	case RefGenericParameter:
		if b, ok := bindings[r.Name]; ok {
			return b
		}
		return r
	case RefArray, RefByRef:
		out := *r
		out.Element = r.Element.Substitute(bindings)
		return &out
	}
	if len(r.Args) == 0 {
		return r
	}
	out := *r
	out.Args = make([]*TypeRef, len(r.Args))
	for i, a := range r.Args {
		out.Args[i] = a.Substitute(bindings)
	}
	return &out
}

// ParseTypeRef parses the dump grammar:
//
//	Namespace.Outer+Name`N<Arg,...>   named, optionally closed generic
//	@T                                unbound generic parameter
//	Elem[] / Elem[,]                  arrays
//	Elem&                             by-reference
func ParseTypeRef(s string) (*TypeRef, error) {
	// Names never contain spaces; dumps written by hand often do after commas.
	p := &refParser{src: strings.ReplaceAll(s, " ", "")}
	if p.src == "" {
		return nil, fmt.Errorf("empty type reference")
	}
	ref, err := p.parse()
	if err != nil {
		return nil, fmt.Errorf("type reference %q: %w", s, err)
	}
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("type reference %q: unexpected %q at offset %d", s, p.src[p.pos:], p.pos)
	}
	return ref, nil
}

type refParser struct {
	src string
	pos int
}

func (p *refParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *refParser) parse() (*TypeRef, error) {
	var ref *TypeRef
	if p.peek() == '@' {
		p.pos++
		name := p.ident()
		if name == "" {
			return nil, fmt.Errorf("missing generic parameter name at offset %d", p.pos)
		}
		ref = GenericParam(name)
	} else {
		named, err := p.named()
		if err != nil {
			return nil, err
		}
		ref = named
	}
	return p.suffixes(ref)
}

func (p *refParser) ident() string {
	start := p.pos
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '<', '>', ',', '[', ']', '&':
			return p.src[start:p.pos]
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *refParser) named() (*TypeRef, error) {
	qualified := p.ident()
	if qualified == "" {
		return nil, fmt.Errorf("missing type name at offset %d", p.pos)
	}
	segments := strings.Split(qualified, "+")
	ref := &TypeRef{Kind: RefNamed}

	first := segments[0]
	if i := strings.LastIndexByte(first, '.'); i >= 0 {
		ref.Namespace = first[:i]
		segments[0] = first[i+1:]
	}
	for _, seg := range segments {
		if seg == "" {
			return nil, fmt.Errorf("empty name segment in %q", qualified)
		}
	}
	name, arity, err := splitArity(segments[len(segments)-1])
	if err != nil {
		return nil, err
	}
	ref.Name = name
	ref.Arity = arity
	total := arity
	if len(segments) > 1 {
		ref.Enclosing = segments[:len(segments)-1]
		for _, seg := range ref.Enclosing {
			_, n, err := splitArity(seg)
			if err != nil {
				return nil, err
			}
			total += n
		}
	}

	if p.peek() == '<' {
		p.pos++
		for {
			arg, err := p.parse()
			if err != nil {
				return nil, err
			}
			ref.Args = append(ref.Args, arg)
			switch p.peek() {
			case ',':
				p.pos++
				continue
			case '>':
				p.pos++
			default:
				return nil, fmt.Errorf("unterminated generic argument list at offset %d", p.pos)
			}
			break
		}
		if len(ref.Args) != total {
			return nil, fmt.Errorf("%s expects %d generic arguments, got %d", qualified, total, len(ref.Args))
		}
	}
	return ref, nil
}

func (p *refParser) suffixes(ref *TypeRef) (*TypeRef, error) {
	for p.peek() == '[' {
		p.pos++
		rank := 1
		for p.peek() == ',' {
			rank++
			p.pos++
		}
		if p.peek() != ']' {
			return nil, fmt.Errorf("unterminated array suffix at offset %d", p.pos)
		}
		p.pos++
		ref = ArrayOf(ref, rank)
	}
	if p.peek() == '&' {
		p.pos++
		ref = ByRefOf(ref)
	}
	return ref, nil
}

// splitArity splits "List`1" into ("List", 1).
func splitArity(segment string) (string, int, error) {
	i := strings.IndexByte(segment, '`')
	if i < 0 {
		return segment, 0, nil
	}
	n, err := strconv.Atoi(segment[i+1:])
	if err != nil || n < 0 {
		return "", 0, fmt.Errorf("bad arity in %q", segment)
	}
	return segment[:i], n, nil
}

func clrSegment(name string, arity int) string {
	if arity == 0 {
		return name
	}
	return name + "`" + strconv.Itoa(arity)
}

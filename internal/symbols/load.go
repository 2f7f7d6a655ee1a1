package symbols

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/refdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/refdoc/internal/foundation/normalization"
	"git.home.luguber.info/inful/refdoc/internal/logfields"
)

var (
	kindNormalizer = normalization.NewNormalizer("type kind", map[string]Kind{
		"class":     KindClass,
		"struct":    KindStruct,
		"valuetype": KindStruct,
		"interface": KindInterface,
		"enum":      KindEnum,
		"delegate":  KindDelegate,
	}, KindClass)

	visibilityNormalizer = normalization.NewNormalizer("visibility", map[string]Visibility{
		"public":    Public,
		"protected": Protected,
		"family":    Protected,
		"internal":  Other,
		"private":   Other,
		"assembly":  Other,
		"other":     Other,
	}, Public)

	modeNormalizer = normalization.NewNormalizer("parameter mode", map[string]Mode{
		"value": ByValue,
		"in":    In,
		"out":   Out,
		"ref":   Ref,
	}, ByValue)
)

// dump mirrors the YAML metadata file written by the extractor.
type dump struct {
	Assembly struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
		File    string `yaml:"file"`
	} `yaml:"assembly"`
	Types      []typeDump `yaml:"types"`
	References []typeDump `yaml:"references"`
}

type typeDump struct {
	Namespace         string         `yaml:"namespace"`
	Name              string         `yaml:"name"`
	Kind              string         `yaml:"kind"`
	Visibility        string         `yaml:"visibility"`
	DeclaringType     string         `yaml:"declaring_type"`
	Abstract          bool           `yaml:"abstract"`
	Sealed            bool           `yaml:"sealed"`
	Static            bool           `yaml:"static"`
	ReadOnly          bool           `yaml:"readonly"`
	GenericParameters []string       `yaml:"generic_parameters"`
	Base              string         `yaml:"base"`
	Interfaces        []string       `yaml:"interfaces"`
	Constructors      []methodDump   `yaml:"constructors"`
	Methods           []methodDump   `yaml:"methods"`
	Properties        []propertyDump `yaml:"properties"`
}

type methodDump struct {
	Name              string      `yaml:"name"`
	Visibility        string      `yaml:"visibility"`
	Static            bool        `yaml:"static"`
	Abstract          bool        `yaml:"abstract"`
	Virtual           bool        `yaml:"virtual"`
	Sealed            bool        `yaml:"sealed"`
	NewSlot           bool        `yaml:"new_slot"`
	SpecialName       bool        `yaml:"special_name"`
	GenericParameters []string    `yaml:"generic_parameters"`
	Parameters        []paramDump `yaml:"parameters"`
	Return            string      `yaml:"return"`
}

type propertyDump struct {
	Name       string      `yaml:"name"`
	Visibility string      `yaml:"visibility"`
	Type       string      `yaml:"type"`
	Get        bool        `yaml:"get"`
	Set        bool        `yaml:"set"`
	Static     bool        `yaml:"static"`
	Abstract   bool        `yaml:"abstract"`
	Virtual    bool        `yaml:"virtual"`
	Parameters []paramDump `yaml:"parameters"`
}

type paramDump struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Mode string `yaml:"mode"`
}

// Load reads and links the metadata dump at path. Any failure to read or
// decode the file is a fatal load error; per-symbol problems become
// diagnostics on the returned assembly.
func Load(path string) (*Assembly, error) {
	// #nosec G304 -- the metadata path is supplied by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryLoad, "read metadata").
			Fatal().
			WithContext("path", path).
			Build()
	}
	return Parse(data)
}

// Parse decodes and links a metadata dump.
func Parse(data []byte) (*Assembly, error) {
	var d dump
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryLoad, "decode metadata").Fatal().Build()
	}
	if strings.TrimSpace(d.Assembly.Name) == "" {
		return nil, ferrors.LoadError("metadata has no assembly name").Build()
	}
	b := &builder{
		asm: &Assembly{
			Name:    d.Assembly.Name,
			Version: d.Assembly.Version,
			File:    d.Assembly.File,
			byName:  make(map[string]*Type),
		},
	}
	if b.asm.Version == "" {
		b.asm.Version = "0.0.0.0"
	}
	b.build(d)
	return b.asm, nil
}

type pendingType struct {
	dump     typeDump
	typ      *Type
	declName string
}

type builder struct {
	asm     *Assembly
	pending []pendingType
}

func (b *builder) diag(err *ferrors.ClassifiedError) {
	b.asm.Diagnostics = append(b.asm.Diagnostics, err)
	slog.Debug("metadata degraded", slog.String("reason", err.Message()), logfields.Error(err.Cause()))
}

func (b *builder) build(d dump) {
	for _, td := range d.Types {
		b.declare(td, true)
	}
	for _, td := range d.References {
		b.declare(td, false)
	}
	b.linkEnclosing()
	for i := range b.pending {
		b.members(&b.pending[i])
	}
	for _, t := range b.asm.Types {
		b.hierarchy(t, nil)
	}
	for _, t := range b.asm.References {
		b.hierarchy(t, nil)
	}
}

// fullName computes the CLR name from the dump entry alone, so types can be
// indexed before their enclosing types are linked.
func fullName(td typeDump, name string) string {
	seg := clrSegment(name, len(td.GenericParameters))
	if td.DeclaringType != "" {
		return td.DeclaringType + "+" + seg
	}
	if td.Namespace == "" {
		return seg
	}
	return td.Namespace + "." + seg
}

func (b *builder) declare(td typeDump, documented bool) {
	name, _, err := splitArity(strings.TrimSpace(td.Name))
	if err != nil || name == "" {
		b.diag(ferrors.WrapError(err, ferrors.CategoryResolution, "skipped type with invalid name").
			Warning().WithContext("name", td.Name).Build())
		return
	}
	kind, err := kindNormalizer.Parse(td.Kind)
	if err != nil {
		b.diag(ferrors.WrapError(err, ferrors.CategoryResolution, "skipped type with unknown kind").
			Warning().WithContext("name", td.Name).Build())
		return
	}
	vis := visibilityNormalizer.Normalize(td.Visibility)

	t := &Type{
		Namespace:  td.Namespace,
		Name:       name,
		Kind:       kind,
		Visibility: vis,
		Abstract:   td.Abstract,
		Sealed:     td.Sealed,
		Static:     td.Static,
		ReadOnly:   td.ReadOnly,
		Documented: documented,
		Assembly:   b.asm,
	}
	for i, gp := range td.GenericParameters {
		t.GenericParameters = append(t.GenericParameters, &GenericParameter{Name: gp, Position: i, DeclaringType: t})
	}
	key := fullName(td, name)
	if _, dup := b.asm.byName[key]; dup {
		b.diag(ferrors.ResolutionError("skipped duplicate type").WithContext("type", key).Build())
		return
	}
	b.asm.byName[key] = t
	b.pending = append(b.pending, pendingType{dump: td, typ: t, declName: key})
	if documented {
		b.asm.Types = append(b.asm.Types, t)
	} else {
		b.asm.References = append(b.asm.References, t)
	}
}

func (b *builder) linkEnclosing() {
	var orphans []*Type
	for _, p := range b.pending {
		if p.dump.DeclaringType == "" {
			continue
		}
		outer, ok := b.asm.byName[p.dump.DeclaringType]
		if !ok {
			b.diag(ferrors.ResolutionError("skipped nested type with unknown declaring type").
				WithContext("type", p.declName).
				WithContext("declaring_type", p.dump.DeclaringType).
				Build())
			orphans = append(orphans, p.typ)
			continue
		}
		p.typ.Enclosing = outer
		p.typ.Namespace = outer.Namespace
	}
	for _, o := range orphans {
		b.drop(o)
	}
}

func (b *builder) drop(t *Type) {
	delete(b.asm.byName, b.pendingName(t))
	b.asm.Types = without(b.asm.Types, t)
	b.asm.References = without(b.asm.References, t)
	for i := range b.pending {
		if b.pending[i].typ == t {
			b.pending = append(b.pending[:i], b.pending[i+1:]...)
			break
		}
	}
}

func (b *builder) pendingName(t *Type) string {
	for _, p := range b.pending {
		if p.typ == t {
			return p.declName
		}
	}
	return ""
}

func without(list []*Type, t *Type) []*Type {
	out := list[:0]
	for _, x := range list {
		if x != t {
			out = append(out, x)
		}
	}
	return out
}

// ref parses and links a type reference. Failures are recorded against symbol.
func (b *builder) ref(raw, symbol string) (*TypeRef, bool) {
	r, err := ParseTypeRef(raw)
	if err != nil {
		b.diag(ferrors.WrapError(err, ferrors.CategoryResolution, "unparsable type reference").
			Warning().WithContext("symbol", symbol).Build())
		return nil, false
	}
	b.link(r)
	return r, true
}

// link resolves every named reference inside r against the model.
func (b *builder) link(r *TypeRef) {
	switch r.Kind {
	case RefArray, RefByRef:
		b.link(r.Element)
		return
	case RefGenericParameter:
		return
	}
	if t, ok := b.asm.byName[r.FullName()]; ok {
		r.Resolved = t
	}
	for _, a := range r.Args {
		b.link(a)
	}
}

func (b *builder) members(p *pendingType) {
	t, td := p.typ, p.dump
	if td.Base != "" {
		if ref, ok := b.ref(td.Base, p.declName); ok {
			t.Base = ref
		}
	}
	for _, raw := range td.Interfaces {
		if ref, ok := b.ref(raw, p.declName); ok {
			t.Interfaces = append(t.Interfaces, ref)
		}
	}
	for _, md := range td.Constructors {
		if md.Name == "" {
			md.Name = ConstructorName
			if md.Static {
				md.Name = StaticConstructorName
			}
		}
		if m, ok := b.method(t, md, p.declName); ok {
			t.Constructors = append(t.Constructors, m)
		}
	}
	for _, md := range td.Methods {
		if m, ok := b.method(t, md, p.declName); ok {
			t.Methods = append(t.Methods, m)
		}
	}
	for _, pd := range td.Properties {
		if prop, ok := b.property(t, pd, p.declName); ok {
			t.Properties = append(t.Properties, prop)
		}
	}
}

func visible(v Visibility) bool { return v == Public || v == Protected }

func (b *builder) method(t *Type, md methodDump, owner string) (*Method, bool) {
	vis := visibilityNormalizer.Normalize(md.Visibility)
	if !visible(vis) {
		return nil, false
	}
	symbol := owner + "." + md.Name
	if md.Name == "" {
		b.diag(ferrors.ResolutionError("skipped unnamed method").WithContext("symbol", owner).Build())
		return nil, false
	}
	m := &Method{
		Name:          md.Name,
		DeclaringType: t,
		Visibility:    vis,
		Static:        md.Static,
		Abstract:      md.Abstract,
		Virtual:       md.Virtual || md.Abstract,
		Sealed:        md.Sealed,
		NewSlot:       md.NewSlot,
		SpecialName:   md.SpecialName || isAccessorName(md.Name),
	}
	for i, gp := range md.GenericParameters {
		m.GenericParameters = append(m.GenericParameters, &GenericParameter{Name: gp, Position: i, DeclaringMethod: m})
	}
	params, ok := b.parameters(md.Parameters, symbol)
	if !ok {
		return nil, false
	}
	m.Parameters = params
	if md.Return != "" {
		ret, ok := b.ref(md.Return, symbol)
		if !ok {
			return nil, false
		}
		m.Return = ret
	}
	return m, true
}

func (b *builder) property(t *Type, pd propertyDump, owner string) (*Property, bool) {
	vis := visibilityNormalizer.Normalize(pd.Visibility)
	if !visible(vis) {
		return nil, false
	}
	symbol := owner + "." + pd.Name
	if pd.Name == "" {
		b.diag(ferrors.ResolutionError("skipped unnamed property").WithContext("symbol", owner).Build())
		return nil, false
	}
	typ, ok := b.ref(pd.Type, symbol)
	if !ok {
		return nil, false
	}
	params, ok := b.parameters(pd.Parameters, symbol)
	if !ok {
		return nil, false
	}
	return &Property{
		Name:          pd.Name,
		DeclaringType: t,
		Visibility:    vis,
		Type:          typ,
		Get:           pd.Get,
		Set:           pd.Set,
		Parameters:    params,
		Static:        pd.Static,
		Abstract:      pd.Abstract,
		Virtual:       pd.Virtual || pd.Abstract,
	}, true
}

func (b *builder) parameters(pds []paramDump, symbol string) ([]*Parameter, bool) {
	out := make([]*Parameter, 0, len(pds))
	for i, pd := range pds {
		typ, ok := b.ref(pd.Type, symbol)
		if !ok {
			return nil, false
		}
		mode, err := modeNormalizer.Parse(pd.Mode)
		if err != nil {
			b.diag(ferrors.WrapError(err, ferrors.CategoryResolution, "unknown parameter mode").
				Warning().WithContext("symbol", symbol).Build())
			return nil, false
		}
		// Non-value modes are by-reference in metadata, and a by-reference type
		// without a mode is a plain ref parameter.
		switch {
		case mode != ByValue && typ.Kind != RefByRef:
			typ = ByRefOf(typ)
		case mode == ByValue && typ.Kind == RefByRef:
			mode = Ref
		}
		name := pd.Name
		if name == "" {
			name = fmt.Sprintf("arg%d", i)
		}
		out = append(out, &Parameter{Name: name, Type: typ, Mode: mode})
	}
	return out, true
}

func isAccessorName(name string) bool {
	for _, prefix := range []string{"get_", "set_", "add_", "remove_"} {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// hierarchy computes the inheritance chain and interface closure of t once,
// memoizing into the type. visiting guards against cyclic base declarations.
func (b *builder) hierarchy(t *Type, visiting map[*Type]bool) {
	if t.inheritance != nil || t.allInterfaces != nil {
		return
	}
	if visiting == nil {
		visiting = make(map[*Type]bool)
	}
	if visiting[t] {
		b.diag(ferrors.ResolutionError("cyclic inheritance").WithContext("type", t.FullName()).Build())
		return
	}
	visiting[t] = true
	defer delete(visiting, t)

	chain := []*TypeRef{}
	var inherited []*TypeRef
	if t.Base != nil && t.Base.FullName() != ObjectType {
		base := t.Base
		if base.Resolved == nil {
			// Unknown base: show it, but the walk cannot continue past it.
			b.diag(ferrors.ResolutionError("unresolved base type").
				WithContext("type", t.FullName()).
				WithContext("base", base.String()).
				Build())
			chain = append(chain, base)
		} else {
			b.hierarchy(base.Resolved, visiting)
			bindings := Bindings(base)
			for _, r := range base.Resolved.inheritance {
				chain = append(chain, r.Substitute(bindings))
			}
			chain = append(chain, base)
			for _, r := range base.Resolved.allInterfaces {
				inherited = append(inherited, r.Substitute(bindings))
			}
		}
	}
	t.inheritance = chain

	seen := make(map[string]bool)
	all := []*TypeRef{}
	add := func(r *TypeRef) {
		if key := r.String(); !seen[key] {
			seen[key] = true
			all = append(all, r)
		}
	}
	for _, iface := range t.Interfaces {
		add(iface)
		if iface.Resolved != nil {
			b.hierarchy(iface.Resolved, visiting)
			bindings := Bindings(iface)
			for _, r := range iface.Resolved.allInterfaces {
				add(r.Substitute(bindings))
			}
		}
	}
	for _, r := range inherited {
		add(r)
	}
	t.allInterfaces = all
}

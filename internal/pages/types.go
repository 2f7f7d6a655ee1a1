package pages

import (
	"sort"
	"strings"

	"git.home.luguber.info/inful/refdoc/internal/docid"
	"git.home.luguber.info/inful/refdoc/internal/paths"
	"git.home.luguber.info/inful/refdoc/internal/signature"
	"git.home.luguber.info/inful/refdoc/internal/symbols"
)

// TypePage composes the page of a type. Delegates get the delegate layout.
func (c *Composer) TypePage(t *symbols.Type) Page {
	if t.IsDelegate() {
		return c.delegatePage(t)
	}
	cm := c.typeComment(t)
	kind := signature.KindTitle(t)

	d := &doc{}
	d.heading(1, signature.QualifiedTypeName(t, signature.Prose)+" "+kind)
	c.breadcrumb(d, t.Namespace)
	d.para(cm.Summary)
	d.code("c#", signature.TypeDeclaration(t))
	typeParameters(d, t.GenericParameters, cm)
	c.inheritance(d, t)
	c.implements(d, t)
	remarks(d, 4, cm)
	c.constructorTable(d, t)
	c.propertyTable(d, t)
	c.methodTable(d, t)

	return c.page(paths.TypeKey(t), signature.QualifiedTypeName(t, signature.Plain)+" "+kind, docid.ForType(t), d)
}

func (c *Composer) delegatePage(t *symbols.Type) Page {
	cm := c.typeComment(t)

	d := &doc{}
	d.heading(1, signature.QualifiedTypeName(t, signature.Prose)+" Delegate")
	c.breadcrumb(d, t.Namespace)
	d.para(cm.Summary)
	d.code("c#", signature.DelegateDeclaration(t))
	typeParameters(d, t.GenericParameters, cm)
	if invoke, ok := t.DelegateInvoke(); ok {
		parameterDetails(d, invoke.Parameters, cm)
		returns(d, invoke, cm)
	}
	remarks(d, 3, cm)

	return c.page(paths.TypeKey(t), signature.QualifiedTypeName(t, signature.Plain)+" Delegate", docid.ForType(t), d)
}

// refName renders a type reference, linked when it names a documented type
// of this run.
func (c *Composer) refName(r *symbols.TypeRef) string {
	name := signature.TypeName(r, signature.Prose)
	if r.Kind == symbols.RefNamed && r.Resolved != nil && r.Resolved.Documented {
		return c.typeLink(r.Resolved, name)
	}
	return name
}

func (c *Composer) inheritance(d *doc, t *symbols.Type) {
	if t.Kind != symbols.KindClass {
		return
	}
	chain := t.InheritanceChain()
	if len(chain) == 0 {
		return
	}
	parts := make([]string, 0, len(chain)+1)
	for _, r := range chain {
		parts = append(parts, c.refName(r))
	}
	parts = append(parts, signature.TypeSymbolName(t, signature.Prose))
	d.heading(4, "Inheritance")
	d.para(strings.Join(parts, " &rarr; "))
}

func (c *Composer) implements(d *doc, t *symbols.Type) {
	all := t.AllInterfaces()
	if len(all) == 0 {
		return
	}
	parts := make([]string, 0, len(all))
	for _, r := range all {
		parts = append(parts, c.refName(r))
	}
	d.heading(4, "Implements")
	d.para(strings.Join(parts, ", "))
}

func (c *Composer) constructorTable(d *doc, t *symbols.Type) {
	if len(t.Constructors) == 0 {
		return
	}
	target, _ := c.table.Path(paths.ConstructorsKey(t))
	rows := make([][2]string, 0, len(t.Constructors))
	for _, ctor := range t.Constructors {
		name := signature.TypeSymbolName(t, signature.Prose) + signature.ParameterTypes(ctor, signature.Prose)
		rows = append(rows, [2]string{link(name, target), c.methodComment(ctor).Summary})
	}
	d.heading(3, "Constructors")
	d.table(rows)
}

// inheritedNote appends "(Inherited from X)" to a summary cell.
func inheritedNote(summary string, from *symbols.Type) string {
	note := "(Inherited from " + signature.TypeSymbolName(from, signature.Prose) + ")"
	if summary == "" {
		return note
	}
	return summary + "<br/>" + note
}

type propertyRow struct {
	prop *symbols.Property
	from *symbols.Type
}

// propertyTable lists declared and inherited properties sorted by name.
func (c *Composer) propertyTable(d *doc, t *symbols.Type) {
	var props []propertyRow
	for _, p := range t.Properties {
		props = append(props, propertyRow{prop: p})
	}
	for _, ip := range t.InheritedProperties() {
		props = append(props, propertyRow{prop: ip.Member, from: ip.From})
	}
	if len(props) == 0 {
		return
	}
	sort.SliceStable(props, func(i, j int) bool { return props[i].prop.Name < props[j].prop.Name })

	rows := make([][2]string, 0, len(props))
	for _, r := range props {
		target, _ := c.table.Path(paths.PropertyKey(r.prop.DeclaringType, r.prop.Name))
		summary := c.propertyComment(r.prop).Summary
		if r.from != nil {
			summary = inheritedNote(summary, r.from)
		}
		rows = append(rows, [2]string{link(r.prop.Name, target), summary})
	}
	d.heading(3, "Properties")
	d.table(rows)
}

// methodTable lists declared then inherited methods in declaration order.
// Methods without a page of their own, such as plain overrides, are listed
// unlinked.
func (c *Composer) methodTable(d *doc, t *symbols.Type) {
	var rows [][2]string
	add := func(m *symbols.Method, from *symbols.Type) {
		name := signature.MemberName(m, signature.Prose) + signature.ParameterTypes(m, signature.Prose)
		target := ""
		if m.HasOwnPage() {
			target, _ = c.table.Path(paths.MethodsKey(m.DeclaringType, m.Name))
		}
		summary := c.methodComment(m).Summary
		if from != nil {
			summary = inheritedNote(summary, from)
		}
		rows = append(rows, [2]string{link(name, target), summary})
	}
	for _, m := range t.Methods {
		if !m.SpecialName {
			add(m, nil)
		}
	}
	for _, im := range t.InheritedMethods() {
		add(im.Member, im.From)
	}
	if len(rows) == 0 {
		return
	}
	d.heading(3, "Methods")
	d.table(rows)
}

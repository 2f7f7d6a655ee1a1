package pages

import (
	"git.home.luguber.info/inful/refdoc/internal/comments"
	"git.home.luguber.info/inful/refdoc/internal/docid"
	"git.home.luguber.info/inful/refdoc/internal/paths"
	"git.home.luguber.info/inful/refdoc/internal/signature"
	"git.home.luguber.info/inful/refdoc/internal/symbols"
)

// ConstructorsPage composes the constructor group page of t. A single
// constructor gets the detail layout directly; several get an overload
// table first.
func (c *Composer) ConstructorsPage(t *symbols.Type) Page {
	return c.overloadPage(paths.ConstructorsKey(t), t, t.Constructors, "Constructor", "Constructors")
}

// MethodsPage composes the page of the methods named name on t that get a
// page of their own.
func (c *Composer) MethodsPage(t *symbols.Type, name string) Page {
	var group []*symbols.Method
	for _, m := range t.Methods {
		if m.Name == name && m.HasOwnPage() {
			group = append(group, m)
		}
	}
	return c.overloadPage(paths.MethodsKey(t, name), t, group, "Method", "Methods")
}

func (c *Composer) overloadPage(key paths.Key, t *symbols.Type, group []*symbols.Method, single, plural string) Page {
	owner := signature.QualifiedTypeName(t, signature.Prose)
	plainOwner := signature.QualifiedTypeName(t, signature.Plain)
	d := &doc{}
	if len(group) == 0 {
		// A table key always has at least one member; keep the page valid anyway.
		d.heading(1, owner+" "+plural)
		c.breadcrumb(d, t.Namespace)
		return c.page(key, plainOwner+" "+plural, key.Name, d)
	}

	first := group[0]
	var pageTitle string
	if len(group) == 1 {
		d.heading(1, owner+"."+signature.MemberName(first, signature.Prose)+signature.ParameterTypes(first, signature.Prose)+" "+single)
		pageTitle = plainOwner + "." + signature.MemberName(first, signature.Plain) + signature.ParameterTypes(first, signature.Plain) + " " + single
		c.breadcrumb(d, t.Namespace)
		c.methodDetails(d, first, c.methodComment(first))
	} else {
		d.heading(1, owner+"."+signature.MemberName(first, signature.Prose)+" "+plural)
		pageTitle = plainOwner + "." + signature.MemberName(first, signature.Plain) + " " + plural
		c.breadcrumb(d, t.Namespace)

		rows := make([][2]string, 0, len(group))
		for _, m := range group {
			rows = append(rows, [2]string{overloadName(m), c.methodComment(m).Summary})
		}
		d.heading(2, "Overloads")
		d.table(rows)

		for _, m := range group {
			d.heading(2, overloadName(m))
			c.methodDetails(d, m, c.methodComment(m))
		}
	}

	id := docid.ForMethod(first)
	if len(group) > 1 {
		id = ""
	}
	return c.page(key, pageTitle, id, d)
}

func overloadName(m *symbols.Method) string {
	return signature.MemberName(m, signature.Prose) + signature.ParameterTypes(m, signature.Prose)
}

func (c *Composer) methodDetails(d *doc, m *symbols.Method, cm comments.Comment) {
	d.para(cm.Summary)
	d.code("c#", signature.SignatureBlock(m, m.DeclaringType.IsInterface()))
	if len(m.GenericParameters) > 0 {
		d.heading(3, "Type Parameters")
		for _, gp := range m.GenericParameters {
			d.lines("**"+codeSpan(gp.Name)+"**", cm.TypeParam(gp.Name))
		}
	}
	parameterDetails(d, m.Parameters, cm)
	returns(d, m, cm)
	c.exceptions(d, cm, docid.ForMethod(m))
	remarks(d, 3, cm)
}

// PropertyPage composes the page of the property name on t. Indexer
// overloads share the page, one section each.
func (c *Composer) PropertyPage(t *symbols.Type, name string) Page {
	var group []*symbols.Property
	for _, p := range t.Properties {
		if p.Name == name {
			group = append(group, p)
		}
	}
	key := paths.PropertyKey(t, name)
	d := &doc{}
	d.heading(1, signature.QualifiedTypeName(t, signature.Prose)+"."+name+" Property")
	c.breadcrumb(d, t.Namespace)

	id := ""
	if len(group) == 1 {
		id = docid.ForProperty(group[0])
	}
	for _, p := range group {
		if len(group) > 1 {
			d.heading(2, name+indexTypes(p))
		}
		c.propertyDetails(d, p, c.propertyComment(p))
	}
	return c.page(key, signature.QualifiedTypeName(t, signature.Plain)+"."+name+" Property", id, d)
}

// indexTypes renders "[Int32, String]" for an indexer and nothing otherwise.
func indexTypes(p *symbols.Property) string {
	if len(p.Parameters) == 0 {
		return ""
	}
	m := &symbols.Method{Parameters: p.Parameters}
	list := signature.ParameterTypes(m, signature.Prose)
	return "[" + list[1:len(list)-1] + "]"
}

func (c *Composer) propertyDetails(d *doc, p *symbols.Property, cm comments.Comment) {
	d.para(cm.Summary)
	d.code("c#", signature.PropertyDeclaration(p, p.DeclaringType.IsInterface()))
	parameterDetails(d, p.Parameters, cm)
	d.heading(3, "Property Value")
	d.lines(signature.TypeName(p.Type, signature.ProseAliased), cm.Value)
	c.exceptions(d, cm, docid.ForProperty(p))
	remarks(d, 3, cm)
}

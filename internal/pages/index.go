package pages

import (
	"git.home.luguber.info/inful/refdoc/internal/paths"
	"git.home.luguber.info/inful/refdoc/internal/signature"
	"git.home.luguber.info/inful/refdoc/internal/symbols"
)

// NamespacePage composes the index of one namespace. types must already be
// in display order; each row carries the type's one-line summary, empty when
// the type is undocumented.
func (c *Composer) NamespacePage(ns string, types []*symbols.Type) Page {
	d := &doc{}
	d.heading(1, namespaceTitle(ns)+" Namespace")
	d.lines("Assembly: " + c.assemblyLink())

	rows := make([][2]string, 0, len(types))
	for _, t := range types {
		rows = append(rows, [2]string{
			c.typeLink(t, signature.QualifiedTypeName(t, signature.Prose)),
			c.typeComment(t).Summary,
		})
	}
	d.table(rows)

	plain := ns
	if plain == "" {
		plain = "<empty>"
	}
	return c.page(paths.NamespaceKey(ns), plain+" Namespace", "N:"+ns, d)
}

// AssemblyPage composes the assembly index listing every namespace.
func (c *Composer) AssemblyPage(namespaces []string) Page {
	d := &doc{}
	name := c.asm.Name + ".dll"
	d.heading(1, name)

	rows := make([]string, 0, len(namespaces))
	for _, ns := range namespaces {
		target, _ := c.table.Path(paths.NamespaceKey(ns))
		rows = append(rows, link(namespaceTitle(ns), target))
	}
	d.list(rows)

	return c.page(paths.AssemblyKey(c.asm), name, "A:"+c.asm.Name, d)
}

func (c *Composer) assemblyLink() string {
	target, _ := c.table.Path(paths.AssemblyKey(c.asm))
	return link(c.assemblyFile(), target)
}

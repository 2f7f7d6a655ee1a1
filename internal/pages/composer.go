// Package pages composes the Markdown pages of one assembly from the symbol
// model, the comment store and the path table.
//
// Composition is pure: the same inputs always yield byte-identical pages.
// Degradations such as unresolvable references are reported through the
// Diagnostics callback and never appear in page text.
package pages

import (
	"path/filepath"
	"sync"

	"git.home.luguber.info/inful/refdoc/internal/comments"
	"git.home.luguber.info/inful/refdoc/internal/docid"
	ferrors "git.home.luguber.info/inful/refdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/refdoc/internal/frontmatter"
	"git.home.luguber.info/inful/refdoc/internal/paths"
	"git.home.luguber.info/inful/refdoc/internal/signature"
	"git.home.luguber.info/inful/refdoc/internal/symbols"
)

// Page is one composed page.
type Page struct {
	Key   paths.Key
	Path  string
	Title string // plain title, without Markdown escapes
	DocID string
	Body  []byte
}

// DiagnosticFunc receives degradations found while composing. It may be
// called from several goroutines at once.
type DiagnosticFunc func(*ferrors.ClassifiedError)

// Options tune page output.
type Options struct {
	// FrontMatter prefixes every page with YAML front matter carrying title,
	// doc_id, kind and a content fingerprint.
	FrontMatter bool
	Diagnostics DiagnosticFunc
}

// Composer renders the pages of one assembly. It is safe for concurrent use.
type Composer struct {
	asm      *symbols.Assembly
	comments *comments.Store
	table    *paths.Table
	opts     Options

	byDocID map[string]*symbols.Type

	// reported dedupes diagnostics for references seen on several pages.
	reportedMu sync.Mutex
	reported   map[string]bool
}

// NewComposer prepares a composer. store may be nil.
func NewComposer(asm *symbols.Assembly, store *comments.Store, table *paths.Table, opts Options) *Composer {
	c := &Composer{
		asm:      asm,
		comments: store,
		table:    table,
		opts:     opts,
		byDocID:  make(map[string]*symbols.Type, len(asm.Types)+len(asm.References)),
		reported: make(map[string]bool),
	}
	for _, t := range asm.Types {
		c.byDocID[docid.ForType(t)] = t
	}
	for _, t := range asm.References {
		c.byDocID[docid.ForType(t)] = t
	}
	return c
}

// Render returns the page bytes as written to disk, with front matter when
// enabled.
func (c *Composer) Render(p Page) ([]byte, error) {
	if !c.opts.FrontMatter {
		return p.Body, nil
	}
	fields := map[string]any{
		"title":  p.Title,
		"doc_id": p.DocID,
		"kind":   string(p.Key.Kind),
	}
	out, err := frontmatter.Stamp(fields, p.Body)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryOutput, "render front matter").
			WithContext("page", p.Path).Build()
	}
	return out, nil
}

func (c *Composer) page(key paths.Key, title, id string, d *doc) Page {
	p, _ := c.table.Path(key)
	return Page{Key: key, Path: p, Title: title, DocID: id, Body: d.bytes()}
}

func (c *Composer) diag(key string, err *ferrors.ClassifiedError) {
	if c.opts.Diagnostics == nil {
		return
	}
	c.reportedMu.Lock()
	seen := c.reported[key]
	c.reported[key] = true
	c.reportedMu.Unlock()
	if !seen {
		c.opts.Diagnostics(err)
	}
}

// assemblyFile is the file name shown in breadcrumbs.
func (c *Composer) assemblyFile() string {
	if c.asm.File != "" {
		return filepath.Base(c.asm.File)
	}
	return c.asm.Name + ".dll"
}

// namespaceTitle is the display name of a namespace.
func namespaceTitle(ns string) string {
	if ns == "" {
		return "&lt;empty&gt;"
	}
	return ns
}

func (c *Composer) breadcrumb(d *doc, ns string) {
	nsPath, _ := c.table.Path(paths.NamespaceKey(ns))
	d.lines(
		"Namespace: "+link(namespaceTitle(ns), nsPath),
		"Assembly: "+c.assemblyFile(),
	)
}

// typeLink links to a type page when the run emits one.
func (c *Composer) typeLink(t *symbols.Type, text string) string {
	p, _ := c.table.Path(paths.TypeKey(t))
	return link(text, p)
}

const maxInheritDepth = 8

// resolve returns the comment of id with <inheritdoc/> followed: first the
// cref, then the candidates in order. Fields the member documents itself win
// over inherited ones.
func (c *Composer) resolve(id string, candidates func() []string) comments.Comment {
	merged := c.comments.Lookup(id)
	if !merged.InheritDoc {
		return merged
	}
	var queue []string
	if merged.InheritCref != "" {
		queue = append(queue, merged.InheritCref)
	}
	if candidates != nil {
		queue = append(queue, candidates()...)
	}
	seen := map[string]bool{id: true}
	for depth := 0; merged.InheritDoc && len(queue) > 0 && depth < maxInheritDepth; {
		next := queue[0]
		queue = queue[1:]
		if seen[next] || !c.comments.Has(next) {
			continue
		}
		seen[next] = true
		depth++
		src := c.comments.Lookup(next)
		merged = inherit(merged, src)
		if src.InheritDoc && src.InheritCref != "" {
			queue = append([]string{src.InheritCref}, queue...)
		}
	}
	merged.InheritDoc = false
	merged.InheritCref = ""
	return merged
}

func inherit(own, src comments.Comment) comments.Comment {
	out := own
	if out.Summary == "" {
		out.Summary = src.Summary
	}
	if out.Remarks == "" {
		out.Remarks = src.Remarks
	}
	if out.Returns == "" {
		out.Returns = src.Returns
	}
	if out.Value == "" {
		out.Value = src.Value
	}
	out.Params = mergeText(own.Params, src.Params)
	out.TypeParams = mergeText(own.TypeParams, src.TypeParams)
	if len(out.Exceptions) == 0 {
		out.Exceptions = src.Exceptions
	}
	out.InheritDoc = src.InheritDoc
	return out
}

func mergeText(own, src map[string]string) map[string]string {
	if len(src) == 0 {
		return own
	}
	out := make(map[string]string, len(own)+len(src))
	for k, v := range src {
		out[k] = v
	}
	for k, v := range own {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// baseTypes returns the resolved ancestors nearest first, then the resolved
// interfaces.
func baseTypes(t *symbols.Type) []*symbols.Type {
	var out []*symbols.Type
	chain := t.InheritanceChain()
	for i := len(chain) - 1; i >= 0; i-- {
		if chain[i].Resolved != nil {
			out = append(out, chain[i].Resolved)
		}
	}
	for _, iface := range t.AllInterfaces() {
		if iface.Resolved != nil {
			out = append(out, iface.Resolved)
		}
	}
	return out
}

func (c *Composer) typeComment(t *symbols.Type) comments.Comment {
	return c.resolve(docid.ForType(t), func() []string {
		var ids []string
		for _, b := range baseTypes(t) {
			ids = append(ids, docid.ForType(b))
		}
		return ids
	})
}

func (c *Composer) methodComment(m *symbols.Method) comments.Comment {
	return c.resolve(docid.ForMethod(m), func() []string {
		if m.IsConstructor() {
			return nil
		}
		key := m.OverrideKey()
		var ids []string
		for _, b := range baseTypes(m.DeclaringType) {
			for _, bm := range b.Methods {
				if bm.OverrideKey() == key {
					ids = append(ids, docid.ForMethod(bm))
				}
			}
		}
		return ids
	})
}

func (c *Composer) propertyComment(p *symbols.Property) comments.Comment {
	return c.resolve(docid.ForProperty(p), func() []string {
		var ids []string
		for _, b := range baseTypes(p.DeclaringType) {
			for _, bp := range b.Properties {
				if bp.Name == p.Name && len(bp.Parameters) == len(p.Parameters) {
					ids = append(ids, docid.ForProperty(bp))
				}
			}
		}
		return ids
	})
}

// exceptionName renders an exception cref: a link when the type has a page,
// its display name when it is known, and its short name otherwise.
func (c *Composer) exceptionName(cref, symbol string) string {
	if t, ok := c.byDocID[cref]; ok {
		name := signature.QualifiedTypeName(t, signature.Prose)
		if t.Documented && t.Exported() {
			return c.typeLink(t, name)
		}
		return name
	}
	c.diag("cref:"+cref, ferrors.ResolutionError("unresolved exception reference").
		WithContext("reference", cref).
		WithContext("symbol", symbol).
		Build())
	return signature.ShortName(cref)
}

func (c *Composer) exceptions(d *doc, cm comments.Comment, symbol string) {
	if len(cm.Exceptions) == 0 {
		return
	}
	d.heading(3, "Exceptions")
	for _, e := range cm.Exceptions {
		d.lines(c.exceptionName(e.Cref, symbol), e.Text)
	}
}

func remarks(d *doc, level int, cm comments.Comment) {
	if cm.Remarks == "" {
		return
	}
	d.heading(level, "Remarks")
	d.para(cm.Remarks)
}

func typeParameters(d *doc, params []*symbols.GenericParameter, cm comments.Comment) {
	if len(params) == 0 {
		return
	}
	rows := make([][2]string, 0, len(params))
	for _, gp := range params {
		rows = append(rows, [2]string{codeSpan(gp.Name), cm.TypeParam(gp.Name)})
	}
	d.heading(4, "Type Parameters")
	d.table(rows)
}

func parameterDetails(d *doc, params []*symbols.Parameter, cm comments.Comment) {
	if len(params) == 0 {
		return
	}
	d.heading(3, "Parameters")
	for _, p := range params {
		d.lines("**"+codeSpan(p.Name)+"** "+signature.TypeName(p.Type, signature.ProseAliased), cm.Param(p.Name))
	}
}

func returns(d *doc, m *symbols.Method, cm comments.Comment) {
	if m.IsConstructor() || m.IsVoid() {
		return
	}
	d.heading(3, "Returns")
	d.lines(signature.TypeName(m.Return, signature.ProseAliased), cm.Returns)
}

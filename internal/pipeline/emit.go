package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	ferrors "git.home.luguber.info/inful/refdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/refdoc/internal/frontmatter"
	"git.home.luguber.info/inful/refdoc/internal/logfields"
	"git.home.luguber.info/inful/refdoc/internal/pages"
	"git.home.luguber.info/inful/refdoc/internal/paths"
	"git.home.luguber.info/inful/refdoc/internal/symbols"
	"git.home.luguber.info/inful/refdoc/internal/util/sets"
)

// stageEmitTypes writes every type's pages, one task per type.
func stageEmitTypes(ctx context.Context, rs *RunState) error {
	return rs.emitEach(ctx, StageEmitTypes, len(rs.Types), func(i int) []pages.Page {
		return typePages(rs.Composer, rs.Types[i])
	})
}

// stageEmitNamespaces writes one index page per namespace.
func stageEmitNamespaces(ctx context.Context, rs *RunState) error {
	return rs.emitEach(ctx, StageEmitNamespaces, len(rs.Namespaces), func(i int) []pages.Page {
		ns := rs.Namespaces[i]
		return []pages.Page{rs.Composer.NamespacePage(ns, rs.ByNamespace[ns])}
	})
}

// stageEmitAssembly writes the assembly page when more than one namespace exists.
func stageEmitAssembly(ctx context.Context, rs *RunState) error {
	if len(rs.Namespaces) < 2 {
		return nil
	}
	return rs.emitEach(ctx, StageEmitAssembly, 1, func(int) []pages.Page {
		return []pages.Page{rs.Composer.AssemblyPage(rs.Namespaces)}
	})
}

// typePages composes the pages of one type: member pages first, the type
// page last. A delegate has only its own page.
func typePages(c *pages.Composer, t *symbols.Type) []pages.Page {
	if t.IsDelegate() {
		return []pages.Page{c.TypePage(t)}
	}
	var out []pages.Page
	if len(t.Constructors) > 0 {
		out = append(out, c.ConstructorsPage(t))
	}
	for _, name := range paths.PropertyNames(t) {
		out = append(out, c.PropertyPage(t, name))
	}
	for _, name := range paths.MethodGroups(t) {
		out = append(out, c.MethodsPage(t, name))
	}
	return append(out, c.TypePage(t))
}

// emitEach runs compose(i) for i in [0,n) on a pool bounded by the worker
// limit and writes the resulting pages. Write failures are recorded per page
// and never stop sibling tasks; cancellation stops scheduling new ones.
func (rs *RunState) emitEach(ctx context.Context, stage StageName, n int, compose func(int) []pages.Page) error {
	rs.Recorder.SetWorkers(rs.Options.Workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rs.Options.Workers)
	for i := range n {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for _, p := range compose(i) {
				if err := rs.writePage(gctx, p); err != nil {
					return err
				}
			}
			return nil
		})
	}
	err := g.Wait()
	if cerr := ctx.Err(); cerr != nil {
		return newCanceledStageError(stage, cerr)
	}
	if err != nil {
		return newFatalStageError(stage, err)
	}
	return nil
}

// writePage renders p and writes it unless the stored page is unchanged.
// Only cancellation is returned; every other failure is recorded.
func (rs *RunState) writePage(ctx context.Context, p pages.Page) error {
	kind := string(p.Key.Kind)
	data, err := rs.Composer.Render(p)
	if err == nil {
		rs.recordLinks(p)
		if old, rerr := rs.Store.Read(ctx, p.Path); rerr == nil && unchanged(old, data, rs.Options.FrontMatter) {
			rs.Report.countPage(func(c *PageCounts) { c.Unchanged++ })
			rs.Recorder.IncPageUnchanged(kind)
			rs.Logger.Debug("page unchanged", logfields.Page(p.Path), logfields.PageKind(kind))
			return nil
		}
		err = rs.Store.Write(ctx, p.Path, data)
	}
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		rs.Report.countPage(func(c *PageCounts) { c.Failed++ })
		rs.Recorder.IncPageFailed(kind)
		ce, ok := ferrors.AsClassified(err)
		if !ok || !ce.IsCategory(ferrors.CategoryOutput) {
			ce = ferrors.WrapError(err, ferrors.CategoryOutput, "page write failed").Build()
		}
		rs.diagnose(ce.WithContext("page", p.Path))
		return nil
	}

	rs.Report.countPage(func(c *PageCounts) { c.Written++ })
	rs.Recorder.IncPageWritten(kind)
	rs.Logger.Debug("page written", logfields.Page(p.Path), logfields.PageKind(kind), logfields.DocID(p.DocID))
	return nil
}

// unchanged compares by fingerprint when pages carry front matter and by
// content otherwise.
func unchanged(old, data []byte, fingerprinted bool) bool {
	if fingerprinted {
		fp := frontmatter.ReadFingerprint(data)
		return fp != "" && fp == frontmatter.ReadFingerprint(old)
	}
	return bytes.Equal(old, data)
}

func (rs *RunState) recordLinks(p pages.Page) {
	if !rs.Options.VerifyLinks {
		return
	}
	rs.linksMu.Lock()
	defer rs.linksMu.Unlock()
	rs.links[p.Path] = extractDestinations(p.Body)
}

// stageCleanOutput removes stored pages this run did not produce.
func stageCleanOutput(ctx context.Context, rs *RunState) error {
	existing, err := rs.Store.List(ctx)
	if err != nil {
		return newWarnStageError(StageCleanOutput, fmt.Errorf("list output: %w", err))
	}
	var failed int
	for _, p := range sets.New(existing...).Missing(rs.Table.Paths()) {
		if err := rs.Store.Remove(ctx, p); err != nil {
			if ctx.Err() != nil {
				return newCanceledStageError(StageCleanOutput, ctx.Err())
			}
			failed++
			rs.diagnose(ferrors.WrapError(err, ferrors.CategoryOutput, "stale page not removed").
				Warning().WithContext("page", p).Build())
			continue
		}
		rs.Report.countPage(func(c *PageCounts) { c.Removed++ })
		rs.Logger.Debug("stale page removed", logfields.Page(p))
	}
	if failed > 0 {
		return newWarnStageError(StageCleanOutput, fmt.Errorf("%d stale pages not removed", failed))
	}
	return nil
}

package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"git.home.luguber.info/inful/refdoc/internal/comments"
	ferrors "git.home.luguber.info/inful/refdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/refdoc/internal/logfields"
	"git.home.luguber.info/inful/refdoc/internal/pages"
	"git.home.luguber.info/inful/refdoc/internal/paths"
	"git.home.luguber.info/inful/refdoc/internal/symbols"
)

var errNoExportedTypes = errors.New("assembly exports no types")

// stageCollectSymbols loads the model and comment store when not preloaded
// and selects the exported types. Loader diagnostics become report issues.
func stageCollectSymbols(_ context.Context, rs *RunState) error {
	if rs.Assembly == nil {
		asm, err := symbols.Load(rs.Source.MetadataPath)
		if err != nil {
			if ce, ok := ferrors.AsClassified(err); ok {
				rs.diagnose(ce)
			}
			return newFatalStageError(StageCollectSymbols, err)
		}
		rs.Assembly = asm
	}
	if rs.Comments == nil {
		rs.Comments = comments.Empty()
		if p := rs.Source.CommentsPath; p != "" {
			store, err := comments.Load(p)
			if err != nil {
				if ce, ok := ferrors.AsClassified(err); ok {
					rs.diagnose(ce)
				}
			}
			rs.Comments = store
		}
	}

	for _, d := range rs.Assembly.Diagnostics {
		rs.diagnose(d)
	}

	rs.Types = rs.Assembly.ExportedTypes()
	rs.Report.mu.Lock()
	rs.Report.Assembly = rs.Assembly.Name
	rs.Report.Types = len(rs.Types)
	rs.Report.mu.Unlock()

	rs.Logger.Info("symbols collected",
		logfields.Assembly(rs.Assembly.Name),
		logfields.Count(len(rs.Types)),
		slog.Int("comments", rs.Comments.Len()),
		slog.Int("diagnostics", len(rs.Assembly.Diagnostics)))

	if len(rs.Types) == 0 {
		return newWarnStageError(StageCollectSymbols, errNoExportedTypes)
	}
	return nil
}

// stageGroupNamespaces partitions the exported types by namespace, orders
// namespaces and the types within each ordinally, then derives every page
// path in that order and prepares the composer.
func stageGroupNamespaces(_ context.Context, rs *RunState) error {
	rs.Namespaces, rs.ByNamespace = groupByNamespace(rs.Types)

	ordered := make([]*symbols.Type, 0, len(rs.Types))
	for _, ns := range rs.Namespaces {
		ordered = append(ordered, rs.ByNamespace[ns]...)
	}
	rs.Types = ordered

	rs.Table = paths.Build(rs.Assembly, rs.Types)
	rs.Composer = pages.NewComposer(rs.Assembly, rs.Comments, rs.Table, pages.Options{
		FrontMatter: rs.Options.FrontMatter,
		Diagnostics: rs.diagnose,
	})

	rs.Report.mu.Lock()
	rs.Report.Namespaces = len(rs.Namespaces)
	rs.Report.mu.Unlock()

	rs.Logger.Info("namespaces grouped",
		logfields.Count(len(rs.Namespaces)),
		slog.Int("pages", rs.Table.Len()))
	return nil
}

// groupByNamespace returns the namespaces in ordinal order and each
// namespace's types ordered by simple name. Ties between same-named types
// (different arity or nesting) fall back to the full CLR name.
func groupByNamespace(types []*symbols.Type) ([]string, map[string][]*symbols.Type) {
	byNS := make(map[string][]*symbols.Type)
	for _, t := range types {
		byNS[t.Namespace] = append(byNS[t.Namespace], t)
	}
	namespaces := make([]string, 0, len(byNS))
	for ns, list := range byNS {
		namespaces = append(namespaces, ns)
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].Name != list[j].Name {
				return list[i].Name < list[j].Name
			}
			return list[i].FullName() < list[j].FullName()
		})
	}
	sort.Strings(namespaces)
	return namespaces, byNS
}

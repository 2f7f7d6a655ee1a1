package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"sort"

	ferrors "git.home.luguber.info/inful/refdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/refdoc/internal/logfields"
	"git.home.luguber.info/inful/refdoc/internal/markdown"
)

func extractDestinations(body []byte) []string {
	links := markdown.ExtractLinks(body, markdown.Options{Tables: true})
	out := make([]string, 0, len(links))
	for _, l := range links {
		out = append(out, l.Destination)
	}
	return out
}

// stageVerifyLinks checks that every relative link written this run points
// at a page of this run. Broken links are warnings.
func stageVerifyLinks(ctx context.Context, rs *RunState) error {
	known := rs.Table.Paths()

	rs.linksMu.Lock()
	pagesWithLinks := make([]string, 0, len(rs.links))
	for p := range rs.links {
		pagesWithLinks = append(pagesWithLinks, p)
	}
	rs.linksMu.Unlock()
	sort.Strings(pagesWithLinks)

	broken := 0
	for _, page := range pagesWithLinks {
		if err := ctx.Err(); err != nil {
			return newCanceledStageError(StageVerifyLinks, err)
		}
		for _, dest := range rs.links[page] {
			target, ok := markdown.LocalTarget(dest)
			if !ok {
				continue
			}
			resolved := path.Join(path.Dir(page), target)
			if known.Has(resolved) {
				continue
			}
			broken++
			rs.diagnoseAs(IssueBrokenLink, ferrors.ResolutionError("broken link in "+page).
				WithContext("page", page).
				WithContext("reference", dest).
				Build())
		}
	}

	rs.Report.mu.Lock()
	rs.Report.BrokenLinks = broken
	rs.Report.mu.Unlock()
	rs.Logger.Info("links verified", logfields.Count(len(pagesWithLinks)), slog.Int("broken", broken))

	if broken > 0 {
		return newWarnStageError(StageVerifyLinks, fmt.Errorf("%d broken links", broken))
	}
	return nil
}

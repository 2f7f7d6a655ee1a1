// Package pipeline runs the page assembly of one assembly. It loads the
// symbol model and comment store, orders namespaces and types, emits every
// page through a bounded worker pool and records a run report.
package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/refdoc/internal/comments"
	ferrors "git.home.luguber.info/inful/refdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/refdoc/internal/logfields"
	"git.home.luguber.info/inful/refdoc/internal/metrics"
	"git.home.luguber.info/inful/refdoc/internal/pages"
	"git.home.luguber.info/inful/refdoc/internal/paths"
	"git.home.luguber.info/inful/refdoc/internal/storage"
	"git.home.luguber.info/inful/refdoc/internal/symbols"
)

// Options control one run.
type Options struct {
	// Workers bounds concurrent page emission. Values below 1 mean 1.
	Workers     int
	FrontMatter bool
	VerifyLinks bool
	// Clean removes pages left over from earlier runs that this run did not produce.
	Clean bool
	// ReportName is the run report file written into the store; empty disables it.
	ReportName string
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder. The default records nothing.
func WithRecorder(r metrics.Recorder) Option {
	return func(g *Generator) {
		if r != nil {
			g.recorder = r
		}
	}
}

// Generator runs generation into one page store.
type Generator struct {
	store    storage.PageStore
	opts     Options
	logger   *slog.Logger
	recorder metrics.Recorder
}

// New returns a Generator writing into store.
func New(store storage.PageStore, opts Options, options ...Option) *Generator {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	g := &Generator{
		store:    store,
		opts:     opts,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, o := range options {
		o(g)
	}
	return g
}

// Source names the inputs of a run. A preloaded Assembly or Comments store
// takes precedence over the corresponding path.
type Source struct {
	MetadataPath string
	// CommentsPath may name a missing file; every lookup is then empty.
	CommentsPath string

	Assembly *symbols.Assembly
	Comments *comments.Store
}

// RunState carries inputs and intermediate results across stages.
type RunState struct {
	Source   Source
	Options  Options
	Store    storage.PageStore
	Logger   *slog.Logger
	Recorder metrics.Recorder
	Report   *RunReport

	Assembly *symbols.Assembly
	Comments *comments.Store

	// Types are the exported types, in emission order once grouped.
	Types       []*symbols.Type
	Namespaces  []string
	ByNamespace map[string][]*symbols.Type
	Table       *paths.Table
	Composer    *pages.Composer

	// stage is the running stage; set before any stage goroutine starts.
	stage StageName

	linksMu sync.Mutex
	links   map[string][]string // page path -> link destinations
}

// Run executes one generation. The report is returned even on failure. The
// error is the fatal stage cause, a canceled error, or an output error when
// any page could not be written.
func (g *Generator) Run(ctx context.Context, src Source) (*RunReport, error) {
	start := time.Now()
	runID := uuid.NewString()
	report := newRunReport(runID)
	logger := g.logger.With(logfields.RunID(runID))

	rs := &RunState{
		Source:   src,
		Options:  g.opts,
		Store:    g.store,
		Logger:   logger,
		Recorder: g.recorder,
		Report:   report,
		Assembly: src.Assembly,
		Comments: src.Comments,
		links:    make(map[string][]string),
	}

	stages := []namedStage{
		{StageCollectSymbols, stageCollectSymbols},
		{StageGroupNamespaces, stageGroupNamespaces},
		{StageEmitTypes, stageEmitTypes},
		{StageEmitNamespaces, stageEmitNamespaces},
		{StageEmitAssembly, stageEmitAssembly},
	}
	if g.opts.Clean {
		stages = append(stages, namedStage{StageCleanOutput, stageCleanOutput})
	}
	if g.opts.VerifyLinks {
		stages = append(stages, namedStage{StageVerifyLinks, stageVerifyLinks})
	}

	err := runStages(ctx, rs, stages)
	report.finish()

	// A run that never collected its symbols writes nothing, not even the report.
	if g.opts.ReportName != "" && report.Assembly != "" {
		if perr := report.Persist(context.WithoutCancel(ctx), g.store, g.opts.ReportName); perr != nil {
			logger.Warn("run report not written", logfields.Path(g.opts.ReportName), logfields.Error(perr))
		}
	}

	g.recorder.ObserveRunDuration(time.Since(start))
	g.recorder.IncRunOutcome(metrics.OutcomeLabel(report.Outcome))
	logger.Info("run complete", slog.String("summary", report.Summary()))

	return report, runError(report, err)
}

func runError(report *RunReport, err error) error {
	if err != nil {
		if se, ok := err.(*StageError); ok && se.Kind == StageErrorCanceled {
			return ferrors.WrapError(se.Err, ferrors.CategoryCanceled, "generation canceled").
				WithContext("stage", string(se.Stage)).Build()
		}
		if ferrors.IsClassified(err) {
			return err
		}
		return ferrors.WrapError(err, ferrors.CategoryInternal, "generation failed").Build()
	}
	if failed := report.Pages.Failed; failed > 0 {
		return ferrors.OutputError("some pages could not be written").
			WithContext("failed", failed).Build()
	}
	return nil
}

// diagnose records a degradation as a report issue, a metric and a log line.
func (rs *RunState) diagnose(err *ferrors.ClassifiedError) {
	rs.diagnoseAs(issueCode(err.Category()), err)
}

func (rs *RunState) diagnoseAs(code ReportIssueCode, err *ferrors.ClassifiedError) {
	issue := ReportIssue{
		Code:     code,
		Stage:    rs.stage,
		Severity: err.Severity(),
		Message:  err.Message(),
		Symbol:   err.Context().Subject(),
	}
	rs.Report.addIssue(issue)
	rs.Recorder.IncDiagnostic(string(err.Category()))

	attrs := []slog.Attr{
		logfields.Stage(string(issue.Stage)),
		slog.String("category", string(err.Category())),
	}
	if issue.Symbol != "" {
		attrs = append(attrs, logfields.Reference(issue.Symbol))
	}
	if cause := err.Cause(); cause != nil {
		attrs = append(attrs, logfields.Error(cause))
	}
	rs.Logger.LogAttrs(context.Background(), ferrors.SlogLevel(err.Severity()), err.Message(), attrs...)
}

func issueCode(cat ferrors.ErrorCategory) ReportIssueCode {
	switch cat {
	case ferrors.CategoryLoad:
		return IssueLoadFailure
	case ferrors.CategoryResolution:
		return IssueUnresolvedReference
	case ferrors.CategoryComment:
		return IssueCommentFailure
	case ferrors.CategoryOutput:
		return IssueWriteFailure
	case ferrors.CategoryCanceled:
		return IssueCanceled
	default:
		return IssueGenericStageError
	}
}

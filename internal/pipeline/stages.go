package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/refdoc/internal/logfields"
	"git.home.luguber.info/inful/refdoc/internal/metrics"
)

// StageName identifies a pipeline stage in reports, logs and metrics.
type StageName string

const (
	StageCollectSymbols  StageName = "collect_symbols"
	StageGroupNamespaces StageName = "group_namespaces"
	StageEmitTypes       StageName = "emit_types"
	StageEmitNamespaces  StageName = "emit_namespaces"
	StageEmitAssembly    StageName = "emit_assembly"
	StageCleanOutput     StageName = "clean_output"
	StageVerifyLinks     StageName = "verify_links"
)

// Stage is a discrete unit of work in a run.
type Stage func(ctx context.Context, rs *RunState) error

type namedStage struct {
	name StageName
	fn   Stage
}

// StageErrorKind enumerates structured stage error categories.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Run must abort.
	StageErrorWarning  StageErrorKind = "warning"  // Non-fatal; record and continue.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying category and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}
func newWarnStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorWarning, Stage: stage, Err: err}
}
func newCanceledStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// runStages executes stages in order, recording timing and stopping on the
// first fatal or canceled stage.
func runStages(ctx context.Context, rs *RunState, stages []namedStage) error {
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			se := newCanceledStageError(st.name, err)
			rs.recordStage(st.name, 0, se)
			return se
		}

		rs.stage = st.name
		rs.Logger.Debug("stage start", logfields.Stage(string(st.name)))
		t0 := time.Now()
		err := st.fn(ctx, rs)
		dur := time.Since(t0)

		var se *StageError
		if err != nil && !errors.As(err, &se) {
			se = newFatalStageError(st.name, err)
		}
		rs.recordStage(st.name, dur, se)
		if se == nil {
			continue
		}
		switch se.Kind {
		case StageErrorWarning:
			rs.Logger.Warn("stage completed with warnings",
				logfields.Stage(string(st.name)), logfields.Error(se.Err))
			continue
		case StageErrorCanceled, StageErrorFatal:
			return se
		}
	}
	return nil
}

// recordStage updates the report and metrics for one finished stage.
func (rs *RunState) recordStage(name StageName, dur time.Duration, se *StageError) {
	rs.Report.mu.Lock()
	defer rs.Report.mu.Unlock()

	rs.Report.StageDurations[name] = dur
	sc := rs.Report.StageCounts[name]
	result := metrics.ResultSuccess
	if se == nil {
		sc.Success++
	} else {
		rs.Report.StageErrorKinds[name] = se.Kind
		switch se.Kind {
		case StageErrorWarning:
			sc.Warning++
			result = metrics.ResultWarning
			rs.Report.Warnings = append(rs.Report.Warnings, se)
		case StageErrorCanceled:
			sc.Canceled++
			result = metrics.ResultCanceled
			rs.Report.Errors = append(rs.Report.Errors, se)
		case StageErrorFatal:
			sc.Fatal++
			result = metrics.ResultFatal
			rs.Report.Errors = append(rs.Report.Errors, se)
		}
	}
	rs.Report.StageCounts[name] = sc

	rs.Recorder.ObserveStageDuration(string(name), dur)
	rs.Recorder.IncStageResult(string(name), result)
	rs.Logger.Debug("stage done",
		logfields.Stage(string(name)),
		logfields.DurationMS(float64(dur.Microseconds())/1000),
		slog.String("result", string(result)))
}

package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	ferrors "git.home.luguber.info/inful/refdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/refdoc/internal/storage"
)

// RunOutcome is the typed enumeration of final run result states.
type RunOutcome string

const (
	OutcomeSuccess  RunOutcome = "success"
	OutcomeWarning  RunOutcome = "warning"
	OutcomeFailed   RunOutcome = "failed"
	OutcomeCanceled RunOutcome = "canceled"
)

// ReportIssueCode enumerates machine-parseable issue identifiers.
// Codes are a stable contract: append only.
type ReportIssueCode string

const (
	IssueLoadFailure         ReportIssueCode = "LOAD_FAILURE"
	IssueUnresolvedReference ReportIssueCode = "UNRESOLVED_REFERENCE"
	IssueCommentFailure      ReportIssueCode = "COMMENT_FAILURE"
	IssueWriteFailure        ReportIssueCode = "WRITE_FAILURE"
	IssueBrokenLink          ReportIssueCode = "BROKEN_LINK"
	IssueCanceled            ReportIssueCode = "RUN_CANCELED"
	IssueGenericStageError   ReportIssueCode = "GENERIC_STAGE_ERROR"
)

// ReportIssue is a structured entry describing one degradation or failure.
type ReportIssue struct {
	Code     ReportIssueCode       `json:"code"`
	Stage    StageName             `json:"stage"`
	Severity ferrors.ErrorSeverity `json:"severity"`
	Message  string                `json:"message"`
	Symbol   string                `json:"symbol,omitempty"`
}

// StageCount aggregates outcome counts for a stage.
type StageCount struct {
	Success  int `json:"success"`
	Warning  int `json:"warning"`
	Fatal    int `json:"fatal"`
	Canceled int `json:"canceled"`
}

// PageCounts tallies page results of a run.
type PageCounts struct {
	Written   int `json:"written"`
	Unchanged int `json:"unchanged"`
	Failed    int `json:"failed"`
	Removed   int `json:"removed"`
}

// RunReport captures what one generation run did. It is safe for concurrent
// updates from emission workers.
type RunReport struct {
	mu sync.Mutex

	SchemaVersion int
	RunID         string
	Assembly      string
	Start         time.Time
	End           time.Time

	Namespaces  int
	Types       int
	Pages       PageCounts
	BrokenLinks int

	StageDurations  map[StageName]time.Duration
	StageErrorKinds map[StageName]StageErrorKind
	StageCounts     map[StageName]StageCount

	Errors   []error // fatal or canceled stage errors
	Warnings []error // non-fatal stage errors
	Issues   []ReportIssue

	Outcome RunOutcome
}

func newRunReport(runID string) *RunReport {
	return &RunReport{
		SchemaVersion:   1,
		RunID:           runID,
		Start:           time.Now(),
		StageDurations:  make(map[StageName]time.Duration),
		StageErrorKinds: make(map[StageName]StageErrorKind),
		StageCounts:     make(map[StageName]StageCount),
	}
}

func (r *RunReport) addIssue(issue ReportIssue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Issues = append(r.Issues, issue)
}

func (r *RunReport) countPage(f func(*PageCounts)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f(&r.Pages)
}

// finish stamps the end time and derives the outcome.
func (r *RunReport) finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.End = time.Now()
	r.Outcome = r.deriveOutcome()
}

func (r *RunReport) deriveOutcome() RunOutcome {
	for _, e := range r.Errors {
		if se, ok := e.(*StageError); ok && se.Kind == StageErrorCanceled {
			return OutcomeCanceled
		}
	}
	if len(r.Errors) > 0 || r.Pages.Failed > 0 {
		return OutcomeFailed
	}
	if len(r.Warnings) > 0 {
		return OutcomeWarning
	}
	for _, is := range r.Issues {
		if is.Severity == ferrors.SeverityWarning || is.Severity == ferrors.SeverityError {
			return OutcomeWarning
		}
	}
	return OutcomeSuccess
}

// Summary returns a human-readable single-line summary.
func (r *RunReport) Summary() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fmt.Sprintf("assembly=%s namespaces=%d types=%d written=%d unchanged=%d failed=%d removed=%d issues=%d duration=%s outcome=%s",
		r.Assembly, r.Namespaces, r.Types, r.Pages.Written, r.Pages.Unchanged, r.Pages.Failed, r.Pages.Removed,
		len(r.Issues), r.End.Sub(r.Start).Truncate(time.Millisecond), r.Outcome)
}

// IssueCount returns the number of issues with the given code.
func (r *RunReport) IssueCount(code ReportIssueCode) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, is := range r.Issues {
		if is.Code == code {
			n++
		}
	}
	return n
}

// runReportJSON is the serialized form: errors become strings and map keys
// plain strings so output is stable.
type runReportJSON struct {
	SchemaVersion    int                   `json:"schema_version"`
	RunID            string                `json:"run_id"`
	Assembly         string                `json:"assembly"`
	Start            time.Time             `json:"start"`
	End              time.Time             `json:"end"`
	Namespaces       int                   `json:"namespaces"`
	Types            int                   `json:"types"`
	Pages            PageCounts            `json:"pages"`
	BrokenLinks      int                   `json:"broken_links"`
	StageDurationsMS map[string]int64      `json:"stage_durations_ms"`
	StageErrorKinds  map[string]string     `json:"stage_error_kinds"`
	StageCounts      map[string]StageCount `json:"stage_counts"`
	Errors           []string              `json:"errors"`
	Warnings         []string              `json:"warnings"`
	Issues           []ReportIssue         `json:"issues"`
	Outcome          RunOutcome            `json:"outcome"`
}

func (r *RunReport) serializable() runReportJSON {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := runReportJSON{
		SchemaVersion:    r.SchemaVersion,
		RunID:            r.RunID,
		Assembly:         r.Assembly,
		Start:            r.Start,
		End:              r.End,
		Namespaces:       r.Namespaces,
		Types:            r.Types,
		Pages:            r.Pages,
		BrokenLinks:      r.BrokenLinks,
		StageDurationsMS: make(map[string]int64, len(r.StageDurations)),
		StageErrorKinds:  make(map[string]string, len(r.StageErrorKinds)),
		StageCounts:      make(map[string]StageCount, len(r.StageCounts)),
		Errors:           make([]string, len(r.Errors)),
		Warnings:         make([]string, len(r.Warnings)),
		Issues:           append([]ReportIssue{}, r.Issues...),
		Outcome:          r.Outcome,
	}
	for k, v := range r.StageDurations {
		s.StageDurationsMS[string(k)] = v.Milliseconds()
	}
	for k, v := range r.StageErrorKinds {
		s.StageErrorKinds[string(k)] = string(v)
	}
	for k, v := range r.StageCounts {
		s.StageCounts[string(k)] = v
	}
	for i, e := range r.Errors {
		s.Errors[i] = e.Error()
	}
	for i, e := range r.Warnings {
		s.Warnings[i] = e.Error()
	}
	return s
}

// MarshalJSON implements json.Marshaler.
func (r *RunReport) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.serializable())
}

// Persist writes the report as indented JSON to name inside store. The
// store write is atomic. Failures are returned for logging and never change
// the run outcome.
func (r *RunReport) Persist(ctx context.Context, store storage.PageStore, name string) error {
	data, err := json.MarshalIndent(r.serializable(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run report: %w", err)
	}
	if err := store.Write(ctx, name, append(data, '\n')); err != nil {
		return fmt.Errorf("write run report: %w", err)
	}
	return nil
}

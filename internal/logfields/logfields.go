package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyAssembly   = "assembly"
	KeyNamespace  = "namespace"
	KeyType       = "type"
	KeyDocID      = "doc_id"
	KeyPage       = "page"
	KeyPageKind   = "page_kind"
	KeyPath       = "path"
	KeyCount      = "count"
	KeyWorkers    = "workers"
	KeyReference  = "reference"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr        { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Assembly(name string) slog.Attr   { return slog.String(KeyAssembly, name) }
func Namespace(ns string) slog.Attr    { return slog.String(KeyNamespace, ns) }
func Type(name string) slog.Attr       { return slog.String(KeyType, name) }
func DocID(id string) slog.Attr        { return slog.String(KeyDocID, id) }
func Page(path string) slog.Attr       { return slog.String(KeyPage, path) }
func PageKind(kind string) slog.Attr   { return slog.String(KeyPageKind, kind) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Workers(n int) slog.Attr          { return slog.Int(KeyWorkers, n) }
func Reference(ref string) slog.Attr   { return slog.String(KeyReference, ref) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"RunID", KeyRunID, "r1", RunID("r1")},
		{"Stage", KeyStage, "emit_types", Stage("emit_types")},
		{"Assembly", KeyAssembly, "Acme.Core", Assembly("Acme.Core")},
		{"Namespace", KeyNamespace, "Acme", Namespace("Acme")},
		{"Type", KeyType, "Acme.Box`1", Type("Acme.Box`1")},
		{"DocID", KeyDocID, "T:Acme.Box`1", DocID("T:Acme.Box`1")},
		{"Page", KeyPage, "acme.box-1.md", Page("acme.box-1.md")},
		{"PageKind", KeyPageKind, "type", PageKind("type")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"Reference", KeyReference, "System.Int32", Reference("System.Int32")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if tc.attr.Value.String() != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %s", tc.name, tc.attrVal, tc.attr.Value.String())
		}
	}
}

func TestNumericAndErrorHelpers(t *testing.T) {
	if a := Count(3); a.Key != KeyCount || a.Value.Int64() != 3 {
		t.Fatalf("unexpected count attr %v", a)
	}
	if a := Workers(8); a.Key != KeyWorkers || a.Value.Int64() != 8 {
		t.Fatalf("unexpected workers attr %v", a)
	}
	if a := DurationMS(1.5); a.Value.Float64() != 1.5 {
		t.Fatalf("unexpected duration attr %v", a)
	}
	if a := Error(nil); a.Value.String() != "" {
		t.Fatalf("nil error should render empty, got %q", a.Value.String())
	}
	if a := Error(errors.New("boom")); a.Value.String() != "boom" {
		t.Fatalf("unexpected error attr %v", a)
	}
}

package annotation

import (
	"encoding/json"
	"testing"

	"github.com/fbschema/fbschema/internal/schema"
	"github.com/google/go-cmp/cmp"
)

const sampleDocument = `{
    "TABLES": {
        "CUSTOMERS": {
            "description": "Registered customers",
            "COLUMNS": {
                "ID": {
                    "description": "Unique customer identifier",
                    "value_mapping_notes": ""
                },
                "STATUS": {
                    "description": "Account status",
                    "value_mapping_notes": "A=active, B=blocked",
                    "reviewed_by": "maria"
                }
            }
        }
    },
    "VIEWS": {
        "V_SALES": {
            "description": "",
            "COLUMNS": {},
            "source_query_hash": "abc123"
        }
    },
    "_GLOBAL_CONTEXT": "ERP database of a building-supplies wholesaler",
    "_EXPORT_VERSION": 3
}`

func TestLoad_ParsesDocument(t *testing.T) {
	store, err := Load([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("Load() warning on well-formed document: %v", err)
	}

	if store.GlobalContext != "ERP database of a building-supplies wholesaler" {
		t.Errorf("GlobalContext = %q", store.GlobalContext)
	}

	customers, ok := store.Object(schema.KindTable, "CUSTOMERS")
	if !ok {
		t.Fatal("CUSTOMERS missing")
	}
	if customers.Description != "Registered customers" {
		t.Errorf("Description = %q", customers.Description)
	}

	status := customers.Columns["STATUS"]
	if status == nil {
		t.Fatal("STATUS column missing")
	}
	if status.ValueMappingNotes != "A=active, B=blocked" {
		t.Errorf("ValueMappingNotes = %q", status.ValueMappingNotes)
	}
	if _, ok := status.Extra["reviewed_by"]; !ok {
		t.Error("unknown per-column field dropped on load")
	}

	if _, ok := store.Extra["_EXPORT_VERSION"]; !ok {
		t.Error("unknown top-level field dropped on load")
	}
}

func TestLoad_MissingOrCorruptInput(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "nil input", data: nil},
		{name: "empty input", data: []byte{}},
		{name: "invalid JSON", data: []byte(`{"TABLES": {`)},
		{name: "wrong top-level type", data: []byte(`[1, 2, 3]`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Load(tt.data)
			if err == nil {
				t.Error("expected a warning error")
			}
			if store == nil {
				t.Fatal("store must never be nil")
			}
			if len(store.Tables) != 0 || len(store.Views) != 0 {
				t.Error("fallback store must be empty")
			}
			// The fallback store must be immediately usable.
			store.Ensure(schema.KindTable, "ANY").EnsureColumn("COL").Description = "x"
		})
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	store, err := Load([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	saved, err := store.Save()
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	var original, roundTripped map[string]any
	if err := json.Unmarshal([]byte(sampleDocument), &original); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(saved, &roundTripped); err != nil {
		t.Fatalf("Save() produced invalid JSON: %v", err)
	}

	if diff := cmp.Diff(original, roundTripped); diff != "" {
		t.Errorf("round trip changed document content (-original +saved):\n%s", diff)
	}

	// A second cycle must be byte-stable.
	reloaded, err := Load(saved)
	if err != nil {
		t.Fatalf("Load(saved) error: %v", err)
	}
	saved2, err := reloaded.Save()
	if err != nil {
		t.Fatalf("second Save() error: %v", err)
	}
	if string(saved) != string(saved2) {
		t.Error("saves are not deterministic")
	}
}

func TestSave_PreservesDriftedEntries(t *testing.T) {
	// Entries with no counterpart in any current graph stay in the saved
	// document untouched.
	store, _ := Load([]byte(sampleDocument))
	store.Ensure(schema.KindTable, "DECOMMISSIONED").Description = "Legacy billing table"

	saved, err := store.Save()
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	reloaded, err := Load(saved)
	if err != nil {
		t.Fatalf("Load(saved) error: %v", err)
	}
	legacy, ok := reloaded.Object(schema.KindTable, "DECOMMISSIONED")
	if !ok || legacy.Description != "Legacy billing table" {
		t.Error("drifted entry was not preserved across save/load")
	}
	if _, ok := reloaded.Object(schema.KindTable, "CUSTOMERS"); !ok {
		t.Error("existing entries must survive unrelated edits")
	}
}

func TestEnsure_CreatesNestedEntries(t *testing.T) {
	store := NewStore()

	col := store.Ensure(schema.KindView, "V_TOTALS").EnsureColumn("TOTAL")
	col.Description = "Sum of order totals"

	if got := store.ColumnDescription(schema.KindView, "V_TOTALS", "TOTAL"); got != "Sum of order totals" {
		t.Errorf("ColumnDescription() = %q", got)
	}
	if got := store.ColumnDescription(schema.KindTable, "V_TOTALS", "TOTAL"); got != "" {
		t.Errorf("kind must partition the namespace, got %q", got)
	}
	if got := store.ColumnDescription(schema.KindView, "V_TOTALS", "MISSING"); got != "" {
		t.Errorf("missing column must read as empty, got %q", got)
	}
}

package annotation

import (
	"testing"

	"github.com/fbschema/fbschema/internal/schema"
	"github.com/google/go-cmp/cmp"
)

func TestDrift(t *testing.T) {
	graph := salesGraph(t) // CUSTOMERS, ORDERS, VENDORS

	store := NewStore()
	store.Ensure(schema.KindTable, "CUSTOMERS").EnsureColumn("ID").Description = "Unique customer identifier"
	// Column renamed away in a later snapshot.
	store.Ensure(schema.KindTable, "CUSTOMERS").EnsureColumn("LEGACY_CODE").Description = "Old branch code"
	// Whole table dropped from the catalog.
	store.Ensure(schema.KindTable, "DECOMMISSIONED").Description = "Legacy billing table"
	// Annotated under the wrong kind.
	store.Ensure(schema.KindView, "ORDERS").Description = "Not actually a view"
	store.Ensure(schema.KindTable, "ORDERS")

	report := Drift(store, graph)

	wantOrphanRelations := []ObjectKey{
		{Kind: schema.KindTable, Relation: "DECOMMISSIONED"},
		{Kind: schema.KindView, Relation: "ORDERS"},
	}
	if diff := cmp.Diff(wantOrphanRelations, report.OrphanRelations); diff != "" {
		t.Errorf("OrphanRelations mismatch (-want +got):\n%s", diff)
	}

	wantOrphanColumns := []ColumnKey{
		{Kind: schema.KindTable, Relation: "CUSTOMERS", Column: "LEGACY_CODE"},
	}
	if diff := cmp.Diff(wantOrphanColumns, report.OrphanColumns); diff != "" {
		t.Errorf("OrphanColumns mismatch (-want +got):\n%s", diff)
	}

	wantUnannotated := []ObjectKey{
		{Kind: schema.KindTable, Relation: "VENDORS"},
	}
	if diff := cmp.Diff(wantUnannotated, report.Unannotated); diff != "" {
		t.Errorf("Unannotated mismatch (-want +got):\n%s", diff)
	}

	if report.Empty() {
		t.Error("Empty() = true for a drifted store")
	}
}

func TestDrift_InSync(t *testing.T) {
	graph := salesGraph(t)

	store := NewStore()
	for _, name := range graph.Names() {
		rel, _ := graph.Get(name)
		store.Ensure(rel.Kind, name)
	}

	if report := Drift(store, graph); !report.Empty() {
		t.Errorf("expected empty report, got %+v", report)
	}
}

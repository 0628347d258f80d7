package annotation

import (
	"sort"

	"github.com/fbschema/fbschema/internal/schema"
)

// ObjectKey names one annotated or cataloged relation.
type ObjectKey struct {
	Kind     schema.Kind
	Relation string
}

// ColumnKey names one annotated column.
type ColumnKey struct {
	Kind     schema.Kind
	Relation string
	Column   string
}

// DriftReport describes divergence between an annotation document and the
// current catalog snapshot. Reporting is read-only: drifted entries stay in
// the store.
type DriftReport struct {
	// OrphanRelations are annotated objects that no longer exist in the
	// graph under their recorded kind.
	OrphanRelations []ObjectKey
	// OrphanColumns are annotated columns whose relation still exists but
	// no longer has that column.
	OrphanColumns []ColumnKey
	// Unannotated are graph relations with no annotation entry at all.
	Unannotated []ObjectKey
}

// Empty reports whether the store and graph are fully in sync.
func (r *DriftReport) Empty() bool {
	return len(r.OrphanRelations) == 0 && len(r.OrphanColumns) == 0 && len(r.Unannotated) == 0
}

// Drift compares an annotation store against a graph snapshot. Output is
// sorted (kind, then name) so reports are stable across runs.
func Drift(store *Store, graph *schema.Graph) *DriftReport {
	report := &DriftReport{}

	for _, kind := range kindsInOrder {
		objects := store.Kind(kind)
		names := make([]string, 0, len(objects))
		for name := range objects {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			rel, ok := graph.Get(name)
			if !ok || rel.Kind != kind {
				report.OrphanRelations = append(report.OrphanRelations, ObjectKey{Kind: kind, Relation: name})
				continue
			}

			columns := make([]string, 0, len(objects[name].Columns))
			for column := range objects[name].Columns {
				columns = append(columns, column)
			}
			sort.Strings(columns)

			for _, column := range columns {
				if _, ok := rel.Column(column); !ok {
					report.OrphanColumns = append(report.OrphanColumns, ColumnKey{Kind: kind, Relation: name, Column: column})
				}
			}
		}
	}

	for _, name := range graph.Names() {
		rel, _ := graph.Get(name)
		if _, ok := store.Object(rel.Kind, name); !ok {
			report.Unannotated = append(report.Unannotated, ObjectKey{Kind: rel.Kind, Relation: name})
		}
	}
	sort.Slice(report.Unannotated, func(i, j int) bool {
		if report.Unannotated[i].Kind != report.Unannotated[j].Kind {
			return report.Unannotated[i].Kind < report.Unannotated[j].Kind
		}
		return report.Unannotated[i].Relation < report.Unannotated[j].Relation
	})

	return report
}

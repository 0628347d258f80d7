package annotation

import (
	"fmt"
	"sort"

	"github.com/fbschema/fbschema/internal/schema"
)

// ProvenanceType identifies which heuristic tier produced a suggestion.
type ProvenanceType string

const (
	ProvenanceExactNameMatch    ProvenanceType = "EXACT_NAME_MATCH"
	ProvenanceForwardForeignKey ProvenanceType = "FORWARD_FOREIGN_KEY"
	ProvenanceInverseForeignKey ProvenanceType = "INVERSE_FOREIGN_KEY"
)

// Provenance records where a propagated description came from, so a reviewer
// can verify it in one step.
type Provenance struct {
	Type     ProvenanceType
	Relation string
	Column   string
}

func (p Provenance) String() string {
	switch p.Type {
	case ProvenanceExactNameMatch:
		return fmt.Sprintf("column of the same name in %s", p.Relation)
	case ProvenanceForwardForeignKey:
		return fmt.Sprintf("foreign key target %s.%s", p.Relation, p.Column)
	case ProvenanceInverseForeignKey:
		return fmt.Sprintf("referencing column %s.%s", p.Relation, p.Column)
	}
	return string(p.Type)
}

// Suggestion is a propagated description candidate. It is never persisted;
// the caller decides whether to record it in the store.
type Suggestion struct {
	Text       string
	Provenance Provenance
}

// Engine fills missing column descriptions by searching the annotation store
// through the schema graph. It is a pure query layer: it neither checks that
// the target description is currently empty (that is the caller's
// precondition) nor writes anything back.
type Engine struct {
	store *Store
	graph *schema.Graph
}

// NewEngine creates a propagation engine over one store and one graph
// snapshot.
func NewEngine(store *Store, graph *schema.Graph) *Engine {
	return &Engine{store: store, graph: graph}
}

// Suggest searches for a description for the given column, trying three
// tiers in strict priority order: exact column-name match anywhere in the
// store, the target column of a forward foreign key, and the source columns
// of foreign keys pointing at this column. The first non-empty description
// wins. All tiers are single-hop, so mutually referencing relations cannot
// produce a cycle.
//
// Ties within a tier are resolved by a fixed scan order (ascending kind,
// then ascending relation name), not by any semantic ranking.
func (e *Engine) Suggest(kind schema.Kind, relation, column string) (*Suggestion, bool) {
	if s := e.exactNameMatch(kind, relation, column); s != nil {
		return s, true
	}
	if s := e.forwardForeignKey(relation, column); s != nil {
		return s, true
	}
	if s := e.inverseForeignKey(relation, column); s != nil {
		return s, true
	}
	return nil, false
}

func (e *Engine) exactNameMatch(kind schema.Kind, relation, column string) *Suggestion {
	for _, k := range kindsInOrder {
		objects := e.store.Kind(k)
		names := make([]string, 0, len(objects))
		for name := range objects {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			if k == kind && name == relation {
				continue
			}
			col, ok := objects[name].Columns[column]
			if !ok || col.Description == "" {
				continue
			}
			return &Suggestion{
				Text: col.Description,
				Provenance: Provenance{
					Type:     ProvenanceExactNameMatch,
					Relation: name,
					Column:   column,
				},
			}
		}
	}
	return nil
}

func (e *Engine) forwardForeignKey(relation, column string) *Suggestion {
	rel, ok := e.graph.Get(relation)
	if !ok {
		return nil
	}

	for _, fk := range rel.ForeignKeys() {
		if !fk.Usable() {
			continue
		}
		for i, local := range fk.Columns {
			if local != column {
				continue
			}
			targetKind, ok := e.kindOf(fk.ReferencedRelation)
			if !ok {
				continue
			}
			referencedColumn := fk.ReferencedColumns[i]
			desc := e.store.ColumnDescription(targetKind, fk.ReferencedRelation, referencedColumn)
			if desc == "" {
				continue
			}
			return &Suggestion{
				Text: desc,
				Provenance: Provenance{
					Type:     ProvenanceForwardForeignKey,
					Relation: fk.ReferencedRelation,
					Column:   referencedColumn,
				},
			}
		}
	}
	return nil
}

func (e *Engine) inverseForeignKey(relation, column string) *Suggestion {
	rel, ok := e.graph.Get(relation)
	if !ok || !rel.IsKeyColumn(column) {
		return nil
	}

	for _, ref := range e.graph.ForeignKeysReferencing(relation, column) {
		refKind, ok := e.kindOf(ref.Relation)
		if !ok {
			continue
		}
		desc := e.store.ColumnDescription(refKind, ref.Relation, ref.Column)
		if desc == "" {
			continue
		}
		return &Suggestion{
			Text: desc,
			Provenance: Provenance{
				Type:     ProvenanceInverseForeignKey,
				Relation: ref.Relation,
				Column:   ref.Column,
			},
		}
	}
	return nil
}

func (e *Engine) kindOf(relation string) (schema.Kind, bool) {
	rel, ok := e.graph.Get(relation)
	if !ok {
		return "", false
	}
	return rel.Kind, true
}

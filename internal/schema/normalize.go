package schema

import (
	"fmt"
	"sort"
)

// Diagnostic reports a recoverable anomaly found while normalizing one
// relation. Diagnostics never abort the pass; the caller decides whether a
// partial result is acceptable.
type Diagnostic struct {
	Relation string
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Relation, d.Message)
}

// rawConstraintTypes maps the catalog's constraint type strings onto the
// typed variants. Unrecognized strings fall through to ConstraintTypeOther
// with the raw string preserved.
var rawConstraintTypes = map[string]ConstraintType{
	"PRIMARY KEY": ConstraintTypePrimaryKey,
	"UNIQUE":      ConstraintTypeUnique,
	"FOREIGN KEY": ConstraintTypeForeignKey,
	"CHECK":       ConstraintTypeCheck,
	"NOT NULL":    ConstraintTypeNotNull,
}

// Normalize converts raw catalog rows into a schema graph.
//
// Constraint column lists are resolved through the constraint's index: the
// segments of that index, ordered by segment position, name the local columns.
// Foreign keys resolve their referenced column list the same way from the
// referenced constraint's index; when that lookup fails the FK is kept with
// an empty referenced list and propagation skips it.
//
// A malformed relation (duplicate relation name, duplicate column name) is
// excluded with a diagnostic rather than failing the whole pass.
func Normalize(
	relations []RelationRow,
	columnsByRelation map[string][]ColumnRow,
	constraintsByRelation map[string][]ConstraintRow,
	segmentsByIndex map[string][]IndexSegment,
) (*Graph, []Diagnostic) {
	var (
		built []*Relation
		diags []Diagnostic
		seen  = make(map[string]bool, len(relations))
	)

	for _, row := range relations {
		if seen[row.Name] {
			diags = append(diags, Diagnostic{
				Relation: row.Name,
				Message:  "duplicate relation name in catalog snapshot",
			})
			continue
		}
		seen[row.Name] = true

		rel, relDiags := normalizeRelation(row, columnsByRelation[row.Name], constraintsByRelation[row.Name], segmentsByIndex)
		diags = append(diags, relDiags...)
		if rel != nil {
			built = append(built, rel)
		}
	}

	graph, graphDiags := BuildGraph(built)
	diags = append(diags, graphDiags...)
	return graph, diags
}

// normalizeRelation assembles one relation. A nil result means the relation
// was excluded; the diagnostics say why.
func normalizeRelation(
	row RelationRow,
	columnRows []ColumnRow,
	constraintRows []ConstraintRow,
	segmentsByIndex map[string][]IndexSegment,
) (*Relation, []Diagnostic) {
	rel := &Relation{Name: row.Name, Kind: KindTable}
	if row.IsView {
		rel.Kind = KindView
	}

	seenColumns := make(map[string]bool, len(columnRows))
	for _, cr := range columnRows {
		if seenColumns[cr.Name] {
			return nil, []Diagnostic{{
				Relation: row.Name,
				Message:  fmt.Sprintf("duplicate column name %q", cr.Name),
			}}
		}
		seenColumns[cr.Name] = true

		rel.Columns = append(rel.Columns, Column{
			Name:     cr.Name,
			Type:     DecodeType(cr.TypeCode, cr.Subtype, cr.Length, cr.Precision, cr.Scale),
			Nullable: cr.Nullable,
		})
	}

	var diags []Diagnostic
	for _, cr := range constraintRows {
		constraint, d := normalizeConstraint(row.Name, cr, segmentsByIndex)
		diags = append(diags, d...)
		rel.Constraints = append(rel.Constraints, constraint)
	}

	return rel, diags
}

func normalizeConstraint(relation string, row ConstraintRow, segmentsByIndex map[string][]IndexSegment) (Constraint, []Diagnostic) {
	constraint := Constraint{
		Name: row.Name,
		Type: ConstraintTypeOther,
	}
	if t, ok := rawConstraintTypes[row.Type]; ok {
		constraint.Type = t
	} else {
		constraint.RawType = row.Type
	}

	// Constraints with no associated index (e.g. CHECK) keep an empty
	// column list.
	if row.IndexName != "" {
		constraint.Columns = indexColumns(segmentsByIndex, row.IndexName)
	}

	var diags []Diagnostic
	if constraint.Type == ConstraintTypeForeignKey {
		constraint.ReferencedRelation = row.ReferencedRelation
		constraint.UpdateRule = ruleOrDefault(row.UpdateRule)
		constraint.DeleteRule = ruleOrDefault(row.DeleteRule)

		if row.ReferencedIndexName != "" {
			constraint.ReferencedColumns = indexColumns(segmentsByIndex, row.ReferencedIndexName)
		}
		if len(constraint.ReferencedColumns) == 0 {
			diags = append(diags, Diagnostic{
				Relation: relation,
				Message: fmt.Sprintf("foreign key %q: referenced index %q not found, constraint kept without referenced columns",
					row.Name, row.ReferencedIndexName),
			})
		}
	}

	return constraint, diags
}

// indexColumns returns the column names of an index ordered by segment
// position. The input slice is not assumed to be pre-sorted and is not
// mutated.
func indexColumns(segmentsByIndex map[string][]IndexSegment, indexName string) []string {
	segments, ok := segmentsByIndex[indexName]
	if !ok || len(segments) == 0 {
		return nil
	}

	ordered := make([]IndexSegment, len(segments))
	copy(ordered, segments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	columns := make([]string, len(ordered))
	for i, seg := range ordered {
		columns[i] = seg.ColumnName
	}
	return columns
}

func ruleOrDefault(rule string) string {
	if rule == "" {
		return DefaultRule
	}
	return rule
}

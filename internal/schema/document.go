package schema

import (
	"encoding/json"
	"fmt"
)

// Schema document serialization. The document maps relation name to a
// per-relation object with columns and constraints grouped by variant,
// matching the persisted extract format consumed by the draft, suggest and
// drift commands.

const checkExpressionPlaceholder = "<CHECK EXPRESSION NOT EXTRACTED>"

type relationDoc struct {
	ObjectType  Kind           `json:"object_type"`
	Columns     []columnDoc    `json:"columns"`
	Constraints constraintsDoc `json:"constraints"`
}

type columnDoc struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

type constraintsDoc struct {
	PrimaryKey  []constraintDoc `json:"primary_key,omitempty"`
	ForeignKeys []constraintDoc `json:"foreign_keys,omitempty"`
	Unique      []constraintDoc `json:"unique,omitempty"`
	Check       []checkDoc      `json:"check,omitempty"`
	NotNull     []constraintDoc `json:"not_null,omitempty"`
	Other       []constraintDoc `json:"other,omitempty"`
}

type constraintDoc struct {
	Name              string   `json:"name"`
	Columns           []string `json:"columns"`
	ReferencesTable   string   `json:"references_table,omitempty"`
	ReferencesColumns []string `json:"references_columns,omitempty"`
	UpdateRule        string   `json:"update_rule,omitempty"`
	DeleteRule        string   `json:"delete_rule,omitempty"`
	Type              string   `json:"type,omitempty"` // raw type for "other"
}

type checkDoc struct {
	Name       string `json:"name"`
	Expression string `json:"expression"`
}

// WriteDocument serializes a graph to its persisted JSON document. Relation
// keys are emitted in ascending order.
func WriteDocument(g *Graph) ([]byte, error) {
	doc := make(map[string]relationDoc, g.Len())
	for _, name := range g.Names() {
		rel, _ := g.Get(name)
		doc[name] = encodeRelation(rel)
	}
	return json.MarshalIndent(doc, "", "    ")
}

// ReadDocument parses a persisted schema document back into a graph.
func ReadDocument(data []byte) (*Graph, []Diagnostic, error) {
	var doc map[string]relationDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to parse schema document: %w", err)
	}

	relations := make([]*Relation, 0, len(doc))
	for name, rd := range doc {
		relations = append(relations, decodeRelation(name, rd))
	}

	graph, diags := BuildGraph(relations)
	return graph, diags, nil
}

func encodeRelation(rel *Relation) relationDoc {
	rd := relationDoc{ObjectType: rel.Kind, Columns: []columnDoc{}}
	for _, col := range rel.Columns {
		rd.Columns = append(rd.Columns, columnDoc{
			Name:     col.Name,
			Type:     col.Type.String(),
			Nullable: col.Nullable,
		})
	}

	for i := range rel.Constraints {
		c := &rel.Constraints[i]
		switch c.Type {
		case ConstraintTypePrimaryKey:
			rd.Constraints.PrimaryKey = append(rd.Constraints.PrimaryKey, encodeConstraint(c))
		case ConstraintTypeForeignKey:
			fk := encodeConstraint(c)
			fk.ReferencesTable = c.ReferencedRelation
			fk.ReferencesColumns = c.ReferencedColumns
			fk.UpdateRule = c.UpdateRule
			fk.DeleteRule = c.DeleteRule
			rd.Constraints.ForeignKeys = append(rd.Constraints.ForeignKeys, fk)
		case ConstraintTypeUnique:
			rd.Constraints.Unique = append(rd.Constraints.Unique, encodeConstraint(c))
		case ConstraintTypeCheck:
			rd.Constraints.Check = append(rd.Constraints.Check, checkDoc{
				Name:       c.Name,
				Expression: checkExpressionPlaceholder,
			})
		case ConstraintTypeNotNull:
			rd.Constraints.NotNull = append(rd.Constraints.NotNull, encodeConstraint(c))
		default:
			other := encodeConstraint(c)
			other.Type = c.RawType
			rd.Constraints.Other = append(rd.Constraints.Other, other)
		}
	}

	return rd
}

func encodeConstraint(c *Constraint) constraintDoc {
	columns := c.Columns
	if columns == nil {
		columns = []string{}
	}
	return constraintDoc{Name: c.Name, Columns: columns}
}

func decodeRelation(name string, rd relationDoc) *Relation {
	rel := &Relation{Name: name, Kind: rd.ObjectType}
	if rel.Kind != KindView {
		rel.Kind = KindTable
	}

	for _, cd := range rd.Columns {
		rel.Columns = append(rel.Columns, Column{
			Name:     cd.Name,
			Type:     ParseTypeDescriptor(cd.Type),
			Nullable: cd.Nullable,
		})
	}

	appendGroup := func(docs []constraintDoc, typ ConstraintType) {
		for _, cd := range docs {
			c := Constraint{Name: cd.Name, Type: typ}
			if len(cd.Columns) > 0 {
				c.Columns = cd.Columns
			}
			if typ == ConstraintTypeForeignKey {
				c.ReferencedRelation = cd.ReferencesTable
				c.ReferencedColumns = cd.ReferencesColumns
				c.UpdateRule = ruleOrDefault(cd.UpdateRule)
				c.DeleteRule = ruleOrDefault(cd.DeleteRule)
			}
			if typ == ConstraintTypeOther {
				c.RawType = cd.Type
			}
			rel.Constraints = append(rel.Constraints, c)
		}
	}

	appendGroup(rd.Constraints.PrimaryKey, ConstraintTypePrimaryKey)
	appendGroup(rd.Constraints.ForeignKeys, ConstraintTypeForeignKey)
	appendGroup(rd.Constraints.Unique, ConstraintTypeUnique)
	for _, cd := range rd.Constraints.Check {
		rel.Constraints = append(rel.Constraints, Constraint{Name: cd.Name, Type: ConstraintTypeCheck})
	}
	appendGroup(rd.Constraints.NotNull, ConstraintTypeNotNull)
	appendGroup(rd.Constraints.Other, ConstraintTypeOther)

	return rel
}

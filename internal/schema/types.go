package schema

import "strings"

// Kind distinguishes the two relation kinds the catalog reports.
type Kind string

const (
	KindTable Kind = "TABLE"
	KindView  Kind = "VIEW"
)

// TypeDescriptor is a canonical column type with an optional qualifier,
// e.g. VARCHAR + "(60)" or BLOB + "(SUB_TYPE TEXT)".
type TypeDescriptor struct {
	Name      string `json:"name"`
	Qualifier string `json:"qualifier,omitempty"`
}

// String returns the catalog-style rendering, e.g. "VARCHAR(60)".
func (t TypeDescriptor) String() string {
	return t.Name + t.Qualifier
}

// ParseTypeDescriptor splits a rendered type string back into name and
// qualifier. It is the inverse of String for every descriptor this package
// produces.
func ParseTypeDescriptor(s string) TypeDescriptor {
	if i := strings.Index(s, "("); i > 0 {
		return TypeDescriptor{Name: s[:i], Qualifier: s[i:]}
	}
	return TypeDescriptor{Name: s}
}

// Column represents one column of a relation. Slice order within a Relation
// matches the catalog-reported field position.
type Column struct {
	Name     string
	Type     TypeDescriptor
	Nullable bool
}

// ConstraintType represents the constraint variants the catalog reports.
type ConstraintType string

const (
	ConstraintTypePrimaryKey ConstraintType = "PRIMARY KEY"
	ConstraintTypeUnique     ConstraintType = "UNIQUE"
	ConstraintTypeForeignKey ConstraintType = "FOREIGN KEY"
	ConstraintTypeCheck      ConstraintType = "CHECK"
	ConstraintTypeNotNull    ConstraintType = "NOT NULL"
	ConstraintTypeOther      ConstraintType = "OTHER"
)

// Referential action rules for foreign keys. The catalog omits the rule for
// the default case, which is RESTRICT.
const DefaultRule = "RESTRICT"

// Constraint represents a table constraint. Columns are ordered by index
// segment position, never alphabetically: for a foreign key, position i in
// Columns pairs with position i in ReferencedColumns.
type Constraint struct {
	Name    string
	Type    ConstraintType
	RawType string // catalog type string, kept for ConstraintTypeOther
	Columns []string

	// Foreign key fields, zero-valued for other variants. An FK whose
	// referenced index could not be resolved keeps an empty
	// ReferencedColumns and is skipped by propagation.
	ReferencedRelation string
	ReferencedColumns  []string
	UpdateRule         string
	DeleteRule         string
}

// Usable reports whether an FK constraint carries a resolved, position-aligned
// referenced column list.
func (c *Constraint) Usable() bool {
	return c.Type == ConstraintTypeForeignKey &&
		len(c.ReferencedColumns) > 0 &&
		len(c.ReferencedColumns) == len(c.Columns)
}

// Relation represents one table or view of the catalog snapshot.
type Relation struct {
	Name        string
	Kind        Kind
	Columns     []Column
	Constraints []Constraint
}

// Column returns the named column, if present.
func (r *Relation) Column(name string) (*Column, bool) {
	for i := range r.Columns {
		if r.Columns[i].Name == name {
			return &r.Columns[i], true
		}
	}
	return nil, false
}

// ForeignKeys returns the relation's FK constraints in catalog order.
func (r *Relation) ForeignKeys() []*Constraint {
	var fks []*Constraint
	for i := range r.Constraints {
		if r.Constraints[i].Type == ConstraintTypeForeignKey {
			fks = append(fks, &r.Constraints[i])
		}
	}
	return fks
}

// IsKeyColumn reports whether the named column participates in any primary
// key or unique constraint of the relation.
func (r *Relation) IsKeyColumn(name string) bool {
	for i := range r.Constraints {
		c := &r.Constraints[i]
		if c.Type != ConstraintTypePrimaryKey && c.Type != ConstraintTypeUnique {
			continue
		}
		for _, col := range c.Columns {
			if col == name {
				return true
			}
		}
	}
	return false
}

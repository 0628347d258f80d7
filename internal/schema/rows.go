package schema

// Raw catalog rows, as fetched by a catalog reader such as
// internal/firebird. Normalize consumes these four relations; it never
// queries a database itself.

// RelationRow is one row of the relation listing.
type RelationRow struct {
	Name   string
	IsView bool // true when the catalog row carries a view body marker
}

// ColumnRow is one row of the per-relation column listing, in catalog field
// position order.
type ColumnRow struct {
	Name      string
	TypeCode  int
	Subtype   int
	Length    int
	Precision int
	Scale     int
	Nullable  bool
}

// ConstraintRow is one row of the per-relation constraint listing. IndexName
// names the index whose segments spell out the constraint's local columns;
// for foreign keys, ReferencedIndexName names the index of the referenced
// primary/unique constraint.
type ConstraintRow struct {
	Name                string
	Type                string // raw catalog constraint type string
	IndexName           string
	ReferencedRelation  string
	ReferencedIndexName string
	UpdateRule          string
	DeleteRule          string
}

// IndexSegment is one column of a (possibly composite) index together with
// its ordinal position within that index.
type IndexSegment struct {
	ColumnName string
	Position   int
}

package schema

import "sort"

// ColumnRef names one column of one relation.
type ColumnRef struct {
	Relation string
	Column   string
}

// Graph is the in-memory registry of a catalog snapshot. It is built once
// per snapshot and read-only afterward; a new snapshot replaces it wholesale.
type Graph struct {
	relations map[string]*Relation
	names     []string // ascending
	inbound   map[ColumnRef][]ColumnRef
}

// BuildGraph indexes the given relations. Relations with a duplicate name are
// excluded with a diagnostic. The reverse foreign-key index is built in a
// single pass, skipping every FK whose referenced column list is unresolved
// or misaligned.
func BuildGraph(relations []*Relation) (*Graph, []Diagnostic) {
	g := &Graph{
		relations: make(map[string]*Relation, len(relations)),
		inbound:   make(map[ColumnRef][]ColumnRef),
	}

	var diags []Diagnostic
	for _, rel := range relations {
		if _, exists := g.relations[rel.Name]; exists {
			diags = append(diags, Diagnostic{
				Relation: rel.Name,
				Message:  "duplicate relation name, excluded from graph",
			})
			continue
		}
		g.relations[rel.Name] = rel
		g.names = append(g.names, rel.Name)
	}
	sort.Strings(g.names)

	// Referencing relations are visited in ascending name order so that
	// multiple FKs into the same column land in a deterministic order.
	for _, name := range g.names {
		for _, fk := range g.relations[name].ForeignKeys() {
			if !fk.Usable() {
				continue
			}
			for i, local := range fk.Columns {
				referenced := ColumnRef{Relation: fk.ReferencedRelation, Column: fk.ReferencedColumns[i]}
				g.inbound[referenced] = append(g.inbound[referenced], ColumnRef{Relation: name, Column: local})
			}
		}
	}

	return g, diags
}

// Get returns the named relation, if present in the snapshot.
func (g *Graph) Get(name string) (*Relation, bool) {
	rel, ok := g.relations[name]
	return rel, ok
}

// Names returns all relation names in ascending order.
func (g *Graph) Names() []string {
	names := make([]string, len(g.names))
	copy(names, g.names)
	return names
}

// Len returns the number of relations in the snapshot.
func (g *Graph) Len() int {
	return len(g.names)
}

// ForeignKeysReferencing returns every (relation, column) pair whose foreign
// key points at the given column, ascending by referencing relation name.
func (g *Graph) ForeignKeysReferencing(relation, column string) []ColumnRef {
	return g.inbound[ColumnRef{Relation: relation, Column: column}]
}

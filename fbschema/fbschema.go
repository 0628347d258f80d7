// Package fbschema provides a programmatic API for Firebird schema extraction
// and annotation. It wraps the catalog reader, the schema graph, and the
// annotation store behind a small surface for embedding in other tools.
package fbschema

import (
	"context"
	"database/sql"

	"github.com/fbschema/fbschema/internal/annotation"
	"github.com/fbschema/fbschema/internal/firebird"
	"github.com/fbschema/fbschema/internal/schema"
)

// Re-export important types for external consumption

// Graph is a normalized, immutable snapshot of a database schema.
type Graph = schema.Graph

// Relation is one table or view of the snapshot.
type Relation = schema.Relation

// Column is one column of a relation.
type Column = schema.Column

// Constraint is one constraint of a relation.
type Constraint = schema.Constraint

// TypeDescriptor is a decoded column type.
type TypeDescriptor = schema.TypeDescriptor

// Kind distinguishes tables from views.
type Kind = schema.Kind

const (
	KindTable = schema.KindTable
	KindView  = schema.KindView
)

// Diagnostic describes a catalog irregularity found while building a graph.
type Diagnostic = schema.Diagnostic

// Store is a loss-free annotation document over a schema graph.
type Store = annotation.Store

// Suggestion is a propagated description with its provenance.
type Suggestion = annotation.Suggestion

// Provenance records where a suggestion came from.
type Provenance = annotation.Provenance

// DriftReport lists mismatches between a store and a graph.
type DriftReport = annotation.DriftReport

// ExtractGraph reads the catalog of an open Firebird database and returns
// the normalized schema graph.
func ExtractGraph(ctx context.Context, db *sql.DB) (*Graph, []Diagnostic, error) {
	return firebird.NewInspector(db).BuildGraph(ctx)
}

// BuildGraph assembles a graph from already-normalized relations.
func BuildGraph(relations []*Relation) (*Graph, []Diagnostic) {
	return schema.BuildGraph(relations)
}

// ReadSchema parses a schema document produced by WriteSchema or the
// extract command.
func ReadSchema(data []byte) (*Graph, []Diagnostic, error) {
	return schema.ReadDocument(data)
}

// WriteSchema serializes a graph as a deterministic JSON document.
func WriteSchema(g *Graph) ([]byte, error) {
	return schema.WriteDocument(g)
}

// NewStore returns an empty annotation store.
func NewStore() *Store {
	return annotation.NewStore()
}

// LoadAnnotations parses an annotation document. The returned store is
// always usable; the error reports an unreadable input that was replaced
// with an empty store.
func LoadAnnotations(data []byte) (*Store, error) {
	return annotation.Load(data)
}

// SaveAnnotations serializes a store as a deterministic JSON document.
func SaveAnnotations(store *Store) ([]byte, error) {
	return store.Save()
}

// Suggest runs the propagation engine for one column and reports whether
// an existing annotation could be reused.
func Suggest(store *Store, graph *Graph, kind Kind, relation, column string) (*Suggestion, bool) {
	return annotation.NewEngine(store, graph).Suggest(kind, relation, column)
}

// Drift compares a store against a graph and reports orphaned annotation
// entries and unannotated schema objects.
func Drift(store *Store, graph *Graph) *DriftReport {
	return annotation.Drift(store, graph)
}

// Package firebird reads the Firebird system catalog and feeds it to the
// schema normalizer. It is the only package that talks to the database; the
// core consumes the already-fetched rows.
package firebird

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/fbschema/fbschema/internal/logger"
	"github.com/fbschema/fbschema/internal/schema"
)

// Inspector builds a schema graph from catalog queries.
type Inspector struct {
	db *sql.DB
}

// NewInspector creates a new catalog inspector over an open connection.
func NewInspector(db *sql.DB) *Inspector {
	return &Inspector{db: db}
}

// BuildGraph fetches the four catalog relations concurrently and normalizes
// them into a graph. Diagnostics report relations that were skipped or
// foreign keys that could not be fully resolved; they do not fail the build.
func (i *Inspector) BuildGraph(ctx context.Context) (*schema.Graph, []schema.Diagnostic, error) {
	log := logger.Get()

	var (
		relations   []schema.RelationRow
		columns     map[string][]schema.ColumnRow
		constraints map[string][]schema.ConstraintRow
		segments    map[string][]schema.IndexSegment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		relations, err = i.fetchRelations(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		columns, err = i.fetchColumns(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		constraints, err = i.fetchConstraints(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		segments, err = i.fetchIndexSegments(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	log.Debug("catalog fetched",
		"relations", len(relations),
		"indexes", len(segments),
	)

	graph, diags := schema.Normalize(relations, columns, constraints, segments)
	return graph, diags, nil
}

func (i *Inspector) fetchRelations(ctx context.Context) ([]schema.RelationRow, error) {
	rows, err := i.db.QueryContext(ctx, relationsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query relations: %w", err)
	}
	defer rows.Close()

	var relations []schema.RelationRow
	for rows.Next() {
		var (
			name    string
			viewBLR []byte
		)
		if err := rows.Scan(&name, &viewBLR); err != nil {
			return nil, fmt.Errorf("failed to scan relation row: %w", err)
		}
		relations = append(relations, schema.RelationRow{
			Name:   strings.TrimSpace(name),
			IsView: viewBLR != nil,
		})
	}
	return relations, rows.Err()
}

func (i *Inspector) fetchColumns(ctx context.Context) (map[string][]schema.ColumnRow, error) {
	rows, err := i.db.QueryContext(ctx, columnsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query relation fields: %w", err)
	}
	defer rows.Close()

	columns := make(map[string][]schema.ColumnRow)
	for rows.Next() {
		var (
			relation, field           string
			typeCode, nullFlag        int
			subtype, precision, scale sql.NullInt64
			length                    sql.NullInt64
		)
		if err := rows.Scan(&relation, &field, &typeCode, &subtype, &length, &precision, &scale, &nullFlag); err != nil {
			return nil, fmt.Errorf("failed to scan field row: %w", err)
		}

		relation = strings.TrimSpace(relation)
		columns[relation] = append(columns[relation], schema.ColumnRow{
			Name:      strings.TrimSpace(field),
			TypeCode:  typeCode,
			Subtype:   int(subtype.Int64),
			Length:    int(length.Int64),
			Precision: int(precision.Int64),
			Scale:     int(scale.Int64),
			Nullable:  nullFlag != 0,
		})
	}
	return columns, rows.Err()
}

func (i *Inspector) fetchConstraints(ctx context.Context) (map[string][]schema.ConstraintRow, error) {
	rows, err := i.db.QueryContext(ctx, constraintsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query constraints: %w", err)
	}
	defer rows.Close()

	constraints := make(map[string][]schema.ConstraintRow)
	for rows.Next() {
		var (
			relation, name, rawType                 string
			indexName, updateRule, deleteRule       sql.NullString
			referencedRelation, referencedIndexName sql.NullString
		)
		if err := rows.Scan(&relation, &name, &rawType, &indexName, &updateRule, &deleteRule, &referencedRelation, &referencedIndexName); err != nil {
			return nil, fmt.Errorf("failed to scan constraint row: %w", err)
		}

		relation = strings.TrimSpace(relation)
		constraints[relation] = append(constraints[relation], schema.ConstraintRow{
			Name:                strings.TrimSpace(name),
			Type:                strings.TrimSpace(rawType),
			IndexName:           strings.TrimSpace(indexName.String),
			ReferencedRelation:  strings.TrimSpace(referencedRelation.String),
			ReferencedIndexName: strings.TrimSpace(referencedIndexName.String),
			UpdateRule:          strings.TrimSpace(updateRule.String),
			DeleteRule:          strings.TrimSpace(deleteRule.String),
		})
	}
	return constraints, rows.Err()
}

func (i *Inspector) fetchIndexSegments(ctx context.Context) (map[string][]schema.IndexSegment, error) {
	rows, err := i.db.QueryContext(ctx, indexSegmentsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query index segments: %w", err)
	}
	defer rows.Close()

	segments := make(map[string][]schema.IndexSegment)
	for rows.Next() {
		var (
			indexName, field string
			position         int
		)
		if err := rows.Scan(&indexName, &field, &position); err != nil {
			return nil, fmt.Errorf("failed to scan index segment row: %w", err)
		}

		indexName = strings.TrimSpace(indexName)
		segments[indexName] = append(segments[indexName], schema.IndexSegment{
			ColumnName: strings.TrimSpace(field),
			Position:   position,
		})
	}
	return segments, rows.Err()
}

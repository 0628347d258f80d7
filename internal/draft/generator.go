// Package draft fills missing annotation descriptions for a whole catalog
// snapshot: propagation first, then the language model for whatever the graph
// could not answer.
package draft

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/fbschema/fbschema/internal/annotation"
	"github.com/fbschema/fbschema/internal/logger"
	"github.com/fbschema/fbschema/internal/schema"
)

// Completer produces a draft description for a prompt. *ollama.Client
// satisfies it; tests substitute their own.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Stats summarizes one generator run.
type Stats struct {
	Propagated int // column descriptions filled from the graph
	Drafted    int // descriptions filled by the model
	Skipped    int // descriptions that were already present
	Failed     int // model calls that returned an error
}

// Generator backfills empty descriptions in a store. The store is only
// written in the final sequential merge; the concurrent phase is read-only,
// so the core stays free of locking.
type Generator struct {
	graph       *schema.Graph
	store       *annotation.Store
	engine      *annotation.Engine
	completer   Completer
	concurrency int
}

// NewGenerator wires a generator over one graph and one store. A nil
// completer runs propagation only. Concurrency below 1 means sequential.
func NewGenerator(graph *schema.Graph, store *annotation.Store, completer Completer, concurrency int) *Generator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Generator{
		graph:       graph,
		store:       store,
		engine:      annotation.NewEngine(store, graph),
		completer:   completer,
		concurrency: concurrency,
	}
}

// update is one pending description write, produced during the read-only
// phase and applied afterward.
type update struct {
	column string // empty for the relation's own description
	text   string
	source string // "propagation" or "model"
}

type relationResult struct {
	updates []update
	skipped int
	failed  int
}

// Run visits every relation of the snapshot and fills empty descriptions.
// Existing descriptions are never touched.
func (g *Generator) Run(ctx context.Context) (Stats, error) {
	log := logger.Get()
	names := g.graph.Names()
	results := make([]relationResult, len(names))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)
	for i, name := range names {
		eg.Go(func() error {
			rel, _ := g.graph.Get(name)
			results[i] = g.collect(ctx, rel)
			return ctx.Err()
		})
	}
	if err := eg.Wait(); err != nil {
		return Stats{}, fmt.Errorf("draft generation aborted: %w", err)
	}

	var stats Stats
	for i, name := range names {
		rel, _ := g.graph.Get(name)
		obj := g.store.Ensure(rel.Kind, name)
		for _, u := range results[i].updates {
			if u.column == "" {
				obj.Description = u.text
			} else {
				obj.EnsureColumn(u.column).Description = u.text
			}
			if u.source == "propagation" {
				stats.Propagated++
			} else {
				stats.Drafted++
			}
		}
		stats.Skipped += results[i].skipped
		stats.Failed += results[i].failed
	}

	log.Info("draft run finished",
		"propagated", stats.Propagated,
		"drafted", stats.Drafted,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
	)
	return stats, nil
}

func (g *Generator) collect(ctx context.Context, rel *schema.Relation) relationResult {
	log := logger.Get()
	var result relationResult

	if g.objectDescription(rel) == "" {
		if text, ok := g.complete(ctx, relationPrompt(rel)); ok {
			result.updates = append(result.updates, update{text: text, source: "model"})
		} else if g.completer != nil {
			result.failed++
		}
	} else {
		result.skipped++
	}

	for _, col := range rel.Columns {
		if g.store.ColumnDescription(rel.Kind, rel.Name, col.Name) != "" {
			result.skipped++
			continue
		}

		if suggestion, ok := g.engine.Suggest(rel.Kind, rel.Name, col.Name); ok {
			log.Debug("description propagated",
				"relation", rel.Name,
				"column", col.Name,
				"provenance", suggestion.Provenance.String(),
			)
			result.updates = append(result.updates, update{
				column: col.Name,
				text:   suggestion.Text,
				source: "propagation",
			})
			continue
		}

		if text, ok := g.complete(ctx, columnPrompt(rel, col)); ok {
			result.updates = append(result.updates, update{column: col.Name, text: text, source: "model"})
		} else if g.completer != nil {
			result.failed++
		}
	}

	return result
}

// complete asks the model, tolerating failures: a failed call only costs the
// one description. Unlike the earlier tooling, no placeholder text is
// written, so the column stays eligible for the next run.
func (g *Generator) complete(ctx context.Context, prompt string) (string, bool) {
	if g.completer == nil {
		return "", false
	}
	text, err := g.completer.Complete(ctx, prompt)
	if err != nil {
		logger.Get().Warn("model draft failed", "error", err)
		return "", false
	}
	if text == "" {
		return "", false
	}
	return text, true
}

func (g *Generator) objectDescription(rel *schema.Relation) string {
	obj, ok := g.store.Object(rel.Kind, rel.Name)
	if !ok {
		return ""
	}
	return obj.Description
}

func relationPrompt(rel *schema.Relation) string {
	names := make([]string, 0, 10)
	for _, col := range rel.Columns {
		if len(names) == 10 {
			break
		}
		names = append(names, col.Name)
	}
	return fmt.Sprintf(
		"Sugira uma descrição concisa em português brasileiro para um(a) %s de banco de dados chamado(a) '%s'. "+
			"As colunas são: %s... "+
			"Foque no propósito provável do negócio. Responda apenas com a descrição sugerida.",
		rel.Kind, rel.Name, strings.Join(names, ", "),
	)
}

func columnPrompt(rel *schema.Relation, col schema.Column) string {
	return fmt.Sprintf(
		"Sugira uma descrição concisa em português brasileiro para a coluna de banco de dados chamada '%s' "+
			"do tipo '%s' que pertence ao objeto '%s'. "+
			"Foque no significado provável do dado armazenado. Responda apenas com a descrição sugerida.",
		col.Name, col.Type.String(), rel.Name,
	)
}

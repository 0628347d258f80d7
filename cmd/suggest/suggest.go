package suggest

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fbschema/fbschema/internal/annotation"
	"github.com/fbschema/fbschema/internal/logger"
	"github.com/fbschema/fbschema/internal/schema"
)

var (
	schemaFile      string
	annotationsFile string
)

var SuggestCmd = &cobra.Command{
	Use:   "suggest <relation> <column>",
	Short: "Suggest a description for one column from existing annotations",
	Long: "Query the propagation engine for a single column: an existing description " +
		"is propagated from a same-named column or across a foreign key, and printed " +
		"with its provenance. Nothing is written.",
	Args: cobra.ExactArgs(2),
	RunE: runSuggest,
}

func init() {
	SuggestCmd.Flags().StringVar(&schemaFile, "schema", "firebird_schema.json", "Schema document produced by extract")
	SuggestCmd.Flags().StringVar(&annotationsFile, "annotations", "schema_metadata_draft.json", "Annotation document to consult")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	relation := strings.ToUpper(args[0])
	column := strings.ToUpper(args[1])

	data, err := os.ReadFile(schemaFile)
	if err != nil {
		return fmt.Errorf("failed to read schema document %s: %w", schemaFile, err)
	}
	graph, diagnostics, err := schema.ReadDocument(data)
	if err != nil {
		return fmt.Errorf("failed to parse schema document %s: %w", schemaFile, err)
	}
	log := logger.Get()
	for _, d := range diagnostics {
		log.Warn("schema document irregularity", "relation", d.Relation, "detail", d.Message)
	}

	rel, ok := graph.Get(relation)
	if !ok {
		return fmt.Errorf("relation %s not found in schema document", relation)
	}
	if _, ok := rel.Column(column); !ok {
		return fmt.Errorf("column %s not found in relation %s", column, relation)
	}

	annotationData, err := os.ReadFile(annotationsFile)
	if err != nil {
		return fmt.Errorf("failed to read annotation document %s: %w", annotationsFile, err)
	}
	store, err := annotation.Load(annotationData)
	if err != nil {
		return fmt.Errorf("failed to parse annotation document %s: %w", annotationsFile, err)
	}

	engine := annotation.NewEngine(store, graph)
	suggestion, ok := engine.Suggest(rel.Kind, relation, column)
	if !ok {
		fmt.Fprintf(cmd.OutOrStdout(), "No suggestion for %s.%s\n", relation, column)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s.%s: %s\n", relation, column, suggestion.Text)
	fmt.Fprintf(cmd.OutOrStdout(), "  source: %s\n", suggestion.Provenance)
	return nil
}

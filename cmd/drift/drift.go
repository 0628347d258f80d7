package drift

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fbschema/fbschema/internal/annotation"
	"github.com/fbschema/fbschema/internal/color"
	"github.com/fbschema/fbschema/internal/logger"
	"github.com/fbschema/fbschema/internal/schema"
)

var (
	schemaFile      string
	annotationsFile string
	noColor         bool
)

var DriftCmd = &cobra.Command{
	Use:   "drift",
	Short: "Report drift between the annotation document and the schema",
	Long: "Compare the annotation document against the current schema document and " +
		"list annotation entries whose object or column no longer exists, and schema " +
		"objects that have no annotation entry. Nothing is modified.",
	RunE: runDrift,
}

func init() {
	DriftCmd.Flags().StringVar(&schemaFile, "schema", "firebird_schema.json", "Schema document produced by extract")
	DriftCmd.Flags().StringVar(&annotationsFile, "annotations", "schema_metadata_draft.json", "Annotation document to check")
	DriftCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

func runDrift(cmd *cobra.Command, args []string) error {
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

	annotationData, err := os.ReadFile(annotationsFile)
	if err != nil {
		return fmt.Errorf("failed to read annotation document %s: %w", annotationsFile, err)
	}
	store, err := annotation.Load(annotationData)
	if err != nil {
		return fmt.Errorf("failed to parse annotation document %s: %w", annotationsFile, err)
	}

	report := annotation.Drift(store, graph)
	out := cmd.OutOrStdout()
	c := color.New(!noColor)

	if report.Empty() {
		fmt.Fprintln(out, "Annotations and schema are in sync.")
		return nil
	}

	if len(report.OrphanRelations) > 0 {
		fmt.Fprintln(out, c.Header("Annotated objects missing from the schema:"))
		for _, key := range report.OrphanRelations {
			fmt.Fprintf(out, "  %s\n", c.Missing(fmt.Sprintf("%s %s", key.Kind, key.Relation)))
		}
	}
	if len(report.OrphanColumns) > 0 {
		fmt.Fprintln(out, c.Header("Annotated columns missing from the schema:"))
		for _, key := range report.OrphanColumns {
			fmt.Fprintf(out, "  %s\n", c.Missing(fmt.Sprintf("%s %s.%s", key.Kind, key.Relation, key.Column)))
		}
	}
	if len(report.Unannotated) > 0 {
		fmt.Fprintln(out, c.Header("Schema objects with no annotation entry:"))
		for _, key := range report.Unannotated {
			fmt.Fprintf(out, "  %s\n", c.Unannotated(fmt.Sprintf("%s %s", key.Kind, key.Relation)))
		}
	}
	return nil
}

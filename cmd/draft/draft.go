package draft

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fbschema/fbschema/cmd/util"
	"github.com/fbschema/fbschema/internal/annotation"
	"github.com/fbschema/fbschema/internal/draft"
	"github.com/fbschema/fbschema/internal/logger"
	"github.com/fbschema/fbschema/internal/ollama"
	"github.com/fbschema/fbschema/internal/schema"
)

var (
	schemaFile      string
	annotationsFile string
	ollamaHost      string
	model           string
	concurrency     int
	noLLM           bool
)

var DraftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Fill missing descriptions in the annotation document",
	Long: "Walk the schema graph and fill every empty description in the annotation " +
		"document: first by propagating existing annotations across name and foreign " +
		"key relationships, then by asking the configured Ollama model for a draft. " +
		"Existing descriptions are never overwritten.",
	RunE: runDraft,
}

func init() {
	DraftCmd.Flags().StringVar(&schemaFile, "schema", "firebird_schema.json", "Schema document produced by extract")
	DraftCmd.Flags().StringVar(&annotationsFile, "annotations", "schema_metadata_draft.json", "Annotation document to update")
	DraftCmd.Flags().StringVar(&ollamaHost, "ollama-host", "", "Ollama server URL (default OLLAMA_HOST or "+ollama.DefaultHost+")")
	DraftCmd.Flags().StringVar(&model, "model", "", "Model name (default OLLAMA_MODEL or "+ollama.DefaultModel+")")
	DraftCmd.Flags().IntVar(&concurrency, "concurrency", 4, "Number of relations drafted in parallel")
	DraftCmd.Flags().BoolVar(&noLLM, "no-llm", false, "Propagate existing annotations only, skip the model")
}

func runDraft(cmd *cobra.Command, args []string) error {
	log := logger.Get()
	ctx := context.Background()

	graph, err := loadGraph(schemaFile)
	if err != nil {
		return err
	}

	store, err := loadStore(annotationsFile)
	if err != nil {
		return err
	}

	var completer draft.Completer
	if !noLLM {
		host := ollamaHost
		if host == "" {
			host = util.GetEnvWithDefault("OLLAMA_HOST", ollama.DefaultHost)
		}
		name := model
		if name == "" {
			name = util.GetEnvWithDefault("OLLAMA_MODEL", ollama.DefaultModel)
		}
		client := ollama.NewClient(host, name)
		log.Debug("using model", "host", host, "model", name)

		// Pre-flight: an unknown model would fail every draft call.
		// Ollama reports untagged models as name:latest.
		if models, err := client.Models(ctx); err != nil {
			log.Warn("could not list models, continuing anyway", "error", err)
		} else if !slices.ContainsFunc(models, func(m string) bool {
			return m == name || strings.TrimSuffix(m, ":latest") == name
		}) {
			return fmt.Errorf("model %q not available on %s (available: %s)",
				name, host, strings.Join(models, ", "))
		}
		completer = client
	}

	generator := draft.NewGenerator(graph, store, completer, concurrency)
	stats, err := generator.Run(ctx)
	if err != nil {
		return err
	}

	data, err := store.Save()
	if err != nil {
		return fmt.Errorf("failed to encode annotation document: %w", err)
	}
	if err := os.WriteFile(annotationsFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write annotation document: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(),
		"Draft complete: %d propagated, %d drafted, %d already annotated, %d failed\n",
		stats.Propagated, stats.Drafted, stats.Skipped, stats.Failed)
	return nil
}

func loadGraph(path string) (*schema.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema document %s: %w", path, err)
	}
	graph, diagnostics, err := schema.ReadDocument(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema document %s: %w", path, err)
	}
	log := logger.Get()
	for _, d := range diagnostics {
		log.Warn("schema document irregularity", "relation", d.Relation, "detail", d.Message)
	}
	return graph, nil
}

func loadStore(path string) (*annotation.Store, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return annotation.NewStore(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read annotation document %s: %w", path, err)
	}
	store, err := annotation.Load(data)
	if err != nil {
		logger.Get().Warn("annotation document unreadable, starting empty", "file", path, "error", err)
	}
	return store, nil
}

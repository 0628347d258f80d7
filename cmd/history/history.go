package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fbschema/fbschema/cmd/util"
	"github.com/fbschema/fbschema/internal/history"
)

var (
	dbPath string
	file   string
)

var HistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Work with the stored chat history",
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export approved exchanges as training pairs",
	Long:  "Write every exchange with positive feedback as prompt/completion pairs in JSON, ready for fine-tuning preparation.",
	RunE:  runExport,
}

func init() {
	HistoryCmd.PersistentFlags().StringVar(&dbPath, "db", "", "History database path (default DB_PATH or chat_history.db)")
	exportCmd.Flags().StringVar(&file, "file", "table_training_data.json", "Output file path")
	HistoryCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	path := dbPath
	if path == "" {
		path = util.GetEnvWithDefault("DB_PATH", "chat_history.db")
	}

	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	pairs, err := store.TrainingPairs(context.Background())
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(pairs, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode training pairs: %w", err)
	}
	if err := os.WriteFile(file, data, 0644); err != nil {
		return fmt.Errorf("failed to write training pairs: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d training pairs to %s\n", len(pairs), file)
	return nil
}

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fbschema/fbschema/cmd/draft"
	"github.com/fbschema/fbschema/cmd/drift"
	"github.com/fbschema/fbschema/cmd/extract"
	"github.com/fbschema/fbschema/cmd/history"
	"github.com/fbschema/fbschema/cmd/suggest"
	"github.com/fbschema/fbschema/internal/logger"
	"github.com/fbschema/fbschema/internal/version"
)

var Debug bool

var RootCmd = &cobra.Command{
	Use:   "fbschema",
	Short: "Firebird schema extraction and annotation tool",
	Long: fmt.Sprintf(`fbschema extracts a Firebird database schema and maintains annotations over it.

Version: %s@%s %s %s

Commands:
  extract   Extract the database schema into a JSON document
  draft     Fill missing descriptions in the annotation document
  suggest   Suggest a description for one column from existing annotations
  drift     Report drift between the annotation document and the schema
  history   Work with the stored chat history

Use "fbschema [command] --help" for more information about a command.`,
		version.App(), version.GitCommit, version.Platform(), version.BuildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "Enable debug logging")
	RootCmd.AddCommand(extract.ExtractCmd)
	RootCmd.AddCommand(draft.DraftCmd)
	RootCmd.AddCommand(suggest.SuggestCmd)
	RootCmd.AddCommand(drift.DriftCmd)
	RootCmd.AddCommand(history.HistoryCmd)
	RootCmd.AddCommand(VersionCmd)
}

func setupLogger() {
	level := slog.LevelInfo
	if Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	logger.SetGlobal(slog.New(handler), Debug)
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

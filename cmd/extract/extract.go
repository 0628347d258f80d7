package extract

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fbschema/fbschema/cmd/util"
	"github.com/fbschema/fbschema/internal/firebird"
	"github.com/fbschema/fbschema/internal/logger"
	"github.com/fbschema/fbschema/internal/schema"
)

var (
	host     string
	port     int
	db       string
	user     string
	password string
	charset  string
	file     string
)

var ExtractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract the database schema into a JSON document",
	Long:  "Connect to a Firebird database, read its catalog, and write the normalized schema graph as a JSON document.",
	RunE:  runExtract,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return util.PreRunEWithEnvVarsAndConnection(&db, &user, &host, &port, &charset)(cmd, args)
	},
}

func init() {
	ExtractCmd.Flags().StringVar(&host, "host", "localhost", "Database server host")
	ExtractCmd.Flags().IntVar(&port, "port", 3050, "Database server port")
	ExtractCmd.Flags().StringVar(&db, "db", "", "Database file path or alias (required)")
	ExtractCmd.Flags().StringVar(&user, "user", "", "Database user name (required)")
	ExtractCmd.Flags().StringVar(&password, "password", "", "Database password (optional, can also use FBPASSWORD env var)")
	ExtractCmd.Flags().StringVar(&charset, "charset", "WIN1252", "Connection character set")
	ExtractCmd.Flags().StringVar(&file, "file", "firebird_schema.json", "Output file path")
}

func runExtract(cmd *cobra.Command, args []string) error {
	// Derive final password: use flag if provided, otherwise check environment variable
	finalPassword := password
	if finalPassword == "" {
		if envPassword := os.Getenv("FBPASSWORD"); envPassword != "" {
			finalPassword = envPassword
		}
	}

	config := &util.ConnectionConfig{
		Host:     host,
		Port:     port,
		Database: db,
		User:     user,
		Password: finalPassword,
		Charset:  charset,
	}

	dbConn, err := util.Connect(config)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	ctx := context.Background()

	inspector := firebird.NewInspector(dbConn)
	graph, diagnostics, err := inspector.BuildGraph(ctx)
	if err != nil {
		return fmt.Errorf("failed to build schema graph: %w", err)
	}

	log := logger.Get()
	for _, d := range diagnostics {
		log.Warn("catalog irregularity", "relation", d.Relation, "detail", d.Message)
	}

	data, err := schema.WriteDocument(graph)
	if err != nil {
		return fmt.Errorf("failed to encode schema document: %w", err)
	}
	if err := os.WriteFile(file, data, 0644); err != nil {
		return fmt.Errorf("failed to write schema document: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d relations to %s\n", graph.Len(), file)
	return nil
}

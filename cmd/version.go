package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fbschema/fbschema/internal/version"
)

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  "Display the version number of fbschema",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "fbschema v%s@%s %s %s\n",
			version.App(), version.GitCommit, version.Platform(), version.BuildDate)
	},
}

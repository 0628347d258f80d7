package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer

	// Use a temporary root so the global command state stays untouched
	rootCmd := &cobra.Command{Use: "fbschema"}
	rootCmd.AddCommand(VersionCmd)
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})

	err := rootCmd.Execute()
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	output := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(output, "fbschema v") {
		t.Errorf("expected output to start with 'fbschema v', got: %s", output)
	}

	versionPart := strings.TrimPrefix(output, "fbschema v")
	if len(versionPart) == 0 {
		t.Error("expected version information after 'fbschema v', got empty string")
	}
}

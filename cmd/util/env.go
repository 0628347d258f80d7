package util

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// GetEnvWithDefault returns the value of an environment variable or a default value if not set
func GetEnvWithDefault(envVar, defaultValue string) string {
	if value := os.Getenv(envVar); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvIntWithDefault returns the value of an environment variable as int or a default value if not set
func GetEnvIntWithDefault(envVar string, defaultValue int) int {
	if value := os.Getenv(envVar); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// PreRunEWithEnvVars creates a PreRunE function that validates required database connection parameters
// It checks environment variables if the corresponding flags weren't explicitly set
func PreRunEWithEnvVars(dbPtr, userPtr *string) func(*cobra.Command, []string) error {
	return PreRunEWithEnvVarsAndConnection(dbPtr, userPtr, nil, nil, nil)
}

// PreRunEWithEnvVarsAndConnection creates a PreRunE function that validates database connection parameters
// It checks environment variables if the corresponding flags weren't explicitly set
// This version also handles optional host, port, and charset parameters
func PreRunEWithEnvVarsAndConnection(dbPtr, userPtr *string, hostPtr *string, portPtr *int, charsetPtr *string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		// Check if required values are available from environment variables
		if GetEnvWithDefault("FBDATABASE", "") != "" && !cmd.Flags().Changed("db") {
			*dbPtr = GetEnvWithDefault("FBDATABASE", "")
		}
		if GetEnvWithDefault("FBUSER", "") != "" && !cmd.Flags().Changed("user") {
			*userPtr = GetEnvWithDefault("FBUSER", "")
		}

		// Check optional host and port if pointers provided
		if hostPtr != nil && GetEnvWithDefault("FBHOST", "") != "" && !cmd.Flags().Changed("host") {
			*hostPtr = GetEnvWithDefault("FBHOST", "")
		}
		if portPtr != nil && GetEnvIntWithDefault("FBPORT", 0) != 0 && !cmd.Flags().Changed("port") {
			*portPtr = GetEnvIntWithDefault("FBPORT", 0)
		}

		// Check optional charset if pointer provided
		if charsetPtr != nil && GetEnvWithDefault("FBCHARSET", "") != "" && !cmd.Flags().Changed("charset") {
			*charsetPtr = GetEnvWithDefault("FBCHARSET", "")
		}

		// Now validate that we have the required values
		if *dbPtr == "" {
			return fmt.Errorf("database path is required (use --db flag or FBDATABASE environment variable)")
		}
		if *userPtr == "" {
			return fmt.Errorf("database user is required (use --user flag or FBUSER environment variable)")
		}

		return nil
	}
}

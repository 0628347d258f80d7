package cmd

import (
	"os"
	"testing"

	"github.com/joho/godotenv"
)

func TestDotenvLoading(t *testing.T) {
	// Create a temporary directory for test
	tmpDir := t.TempDir()
	originalDir, _ := os.Getwd()

	// Change to temp directory
	err := os.Chdir(tmpDir)
	if err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}

	// Restore original directory after test
	defer func() {
		os.Chdir(originalDir)
	}()

	// Test 1: Load .env file with FBPASSWORD
	t.Run("LoadEnvFile", func(t *testing.T) {
		// Clean environment first
		os.Unsetenv("FBPASSWORD")

		// Create .env file
		envContent := "FBPASSWORD=test_password_123\n"
		err := os.WriteFile(".env", []byte(envContent), 0644)
		if err != nil {
			t.Fatalf("Failed to create .env file: %v", err)
		}

		// Load .env file
		err = godotenv.Load()
		if err != nil {
			t.Fatalf("Failed to load .env file: %v", err)
		}

		// Verify FBPASSWORD is set
		password := os.Getenv("FBPASSWORD")
		if password != "test_password_123" {
			t.Errorf("Expected FBPASSWORD='test_password_123', got '%s'", password)
		}

		// Cleanup
		os.Remove(".env")
		os.Unsetenv("FBPASSWORD")
	})

	// Test 2: Missing .env file should not cause errors
	t.Run("MissingEnvFile", func(t *testing.T) {
		// Clean environment first
		os.Unsetenv("FBPASSWORD")

		// Ensure no .env file exists
		os.Remove(".env")

		// Load .env file (should not error)
		err := godotenv.Load()
		if err == nil {
			t.Error("Expected error when loading non-existent .env file, but got nil")
		}

		// FBPASSWORD should be empty
		password := os.Getenv("FBPASSWORD")
		if password != "" {
			t.Errorf("Expected FBPASSWORD to be empty, got '%s'", password)
		}
	})

	// Test 3: Environment variable priority
	t.Run("EnvVarPriority", func(t *testing.T) {
		// Set FBPASSWORD in environment first
		os.Setenv("FBPASSWORD", "env_password")

		// Create .env file with different password
		envContent := "FBPASSWORD=dotenv_password\n"
		err := os.WriteFile(".env", []byte(envContent), 0644)
		if err != nil {
			t.Fatalf("Failed to create .env file: %v", err)
		}

		// Load .env file - should NOT override existing env var
		err = godotenv.Load()
		if err != nil {
			t.Fatalf("Failed to load .env file: %v", err)
		}

		// Should still have the original environment value
		password := os.Getenv("FBPASSWORD")
		if password != "env_password" {
			t.Errorf("Expected FBPASSWORD='env_password' (existing env var should take precedence), got '%s'", password)
		}

		// Cleanup
		os.Remove(".env")
		os.Unsetenv("FBPASSWORD")
	})

	// Test 4: All connection environment variables
	t.Run("AllConnectionEnvVars", func(t *testing.T) {
		// Clean environment first
		envVars := []string{"FBHOST", "FBPORT", "FBDATABASE", "FBUSER", "FBPASSWORD", "FBCHARSET", "OLLAMA_HOST", "OLLAMA_MODEL"}
		for _, envVar := range envVars {
			os.Unsetenv(envVar)
		}

		// Create .env file with all variables
		envContent := `FBHOST=test.example.com
FBPORT=3051
FBDATABASE=/data/erp.fdb
FBUSER=SYSDBA
FBPASSWORD=testpass
FBCHARSET=WIN1252
OLLAMA_HOST=http://ollama.internal:11434
OLLAMA_MODEL=llama3
`
		err := os.WriteFile(".env", []byte(envContent), 0644)
		if err != nil {
			t.Fatalf("Failed to create .env file: %v", err)
		}

		// Load .env file
		err = godotenv.Load()
		if err != nil {
			t.Fatalf("Failed to load .env file: %v", err)
		}

		// Verify all variables are loaded
		expectedValues := map[string]string{
			"FBHOST":       "test.example.com",
			"FBPORT":       "3051",
			"FBDATABASE":   "/data/erp.fdb",
			"FBUSER":       "SYSDBA",
			"FBPASSWORD":   "testpass",
			"FBCHARSET":    "WIN1252",
			"OLLAMA_HOST":  "http://ollama.internal:11434",
			"OLLAMA_MODEL": "llama3",
		}

		for envVar, expected := range expectedValues {
			actual := os.Getenv(envVar)
			if actual != expected {
				t.Errorf("Expected %s='%s', got '%s'", envVar, expected, actual)
			}
		}

		// Cleanup
		os.Remove(".env")
		for _, envVar := range envVars {
			os.Unsetenv(envVar)
		}
	})
}

package util

import (
	"os"
	"testing"

	"github.com/spf13/cobra"
)

func TestGetEnvWithDefault(t *testing.T) {
	// Test with existing env var
	os.Setenv("TEST_STRING", "test-value")
	if GetEnvWithDefault("TEST_STRING", "default") != "test-value" {
		t.Errorf("Expected GetEnvWithDefault to return 'test-value', got '%s'", GetEnvWithDefault("TEST_STRING", "default"))
	}

	// Test with missing env var
	os.Unsetenv("MISSING_VAR")
	if GetEnvWithDefault("MISSING_VAR", "default") != "default" {
		t.Errorf("Expected GetEnvWithDefault to return 'default', got '%s'", GetEnvWithDefault("MISSING_VAR", "default"))
	}

	// Test with empty env var (should return default)
	os.Setenv("EMPTY_VAR", "")
	if GetEnvWithDefault("EMPTY_VAR", "default") != "default" {
		t.Errorf("Expected GetEnvWithDefault to return 'default' for empty var, got '%s'", GetEnvWithDefault("EMPTY_VAR", "default"))
	}

	// Cleanup
	os.Unsetenv("TEST_STRING")
	os.Unsetenv("EMPTY_VAR")
}

func TestGetEnvIntWithDefault(t *testing.T) {
	// Test with valid int env var
	os.Setenv("TEST_INT", "12345")
	if GetEnvIntWithDefault("TEST_INT", 0) != 12345 {
		t.Errorf("Expected GetEnvIntWithDefault to return 12345, got %d", GetEnvIntWithDefault("TEST_INT", 0))
	}

	// Test with invalid int value (should return default)
	os.Setenv("TEST_INVALID_INT", "not-a-number")
	if GetEnvIntWithDefault("TEST_INVALID_INT", 999) != 999 {
		t.Errorf("Expected GetEnvIntWithDefault to return default 999, got %d", GetEnvIntWithDefault("TEST_INVALID_INT", 999))
	}

	// Test with missing env var
	os.Unsetenv("MISSING_INT_VAR")
	if GetEnvIntWithDefault("MISSING_INT_VAR", 777) != 777 {
		t.Errorf("Expected GetEnvIntWithDefault to return default 777, got %d", GetEnvIntWithDefault("MISSING_INT_VAR", 777))
	}

	// Cleanup
	os.Unsetenv("TEST_INT")
	os.Unsetenv("TEST_INVALID_INT")
}

func TestPreRunEWithEnvVars(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		flags   map[string]string
		wantDB  string
		wantErr bool
	}{
		{
			name:   "env vars fill unset flags",
			env:    map[string]string{"FBDATABASE": "/data/erp.fdb", "FBUSER": "SYSDBA"},
			wantDB: "/data/erp.fdb",
		},
		{
			name:   "explicit flag beats env var",
			env:    map[string]string{"FBDATABASE": "/data/erp.fdb", "FBUSER": "SYSDBA"},
			flags:  map[string]string{"db": "/data/other.fdb"},
			wantDB: "/data/other.fdb",
		},
		{
			name:    "missing database is an error",
			env:     map[string]string{"FBUSER": "SYSDBA"},
			wantErr: true,
		},
		{
			name:    "missing user is an error",
			env:     map[string]string{"FBDATABASE": "/data/erp.fdb"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Unsetenv("FBDATABASE")
			os.Unsetenv("FBUSER")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			var db, user string
			cmd := &cobra.Command{Use: "test"}
			cmd.Flags().StringVar(&db, "db", "", "")
			cmd.Flags().StringVar(&user, "user", "", "")
			for k, v := range tt.flags {
				if err := cmd.Flags().Set(k, v); err != nil {
					t.Fatalf("failed to set flag %s: %v", k, err)
				}
			}

			err := PreRunEWithEnvVars(&db, &user)(cmd, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PreRunE error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && db != tt.wantDB {
				t.Errorf("db = %q, want %q", db, tt.wantDB)
			}
		})
	}
}

func TestPreRunEWithConnectionEnvVars(t *testing.T) {
	t.Setenv("FBDATABASE", "/data/erp.fdb")
	t.Setenv("FBUSER", "SYSDBA")
	t.Setenv("FBHOST", "db.internal")
	t.Setenv("FBPORT", "3051")
	t.Setenv("FBCHARSET", "ISO8859_1")

	var db, user, host, charset string
	var port int
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVar(&db, "db", "", "")
	cmd.Flags().StringVar(&user, "user", "", "")
	cmd.Flags().StringVar(&host, "host", "localhost", "")
	cmd.Flags().IntVar(&port, "port", 3050, "")
	cmd.Flags().StringVar(&charset, "charset", "WIN1252", "")

	err := PreRunEWithEnvVarsAndConnection(&db, &user, &host, &port, &charset)(cmd, nil)
	if err != nil {
		t.Fatalf("PreRunE error: %v", err)
	}
	if host != "db.internal" {
		t.Errorf("host = %q, want db.internal", host)
	}
	if port != 3051 {
		t.Errorf("port = %d, want 3051", port)
	}
	if charset != "ISO8859_1" {
		t.Errorf("charset = %q, want ISO8859_1", charset)
	}
}

package draft

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fbschema/fbschema/internal/annotation"
	"github.com/fbschema/fbschema/internal/schema"
)

const schemaDoc = `{
    "CUSTOMERS": {
        "object_type": "TABLE",
        "columns": [
            {"name": "ID", "type": "INTEGER", "nullable": false},
            {"name": "NAME", "type": "VARCHAR(60)", "nullable": true}
        ],
        "constraints": {
            "primary_key": [{"name": "PK_CUSTOMERS", "columns": ["ID"]}]
        }
    },
    "ORDERS": {
        "object_type": "TABLE",
        "columns": [
            {"name": "ID", "type": "INTEGER", "nullable": false},
            {"name": "CUSTOMER_ID", "type": "INTEGER", "nullable": false}
        ],
        "constraints": {
            "primary_key": [{"name": "PK_ORDERS", "columns": ["ID"]}],
            "foreign_keys": [{
                "name": "FK_ORDERS_CUSTOMERS",
                "columns": ["CUSTOMER_ID"],
                "references_table": "CUSTOMERS",
                "references_columns": ["ID"],
                "update_rule": "RESTRICT",
                "delete_rule": "CASCADE"
            }]
        }
    }
}`

const annotationDoc = `{
    "TABLES": {
        "CUSTOMERS": {
            "description": "Registered customers",
            "COLUMNS": {
                "ID": {"description": "Unique customer identifier", "value_mapping_notes": ""}
            }
        }
    },
    "VIEWS": {},
    "_GLOBAL_CONTEXT": "ERP database"
}`

func TestDraftCommand_NoLLM(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "firebird_schema.json")
	annotationsPath := filepath.Join(dir, "schema_metadata_draft.json")
	if err := os.WriteFile(schemaPath, []byte(schemaDoc), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(annotationsPath, []byte(annotationDoc), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	DraftCmd.SetOut(&buf)
	DraftCmd.SetErr(&buf)
	DraftCmd.SetArgs([]string{
		"--schema", schemaPath,
		"--annotations", annotationsPath,
		"--no-llm",
	})

	if err := DraftCmd.Execute(); err != nil {
		t.Fatalf("draft command failed: %v", err)
	}
	if !strings.Contains(buf.String(), "propagated") {
		t.Errorf("unexpected output: %s", buf.String())
	}

	data, err := os.ReadFile(annotationsPath)
	if err != nil {
		t.Fatalf("failed to read updated annotations: %v", err)
	}
	store, err := annotation.Load(data)
	if err != nil {
		t.Fatalf("updated annotations unreadable: %v", err)
	}

	// ORDERS.CUSTOMER_ID propagated across the FK, existing entries untouched
	if got := store.ColumnDescription(schema.KindTable, "ORDERS", "CUSTOMER_ID"); got != "Unique customer identifier" {
		t.Errorf("CUSTOMER_ID description = %q", got)
	}
	if got := store.ColumnDescription(schema.KindTable, "CUSTOMERS", "ID"); got != "Unique customer identifier" {
		t.Errorf("existing description changed: %q", got)
	}
	if store.GlobalContext != "ERP database" {
		t.Errorf("global context not preserved: %q", store.GlobalContext)
	}
}

func TestDraftCommand_MissingSchema(t *testing.T) {
	dir := t.TempDir()

	var buf bytes.Buffer
	DraftCmd.SetOut(&buf)
	DraftCmd.SetErr(&buf)
	DraftCmd.SetArgs([]string{
		"--schema", filepath.Join(dir, "does_not_exist.json"),
		"--annotations", filepath.Join(dir, "schema_metadata_draft.json"),
		"--no-llm",
	})

	if err := DraftCmd.Execute(); err == nil {
		t.Fatal("expected error for missing schema document")
	}
}

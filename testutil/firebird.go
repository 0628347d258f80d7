// Package testutil provides shared test utilities for fbschema
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"testing"
	"time"

	_ "github.com/nakagami/firebirdsql"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var suppressedLogger = log.New(io.Discard, "", 0)

// getFirebirdImage returns the Firebird image to use for testing.
// It reads from the FBSCHEMA_FIREBIRD_IMAGE environment variable,
// defaulting to jacobalberty/firebird:v4.0 if not set.
func getFirebirdImage() string {
	if image := os.Getenv("FBSCHEMA_FIREBIRD_IMAGE"); image != "" {
		return image
	}
	return "jacobalberty/firebird:v4.0"
}

// ContainerInfo holds Firebird container connection details
type ContainerInfo struct {
	Container testcontainers.Container
	Host      string
	Port      int
	DSN       string
	Conn      *sql.DB
}

// SetupFirebirdContainer creates a new Firebird test container
func SetupFirebirdContainer(ctx context.Context, t *testing.T) *ContainerInfo {
	return SetupFirebirdContainerWithDB(ctx, t, "testdb", "masterkey")
}

// SetupFirebirdContainerWithDB creates a new Firebird test container with custom database settings
func SetupFirebirdContainerWithDB(ctx context.Context, t *testing.T, database, password string) *ContainerInfo {
	request := testcontainers.ContainerRequest{
		Image:        getFirebirdImage(),
		ExposedPorts: []string{"3050/tcp"},
		Env: map[string]string{
			"ISC_PASSWORD":      password,
			"FIREBIRD_DATABASE": database,
		},
		WaitingFor: wait.ForListeningPort("3050/tcp").WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: request,
		Started:          true,
		Logger:           suppressedLogger,
	})
	if err != nil {
		t.Fatalf("Failed to start container: %v", err)
	}

	containerHost, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	containerPort, err := container.MappedPort(ctx, "3050")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	// The image places databases under /firebird/data
	testDSN := fmt.Sprintf("SYSDBA:%s@%s:%d//firebird/data/%s",
		password, containerHost, containerPort.Int(), database)

	conn, err := sql.Open("firebirdsql", testDSN)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	return &ContainerInfo{
		Container: container,
		Host:      containerHost,
		Port:      containerPort.Int(),
		DSN:       testDSN,
		Conn:      conn,
	}
}

// Terminate cleans up the container and connection
func (ci *ContainerInfo) Terminate(ctx context.Context, t *testing.T) {
	ci.Conn.Close()
	if err := ci.Container.Terminate(ctx); err != nil {
		t.Logf("Failed to terminate container: %v", err)
	}
}

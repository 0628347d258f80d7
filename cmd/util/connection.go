package util

import (
	"database/sql"
	"fmt"

	_ "github.com/nakagami/firebirdsql"

	"github.com/fbschema/fbschema/internal/logger"
)

// ConnectionConfig holds database connection parameters
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	Charset  string
}

// Connect establishes a database connection using the provided configuration
func Connect(config *ConnectionConfig) (*sql.DB, error) {
	log := logger.Get()

	log.Debug("Attempting database connection",
		"host", config.Host,
		"port", config.Port,
		"database", config.Database,
		"user", config.User,
		"charset", config.Charset,
	)

	dsn := buildDSN(config)
	conn, err := sql.Open("firebirdsql", dsn)
	if err != nil {
		log.Debug("Database connection failed", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := conn.Ping(); err != nil {
		log.Debug("Database ping failed", "error", err)
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Debug("Database connection established successfully")
	return conn, nil
}

// buildDSN constructs a Firebird connection string from connection parameters.
// The driver expects user:password@host:port/database?params.
func buildDSN(config *ConnectionConfig) string {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	port := config.Port
	if port == 0 {
		port = 3050
	}

	dsn := fmt.Sprintf("%s:%s@%s:%d/%s", config.User, config.Password, host, port, config.Database)
	if config.Charset != "" {
		dsn += "?charset=" + config.Charset
	}
	return dsn
}

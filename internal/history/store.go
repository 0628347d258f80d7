// Package history persists chat exchanges about the schema in a local
// SQLite database, including the thumbs up/down feedback used to export
// fine-tuning pairs.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS chat_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT,
    timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
    user_message TEXT NOT NULL,
    assistant_message TEXT NOT NULL,
    feedback INTEGER DEFAULT NULL
)`

// Message is one stored exchange. Feedback is nil until the user rates it;
// +1 approves, -1 rejects.
type Message struct {
	ID        int64
	SessionID string
	Timestamp time.Time
	User      string
	Assistant string
	Feedback  *int
}

// TrainingPair is an approved exchange formatted for fine-tuning export.
type TrainingPair struct {
	Prompt     string `json:"prompt"`
	Completion string `json:"completion"`
}

// Store wraps the SQLite history database. Safe for concurrent use by
// virtue of database/sql's pooling.
type Store struct {
	db *sql.DB
}

// Open creates or opens the history database at path and ensures the
// schema exists. Use ":memory:" for a throwaway store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database %s: %w", path, err)
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveMessage records one exchange and returns its row id.
func (s *Store) SaveMessage(ctx context.Context, sessionID, user, assistant string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO chat_history (session_id, user_message, assistant_message) VALUES (?, ?, ?)",
		sessionID, user, assistant,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save message: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read message id: %w", err)
	}
	return id, nil
}

// UpdateFeedback rates a stored exchange. Only +1 and -1 are accepted.
func (s *Store) UpdateFeedback(ctx context.Context, id int64, feedback int) error {
	if feedback != 1 && feedback != -1 {
		return fmt.Errorf("invalid feedback value %d: must be 1 or -1", feedback)
	}
	result, err := s.db.ExecContext(ctx,
		"UPDATE chat_history SET feedback = ? WHERE id = ?", feedback, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update feedback: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check feedback update: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("no message with id %d", id)
	}
	return nil
}

// Messages returns the exchanges of one session in chronological order.
// An empty sessionID returns every stored exchange.
func (s *Store) Messages(ctx context.Context, sessionID string) ([]Message, error) {
	query := "SELECT id, session_id, timestamp, user_message, assistant_message, feedback FROM chat_history"
	var args []any
	if sessionID != "" {
		query += " WHERE session_id = ?"
		args = append(args, sessionID)
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var (
			m        Message
			session  sql.NullString
			feedback sql.NullInt64
		)
		if err := rows.Scan(&m.ID, &session, &m.Timestamp, &m.User, &m.Assistant, &feedback); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		m.SessionID = session.String
		if feedback.Valid {
			value := int(feedback.Int64)
			m.Feedback = &value
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// TrainingPairs returns every approved exchange, oldest first.
func (s *Store) TrainingPairs(ctx context.Context) ([]TrainingPair, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_message, assistant_message FROM chat_history WHERE feedback = 1 ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query training pairs: %w", err)
	}
	defer rows.Close()

	var pairs []TrainingPair
	for rows.Next() {
		var p TrainingPair
		if err := rows.Scan(&p.Prompt, &p.Completion); err != nil {
			return nil, fmt.Errorf("failed to scan training pair: %w", err)
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

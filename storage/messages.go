package storage

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gennadis/formfillui/internal/chat"
	"github.com/jmoiron/sqlx"
)

// Messages is a storage for transcript messages
type Messages struct {
	db *sqlx.DB
}

// NewMessages creates a new Messages storage
func NewMessages(db *sqlx.DB) (*Messages, error) {
	createMessagesTable := `
	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (session_id) REFERENCES sessions(id)
	)
	`
	if _, err := db.Exec(createMessagesTable); err != nil {
		return nil, fmt.Errorf("failed to create messages table: %w", err)
	}

	return &Messages{db: db}, nil
}

// ReadBySessionID returns messages for a specific session_id in
// transcript order
func (m *Messages) ReadBySessionID(sessionID string) ([]chat.Message, error) {
	var messages []chat.Message
	err := m.db.Select(&messages, "SELECT id, session_id, role, content, timestamp FROM messages WHERE session_id = ? ORDER BY timestamp ASC", sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages for session_id %s: %w", sessionID, err)
	}

	slog.Debug("read messages by session_id",
		slog.String("session_id", sessionID),
		slog.Int("count", len(messages)),
	)
	return messages, nil
}

// Write writes new message to the storage. The uuid primary key with
// INSERT OR IGNORE keeps replays of the same message idempotent.
func (m *Messages) Write(message chat.Message) error {
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}
	insertQuery := "INSERT OR IGNORE INTO messages (id, session_id, role, content, timestamp) VALUES (?, ?, ?, ?, ?)"
	if _, err := m.db.Exec(insertQuery, message.ID, message.SessionID, message.Role, message.Content, message.Timestamp); err != nil {
		return fmt.Errorf("failed to insert message %+v: %w", message, err)
	}

	slog.Debug("message added to messages",
		slog.String("id", message.ID),
		slog.String("session_id", message.SessionID),
		slog.String("role", string(message.Role)),
	)
	return nil
}

package chat

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single transcript entry. Timestamp is used for display
// and for ordering persisted history; live transcript order is
// insertion order.
type Message struct {
	ID        string    `db:"id" json:"id"`
	SessionID string    `db:"session_id" json:"session_id"`
	Role      Role      `db:"role" json:"role"`
	Content   string    `db:"content" json:"content"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
}

// NewMessage creates a Message with a fresh id and the current time.
func NewMessage(sessionID string, role Role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// Stream event types pushed by the agent backend.
const (
	EventTypeMessage = "message"
	EventTypeDone    = "done"
	EventTypeError   = "error"
)

// StreamEvent is one JSON frame from the chat stream. Content is set
// for "message" and "error" events, IsComplete for "done" events.
type StreamEvent struct {
	Type       string `json:"type"`
	Content    string `json:"content,omitempty"`
	IsComplete bool   `json:"is_complete,omitempty"`
}

// Movie is one row of the form's movie table.
type Movie struct {
	Title    string `json:"title"`
	Language string `json:"language"`
}

// FormData mirrors the backend's view of the collected form fields.
// Empty strings mean the agent has not extracted that field yet.
type FormData struct {
	Name           string  `json:"name"`
	Street         string  `json:"street"`
	PostalCodeCity string  `json:"postal_code_city"`
	Country        string  `json:"country"`
	Movies         []Movie `json:"movies"`
}

// Status is the snapshot returned by the status endpoint.
type Status struct {
	IsComplete bool     `json:"is_complete"`
	FormData   FormData `json:"form_data"`
}

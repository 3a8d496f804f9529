package chat

import "time"

// Session is a persisted record of one uploaded document and its
// conversation. ID is the backend-issued session id; Name is the
// uploaded filename.
type Session struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Timestamp time.Time `db:"timestamp"`
}

package database

import "time"

// Message kinds recorded in the archive, matching the webhook message types.
const (
	KindText        = "text"
	KindImage       = "image"
	KindAudio       = "audio"
	KindInteractive = "interactive"
)

// Message represents one archived conversation turn. The archive is
// write-mostly operator storage; the dispatcher's working history stays in
// process memory and is never rebuilt from these rows.
type Message struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`

	UserID    string    `db:"user_id"` // platform-supplied sender identifier
	Role      string    `db:"role"`    // user or assistant
	Kind      string    `db:"kind"`
	Content   string    `db:"content"`
	Timestamp time.Time `db:"timestamp"`
}

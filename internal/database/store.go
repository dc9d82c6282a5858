package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for message archive operations.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveMessage inserts a new archived message record.
	SaveMessage(ctx context.Context, message *Message) error

	// GetRecentMessages retrieves the most recent 'limit' archived messages
	// for a given user, newest first.
	GetRecentMessages(ctx context.Context, userID string, limit int) ([]Message, error)

	// CountMessages returns the total number of archived messages.
	CountMessages(ctx context.Context) (int64, error)

	// RunMaintenance performs database maintenance tasks (VACUUM, ANALYZE).
	RunMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SaveMessage inserts a new archived message record.
func (s *sqlxStore) SaveMessage(ctx context.Context, message *Message) error {
	if message == nil {
		return fmt.Errorf("cannot save nil message")
	}
	if message.UserID == "" {
		return fmt.Errorf("message must have a non-empty user_id")
	}
	if message.Role == "" {
		return fmt.Errorf("message must have a non-empty role")
	}
	if message.Content == "" {
		return fmt.Errorf("message must have non-empty content")
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now().UTC()
	}
	if message.Kind == "" {
		message.Kind = KindText
	}
	message.CreatedAt = time.Now().UTC()

	query := `
        INSERT INTO messages (created_at, user_id, role, kind, content, timestamp)
        VALUES (:created_at, :user_id, :role, :kind, :content, :timestamp);
    `

	result, err := s.db.NamedExecContext(ctx, query, message)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving message", "user_id", message.UserID, "error", err)
		return fmt.Errorf("failed to save message for user %s: %w", message.UserID, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		//nolint:gosec // insert IDs stay well within uint range
		message.ID = uint(id)
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving message",
			"user_id", message.UserID, "error", err)
	}

	s.logger.DebugContext(ctx, "Message archived", "user_id", message.UserID, "role", message.Role, "message_id", message.ID)
	return nil
}

// GetRecentMessages retrieves the most recent 'limit' archived messages for a user.
func (s *sqlxStore) GetRecentMessages(ctx context.Context, userID string, limit int) ([]Message, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id cannot be empty")
	}
	if limit <= 0 {
		limit = 20
	} else if limit > 100 {
		limit = 100
	}

	var messages []Message
	query := `
        SELECT id, created_at, user_id, role, kind, content, timestamp
        FROM messages
        WHERE user_id = ?
        ORDER BY timestamp DESC
        LIMIT ?;
    `

	err := s.db.SelectContext(ctx, &messages, query, userID, limit)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching messages",
			"user_id", userID, "error", err)
		return nil, err
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting recent messages", "user_id", userID, "limit", limit, "error", err)
		return nil, fmt.Errorf("failed to get recent messages for user %s: %w", userID, err)
	}

	return messages, nil
}

// CountMessages returns the total number of archived messages.
func (s *sqlxStore) CountMessages(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM messages;`); err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}

// RunMaintenance executes VACUUM and ANALYZE on the SQLite database.
func (s *sqlxStore) RunMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting maintenance", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM, ANALYZE)...")
	startTime := time.Now()

	// VACUUM must run outside a transaction in SQLite.
	if _, err := s.db.ExecContext(ctx, "VACUUM;"); err != nil {
		s.logger.ErrorContext(ctx, "VACUUM failed", "error", err)
		return fmt.Errorf("vacuum failed: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "ANALYZE;"); err != nil {
		s.logger.ErrorContext(ctx, "ANALYZE failed", "error", err)
		return fmt.Errorf("analyze failed: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance completed", "duration_ms", time.Since(startTime).Milliseconds())
	return nil
}

package interactions

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Entry is one interaction log row: either a reply exchange or a confirmed
// booking record.
type Entry struct {
	ID           uuid.UUID  `json:"id"`
	SessionID    string     `json:"session_id"`
	Kind         string     `json:"kind"`
	Intent       string     `json:"intent,omitempty"`
	UserText     string     `json:"user_text,omitempty"`
	ReplyText    string     `json:"reply_text,omitempty"`
	Service      string     `json:"service,omitempty"`
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Store persists interaction log entries to PostgreSQL. A nil store drops
// writes silently, so the dialogue keeps working without the log.
type Store struct {
	db *sql.DB
}

// NewStore creates an interaction log store.
func NewStore(db *sql.DB) *Store {
	if db == nil {
		return nil
	}
	return &Store{db: db}
}

// Append inserts one entry.
func (s *Store) Append(ctx context.Context, entry Entry) error {
	if s == nil || s.db == nil {
		return nil
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO interactions (id, session_id, kind, intent, user_text, reply_text, service, scheduled_for, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entry.SessionID, entry.Kind, nullIfEmpty(entry.Intent),
		nullIfEmpty(entry.UserText), nullIfEmpty(entry.ReplyText),
		nullIfEmpty(entry.Service), entry.ScheduledFor, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("interactions: insert entry: %w", err)
	}
	return nil
}

// ListRecent returns the most recent entries, newest first. An empty
// sessionID lists across all sessions.
func (s *Store) ListRecent(ctx context.Context, sessionID string, limit int) ([]Entry, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, session_id, kind, intent, user_text, reply_text, service, scheduled_for, created_at
		FROM interactions`
	args := []any{}
	if sessionID != "" {
		query += ` WHERE session_id = $1 ORDER BY created_at DESC LIMIT $2`
		args = append(args, sessionID, limit)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("interactions: list entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			entry        Entry
			intent       sql.NullString
			userText     sql.NullString
			replyText    sql.NullString
			service      sql.NullString
			scheduledFor sql.NullTime
		)
		if err := rows.Scan(&entry.ID, &entry.SessionID, &entry.Kind, &intent,
			&userText, &replyText, &service, &scheduledFor, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("interactions: scan entry: %w", err)
		}
		entry.Intent = intent.String
		entry.UserText = userText.String
		entry.ReplyText = replyText.String
		entry.Service = service.String
		if scheduledFor.Valid {
			t := scheduledFor.Time
			entry.ScheduledFor = &t
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("interactions: iterate entries: %w", err)
	}
	return out, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the pgx pool subset the repository uses. pgxmock satisfies it in
// tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository provides persistence for appointments.
type Repository struct {
	db DB
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB allows injecting mocks for tests.
func NewRepositoryWithDB(db DB) *Repository {
	return &Repository{db: db}
}

// CreateConfirmed inserts a confirmed appointment row.
func (r *Repository) CreateConfirmed(ctx context.Context, sessionID, service string, startsAt time.Time) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO appointments (id, session_id, service, status, starts_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		toPGUUID(uuid.New()), sessionID, service, StatusConfirmed,
		toPGTime(startsAt.UTC()), toPGTime(time.Now().UTC()),
	)
	if err != nil {
		return fmt.Errorf("appointments: insert confirmed: %w", err)
	}
	return nil
}

// NextUpcoming returns the session's nearest confirmed appointment starting
// at or after now. found is false when there is none.
func (r *Repository) NextUpcoming(ctx context.Context, sessionID string, now time.Time) (string, time.Time, bool, error) {
	row := r.db.QueryRow(ctx, `
		SELECT service, starts_at
		FROM appointments
		WHERE session_id = $1 AND status = $2 AND starts_at >= $3
		ORDER BY starts_at ASC
		LIMIT 1`,
		sessionID, StatusConfirmed, toPGTime(now.UTC()),
	)

	var service string
	var startsAt pgtype.Timestamptz
	if err := row.Scan(&service, &startsAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, false, nil
		}
		return "", time.Time{}, false, fmt.Errorf("appointments: load next upcoming: %w", err)
	}
	return service, startsAt.Time, true, nil
}

// BookedTimes returns the "HH:MM" starts of confirmed appointments on a
// calendar day. The availability grid subtracts them.
func (r *Repository) BookedTimes(ctx context.Context, date time.Time) ([]string, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	rows, err := r.db.Query(ctx, `
		SELECT starts_at
		FROM appointments
		WHERE status = $1 AND starts_at >= $2 AND starts_at < $3`,
		StatusConfirmed, toPGTime(dayStart), toPGTime(dayEnd),
	)
	if err != nil {
		return nil, fmt.Errorf("appointments: load booked times: %w", err)
	}
	defer rows.Close()

	var times []string
	for rows.Next() {
		var startsAt pgtype.Timestamptz
		if err := rows.Scan(&startsAt); err != nil {
			return nil, fmt.Errorf("appointments: scan booked time: %w", err)
		}
		times = append(times, startsAt.Time.UTC().Format("15:04"))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: iterate booked times: %w", err)
	}
	return times, nil
}

// ListRecent returns the most recently created appointments, newest first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]Appointment, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, session_id, service, status, starts_at, created_at
		FROM appointments
		ORDER BY created_at DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("appointments: list recent: %w", err)
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		var (
			id        pgtype.UUID
			appt      Appointment
			startsAt  pgtype.Timestamptz
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &appt.SessionID, &appt.Service, &appt.Status, &startsAt, &createdAt); err != nil {
			return nil, fmt.Errorf("appointments: scan appointment: %w", err)
		}
		appt.ID = uuid.UUID(id.Bytes)
		appt.StartsAt = startsAt.Time
		appt.CreatedAt = createdAt.Time
		out = append(out, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: iterate appointments: %w", err)
	}
	return out, nil
}

func toPGUUID(id uuid.UUID) pgtype.UUID {
	if id == uuid.Nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{
		Bytes: [16]byte(id),
		Valid: true,
	}
}

func toPGTime(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{
		Time:  t,
		Valid: true,
	}
}

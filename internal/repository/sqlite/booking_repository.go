package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"eventmgt/internal/domain"
	"eventmgt/internal/repository"
)

const createRegistrationsTable = `
CREATE TABLE IF NOT EXISTS registrations (
	event_id TEXT NOT NULL REFERENCES events(id),
	user_id TEXT NOT NULL REFERENCES users(id),
	code TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	PRIMARY KEY (event_id, user_id)
);
CREATE INDEX IF NOT EXISTS idx_registrations_user ON registrations(user_id);
`

type BookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createRegistrationsTable); err != nil {
		return fmt.Errorf("create registrations table: %w", err)
	}
	return nil
}

// Book performs the whole booking write in one transaction: the event must
// exist and the user must not already hold a registration for it. The
// registrations table is the single source of truth for the booking
// relation, so there is no second write to keep in sync.
func (r *BookingRepository) Book(ctx context.Context, reg *domain.Registration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin booking transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	var eventID string
	if err := tx.QueryRowContext(ctx, `SELECT id FROM events WHERE id = ?`, reg.EventID).Scan(&eventID); err != nil {
		_ = tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrEventNotFound
		}
		return fmt.Errorf("check event: %w", err)
	}

	var existing int
	if err := tx.QueryRowContext(ctx, `
SELECT COUNT(*) FROM registrations WHERE event_id = ? AND user_id = ?`,
		reg.EventID, reg.UserID,
	).Scan(&existing); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("check existing registration: %w", err)
	}
	if existing > 0 {
		_ = tx.Rollback()
		return repository.ErrDuplicateBooking
	}

	reg.CreatedAt = time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `
INSERT INTO registrations (event_id, user_id, code, created_at)
VALUES (?, ?, ?, ?)`,
		reg.EventID, reg.UserID, reg.Code, reg.CreatedAt,
	); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert registration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit booking transaction: %w", err)
	}
	return nil
}

func (r *BookingRepository) ListUserIDs(ctx context.Context, eventID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT user_id FROM registrations WHERE event_id = ? ORDER BY created_at ASC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *BookingRepository) Get(ctx context.Context, eventID, userID string) (*domain.Registration, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT event_id, user_id, code, created_at
FROM registrations
WHERE event_id = ? AND user_id = ?`,
		eventID, userID,
	)

	var reg domain.Registration
	if err := row.Scan(&reg.EventID, &reg.UserID, &reg.Code, &reg.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("scan registration: %w", err)
	}
	return &reg, nil
}

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

const createEventsTable = `
CREATE TABLE IF NOT EXISTS events (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	date DATETIME NOT NULL,
	start_time TEXT NOT NULL DEFAULT '',
	organizer_id TEXT NOT NULL REFERENCES users(id),
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_organizer ON events(organizer_id);
CREATE INDEX IF NOT EXISTS idx_events_date ON events(date);
`

const eventColumns = `e.id, e.title, e.description, e.date, e.start_time, e.organizer_id, e.created_at, e.updated_at`

type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) repository.EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createEventsTable); err != nil {
		return fmt.Errorf("create events table: %w", err)
	}
	return nil
}

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) error {
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO events (id, title, description, date, start_time, organizer_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID,
		event.Title,
		event.Description,
		event.Date,
		event.StartTime,
		event.OrganizerID,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *EventRepository) Get(ctx context.Context, id string) (*domain.Event, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+eventColumns+`
FROM events e
WHERE e.id = ?`,
		id,
	)

	event, err := scanEvent(row)
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (r *EventRepository) ListFrom(ctx context.Context, from time.Time) ([]domain.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+eventColumns+`, u.username
FROM events e
JOIN users u ON u.id = e.organizer_id
WHERE e.date >= ?
ORDER BY e.date ASC`,
		from,
	)
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(
			&e.ID,
			&e.Title,
			&e.Description,
			&e.Date,
			&e.StartTime,
			&e.OrganizerID,
			&e.CreatedAt,
			&e.UpdatedAt,
			&e.OrganizerName,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *EventRepository) ListByOrganizer(ctx context.Context, organizerID string) ([]domain.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+eventColumns+`
FROM events e
WHERE e.organizer_id = ?
ORDER BY e.date ASC`,
		organizerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list events by organizer: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

func (r *EventRepository) ListBookedBy(ctx context.Context, userID string) ([]domain.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+eventColumns+`
FROM events e
JOIN registrations reg ON reg.event_id = e.id
WHERE reg.user_id = ?
ORDER BY e.date ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list booked events: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

func collectEvents(rows *sql.Rows) ([]domain.Event, error) {
	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(
			&e.ID,
			&e.Title,
			&e.Description,
			&e.Date,
			&e.StartTime,
			&e.OrganizerID,
			&e.CreatedAt,
			&e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func scanEvent(row interface {
	Scan(dest ...any) error
}) (*domain.Event, error) {
	var e domain.Event
	if err := row.Scan(
		&e.ID,
		&e.Title,
		&e.Description,
		&e.Date,
		&e.StartTime,
		&e.OrganizerID,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrEventNotFound
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}
	return &e, nil
}

package repository

import (
	"context"
	"time"

	"eventmgt/internal/domain"
)

// EventRepository exposes persistence operations for Event aggregates.
type EventRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, event *domain.Event) error
	Get(ctx context.Context, id string) (*domain.Event, error)
	// ListFrom returns events dated at or after the given instant, ascending
	// by date, with the organizer's username attached.
	ListFrom(ctx context.Context, from time.Time) ([]domain.Event, error)
	ListByOrganizer(ctx context.Context, organizerID string) ([]domain.Event, error)
	// ListBookedBy returns every event the given user holds a registration for.
	ListBookedBy(ctx context.Context, userID string) ([]domain.Event, error)
}

// BookingRepository manages the registration rows tying users to events.
type BookingRepository interface {
	Init(ctx context.Context) error
	// Book atomically verifies the event exists, rejects a second
	// registration by the same user, and records the registration.
	Book(ctx context.Context, reg *domain.Registration) error
	// ListUserIDs returns the ids of everyone registered for the event.
	ListUserIDs(ctx context.Context, eventID string) ([]string, error)
	// Get returns the registration a user holds for an event, if any.
	Get(ctx context.Context, eventID, userID string) (*domain.Registration, error)
}

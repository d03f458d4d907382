package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"eventmgt/internal/domain"
	"eventmgt/internal/repository"
)

// ErrOrganizerNotFound is returned when an event references a user id
// with no backing account.
var ErrOrganizerNotFound = errors.New("organizer not found")

// EventService coordinates event level operations backed by repositories.
type EventService interface {
	Create(ctx context.Context, organizerID, title, description string, date time.Time, startTime string) (*domain.Event, error)
	// ListUpcoming returns events dated today or later, ascending by
	// date, with the organizer's username attached.
	ListUpcoming(ctx context.Context) ([]domain.Event, error)
	ListByOrganizer(ctx context.Context, organizerID string) ([]domain.Event, error)
	// ListBookedByUser returns the events the user booked; an empty
	// result is a valid answer, not an error.
	ListBookedByUser(ctx context.Context, userID string) ([]domain.Event, error)
	// BookingsByOrganizer projects every event the organizer owns down to
	// its title and the ids of the users who booked it.
	BookingsByOrganizer(ctx context.Context, organizerID string) ([]domain.EventBookings, error)
}

type eventService struct {
	events   repository.EventRepository
	users    repository.UserRepository
	bookings repository.BookingRepository
}

func NewEventService(events repository.EventRepository, users repository.UserRepository, bookings repository.BookingRepository) EventService {
	return &eventService{
		events:   events,
		users:    users,
		bookings: bookings,
	}
}

func (s *eventService) Create(ctx context.Context, organizerID, title, description string, date time.Time, startTime string) (*domain.Event, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrValidation)
	}

	if _, err := s.users.GetByID(ctx, organizerID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrOrganizerNotFound
		}
		return nil, err
	}

	event := &domain.Event{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Date:        date.UTC(),
		StartTime:   startTime,
		OrganizerID: organizerID,
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) ListUpcoming(ctx context.Context) ([]domain.Event, error) {
	now := time.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return s.events.ListFrom(ctx, startOfDay)
}

func (s *eventService) ListByOrganizer(ctx context.Context, organizerID string) ([]domain.Event, error) {
	return s.events.ListByOrganizer(ctx, organizerID)
}

func (s *eventService) ListBookedByUser(ctx context.Context, userID string) ([]domain.Event, error) {
	return s.events.ListBookedBy(ctx, userID)
}

func (s *eventService) BookingsByOrganizer(ctx context.Context, organizerID string) ([]domain.EventBookings, error) {
	events, err := s.events.ListByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.EventBookings, 0, len(events))
	for _, e := range events {
		userIDs, err := s.bookings.ListUserIDs(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, domain.EventBookings{
			EventID:     e.ID,
			Title:       e.Title,
			BookedUsers: userIDs,
		})
	}
	return result, nil
}

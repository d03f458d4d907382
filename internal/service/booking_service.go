package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/sirupsen/logrus"

	"eventmgt/internal/domain"
	"eventmgt/internal/repository"
)

// registrationCodeBytes yields 12 hex characters per code.
const registrationCodeBytes = 6

// Notifier delivers a booking confirmation out of band. Implementations
// must not block the booking path on delivery.
type Notifier interface {
	NotifyBooking(ctx context.Context, email, eventTitle, code string) error
}

// BookingService implements the booking workflow: one transactional write
// guarded by the registration uniqueness check, then a registration code
// handed back to the caller.
type BookingService interface {
	Book(ctx context.Context, userID, eventID string) (string, error)
}

type bookingService struct {
	bookings repository.BookingRepository
	events   repository.EventRepository
	users    repository.UserRepository
	notifier Notifier
	log      *logrus.Logger
}

// NewBookingService wires the booking workflow. notifier may be nil when
// the notification pipeline is not configured.
func NewBookingService(bookings repository.BookingRepository, events repository.EventRepository, users repository.UserRepository, notifier Notifier, log *logrus.Logger) BookingService {
	return &bookingService{
		bookings: bookings,
		events:   events,
		users:    users,
		notifier: notifier,
		log:      log,
	}
}

func (s *bookingService) Book(ctx context.Context, userID, eventID string) (string, error) {
	code, err := newRegistrationCode()
	if err != nil {
		return "", err
	}

	reg := &domain.Registration{
		EventID: eventID,
		UserID:  userID,
		Code:    code,
	}
	if err := s.bookings.Book(ctx, reg); err != nil {
		return "", err
	}

	if s.notifier != nil {
		s.sendConfirmation(ctx, userID, eventID, code)
	}

	return code, nil
}

// sendConfirmation is best effort: a booking never fails because the
// confirmation could not be published.
func (s *bookingService) sendConfirmation(ctx context.Context, userID, eventID, code string) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.log.WithError(err).Warn("booking confirmation: load user")
		return
	}
	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		s.log.WithError(err).Warn("booking confirmation: load event")
		return
	}
	if err := s.notifier.NotifyBooking(ctx, user.Email, event.Title, code); err != nil {
		s.log.WithError(err).Warn("booking confirmation: publish")
	}
}

func newRegistrationCode() (string, error) {
	buf := make([]byte, registrationCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate registration code: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

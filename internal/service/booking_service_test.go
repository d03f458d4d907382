package service_test

import (
	"context"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventmgt/internal/domain"
	"eventmgt/internal/repository"
	"eventmgt/internal/service"
)

var hexCode = regexp.MustCompile(`^[0-9a-f]{12}$`)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestBookIssuesRegistrationCode(t *testing.T) {
	store := newTestStore(t)
	users := service.NewUserService(store.users)
	events := service.NewEventService(store.events, store.users, store.bookings)
	bookings := service.NewBookingService(store.bookings, store.events, store.users, nil, testLogger())
	ctx := context.Background()

	org := registerUser(t, users, "bob", "o@x.com", domain.RoleOrganizer)
	alice := registerUser(t, users, "alice", "a@x.com", domain.RoleUser)

	event, err := events.Create(ctx, org.ID, "Fest", "", time.Now().UTC().AddDate(0, 0, 1), "18:00")
	require.NoError(t, err)

	code, err := bookings.Book(ctx, alice.ID, event.ID)
	require.NoError(t, err)
	assert.Regexp(t, hexCode, code)

	reg, err := store.bookings.Get(ctx, event.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, code, reg.Code)
}

func TestBookTwiceIsRejected(t *testing.T) {
	store := newTestStore(t)
	users := service.NewUserService(store.users)
	events := service.NewEventService(store.events, store.users, store.bookings)
	bookings := service.NewBookingService(store.bookings, store.events, store.users, nil, testLogger())
	ctx := context.Background()

	org := registerUser(t, users, "bob", "o@x.com", domain.RoleOrganizer)
	alice := registerUser(t, users, "alice", "a@x.com", domain.RoleUser)

	event, err := events.Create(ctx, org.ID, "Fest", "", time.Now().UTC().AddDate(0, 0, 1), "")
	require.NoError(t, err)

	_, err = bookings.Book(ctx, alice.ID, event.ID)
	require.NoError(t, err)

	_, err = bookings.Book(ctx, alice.ID, event.ID)
	assert.ErrorIs(t, err, repository.ErrDuplicateBooking)

	ids, err := store.bookings.ListUserIDs(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, ids, 1, "failed re-booking must not grow the registration list")
}

func TestBookUnknownEvent(t *testing.T) {
	store := newTestStore(t)
	users := service.NewUserService(store.users)
	bookings := service.NewBookingService(store.bookings, store.events, store.users, nil, testLogger())

	alice := registerUser(t, users, "alice", "a@x.com", domain.RoleUser)

	_, err := bookings.Book(context.Background(), alice.ID, "no-such-event")
	assert.ErrorIs(t, err, repository.ErrEventNotFound)
}

func TestBookDistinctUsersShareEvent(t *testing.T) {
	store := newTestStore(t)
	users := service.NewUserService(store.users)
	events := service.NewEventService(store.events, store.users, store.bookings)
	bookings := service.NewBookingService(store.bookings, store.events, store.users, nil, testLogger())
	ctx := context.Background()

	org := registerUser(t, users, "bob", "o@x.com", domain.RoleOrganizer)
	alice := registerUser(t, users, "alice", "a@x.com", domain.RoleUser)
	dave := registerUser(t, users, "dave", "d@x.com", domain.RoleUser)

	event, err := events.Create(ctx, org.ID, "Fest", "", time.Now().UTC().AddDate(0, 0, 1), "")
	require.NoError(t, err)

	codeA, err := bookings.Book(ctx, alice.ID, event.ID)
	require.NoError(t, err)
	codeD, err := bookings.Book(ctx, dave.ID, event.ID)
	require.NoError(t, err)
	assert.NotEqual(t, codeA, codeD)

	ids, err := store.bookings.ListUserIDs(ctx, event.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{alice.ID, dave.ID}, ids)

	booked, err := events.ListBookedByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, booked, 1)
	assert.Equal(t, event.ID, booked[0].ID)
}

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventmgt/internal/domain"
	"eventmgt/internal/service"
)

func registerUser(t *testing.T, users service.UserService, username, email string, role domain.Role) *domain.User {
	t.Helper()
	user, err := users.Register(context.Background(), username, email, "secret1", role)
	require.NoError(t, err)
	return user
}

func TestCreateEventRequiresExistingOrganizer(t *testing.T) {
	store := newTestStore(t)
	events := service.NewEventService(store.events, store.users, store.bookings)

	_, err := events.Create(context.Background(), "missing-id", "Fest", "", time.Now().UTC(), "18:00")
	assert.ErrorIs(t, err, service.ErrOrganizerNotFound)
}

func TestCreateEventValidation(t *testing.T) {
	store := newTestStore(t)
	users := service.NewUserService(store.users)
	events := service.NewEventService(store.events, store.users, store.bookings)
	org := registerUser(t, users, "bob", "o@x.com", domain.RoleOrganizer)

	_, err := events.Create(context.Background(), org.ID, "", "", time.Now().UTC(), "")
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = events.Create(context.Background(), org.ID, "Fest", "", time.Time{}, "")
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestListUpcomingFiltersAndSorts(t *testing.T) {
	store := newTestStore(t)
	users := service.NewUserService(store.users)
	events := service.NewEventService(store.events, store.users, store.bookings)
	ctx := context.Background()

	org := registerUser(t, users, "bob", "o@x.com", domain.RoleOrganizer)

	now := time.Now().UTC()
	yesterday := now.AddDate(0, 0, -1)
	nextWeek := now.AddDate(0, 0, 7)
	tomorrow := now.AddDate(0, 0, 1)

	_, err := events.Create(ctx, org.ID, "Past", "", yesterday, "")
	require.NoError(t, err)
	_, err = events.Create(ctx, org.ID, "Later", "", nextWeek, "")
	require.NoError(t, err)
	_, err = events.Create(ctx, org.ID, "Sooner", "", tomorrow, "")
	require.NoError(t, err)

	upcoming, err := events.ListUpcoming(ctx)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for _, e := range upcoming {
		assert.False(t, e.Date.Before(startOfDay), "event %q is dated before today", e.Title)
	}

	assert.Equal(t, "Sooner", upcoming[0].Title)
	assert.Equal(t, "Later", upcoming[1].Title)
	assert.Equal(t, "bob", upcoming[0].OrganizerName)
}

func TestListByOrganizerScopesToOwner(t *testing.T) {
	store := newTestStore(t)
	users := service.NewUserService(store.users)
	events := service.NewEventService(store.events, store.users, store.bookings)
	ctx := context.Background()

	bob := registerUser(t, users, "bob", "o@x.com", domain.RoleOrganizer)
	carol := registerUser(t, users, "carol", "c@x.com", domain.RoleOrganizer)

	_, err := events.Create(ctx, bob.ID, "Bob's", "", time.Now().UTC().AddDate(0, 0, 1), "")
	require.NoError(t, err)
	_, err = events.Create(ctx, carol.ID, "Carol's", "", time.Now().UTC().AddDate(0, 0, 1), "")
	require.NoError(t, err)

	own, err := events.ListByOrganizer(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "Bob's", own[0].Title)
}

func TestListBookedByUserEmptyIsNotAnError(t *testing.T) {
	store := newTestStore(t)
	users := service.NewUserService(store.users)
	events := service.NewEventService(store.events, store.users, store.bookings)

	alice := registerUser(t, users, "alice", "a@x.com", domain.RoleUser)

	booked, err := events.ListBookedByUser(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Empty(t, booked)
}

func TestBookingsByOrganizerProjection(t *testing.T) {
	store := newTestStore(t)
	users := service.NewUserService(store.users)
	events := service.NewEventService(store.events, store.users, store.bookings)
	bookings := service.NewBookingService(store.bookings, store.events, store.users, nil, testLogger())
	ctx := context.Background()

	org := registerUser(t, users, "bob", "o@x.com", domain.RoleOrganizer)
	alice := registerUser(t, users, "alice", "a@x.com", domain.RoleUser)

	event, err := events.Create(ctx, org.ID, "Fest", "", time.Now().UTC().AddDate(0, 0, 1), "18:00")
	require.NoError(t, err)

	_, err = bookings.Book(ctx, alice.ID, event.ID)
	require.NoError(t, err)

	overview, err := events.BookingsByOrganizer(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, overview, 1)
	assert.Equal(t, "Fest", overview[0].Title)
	assert.Equal(t, []string{alice.ID}, overview[0].BookedUsers)
}

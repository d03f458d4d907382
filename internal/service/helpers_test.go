package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"eventmgt/internal/repository"
	"eventmgt/internal/repository/sqlite"
)

type testStore struct {
	users    repository.UserRepository
	events   repository.EventRepository
	bookings repository.BookingRepository
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := &testStore{
		users:    sqlite.NewUserRepository(db),
		events:   sqlite.NewEventRepository(db),
		bookings: sqlite.NewBookingRepository(db),
	}

	ctx := context.Background()
	require.NoError(t, store.users.Init(ctx))
	require.NoError(t, store.events.Init(ctx))
	require.NoError(t, store.bookings.Init(ctx))

	return store
}

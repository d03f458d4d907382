package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventmgt/internal/auth"
	"eventmgt/internal/domain"
)

func TestIssueAndParse(t *testing.T) {
	m := auth.NewManager("test-secret", time.Hour)
	user := &domain.User{ID: "user-123", Role: domain.RoleOrganizer}

	token, err := m.Issue(user)
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, domain.RoleOrganizer, claims.Role)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer := auth.NewManager("secret-a", time.Hour)
	verifier := auth.NewManager("secret-b", time.Hour)

	token, err := issuer.Issue(&domain.User{ID: "user-123", Role: domain.RoleUser})
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	m := auth.NewManager("test-secret", time.Millisecond)

	token, err := m.Issue(&domain.User{ID: "user-123", Role: domain.RoleUser})
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	_, err = m.Parse(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	m := auth.NewManager("test-secret", time.Hour)

	_, err := m.Parse("not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestZeroTTLDefaultsToOneHour(t *testing.T) {
	m := auth.NewManager("test-secret", 0)
	assert.Equal(t, time.Hour, m.TTL())
}

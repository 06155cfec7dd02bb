package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rryowa/portfolio-backend/internal/models"
	"github.com/rryowa/portfolio-backend/internal/service"
	"github.com/rryowa/portfolio-backend/internal/util"
)

const testSessionSecret = "0123456789abcdef0123456789abcdef"

func newSessionService(ttl time.Duration) *service.SessionService {
	return service.NewSessionService(&util.SessionConfig{
		SecretKey:  []byte(testSessionSecret),
		SessionTTL: ttl,
	})
}

func TestSessionRoundTrip(t *testing.T) {
	sessions := newSessionService(24 * time.Hour)
	user := models.AdminUser{ID: "admin", Username: "ada"}

	token, err := sessions.Issue(user, time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := sessions.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.Username, got.Username)
}

func TestSessionExpired(t *testing.T) {
	sessions := newSessionService(24 * time.Hour)
	user := models.AdminUser{ID: "admin", Username: "ada"}

	// Issued far enough in the past that the 24h window plus leeway is over.
	token, err := sessions.Issue(user, time.Now().Add(-25*time.Hour))
	require.NoError(t, err)

	got, err := sessions.Verify(token)
	assert.ErrorIs(t, err, service.ErrSessionInvalid)
	assert.Nil(t, got)
}

func TestSessionTampered(t *testing.T) {
	sessions := newSessionService(24 * time.Hour)

	token, err := sessions.Issue(models.AdminUser{ID: "admin", Username: "ada"}, time.Now())
	require.NoError(t, err)

	// Flipping any byte must fail verification.
	for _, idx := range []int{0, len(token) / 2, len(token) - 1} {
		raw := []byte(token)
		if raw[idx] == 'A' {
			raw[idx] = 'B'
		} else {
			raw[idx] = 'A'
		}

		got, err := sessions.Verify(string(raw))
		assert.ErrorIs(t, err, service.ErrSessionInvalid)
		assert.Nil(t, got)
	}
}

func TestSessionWrongKey(t *testing.T) {
	sessions := newSessionService(24 * time.Hour)
	other := service.NewSessionService(&util.SessionConfig{
		SecretKey:  []byte("ffffffffffffffffffffffffffffffff"),
		SessionTTL: 24 * time.Hour,
	})

	token, err := sessions.Issue(models.AdminUser{ID: "admin", Username: "ada"}, time.Now())
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, service.ErrSessionInvalid)
}

func TestSessionGarbage(t *testing.T) {
	sessions := newSessionService(24 * time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := sessions.Verify(token)
		assert.ErrorIs(t, err, service.ErrSessionInvalid)
	}
}

package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rryowa/portfolio-backend/internal/service"
	"github.com/rryowa/portfolio-backend/internal/util"
)

func newCredentialService(t *testing.T, username, password string) *service.CredentialService {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	return service.NewCredentialService(&util.AdminConfig{
		Username:     username,
		PasswordHash: string(hash),
	})
}

func TestCredentialVerify(t *testing.T) {
	creds := newCredentialService(t, "admin", "correct horse battery staple")

	tests := []struct {
		name     string
		username string
		password string
		want     bool
	}{
		{"correct pair", "admin", "correct horse battery staple", true},
		{"wrong password", "admin", "wrong password", false},
		{"wrong username", "someone", "correct horse battery staple", false},
		{"username is case sensitive", "Admin", "correct horse battery staple", false},
		{"both wrong", "someone", "whatever", false},
		{"empty credentials", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, creds.Verify(tt.username, tt.password))
		})
	}
}

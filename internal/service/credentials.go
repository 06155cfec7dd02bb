package service

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"github.com/rryowa/portfolio-backend/internal/util"
)

// CredentialService checks submitted admin credentials against the single
// configured pair. It never reports which half was wrong.
type CredentialService struct {
	username     []byte
	passwordHash []byte
}

func NewCredentialService(cfg *util.AdminConfig) *CredentialService {
	return &CredentialService{
		username:     []byte(cfg.Username),
		passwordHash: []byte(cfg.PasswordHash),
	}
}

// Verify returns true only when both username and password match. The
// username compare is constant-time and the bcrypt compare always runs, so a
// wrong username costs the same as a wrong password.
func (s *CredentialService) Verify(username, password string) bool {
	usernameOK := subtle.ConstantTimeCompare([]byte(username), s.username) == 1
	passwordOK := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) == nil
	return usernameOK && passwordOK
}

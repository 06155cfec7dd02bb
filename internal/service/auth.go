package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/rryowa/portfolio-backend/internal/models"
	"github.com/rryowa/portfolio-backend/internal/util"
)

// adminSubjectID is the fixed subject for the single configured admin.
const adminSubjectID = "admin"

// AuthService glues credential verification to session issuance and audits
// both outcomes. Rate limiting happens in the middleware, before this runs.
type AuthService struct {
	creds    *CredentialService
	sessions *SessionService
	audit    *AuditLogger
	log      *zap.SugaredLogger
}

func NewAuthService(creds *CredentialService, sessions *SessionService, audit *AuditLogger, log *zap.SugaredLogger) *AuthService {
	return &AuthService{
		creds:    creds,
		sessions: sessions,
		audit:    audit,
		log:      log,
	}
}

// Login verifies the credentials and mints a session token. The error is the
// same for a wrong username and a wrong password.
func (s *AuthService) Login(username, password string, meta models.ClientMetadata) (*models.AdminUser, string, error) {
	if !s.creds.Verify(username, password) {
		s.audit.Record(models.AuditEntry{
			EventType: models.EventLoginFailure,
			Action:    "admin login rejected",
			Details:   map[string]string{"username": username},
			ClientIP:  meta.IPAddress,
			UserAgent: meta.UserAgent,
			Success:   false,
		})
		return nil, "", util.NewAppError(util.KindAuthentication, "Invalid credentials")
	}

	user := models.AdminUser{ID: adminSubjectID, Username: username}
	token, err := s.sessions.Issue(user, time.Now())
	if err != nil {
		return nil, "", util.WrapAppError(util.KindInternal, err, "failed to issue session")
	}

	s.audit.Record(models.AuditEntry{
		EventType: models.EventLoginSuccess,
		ActorID:   user.ID,
		ActorName: user.Username,
		Action:    "admin logged in",
		ClientIP:  meta.IPAddress,
		UserAgent: meta.UserAgent,
		Success:   true,
	})

	return &user, token, nil
}

// Logout only audits; the session cookie is cleared by the caller and the
// token simply ages out.
func (s *AuthService) Logout(user models.AdminUser, meta models.ClientMetadata) {
	s.audit.Record(models.AuditEntry{
		EventType: models.EventLogout,
		ActorID:   user.ID,
		ActorName: user.Username,
		Action:    "admin logged out",
		ClientIP:  meta.IPAddress,
		UserAgent: meta.UserAgent,
		Success:   true,
	})
}

// VerifySession resolves a raw cookie value to the admin user; any failure
// is indistinguishable from an absent session.
func (s *AuthService) VerifySession(token string) (*models.AdminUser, error) {
	if token == "" {
		return nil, ErrSessionInvalid
	}
	return s.sessions.Verify(token)
}

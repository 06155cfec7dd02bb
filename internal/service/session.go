package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rryowa/portfolio-backend/internal/models"
	"github.com/rryowa/portfolio-backend/internal/util"
)

// ErrSessionInvalid covers every verification failure: bad signature,
// malformed token, expiry. Callers must treat all of them as "no session" so
// responses never reveal token lifetimes.
var ErrSessionInvalid = errors.New("session invalid")

type SessionService struct {
	secretKey []byte
	ttl       time.Duration
}

func NewSessionService(cfg *util.SessionConfig) *SessionService {
	return &SessionService{
		secretKey: cfg.SecretKey,
		ttl:       cfg.SessionTTL,
	}
}

type sessionClaims struct {
	Username string `json:"uname"`
	jwt.RegisteredClaims
}

// Issue creates a SHA512 signed session token for the admin user.
func (s *SessionService) Issue(user models.AdminUser, now time.Time) (string, error) {
	claims := &sessionClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signedToken, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("signed string: %w", err)
	}

	return signedToken, nil
}

// Verify parses and checks the token, failing closed: any problem at all
// yields ErrSessionInvalid and nothing else.
func (s *SessionService) Verify(token string) (*models.AdminUser, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithLeeway(util.JWTLeeWay),
		jwt.WithExpirationRequired(),
	}

	parsedToken, err := jwt.ParseWithClaims(
		token,
		&sessionClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method.Alg() != jwt.SigningMethodHS512.Alg() {
				return nil, ErrSessionInvalid
			}
			return s.secretKey, nil
		},
		opts...,
	)
	if err != nil {
		return nil, ErrSessionInvalid
	}

	if parsedToken == nil || !parsedToken.Valid {
		return nil, ErrSessionInvalid
	}

	claims, ok := parsedToken.Claims.(*sessionClaims)
	if !ok || claims.Subject == "" || claims.Username == "" {
		return nil, ErrSessionInvalid
	}

	return &models.AdminUser{ID: claims.Subject, Username: claims.Username}, nil
}

// TTL is the configured session validity window.
func (s *SessionService) TTL() time.Duration { return s.ttl }

package service

import (
	"net/http"
	"time"

	"github.com/rryowa/portfolio-backend/internal/models"
)

// CookieCodec reads and writes the session cookie. It works directly on
// net/http types so it stays independent of the router in front of it.
// The cookie is HTTP-only and same-site restricted; page scripts never see it.
type CookieCodec struct {
	Secure bool
	TTL    time.Duration
}

func NewCookieCodec(secure bool, ttl time.Duration) *CookieCodec {
	return &CookieCodec{Secure: secure, TTL: ttl}
}

func (c *CookieCodec) SetSession(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     models.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(c.TTL.Seconds()),
	})
}

func (c *CookieCodec) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     models.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// ReadSession returns the raw session token, or "" when the cookie is absent.
func (c *CookieCodec) ReadSession(r *http.Request) string {
	cookie, err := r.Cookie(models.SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

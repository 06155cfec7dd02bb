package models

import "time"

const (
	MwActorIDKey   = "actorID"
	MwActorNameKey = "actorName"

	SessionCookieName = "portfolio_session"
)

// AdminUser is the authenticated subject carried by a session token.
type AdminUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success bool       `json:"success"`
	User    *AdminUser `json:"user,omitempty"`
	Error   string     `json:"error,omitempty"`
}

type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
}

// RateLimitRecord is a fixed-window counter for one (class, client) pair.
// Records are ephemeral and process- or store-local; losing them on restart
// is accepted.
type RateLimitRecord struct {
	Count   int       `json:"count"`
	ResetAt time.Time `json:"reset_at"`
}

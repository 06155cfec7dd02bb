package models

import "time"

type AuditEventType string

const (
	EventLoginSuccess       AuditEventType = "LOGIN_SUCCESS"
	EventLoginFailure       AuditEventType = "LOGIN_FAILURE"
	EventLogout             AuditEventType = "LOGOUT"
	EventPasswordChange     AuditEventType = "PASSWORD_CHANGE"
	EventCreate             AuditEventType = "CREATE"
	EventUpdate             AuditEventType = "UPDATE"
	EventDelete             AuditEventType = "DELETE"
	EventRead               AuditEventType = "READ"
	EventFileUpload         AuditEventType = "FILE_UPLOAD"
	EventFileDelete         AuditEventType = "FILE_DELETE"
	EventRateLimitExceeded  AuditEventType = "RATE_LIMIT_EXCEEDED"
	EventUnauthorizedAccess AuditEventType = "UNAUTHORIZED_ACCESS"
	EventValidationError    AuditEventType = "VALIDATION_ERROR"
	EventAdminAction        AuditEventType = "ADMIN_ACTION"
)

type AuditSeverity string

const (
	SeverityInfo     AuditSeverity = "INFO"
	SeverityWarning  AuditSeverity = "WARNING"
	SeverityError    AuditSeverity = "ERROR"
	SeverityCritical AuditSeverity = "CRITICAL"
)

// AuditEntry is an immutable record of a security- or administration-relevant
// action. Entries are append-only; nothing in the application mutates or
// deletes them once written.
type AuditEntry struct {
	ID           int64             `json:"id,omitempty"`
	Timestamp    time.Time         `json:"timestamp"`
	EventType    AuditEventType    `json:"event_type"`
	Severity     AuditSeverity     `json:"severity"`
	ActorID      string            `json:"actor_id,omitempty"`
	ActorName    string            `json:"actor_name,omitempty"`
	ResourceType string            `json:"resource_type,omitempty"`
	ResourceID   string            `json:"resource_id,omitempty"`
	Action       string            `json:"action"`
	Details      map[string]string `json:"details,omitempty"`
	ClientIP     string            `json:"client_ip"`
	UserAgent    string            `json:"user_agent"`
	Success      bool              `json:"success"`
	ErrorMessage string            `json:"error_message,omitempty"`
}

// AuditFilter narrows audit-log listings for the admin dashboard.
type AuditFilter struct {
	EventType AuditEventType
	Severity  AuditSeverity
	Username  string
	Limit     int
	Offset    int
}

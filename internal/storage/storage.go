package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rryowa/portfolio-backend/internal/models"
)

var (
	ErrBiographyNotFound = errors.New("biography not found")
	ErrProjectNotFound   = errors.New("project not found")
	ErrSkillNotFound     = errors.New("skill not found")
	ErrCategoryNotFound  = errors.New("skill category not found")
	ErrMessageNotFound   = errors.New("message not found")
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so repositories can run
// inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type Storage interface {
	BiographyRepository
	ProjectRepository
	SkillRepository
	MessageRepository
	AuditRepository
}

type BiographyRepository interface {
	GetBiography(ctx context.Context) (*models.Biography, error)
	UpsertBiography(ctx context.Context, bio models.Biography) (*models.Biography, error)
}

type ProjectRepository interface {
	ListProjects(ctx context.Context, featuredOnly bool) ([]models.Project, error)
	GetProject(ctx context.Context, id int64) (*models.Project, error)
	CreateProject(ctx context.Context, p models.Project) (*models.Project, error)
	UpdateProject(ctx context.Context, p models.Project) (*models.Project, error)
	DeleteProject(ctx context.Context, id int64) error
}

type SkillRepository interface {
	ListSkills(ctx context.Context) ([]models.Skill, error)
	CreateSkill(ctx context.Context, s models.Skill) (*models.Skill, error)
	UpdateSkill(ctx context.Context, s models.Skill) (*models.Skill, error)
	DeleteSkill(ctx context.Context, id int64) error
	ListCategories(ctx context.Context) ([]models.SkillCategory, error)
	CreateCategory(ctx context.Context, c models.SkillCategory) (*models.SkillCategory, error)
	UpdateCategory(ctx context.Context, c models.SkillCategory) (*models.SkillCategory, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type MessageRepository interface {
	CreateMessage(ctx context.Context, m models.Message) (*models.Message, error)
	ListMessages(ctx context.Context, limit, offset int) ([]models.Message, int, error)
	MarkMessageRead(ctx context.Context, id int64, read bool) error
	DeleteMessage(ctx context.Context, id int64) error
}

type AuditRepository interface {
	InsertAuditEntry(ctx context.Context, entry models.AuditEntry) error
	ListAuditEntries(ctx context.Context, filter models.AuditFilter) ([]models.AuditEntry, int, error)
}

// RateLimitRepository is the injectable fixed-window counter store. Records
// are keyed by "<class>:<client>"; a nil record means no window is open.
type RateLimitRepository interface {
	GetRecord(ctx context.Context, key string) (*models.RateLimitRecord, error)
	SetRecord(ctx context.Context, key string, rec models.RateLimitRecord) error
	DeleteRecord(ctx context.Context, key string) error
	// PurgeExpired drops records whose window ended before now. Self-expiring
	// stores may report zero work.
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}

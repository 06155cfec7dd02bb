package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rryowa/portfolio-backend/internal/models"
)

type Storage struct {
	db *sql.DB
	*BiographyRepository
	*ProjectRepository
	*SkillRepository
	*MessageRepository
	*AuditRepository
}

func NewStorage(db *sql.DB) *Storage {
	return &Storage{
		db:                  db,
		BiographyRepository: NewBiographyRepository(db),
		ProjectRepository:   NewProjectRepository(db),
		SkillRepository:     NewSkillRepository(db),
		MessageRepository:   NewMessageRepository(db),
		AuditRepository:     NewAuditRepository(db),
	}
}

// CreateProject inserts the project row and its skill links in one transaction.
func (s *Storage) CreateProject(ctx context.Context, p models.Project) (*models.Project, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	repoTx := NewProjectRepository(tx)
	created, err := repoTx.insertProject(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := repoTx.replaceSkillLinks(ctx, created.ID, p.SkillIDs); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	created.SkillIDs = p.SkillIDs
	return created, nil
}

// UpdateProject updates the project row and replaces its skill links in one
// transaction.
func (s *Storage) UpdateProject(ctx context.Context, p models.Project) (*models.Project, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	repoTx := NewProjectRepository(tx)
	updated, err := repoTx.updateProject(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := repoTx.replaceSkillLinks(ctx, p.ID, p.SkillIDs); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	updated.SkillIDs = p.SkillIDs
	return updated, nil
}

package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/rryowa/portfolio-backend/internal/models"
	"github.com/rryowa/portfolio-backend/internal/storage"
	"github.com/rryowa/portfolio-backend/internal/storage/blob"
	"github.com/rryowa/portfolio-backend/internal/util"
	"github.com/rryowa/portfolio-backend/internal/validation"
)

// PortfolioService owns biography, project and skill content, including the
// cleanup of replaced blob URLs.
type PortfolioService struct {
	storage storage.Storage
	blobs   blob.Store
	audit   *AuditLogger
	log     *zap.SugaredLogger
}

func NewPortfolioService(st storage.Storage, blobs blob.Store, audit *AuditLogger, log *zap.SugaredLogger) *PortfolioService {
	return &PortfolioService{storage: st, blobs: blobs, audit: audit, log: log}
}

func (s *PortfolioService) GetBiography(ctx context.Context) (*models.Biography, error) {
	bio, err := s.storage.GetBiography(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrBiographyNotFound) {
			return nil, util.WrapAppError(util.KindNotFound, err, "biography not set up yet")
		}
		return nil, util.WrapAppError(util.KindDatabase, err, "failed to load biography")
	}
	return bio, nil
}

// UpdateBiography saves the biography and deletes any blob whose URL field
// was replaced, exactly once per replaced field.
func (s *PortfolioService) UpdateBiography(ctx context.Context, bio models.Biography, actor models.AdminUser, meta models.ClientMetadata) (*models.Biography, error) {
	sanitizeBiography(&bio)
	if problems := validateBiography(bio); len(problems) > 0 {
		return nil, util.NewAppError(util.KindValidation, "%s", strings.Join(problems, "; "))
	}

	old, err := s.storage.GetBiography(ctx)
	if err != nil && !errors.Is(err, storage.ErrBiographyNotFound) {
		return nil, util.WrapAppError(util.KindDatabase, err, "failed to load biography")
	}

	saved, err := s.storage.UpsertBiography(ctx, bio)
	if err != nil {
		return nil, util.WrapAppError(util.KindDatabase, err, "failed to save biography")
	}

	if old != nil {
		s.cleanupReplaced(ctx, old.ProfilePhotoURL, saved.ProfilePhotoURL, actor, meta)
		s.cleanupReplaced(ctx, old.ResumeURL, saved.ResumeURL, actor, meta)
	}

	s.audit.Record(models.AuditEntry{
		EventType:    models.EventUpdate,
		ActorID:      actor.ID,
		ActorName:    actor.Username,
		ResourceType: "biography",
		ResourceID:   strconv.FormatInt(saved.ID, 10),
		Action:       "biography updated",
		ClientIP:     meta.IPAddress,
		UserAgent:    meta.UserAgent,
		Success:      true,
	})

	return saved, nil
}

func (s *PortfolioService) ListProjects(ctx context.Context, featuredOnly bool) ([]models.Project, error) {
	projects, err := s.storage.ListProjects(ctx, featuredOnly)
	if err != nil {
		return nil, util.WrapAppError(util.KindDatabase, err, "failed to list projects")
	}
	return projects, nil
}

func (s *PortfolioService) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	project, err := s.storage.GetProject(ctx, id)
	if err != nil {
		if errorsIsNotFound(err) {
			return nil, util.WrapAppError(util.KindNotFound, err, "project not found")
		}
		return nil, util.WrapAppError(util.KindDatabase, err, "failed to load project")
	}
	return project, nil
}

func (s *PortfolioService) CreateProject(ctx context.Context, p models.Project, actor models.AdminUser, meta models.ClientMetadata) (*models.Project, error) {
	sanitizeProject(&p)
	if problems := validateProject(p); len(problems) > 0 {
		return nil, util.NewAppError(util.KindValidation, "%s", strings.Join(problems, "; "))
	}

	created, err := s.storage.CreateProject(ctx, p)
	if err != nil {
		return nil, util.WrapAppError(util.KindDatabase, err, "failed to create project")
	}

	s.audit.Record(models.AuditEntry{
		EventType:    models.EventCreate,
		ActorID:      actor.ID,
		ActorName:    actor.Username,
		ResourceType: "project",
		ResourceID:   strconv.FormatInt(created.ID, 10),
		Action:       "project created",
		Details:      map[string]string{"title": created.Title},
		ClientIP:     meta.IPAddress,
		UserAgent:    meta.UserAgent,
		Success:      true,
	})

	return created, nil
}

func (s *PortfolioService) UpdateProject(ctx context.Context, p models.Project, actor models.AdminUser, meta models.ClientMetadata) (*models.Project, error) {
	sanitizeProject(&p)
	if problems := validateProject(p); len(problems) > 0 {
		return nil, util.NewAppError(util.KindValidation, "%s", strings.Join(problems, "; "))
	}

	old, err := s.storage.GetProject(ctx, p.ID)
	if err != nil {
		if errorsIsNotFound(err) {
			return nil, util.WrapAppError(util.KindNotFound, err, "project not found")
		}
		return nil, util.WrapAppError(util.KindDatabase, err, "failed to load project")
	}

	updated, err := s.storage.UpdateProject(ctx, p)
	if err != nil {
		if errorsIsNotFound(err) {
			return nil, util.WrapAppError(util.KindNotFound, err, "project not found")
		}
		return nil, util.WrapAppError(util.KindDatabase, err, "failed to update project")
	}

	s.cleanupReplaced(ctx, old.ImageURL, updated.ImageURL, actor, meta)
	s.cleanupReplaced(ctx, old.PdfURL, updated.PdfURL, actor, meta)

	s.audit.Record(models.AuditEntry{
		EventType:    models.EventUpdate,
		ActorID:      actor.ID,
		ActorName:    actor.Username,
		ResourceType: "project",
		ResourceID:   strconv.FormatInt(updated.ID, 10),
		Action:       "project updated",
		Details:      map[string]string{"title": updated.Title},
		ClientIP:     meta.IPAddress,
		UserAgent:    meta.UserAgent,
		Success:      true,
	})

	return updated, nil
}

func (s *PortfolioService) DeleteProject(ctx context.Context, id int64, actor models.AdminUser, meta models.ClientMetadata) error {
	old, err := s.storage.GetProject(ctx, id)
	if err != nil {
		if errorsIsNotFound(err) {
			return util.WrapAppError(util.KindNotFound, err, "project not found")
		}
		return util.WrapAppError(util.KindDatabase, err, "failed to load project")
	}

	if err := s.storage.DeleteProject(ctx, id); err != nil {
		if errorsIsNotFound(err) {
			return util.WrapAppError(util.KindNotFound, err, "project not found")
		}
		return util.WrapAppError(util.KindDatabase, err, "failed to delete project")
	}

	// A deleted project's files have no remaining references.
	s.cleanupReplaced(ctx, old.ImageURL, "", actor, meta)
	s.cleanupReplaced(ctx, old.PdfURL, "", actor, meta)

	s.audit.Record(models.AuditEntry{
		EventType:    models.EventDelete,
		ActorID:      actor.ID,
		ActorName:    actor.Username,
		ResourceType: "project",
		ResourceID:   strconv.FormatInt(id, 10),
		Action:       "project deleted",
		Details:      map[string]string{"title": old.Title},
		ClientIP:     meta.IPAddress,
		UserAgent:    meta.UserAgent,
		Success:      true,
	})
	return nil
}

// cleanupReplaced deletes the old blob when a stored URL field changed.
// Deletion is keyed by exact URL and skipped for URLs this store does not
// own. A failed delete is logged and audited but does not fail the update;
// the worst case is an orphaned blob.
func (s *PortfolioService) cleanupReplaced(ctx context.Context, oldURL, newURL string, actor models.AdminUser, meta models.ClientMetadata) {
	if oldURL == "" || oldURL == newURL {
		return
	}
	if !s.blobs.Owns(oldURL) {
		return
	}

	entry := models.AuditEntry{
		EventType:    models.EventFileDelete,
		ActorID:      actor.ID,
		ActorName:    actor.Username,
		ResourceType: "blob",
		ResourceID:   oldURL,
		Action:       "replaced file removed from blob storage",
		ClientIP:     meta.IPAddress,
		UserAgent:    meta.UserAgent,
		Success:      true,
	}

	if err := s.blobs.Delete(ctx, oldURL); err != nil {
		s.log.Errorw("failed to delete replaced blob", "url", oldURL, "error", err)
		entry.Success = false
		entry.ErrorMessage = err.Error()
	}
	s.audit.Record(entry)
}

func sanitizeBiography(bio *models.Biography) {
	bio.FullName = validation.SanitizeString(bio.FullName, false)
	bio.Title = validation.SanitizeString(bio.Title, false)
	bio.Bio = validation.SanitizeString(bio.Bio, false)
	bio.Phone = validation.SanitizeString(bio.Phone, false)
	bio.Location = validation.SanitizeString(bio.Location, false)
	bio.LinkedinURL = validation.SanitizeURL(bio.LinkedinURL)
	bio.GithubURL = validation.SanitizeURL(bio.GithubURL)
	bio.ResumeURL = validation.SanitizeURL(bio.ResumeURL)
	bio.ProfilePhotoURL = validation.SanitizeURL(bio.ProfilePhotoURL)
}

func validateBiography(bio models.Biography) []string {
	var problems []string

	name := validation.ValidateString(bio.FullName, validation.StringRule{Field: "full_name", MinLen: 1, MaxLen: 100})
	problems = append(problems, name.Errors...)

	title := validation.ValidateString(bio.Title, validation.StringRule{Field: "title", MinLen: 1, MaxLen: 200})
	problems = append(problems, title.Errors...)

	email := validation.ValidateEmail(bio.Email)
	problems = append(problems, email.Errors...)

	return problems
}

func sanitizeProject(p *models.Project) {
	p.Title = validation.SanitizeString(p.Title, false)
	p.Description = validation.SanitizeString(p.Description, false)
	p.RepoURL = validation.SanitizeURL(p.RepoURL)
	p.LiveURL = validation.SanitizeURL(p.LiveURL)
	p.ImageURL = validation.SanitizeURL(p.ImageURL)
	p.PdfURL = validation.SanitizeURL(p.PdfURL)
}

func validateProject(p models.Project) []string {
	var problems []string

	title := validation.ValidateString(p.Title, validation.StringRule{Field: "title", MinLen: 1, MaxLen: 200})
	problems = append(problems, title.Errors...)

	description := validation.ValidateString(p.Description, validation.StringRule{Field: "description", MinLen: 1, MaxLen: 5000})
	problems = append(problems, description.Errors...)

	return problems
}

func errorsIsNotFound(err error) bool {
	return errors.Is(err, storage.ErrBiographyNotFound) ||
		errors.Is(err, storage.ErrProjectNotFound) ||
		errors.Is(err, storage.ErrSkillNotFound) ||
		errors.Is(err, storage.ErrCategoryNotFound) ||
		errors.Is(err, storage.ErrMessageNotFound)
}

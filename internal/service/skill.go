package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/rryowa/portfolio-backend/internal/models"
	"github.com/rryowa/portfolio-backend/internal/util"
	"github.com/rryowa/portfolio-backend/internal/validation"
)

func (s *PortfolioService) ListSkills(ctx context.Context) ([]models.Skill, error) {
	skills, err := s.storage.ListSkills(ctx)
	if err != nil {
		return nil, util.WrapAppError(util.KindDatabase, err, "failed to list skills")
	}
	return skills, nil
}

func (s *PortfolioService) CreateSkill(ctx context.Context, skill models.Skill, actor models.AdminUser, meta models.ClientMetadata) (*models.Skill, error) {
	name := validation.ValidateString(skill.Name, validation.StringRule{Field: "name", MinLen: 1, MaxLen: 100})
	if !name.Valid {
		return nil, util.NewAppError(util.KindValidation, "%s", strings.Join(name.Errors, "; "))
	}
	skill.Name = name.Data

	created, err := s.storage.CreateSkill(ctx, skill)
	if err != nil {
		return nil, util.WrapAppError(util.KindDatabase, err, "failed to create skill")
	}

	s.recordSkillEvent(models.EventCreate, "skill", created.ID, "skill created", created.Name, actor, meta)
	return created, nil
}

func (s *PortfolioService) UpdateSkill(ctx context.Context, skill models.Skill, actor models.AdminUser, meta models.ClientMetadata) (*models.Skill, error) {
	name := validation.ValidateString(skill.Name, validation.StringRule{Field: "name", MinLen: 1, MaxLen: 100})
	if !name.Valid {
		return nil, util.NewAppError(util.KindValidation, "%s", strings.Join(name.Errors, "; "))
	}
	skill.Name = name.Data

	updated, err := s.storage.UpdateSkill(ctx, skill)
	if err != nil {
		if errorsIsNotFound(err) {
			return nil, util.WrapAppError(util.KindNotFound, err, "skill not found")
		}
		return nil, util.WrapAppError(util.KindDatabase, err, "failed to update skill")
	}

	s.recordSkillEvent(models.EventUpdate, "skill", updated.ID, "skill updated", updated.Name, actor, meta)
	return updated, nil
}

func (s *PortfolioService) DeleteSkill(ctx context.Context, id int64, actor models.AdminUser, meta models.ClientMetadata) error {
	if err := s.storage.DeleteSkill(ctx, id); err != nil {
		if errorsIsNotFound(err) {
			return util.WrapAppError(util.KindNotFound, err, "skill not found")
		}
		return util.WrapAppError(util.KindDatabase, err, "failed to delete skill")
	}

	s.recordSkillEvent(models.EventDelete, "skill", id, "skill deleted", "", actor, meta)
	return nil
}

func (s *PortfolioService) ListCategories(ctx context.Context) ([]models.SkillCategory, error) {
	categories, err := s.storage.ListCategories(ctx)
	if err != nil {
		return nil, util.WrapAppError(util.KindDatabase, err, "failed to list skill categories")
	}
	return categories, nil
}

func (s *PortfolioService) CreateCategory(ctx context.Context, cat models.SkillCategory, actor models.AdminUser, meta models.ClientMetadata) (*models.SkillCategory, error) {
	name := validation.ValidateString(cat.Name, validation.StringRule{Field: "name", MinLen: 1, MaxLen: 100})
	if !name.Valid {
		return nil, util.NewAppError(util.KindValidation, "%s", strings.Join(name.Errors, "; "))
	}
	cat.Name = name.Data
	cat.Description = validation.SanitizeString(cat.Description, false)

	created, err := s.storage.CreateCategory(ctx, cat)
	if err != nil {
		return nil, util.WrapAppError(util.KindDatabase, err, "failed to create skill category")
	}

	s.recordSkillEvent(models.EventCreate, "skill_category", created.ID, "skill category created", created.Name, actor, meta)
	return created, nil
}

func (s *PortfolioService) UpdateCategory(ctx context.Context, cat models.SkillCategory, actor models.AdminUser, meta models.ClientMetadata) (*models.SkillCategory, error) {
	name := validation.ValidateString(cat.Name, validation.StringRule{Field: "name", MinLen: 1, MaxLen: 100})
	if !name.Valid {
		return nil, util.NewAppError(util.KindValidation, "%s", strings.Join(name.Errors, "; "))
	}
	cat.Name = name.Data
	cat.Description = validation.SanitizeString(cat.Description, false)

	updated, err := s.storage.UpdateCategory(ctx, cat)
	if err != nil {
		if errorsIsNotFound(err) {
			return nil, util.WrapAppError(util.KindNotFound, err, "skill category not found")
		}
		return nil, util.WrapAppError(util.KindDatabase, err, "failed to update skill category")
	}

	s.recordSkillEvent(models.EventUpdate, "skill_category", updated.ID, "skill category updated", updated.Name, actor, meta)
	return updated, nil
}

func (s *PortfolioService) DeleteCategory(ctx context.Context, id int64, actor models.AdminUser, meta models.ClientMetadata) error {
	if err := s.storage.DeleteCategory(ctx, id); err != nil {
		if errorsIsNotFound(err) {
			return util.WrapAppError(util.KindNotFound, err, "skill category not found")
		}
		return util.WrapAppError(util.KindDatabase, err, "failed to delete skill category")
	}

	s.recordSkillEvent(models.EventDelete, "skill_category", id, "skill category deleted", "", actor, meta)
	return nil
}

func (s *PortfolioService) recordSkillEvent(eventType models.AuditEventType, resource string, id int64, action, name string, actor models.AdminUser, meta models.ClientMetadata) {
	var details map[string]string
	if name != "" {
		details = map[string]string{"name": name}
	}
	s.audit.Record(models.AuditEntry{
		EventType:    eventType,
		ActorID:      actor.ID,
		ActorName:    actor.Username,
		ResourceType: resource,
		ResourceID:   strconv.FormatInt(id, 10),
		Action:       action,
		Details:      details,
		ClientIP:     meta.IPAddress,
		UserAgent:    meta.UserAgent,
		Success:      true,
	})
}

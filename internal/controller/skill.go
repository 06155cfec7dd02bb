package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rryowa/portfolio-backend/internal/models"
	"github.com/rryowa/portfolio-backend/internal/util"
)

// (GET /skills).
func (c *Controller) ListSkills(ctx echo.Context) error {
	skills, err := c.portfolio.ListSkills(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, skills)
}

// (POST /skills).
func (c *Controller) CreateSkill(ctx echo.Context) error {
	var s models.Skill
	if err := ctx.Bind(&s); err != nil {
		return util.NewAppError(util.KindValidation, "invalid request body")
	}

	created, err := c.portfolio.CreateSkill(ctx.Request().Context(), s, actorFrom(ctx), metaFrom(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, created)
}

// (PUT /skills/:id).
func (c *Controller) UpdateSkill(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	var s models.Skill
	if err := ctx.Bind(&s); err != nil {
		return util.NewAppError(util.KindValidation, "invalid request body")
	}
	s.ID = id

	updated, err := c.portfolio.UpdateSkill(ctx.Request().Context(), s, actorFrom(ctx), metaFrom(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, updated)
}

// (DELETE /skills/:id).
func (c *Controller) DeleteSkill(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	if err := c.portfolio.DeleteSkill(ctx.Request().Context(), id, actorFrom(ctx), metaFrom(ctx)); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, map[string]bool{"success": true})
}

// (GET /skill-categories).
func (c *Controller) ListSkillCategories(ctx echo.Context) error {
	categories, err := c.portfolio.ListCategories(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, categories)
}

// (POST /skill-categories).
func (c *Controller) CreateSkillCategory(ctx echo.Context) error {
	var cat models.SkillCategory
	if err := ctx.Bind(&cat); err != nil {
		return util.NewAppError(util.KindValidation, "invalid request body")
	}

	created, err := c.portfolio.CreateCategory(ctx.Request().Context(), cat, actorFrom(ctx), metaFrom(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, created)
}

// (PUT /skill-categories/:id).
func (c *Controller) UpdateSkillCategory(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	var cat models.SkillCategory
	if err := ctx.Bind(&cat); err != nil {
		return util.NewAppError(util.KindValidation, "invalid request body")
	}
	cat.ID = id

	updated, err := c.portfolio.UpdateCategory(ctx.Request().Context(), cat, actorFrom(ctx), metaFrom(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, updated)
}

// (DELETE /skill-categories/:id).
func (c *Controller) DeleteSkillCategory(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	if err := c.portfolio.DeleteCategory(ctx.Request().Context(), id, actorFrom(ctx), metaFrom(ctx)); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, map[string]bool{"success": true})
}

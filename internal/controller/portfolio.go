package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rryowa/portfolio-backend/internal/models"
	"github.com/rryowa/portfolio-backend/internal/util"
)

// (GET /biography).
func (c *Controller) GetBiography(ctx echo.Context) error {
	bio, err := c.portfolio.GetBiography(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, bio)
}

// (PUT /biography).
func (c *Controller) UpdateBiography(ctx echo.Context) error {
	var bio models.Biography
	if err := ctx.Bind(&bio); err != nil {
		return util.NewAppError(util.KindValidation, "invalid request body")
	}

	saved, err := c.portfolio.UpdateBiography(ctx.Request().Context(), bio, actorFrom(ctx), metaFrom(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, saved)
}

// (GET /projects).
func (c *Controller) ListProjects(ctx echo.Context) error {
	featuredOnly := ctx.QueryParam("featured") == "true"
	projects, err := c.portfolio.ListProjects(ctx.Request().Context(), featuredOnly)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, projects)
}

// (GET /projects/:id).
func (c *Controller) GetProject(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	project, err := c.portfolio.GetProject(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, project)
}

// (POST /projects).
func (c *Controller) CreateProject(ctx echo.Context) error {
	var p models.Project
	if err := ctx.Bind(&p); err != nil {
		return util.NewAppError(util.KindValidation, "invalid request body")
	}

	created, err := c.portfolio.CreateProject(ctx.Request().Context(), p, actorFrom(ctx), metaFrom(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, created)
}

// (PUT /projects/:id).
func (c *Controller) UpdateProject(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	var p models.Project
	if err := ctx.Bind(&p); err != nil {
		return util.NewAppError(util.KindValidation, "invalid request body")
	}
	p.ID = id

	updated, err := c.portfolio.UpdateProject(ctx.Request().Context(), p, actorFrom(ctx), metaFrom(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, updated)
}

// (DELETE /projects/:id).
func (c *Controller) DeleteProject(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	if err := c.portfolio.DeleteProject(ctx.Request().Context(), id, actorFrom(ctx), metaFrom(ctx)); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, map[string]bool{"success": true})
}

package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rryowa/portfolio-backend/internal/models"
	"github.com/rryowa/portfolio-backend/internal/util"
	"github.com/rryowa/portfolio-backend/internal/validation"
)

// (POST /contact).
func (c *Controller) SubmitContact(ctx echo.Context) error {
	var req models.ContactRequest
	if err := ctx.Bind(&req); err != nil {
		return util.NewAppError(util.KindValidation, "invalid request body")
	}

	created, err := c.messages.SubmitContact(ctx.Request().Context(), req, metaFrom(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, map[string]interface{}{
		"success": true,
		"id":      created.ID,
	})
}

// (GET /admin/messages).
func (c *Controller) ListMessages(ctx echo.Context) error {
	limit := validation.ClampInt(ctx.QueryParam("limit"), 50, 1, 200)
	offset := validation.ClampInt(ctx.QueryParam("offset"), 0, 0, 1<<30)

	messages, total, err := c.messages.ListMessages(ctx.Request().Context(), limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"messages": messages,
		"pagination": map[string]int{
			"limit":  limit,
			"offset": offset,
			"total":  total,
		},
	})
}

// (PUT /admin/messages/:id/read).
func (c *Controller) MarkMessageRead(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	var body struct {
		Read bool `json:"read"`
	}
	body.Read = true
	if err := ctx.Bind(&body); err != nil {
		return util.NewAppError(util.KindValidation, "invalid request body")
	}

	if err := c.messages.MarkRead(ctx.Request().Context(), id, body.Read, actorFrom(ctx), metaFrom(ctx)); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, map[string]bool{"success": true})
}

// (DELETE /admin/messages/:id).
func (c *Controller) DeleteMessage(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	if err := c.messages.DeleteMessage(ctx.Request().Context(), id, actorFrom(ctx), metaFrom(ctx)); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, map[string]bool{"success": true})
}

package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rryowa/portfolio-backend/internal/models"
	"github.com/rryowa/portfolio-backend/internal/util"
)

// (POST /admin/login).
func (c *Controller) Login(ctx echo.Context) error {
	var req models.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, models.LoginResponse{Success: false, Error: "invalid request body"})
	}

	user, token, err := c.auth.Login(req.Username, req.Password, metaFrom(ctx))
	if err != nil {
		var appErr *util.AppError
		if errors.As(err, &appErr) && appErr.Kind == util.KindAuthentication {
			return ctx.JSON(http.StatusUnauthorized, models.LoginResponse{Success: false, Error: "Invalid credentials"})
		}
		// Anything else (session issuance, storage) is a server fault; the
		// central error handler maps it.
		return err
	}

	c.cookies.SetSession(ctx.Response(), token)
	return ctx.JSON(http.StatusOK, models.LoginResponse{Success: true, User: user})
}

// (POST /admin/logout).
func (c *Controller) Logout(ctx echo.Context) error {
	c.auth.Logout(actorFrom(ctx), metaFrom(ctx))
	c.cookies.ClearSession(ctx.Response())
	return ctx.JSON(http.StatusOK, map[string]bool{"success": true})
}

// (GET /admin/me).
func (c *Controller) Me(ctx echo.Context) error {
	user := actorFrom(ctx)
	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

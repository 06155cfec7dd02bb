package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rryowa/portfolio-backend/internal/models"
	"github.com/rryowa/portfolio-backend/internal/validation"
)

// (GET /admin/audit-logs?limit&offset&eventType&severity&username).
func (c *Controller) ListAuditLogs(ctx echo.Context) error {
	filter := models.AuditFilter{
		EventType: models.AuditEventType(ctx.QueryParam("eventType")),
		Severity:  models.AuditSeverity(ctx.QueryParam("severity")),
		Username:  ctx.QueryParam("username"),
		Limit:     validation.ClampInt(ctx.QueryParam("limit"), 50, 1, 200),
		Offset:    validation.ClampInt(ctx.QueryParam("offset"), 0, 0, 1<<30),
	}

	entries, total, err := c.audit.List(ctx.Request().Context(), filter)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"logs": entries,
		"pagination": map[string]int{
			"limit":  filter.Limit,
			"offset": filter.Offset,
			"total":  total,
		},
		"filters": map[string]string{
			"eventType": string(filter.EventType),
			"severity":  string(filter.Severity),
			"username":  filter.Username,
		},
	})
}

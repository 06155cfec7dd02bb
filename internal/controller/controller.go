package controller

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rryowa/portfolio-backend/internal/models"
	"github.com/rryowa/portfolio-backend/internal/service"
	"github.com/rryowa/portfolio-backend/internal/util"
)

type Controller struct {
	zapLogger *zap.SugaredLogger
	auth      *service.AuthService
	cookies   *service.CookieCodec
	portfolio *service.PortfolioService
	messages  *service.MessageService
	uploads   *service.UploadService
	audit     *service.AuditReader
}

func NewController(
	logger *zap.SugaredLogger,
	auth *service.AuthService,
	cookies *service.CookieCodec,
	portfolio *service.PortfolioService,
	messages *service.MessageService,
	uploads *service.UploadService,
	audit *service.AuditReader,
) *Controller {
	return &Controller{
		zapLogger: logger,
		auth:      auth,
		cookies:   cookies,
		portfolio: portfolio,
		messages:  messages,
		uploads:   uploads,
		audit:     audit,
	}
}

// actorFrom returns the admin identity set by the session middleware.
func actorFrom(ctx echo.Context) models.AdminUser {
	id, _ := ctx.Get(models.MwActorIDKey).(string)
	name, _ := ctx.Get(models.MwActorNameKey).(string)
	return models.AdminUser{ID: id, Username: name}
}

func metaFrom(ctx echo.Context) models.ClientMetadata {
	req := ctx.Request()
	return models.ClientMetadata{
		IPAddress: util.ClientIP(req),
		UserAgent: util.UserAgent(req),
	}
}

func pathID(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, util.NewAppError(util.KindValidation, "id must be an integer")
	}
	return id, nil
}

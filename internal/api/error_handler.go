package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rryowa/portfolio-backend/internal/service"
	"github.com/rryowa/portfolio-backend/internal/util"
)

// ErrorHandler is the single edge where errors turn into responses. Full
// detail always goes to the log; clients get only the kind-appropriate
// message unless running in development.
func ErrorHandler(log *zap.SugaredLogger, development bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var appErr *util.AppError
		if errors.As(err, &appErr) {
			if appErr.Status() >= http.StatusInternalServerError {
				log.Errorw("request failed", "error", err, "uri", c.Request().RequestURI)
			}
			writeReason(c, log, appErr.Status(), appErr.PublicMessage(development))
			return
		}

		if errors.Is(err, service.ErrSessionInvalid) {
			writeReason(c, log, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			if he.Code == http.StatusInternalServerError {
				log.Errorw("HTTP error", "error", err, "uri", c.Request().RequestURI)
			}
			msg, ok := he.Message.(string)
			if !ok {
				msg = http.StatusText(he.Code)
			}
			writeReason(c, log, he.Code, msg)
			return
		}

		log.Errorw("unhandled error", "error", err, "uri", c.Request().RequestURI)
		writeReason(c, log, http.StatusInternalServerError, "internal server error")
	}
}

func writeReason(c echo.Context, log *zap.SugaredLogger, status int, reason string) {
	if err := c.JSON(status, map[string]string{"reason": reason}); err != nil {
		log.Errorw("failed to write json response", "error", err)
	}
}

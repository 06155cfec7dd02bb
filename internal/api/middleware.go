package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/rryowa/portfolio-backend/internal/models"
	"github.com/rryowa/portfolio-backend/internal/service"
	"github.com/rryowa/portfolio-backend/internal/util"
)

// RateLimitMiddleware applies the fixed-window budget for one operation
// class. Rejected requests get a 429 with Retry-After and quota headers.
func RateLimitMiddleware(limiter *service.RateLimiter, audit *service.AuditLogger, class string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			clientID := util.ClientIP(req)

			decision := limiter.Check(req.Context(), class, clientID)

			header := c.Response().Header()
			header.Set("X-RateLimit-Limit", strconv.Itoa(limiter.Rule(class).Ceiling))
			header.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			header.Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

			if !decision.Allowed {
				retryAfter := int(decision.RetryAfter.Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				header.Set("Retry-After", strconv.Itoa(retryAfter))

				audit.Record(models.AuditEntry{
					EventType: models.EventRateLimitExceeded,
					Action:    "rate limit exceeded for " + class,
					Details:   map[string]string{"class": class},
					ClientIP:  clientID,
					UserAgent: util.UserAgent(req),
					Success:   false,
				})

				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"reason":     "too many requests",
					"retryAfter": retryAfter,
				})
			}

			return next(c)
		}
	}
}

// SessionAuthMiddleware guards admin routes. An absent, malformed, or expired
// session all produce the same vague 401.
func SessionAuthMiddleware(auth *service.AuthService, cookies *service.CookieCodec, audit *service.AuditLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			user, err := auth.VerifySession(cookies.ReadSession(req))
			if err != nil {
				audit.Record(models.AuditEntry{
					EventType: models.EventUnauthorizedAccess,
					Action:    "unauthorized access to " + req.Method + " " + req.URL.Path,
					ClientIP:  util.ClientIP(req),
					UserAgent: util.UserAgent(req),
					Success:   false,
				})
				return util.NewAppError(util.KindAuthentication, "Unauthorized")
			}

			c.Set(models.MwActorIDKey, user.ID)
			c.Set(models.MwActorNameKey, user.Username)

			return next(c)
		}
	}
}

func GetLoggerMiddlewareConfig(log *zap.SugaredLogger) echomiddleware.RequestLoggerConfig {
	return echomiddleware.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,

		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", c.Request().Method,
				"uri", v.URI,
				"status", v.Status,
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
				log.Errorw("Request", fields...)
			} else {
				log.Infow("Request", fields...)
			}
			return nil
		},
	}
}

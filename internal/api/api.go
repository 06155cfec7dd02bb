package api

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"go.uber.org/zap"

	"github.com/rryowa/portfolio-backend/internal/controller"
	"github.com/rryowa/portfolio-backend/internal/service"
	"github.com/rryowa/portfolio-backend/internal/util"
)

const (
	shutdownTimeout = 5 * time.Second
)

type API struct {
	server          *echo.Echo
	controller      *controller.Controller
	auth            *service.AuthService
	cookies         *service.CookieCodec
	limiter         *service.RateLimiter
	audit           *service.AuditLogger
	log             *zap.SugaredLogger
	gracefulTimeout time.Duration
	cleanupFuncs    []func()
}

func NewAPI(
	c *controller.Controller,
	auth *service.AuthService,
	cookies *service.CookieCodec,
	limiter *service.RateLimiter,
	audit *service.AuditLogger,
	sc *util.ServerConfig,
	l *zap.SugaredLogger,
	cleanupFuncs []func(),
) *API {
	e := echo.New()

	e.Server.Addr = sc.ServerAddr
	e.Server.WriteTimeout = sc.WriteTimeout
	e.Server.ReadTimeout = sc.ReadTimeout
	e.Server.IdleTimeout = sc.IdleTimeout
	e.HTTPErrorHandler = ErrorHandler(l, sc.Development)

	return &API{
		server:          e,
		controller:      c,
		auth:            auth,
		cookies:         cookies,
		limiter:         limiter,
		audit:           audit,
		log:             l,
		gracefulTimeout: sc.GracefulTimeout,
		cleanupFuncs:    cleanupFuncs,
	}
}

func (a *API) Run(ctxBackground context.Context) {
	ctx, stop := signal.NotifyContext(ctxBackground, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.server.Use(echomiddleware.RequestLoggerWithConfig(GetLoggerMiddlewareConfig(a.log)))
	a.RegisterRoutes()

	a.limiter.StartSweeper(ctx)

	a.ListenGracefulShutdown(ctx)
}

// RegisterRoutes wires the HTTP surface: every request passes its class's
// rate limiter first; admin routes then require a valid session.
func (a *API) RegisterRoutes() {
	apiLimit := RateLimitMiddleware(a.limiter, a.audit, util.RateClassAPI)
	requireSession := SessionAuthMiddleware(a.auth, a.cookies, a.audit)

	c := a.controller

	// Public surface.
	public := a.server.Group("", apiLimit)
	public.GET("/biography", c.GetBiography)
	public.GET("/projects", c.ListProjects)
	public.GET("/projects/:id", c.GetProject)
	public.GET("/skills", c.ListSkills)
	public.GET("/skill-categories", c.ListSkillCategories)

	a.server.POST("/contact",
		c.SubmitContact, RateLimitMiddleware(a.limiter, a.audit, util.RateClassContact))

	// Login gets its own, much tighter budget.
	a.server.POST("/admin/login",
		c.Login, RateLimitMiddleware(a.limiter, a.audit, util.RateClassLogin))

	// Admin surface.
	admin := a.server.Group("", apiLimit, requireSession)
	admin.POST("/admin/logout", c.Logout)
	admin.GET("/admin/me", c.Me)

	admin.PUT("/biography", c.UpdateBiography)

	admin.POST("/projects", c.CreateProject)
	admin.PUT("/projects/:id", c.UpdateProject)
	admin.DELETE("/projects/:id", c.DeleteProject)

	admin.POST("/skills", c.CreateSkill)
	admin.PUT("/skills/:id", c.UpdateSkill)
	admin.DELETE("/skills/:id", c.DeleteSkill)

	admin.POST("/skill-categories", c.CreateSkillCategory)
	admin.PUT("/skill-categories/:id", c.UpdateSkillCategory)
	admin.DELETE("/skill-categories/:id", c.DeleteSkillCategory)

	admin.GET("/admin/messages", c.ListMessages)
	admin.PUT("/admin/messages/:id/read", c.MarkMessageRead)
	admin.DELETE("/admin/messages/:id", c.DeleteMessage)

	admin.GET("/admin/audit-logs", c.ListAuditLogs)

	a.server.POST("/upload/:kind", c.UploadFile,
		RateLimitMiddleware(a.limiter, a.audit, util.RateClassUpload), requireSession)
}

func (a *API) ListenGracefulShutdown(ctx context.Context) {
	go func() {
		err := a.server.Start(a.server.Server.Addr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()
	a.log.Infof("Listening on: %s", a.server.Server.Addr)

	<-ctx.Done()
	a.log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)
	if err != nil {
		a.log.Errorf("shutdown: %v", err)
	}

	// Flush pending audit events before dropping storage connections.
	a.audit.Close()
	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	longShutdown := make(chan struct{}, 1)

	go func() {
		time.Sleep(a.gracefulTimeout)
		longShutdown <- struct{}{}
	}()

	select {
	case <-shutdownCtx.Done():
		if errors.Is(ctx.Err(), context.Canceled) {
			a.log.Info("server shutdown completed")
		} else {
			a.log.Errorf("server shutdown: %v", ctx.Err())
		}
	case <-longShutdown:
		a.log.Infof("finished")
	}
}

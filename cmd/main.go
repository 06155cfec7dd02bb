package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/rryowa/portfolio-backend/internal/api"
	"github.com/rryowa/portfolio-backend/internal/controller"
	"github.com/rryowa/portfolio-backend/internal/migrations"
	"github.com/rryowa/portfolio-backend/internal/service"
	"github.com/rryowa/portfolio-backend/internal/storage"
	"github.com/rryowa/portfolio-backend/internal/storage/blob"
	"github.com/rryowa/portfolio-backend/internal/storage/memory"
	"github.com/rryowa/portfolio-backend/internal/storage/postgres"
	redisstore "github.com/rryowa/portfolio-backend/internal/storage/redis"
	"github.com/rryowa/portfolio-backend/internal/util"

	_ "github.com/lib/pq"
)

func main() {
	ctx := context.Background()
	logger := util.NewZapLogger()

	sessionCfg, err := util.NewSessionConfig()
	if err != nil {
		logger.Fatal(zap.Error(err))
	}
	adminCfg, err := util.NewAdminConfig()
	if err != nil {
		logger.Fatal(zap.Error(err))
	}
	blobCfg, err := util.NewBlobConfig()
	if err != nil {
		logger.Fatal(zap.Error(err))
	}

	db, dbCleanup, err := util.NewDBConnection(logger)
	if err != nil {
		logger.Fatal(zap.Error(err))
	}
	if err := migrations.RunMigrations(db, logger, "./internal/migrations"); err != nil {
		logger.Fatal(zap.Error(err))
	}

	store := postgres.NewStorage(db)
	cleanupFuncs := []func(){dbCleanup}

	// The rate-limit store is injectable: Redis when configured (shared
	// budget across instances), otherwise process-local memory.
	var rateLimitStore storage.RateLimitRepository
	if addr := util.GetRedisAddr(); addr != "" {
		redisClient, redisCleanup, err := util.NewRedisClient(logger, addr)
		if err != nil {
			logger.Fatal(zap.Error(err))
		}
		rateLimitStore = redisstore.NewRateLimitStore(redisClient)
		cleanupFuncs = append(cleanupFuncs, redisCleanup)
	} else {
		rateLimitStore = memory.NewRateLimitStore()
	}

	blobs, err := blob.NewMinioStore(ctx, blobCfg)
	if err != nil {
		logger.Fatal(zap.Error(err))
	}

	auditLogger := service.NewAuditLogger(util.NewAuditConfig(), logger,
		service.NewZapSink(logger),
		service.NewPostgresSink(store),
	)

	credService := service.NewCredentialService(adminCfg)
	sessionService := service.NewSessionService(sessionCfg)
	cookies := service.NewCookieCodec(sessionCfg.Secure, sessionCfg.SessionTTL)
	authService := service.NewAuthService(credService, sessionService, auditLogger, logger)

	limiter := service.NewRateLimiter(util.NewRateLimitConfig(), rateLimitStore, logger)

	portfolioService := service.NewPortfolioService(store, blobs, auditLogger, logger)
	messageService := service.NewMessageService(store, auditLogger, logger)
	uploadService := service.NewUploadService(blobs, auditLogger, logger)
	auditReader := service.NewAuditReader(store)

	controller := controller.NewController(logger, authService, cookies,
		portfolioService, messageService, uploadService, auditReader)

	apiServer := api.NewAPI(controller, authService, cookies, limiter, auditLogger,
		util.NewServerConfig(), logger, cleanupFuncs)
	apiServer.Run(ctx)
}

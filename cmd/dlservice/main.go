package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/dlservice-api/api/swagger"
	"github.com/noah-isme/dlservice-api/internal/handler"
	internalmiddleware "github.com/noah-isme/dlservice-api/internal/middleware"
	"github.com/noah-isme/dlservice-api/internal/repository"
	"github.com/noah-isme/dlservice-api/internal/router"
	"github.com/noah-isme/dlservice-api/internal/service"
	"github.com/noah-isme/dlservice-api/internal/validation"
	"github.com/noah-isme/dlservice-api/pkg/cache"
	"github.com/noah-isme/dlservice-api/pkg/config"
	"github.com/noah-isme/dlservice-api/pkg/database"
	"github.com/noah-isme/dlservice-api/pkg/events"
	"github.com/noah-isme/dlservice-api/pkg/jobs"
	"github.com/noah-isme/dlservice-api/pkg/logger"
	"github.com/noah-isme/dlservice-api/pkg/storage"
)

// @title Driving License Service API
// @version 1.0.0
// @description Online portal for learning and driving license applications
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	if cfg.Database.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.EnsureSchema(ctx, db)
		cancel()
		if err != nil {
			logr.Fatal("failed to apply schema", zap.Error(err))
		}
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redisClient.Close() //nolint:errcheck

	uploads, err := storage.NewLocalStorage(cfg.Uploads.Dir)
	if err != nil {
		logr.Fatal("failed to prepare upload storage", zap.Error(err))
	}

	metricsSvc := service.NewMetricsService()
	eventSvc, stopEvents := buildEvents(cfg.Events, metricsSvc, logr)
	defer stopEvents()

	authLimiter := internalmiddleware.NewRateLimiter(cfg.RateLimit.AuthPerMinute, cfg.RateLimit.AuthBurst)
	defer authLimiter.Stop()

	authSvc := service.NewAuthService(repository.NewUserRepository(db), validation.New(utcNow), logr, service.AuthConfig{
		Secret: cfg.Session.Secret,
		TTL:    cfg.Session.TTL,
		Issuer: cfg.Session.Issuer,
	})

	engine := router.New(buildHandlers(cfg, db, redisClient, uploads, authSvc, metricsSvc, eventSvc, logr), router.Options{
		Logger:         logr,
		Metrics:        metricsSvc,
		Sessions:       authSvc,
		CookieName:     cfg.Session.CookieName,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AuthLimiter:    authLimiter,
		EnableDocs:     cfg.Env != config.EnvProduction,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}

func utcNow() time.Time { return time.Now().UTC() }

func buildHandlers(cfg *config.Config, db *sqlx.DB, redisClient *redis.Client, uploads *storage.LocalStorage, authSvc *service.AuthService, metricsSvc *service.MetricsService, eventSvc *service.EventService, logr *zap.Logger) router.Handlers {
	validate := validation.New(utcNow)

	userRepo := repository.NewUserRepository(db)
	learningRepo := repository.NewLearningLicenseRepository(db)
	drivingRepo := repository.NewDrivingLicenseRepository(db)
	renewalRepo := repository.NewRenewalRepository(db)
	changeRepo := repository.NewChangeRequestRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	pendingRepo := repository.NewPendingRepository(redisClient)

	staging := service.NewStagingService(pendingRepo, metricsSvc, cfg.Pending.TTL, logr, nil)
	documents := service.NewDocumentService(uploads, storage.NewSignedURLSigner(cfg.Uploads.SignedURLSecret, cfg.Uploads.SignedURLTTL), learningRepo, logr, service.DocumentServiceConfig{
		MaxSize:      cfg.Uploads.MaxSizeBytes,
		AllowedMIMEs: cfg.Uploads.AllowedMIMEs,
	})

	learningSvc := service.NewLearningService(staging, documents, validate, logr, cfg.Uploads.MaxSizeBytes)
	drivingSvc := service.NewDrivingService(learningRepo, staging, validate, logr, nil)
	renewalSvc := service.NewRenewalService(drivingRepo, staging, validate, logr)
	changeSvc := service.NewChangeDetailsService(drivingRepo, changeRepo, userRepo, eventSvc, validate, logr, nil)
	statusSvc := service.NewStatusService(learningRepo, drivingRepo, logr)
	homeSvc := service.NewHomeService(userRepo, learningRepo, drivingRepo, renewalRepo, logr, nil)
	paymentSvc := service.NewPaymentService(service.PaymentDeps{
		Staging:   staging,
		Learning:  learningRepo,
		Driving:   drivingRepo,
		Payments:  paymentRepo,
		IDs:       service.NewIDGenerator(repository.NewLicenseIDRepository(db), nil),
		Audit:     userRepo,
		Events:    eventSvc,
		Metrics:   metricsSvc,
		Validator: validate,
		Logger:    logr,
	})

	return router.Handlers{
		Auth:          handler.NewAuthHandler(authSvc, handler.CookieConfig{Name: cfg.Session.CookieName, Secure: cfg.Session.CookieSecure}),
		License:       handler.NewLicenseHandler(learningSvc, drivingSvc, renewalSvc, cfg.Uploads.MaxSizeBytes),
		ChangeDetails: handler.NewChangeDetailsHandler(changeSvc),
		Status:        handler.NewStatusHandler(statusSvc),
		Payment:       handler.NewPaymentHandler(paymentSvc),
		Home:          handler.NewHomeHandler(homeSvc),
		Document:      handler.NewDocumentHandler(documents),
		Metrics: handler.NewMetricsHandler(metricsSvc, map[string]handler.Pinger{
			"database": db.PingContext,
			"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		}),
	}
}

// buildEvents wires the Kafka publisher behind the job queue when events are enabled.
func buildEvents(cfg config.EventsConfig, metricsSvc *service.MetricsService, logr *zap.Logger) (*service.EventService, func()) {
	if !cfg.Enabled {
		return service.NewEventService(nil, metricsSvc, logr), func() {}
	}
	writer, err := events.NewKafkaWriter(cfg)
	if err != nil {
		logr.Warn("license events disabled", zap.Error(err))
		return service.NewEventService(nil, metricsSvc, logr), func() {}
	}

	eventSvc := service.NewEventService(writer, metricsSvc, logr)
	queue := jobs.NewQueue("license-events", eventSvc.Deliver, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.Retries,
		Logger:     logr,
	})
	queue.Start(context.Background())
	eventSvc.AttachQueue(queue)

	return eventSvc, func() {
		queue.Stop()
		if err := writer.Close(); err != nil {
			logr.Warn("failed to close kafka writer", zap.Error(err))
		}
	}
}

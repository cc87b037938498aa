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
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/skillnaav/skillnaav-api/api/swagger"
	"github.com/skillnaav/skillnaav-api/internal/handler"
	"github.com/skillnaav/skillnaav-api/internal/middleware"
	"github.com/skillnaav/skillnaav-api/internal/repository"
	"github.com/skillnaav/skillnaav-api/internal/service"
	"github.com/skillnaav/skillnaav-api/pkg/cache"
	"github.com/skillnaav/skillnaav-api/pkg/config"
	"github.com/skillnaav/skillnaav-api/pkg/database"
	"github.com/skillnaav/skillnaav-api/pkg/google"
	"github.com/skillnaav/skillnaav-api/pkg/jobs"
	"github.com/skillnaav/skillnaav-api/pkg/logger"
	"github.com/skillnaav/skillnaav-api/pkg/mail"
	corsmiddleware "github.com/skillnaav/skillnaav-api/pkg/middleware/cors"
	reqidmiddleware "github.com/skillnaav/skillnaav-api/pkg/middleware/requestid"
	"github.com/skillnaav/skillnaav-api/pkg/pdf"
	"github.com/skillnaav/skillnaav-api/pkg/storage"
)

// @title SkillNaav API
// @version 1.0.0
// @description Internship scheduling, Google Calendar sync and offer letters
// @BasePath /api
// @schemes http https

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.EnsureSchema(ctx, db); err != nil {
			logr.Fatal("failed to ensure schema", zap.Error(err))
		}
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, oauth state replay protection disabled", zap.Error(err))
		redisClient = nil
	}

	bucketURL := cfg.Storage.BucketURL
	if bucketURL == "" {
		bucketURL, err = storage.FileBucketURL(cfg.Storage.OfferLetterDir)
		if err != nil {
			logr.Fatal("failed to prepare offer letter directory", zap.Error(err))
		}
	}
	blobs, err := storage.OpenBlobStorage(ctx, bucketURL)
	if err != nil {
		logr.Fatal("failed to open offer letter bucket", zap.Error(err))
	}
	defer blobs.Close() //nolint:errcheck

	validate := validator.New()
	metrics := service.NewMetricsService()
	googleClient := google.NewClient(cfg.Google, cfg.Calendar.CalendarID, &http.Client{Timeout: 30 * time.Second})

	scheduleRepo := repository.NewScheduleRepository(db)
	tokenRepo := repository.NewOAuthTokenRepository(db)
	stateRepo := repository.NewOAuthStateRepository(redisClient, logr)
	defer stateRepo.Close() //nolint:errcheck
	internshipRepo := repository.NewInternshipRepository(db)
	offerRepo := repository.NewOfferLetterRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	templateRepo := repository.NewOfferTemplateRepository(db)

	notificationSvc := service.NewNotificationService(notificationRepo, mail.NewSMTPMailer(cfg.Mail), metrics, logr)
	queue := jobs.NewQueue("notifications", jobs.QueueConfig{
		Workers:    cfg.Notifications.Workers,
		MaxRetries: cfg.Notifications.MaxRetries,
		RetryDelay: cfg.Notifications.RetryDelay,
		Logger:     logr,
		OnFinish:   notificationSvc.JobFinished,
	})
	notificationSvc.RegisterJobs(queue)
	queue.Start(ctx)
	defer queue.Stop()

	scheduleSvc := service.NewScheduleService(scheduleRepo, validate, logr)
	oauthSvc := service.NewOAuthService(googleClient, tokenRepo, stateRepo, service.OAuthServiceConfig{
		StateSecret: cfg.Google.StateSecret,
		StateTTL:    cfg.Google.StateTTL,
		VerifyState: cfg.Google.VerifyState,
	}, metrics, logr)
	syncSvc := service.NewCalendarSyncService(oauthSvc, googleClient, scheduleRepo, internshipRepo, service.CalendarSyncConfig{
		TimezoneOffset: cfg.Calendar.TimezoneOffset,
		ColorID:        cfg.Calendar.ColorID,
		Delay:          cfg.Calendar.SyncDelay,
	}, validate, metrics, logr)
	offerSvc := service.NewOfferLetterService(offerRepo, pdf.NewOfferLetterRenderer(), blobs,
		storage.NewSignedURLSigner(cfg.Storage.SignedURLSecret, cfg.Storage.SignedURLTTL), queue, validate, cfg.PublicURL, logr)

	checks := map[string]handler.Pinger{"database": db, "storage": blobs}
	if redisClient != nil {
		checks["redis"] = stateRepo
	}
	metricsHandler := handler.NewMetricsHandler(metrics, checks)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc, service.NewICSExporter(cfg.Calendar.TimezoneOffset))
	googleHandler := handler.NewGoogleHandler(oauthSvc, syncSvc, cfg.FrontendURL, cfg.Env != config.EnvProduction, logr)
	offerHandler := handler.NewOfferLetterHandler(offerSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	templateHandler := handler.NewOfferTemplateHandler(service.NewOfferTemplateService(templateRepo, validate, logr))

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics, "/metrics"))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)

	googleRoutes := api.Group("/google")
	googleRoutes.GET("/auth", googleHandler.Auth)
	googleRoutes.GET("/callback", googleHandler.Callback)
	googleRoutes.POST("/sync", googleHandler.Sync)
	googleRoutes.POST("/test-event", googleHandler.TestEvent)

	scheduleRoutes := api.Group("/schedule")
	scheduleRoutes.POST("/create", scheduleHandler.Create)
	scheduleRoutes.POST("/preview", scheduleHandler.Preview)
	scheduleRoutes.GET("/get-schedule", scheduleHandler.Get)
	scheduleRoutes.GET("/ics", scheduleHandler.ICS)

	offerRoutes := api.Group("/offer-letters")
	offerRoutes.POST("", offerHandler.Send)
	offerRoutes.GET("/student/:studentId", offerHandler.LatestForStudent)
	offerRoutes.PATCH("/:id/status", offerHandler.UpdateStatus)
	offerRoutes.GET("/download/:token", offerHandler.Download)

	notificationRoutes := api.Group("/notifications")
	notificationRoutes.GET("/:studentId", notificationHandler.List)
	notificationRoutes.PATCH("/:id/read", notificationHandler.MarkRead)

	templateRoutes := api.Group("/templates")
	templateRoutes.GET("", templateHandler.List)
	templateRoutes.POST("", templateHandler.Create)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/activity-insights-api/internal/handler"
	"github.com/noah-isme/activity-insights-api/internal/middleware"
	"github.com/noah-isme/activity-insights-api/internal/models"
	"github.com/noah-isme/activity-insights-api/internal/repository"
	"github.com/noah-isme/activity-insights-api/internal/service"
	"github.com/noah-isme/activity-insights-api/pkg/cache"
	"github.com/noah-isme/activity-insights-api/pkg/config"
	"github.com/noah-isme/activity-insights-api/pkg/crypto"
	"github.com/noah-isme/activity-insights-api/pkg/database"
	"github.com/noah-isme/activity-insights-api/pkg/jobs"
	"github.com/noah-isme/activity-insights-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/activity-insights-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/activity-insights-api/pkg/middleware/requestid"
	"github.com/noah-isme/activity-insights-api/pkg/storage"
)

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

	decryptor, err := crypto.NewDecryptor(cfg.Tracking.DecryptionKey, cfg.Tracking.KeySalt)
	if err != nil {
		logr.Sugar().Fatalw("failed to init decryptor", "error", err)
	}

	metricsSvc := service.NewMetricsService()

	// Postgres backs the record source and report job rows; a file source
	// without reports runs with no database at all.
	var db *sqlx.DB
	if cfg.Tracking.SourceDriver == config.SourcePostgres || cfg.Reports.Enabled {
		db, err = database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
		}
		defer db.Close()
	}

	var activitySource interface {
		Snapshot(ctx context.Context) ([]models.RawRecord, error)
	}
	if cfg.Tracking.SourceDriver == config.SourcePostgres {
		activitySource = repository.NewActivityRepository(db)
	} else {
		activitySource = repository.NewActivityFileRepository(cfg.Tracking.SourceFile)
	}

	var cacheSvc *service.CacheService
	if cfg.Analytics.CacheEnabled {
		redisClient, redisErr := cache.NewRedis(cfg.Redis)
		if redisErr != nil {
			logr.Sugar().Warnw("redis unavailable, analytics cache disabled", "error", redisErr)
		} else {
			defer redisClient.Close()
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Analytics.CacheTTL, logr, true)
		}
	}

	parser := service.NewRecordParser(decryptor, metricsSvc, logr)
	productivitySvc := service.NewProductivityService(logr)
	summarySvc := service.NewSummaryService(logr)
	activitySvc := service.NewActivityService(service.ActivityServiceParams{
		Source:       activitySource,
		Parser:       parser,
		Productivity: productivitySvc,
		Summary:      summarySvc,
		Cache:        cacheSvc,
		Metrics:      metricsSvc,
		Logger:       logr,
		Config: service.ActivityServiceConfig{
			SourceDriver: cfg.Tracking.SourceDriver,
			CacheTTL:     cfg.Analytics.CacheTTL,
		},
	})

	activityHandler := handler.NewActivityHandler(activitySvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.ResponseMeta())
	api.GET("/employees/:employeeId/dates", activityHandler.AvailableDates)
	api.GET("/employees/:employeeId/metrics", activityHandler.DailyMetrics)
	api.GET("/employees/:employeeId/assessment", activityHandler.Assessment)
	api.GET("/employees/:employeeId/summary", activityHandler.Summary)

	rootCtx := context.Background()

	if cfg.Reports.Enabled {
		store, storeErr := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if storeErr != nil {
			logr.Sugar().Fatalw("failed to init report storage", "error", storeErr)
		}
		signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
		exportSvc := service.NewExportService(activitySvc, store, signer,
			service.ExportConfig{APIPrefix: cfg.APIPrefix}, logr, nil, nil)

		reportRepo := repository.NewReportRepository(db)
		worker := service.NewReportWorker(reportRepo, exportSvc, metricsSvc, cfg.Reports.WorkerRetries, logr)
		queue := jobs.NewQueue("reports", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Reports.WorkerConcurrency,
			MaxRetries: cfg.Reports.WorkerRetries,
			Logger:     logr,
		})
		queue.Start(rootCtx)
		defer queue.Stop()

		reportSvc := service.NewReportService(reportRepo, queue, exportSvc, logr)
		reportSvc.RecoverPendingJobs(rootCtx)

		reportHandler := handler.NewReportHandler(reportSvc)
		api.POST("/reports", reportHandler.GenerateReport)
		api.GET("/reports/:id", reportHandler.ReportStatus)
		api.GET("/export/:token", reportHandler.DownloadReport)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env,
		"source_driver", cfg.Tracking.SourceDriver, "reports_enabled", cfg.Reports.Enabled)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

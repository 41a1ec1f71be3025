package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/senaplan/horarios-api/api/swagger"
	"github.com/senaplan/horarios-api/internal/handler"
	"github.com/senaplan/horarios-api/internal/ingest"
	internalmiddleware "github.com/senaplan/horarios-api/internal/middleware"
	"github.com/senaplan/horarios-api/internal/repository"
	"github.com/senaplan/horarios-api/internal/service"
	"github.com/senaplan/horarios-api/pkg/cache"
	"github.com/senaplan/horarios-api/pkg/config"
	"github.com/senaplan/horarios-api/pkg/database"
	"github.com/senaplan/horarios-api/pkg/export"
	"github.com/senaplan/horarios-api/pkg/logger"
	corsmiddleware "github.com/senaplan/horarios-api/pkg/middleware/cors"
	reqidmiddleware "github.com/senaplan/horarios-api/pkg/middleware/requestid"
)

// @title SENA Horarios API
// @version 1.0.0
// @description Curriculum scheduling engine for SENA fichas
// @BasePath /api/v1
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
		logr.Sugar().Fatalw("postgres connection failed", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("redis connection failed", "error", err)
	}
	defer redisClient.Close()

	fichaRepo := repository.NewFichaRepository(db)
	instructorRepo := repository.NewInstructorRepository(db)
	curriculumRepo := repository.NewCurriculumRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	pendingSvc := service.NewPendingService(fichaRepo, curriculumRepo, scheduleRepo, cacheRepo, nil, logr,
		service.PendingConfig{
			WeeksPerQuarter: cfg.Scheduling.WeeksPerQuarter,
			CacheTTL:        cfg.Scheduling.PendingCacheTTL,
		})
	scheduleSvc := service.NewScheduleService(fichaRepo, instructorRepo, curriculumRepo, scheduleRepo, db, cacheRepo, metricsSvc, nil, logr,
		service.ScheduleConfig{
			WeeksPerQuarter:     cfg.Scheduling.WeeksPerQuarter,
			MaxQuarter:          cfg.Scheduling.MaxQuarter,
			CrossFichaConflicts: cfg.Scheduling.CrossFichaConflicts,
		})
	curriculumSvc := service.NewCurriculumService(fichaRepo, curriculumRepo, instructorRepo,
		ingest.NewReader(cfg.Import.SheetName, cfg.Import.HeaderRows),
		pendingSvc, db, cacheRepo, metricsSvc, nil, logr,
		service.CurriculumConfig{GenericInstructorID: cfg.Scheduling.GenericInstructorID})
	fichaSvc := service.NewFichaService(fichaRepo, logr)
	instructorSvc := service.NewInstructorService(instructorRepo, fichaRepo, curriculumRepo, logr,
		service.InstructorConfig{GenericInstructorID: cfg.Scheduling.GenericInstructorID})
	exportSvc := service.NewExportService(scheduleRepo, export.NewCSVExporter(), export.NewPDFExporter(), logr)

	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	curriculumHandler := handler.NewCurriculumHandler(curriculumSvc, pendingSvc, cfg.Import.MaxFileSizeBytes)
	instructorHandler := handler.NewInstructorHandler(instructorSvc)
	fichaHandler := handler.NewFichaHandler(fichaSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	auth := internalmiddleware.JWT(cfg.JWT.Secret)

	api.GET("/fichas", fichaHandler.List)
	api.POST("/fichas/refresh-states", auth, fichaHandler.RefreshStates)
	api.GET("/fichas/:id/schedules", scheduleHandler.ListByFicha)

	api.GET("/schedules", scheduleHandler.List)
	api.POST("/schedules", auth, scheduleHandler.Save)
	api.GET("/schedules/conflict-check", scheduleHandler.CheckConflict)

	api.POST("/curriculum/import", auth, curriculumHandler.Import)
	api.GET("/curriculum/pending", curriculumHandler.Pending)

	api.GET("/instructors", instructorHandler.List)
	api.GET("/instructors/suggest", instructorHandler.Suggest)
	api.GET("/instructors/:id/hours", instructorHandler.Hours)
	api.GET("/instructors/:id/schedule", scheduleHandler.ListByInstructor)

	if cfg.Exports.Enabled {
		api.GET("/exports/fichas/:id/schedule.csv", exportHandler.FichaCSV)
		api.GET("/exports/fichas/:id/schedule.pdf", exportHandler.FichaPDF)
		api.GET("/exports/instructors/:id/schedule.csv", exportHandler.InstructorCSV)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("server stopping")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown incomplete", "error", err)
	}
}

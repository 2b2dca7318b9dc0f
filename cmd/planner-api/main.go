package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/schoolkit/planner-api/api/swagger"
	"github.com/schoolkit/planner-api/internal/handler"
	appMiddleware "github.com/schoolkit/planner-api/internal/middleware"
	"github.com/schoolkit/planner-api/internal/service"
	"github.com/schoolkit/planner-api/internal/store"
	"github.com/schoolkit/planner-api/pkg/blobstore"
	"github.com/schoolkit/planner-api/pkg/config"
	"github.com/schoolkit/planner-api/pkg/export"
	"github.com/schoolkit/planner-api/pkg/logger"
	corsmiddleware "github.com/schoolkit/planner-api/pkg/middleware/cors"
	reqidmiddleware "github.com/schoolkit/planner-api/pkg/middleware/requestid"
)

// @title Planner API
// @version 1.0.0
// @description Weekly timetable and homework planner backend
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

	blobs, err := newBlobStore(cfg)
	if err != nil {
		logr.Sugar().Fatalw("failed to init storage backend", "backend", cfg.Storage.Backend, "error", err)
	}

	metricsSvc := service.NewMetricsService()
	documents := store.NewDocumentStore(blobs, logr).WithMetrics(metricsSvc)

	loadCtx, cancel := context.WithTimeout(context.Background(), cfg.Storage.Timeout)
	defer cancel()

	validate := validator.New()
	subjectSvc := service.NewSubjectService(loadCtx, documents, logr)
	timetableSvc := service.NewTimetableService(loadCtx, documents, subjectSvc, logr)
	homeworkSvc := service.NewHomeworkService(loadCtx, documents, subjectSvc, validate, logr, cfg.Export.UpcomingCutoff)
	exportSvc := service.NewExportService(homeworkSvc, nil, nil, service.ExportOptions{
		Filename:        cfg.Export.Filename,
		PDFTitle:        cfg.Export.PDFTitle,
		DefaultEncoding: export.Encoding(cfg.Export.DefaultEncoding),
	}, logr)

	homeworkHandler := handler.NewHomeworkHandler(homeworkSvc, exportSvc)
	timetableHandler := handler.NewTimetableHandler(timetableSvc, cfg.Export.TimetableExport)
	subjectHandler := handler.NewSubjectHandler(subjectSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(appMiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/homework", homeworkHandler.List)
		api.POST("/homework", homeworkHandler.Add)
		api.GET("/homework/upcoming", homeworkHandler.Upcoming)
		api.GET("/homework/export", homeworkHandler.Export)
		api.PATCH("/homework/:id/status", homeworkHandler.SetStatus)
		api.POST("/homework/:id/done", homeworkHandler.MarkDone)
		api.DELETE("/homework/:id", homeworkHandler.Delete)

		api.GET("/timetable", timetableHandler.Get)
		api.PUT("/timetable", timetableHandler.Save)
		api.PATCH("/timetable/cell", timetableHandler.SetCell)
		api.POST("/timetable/reset", timetableHandler.Reset)
		api.POST("/timetable/import", timetableHandler.Import)
		api.GET("/timetable/export", timetableHandler.Export)

		api.GET("/subjects", subjectHandler.List)
		api.POST("/subjects", subjectHandler.Register)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "storage", cfg.Storage.Backend)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func newBlobStore(cfg *config.Config) (blobstore.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		return blobstore.NewRedisStore(cfg.Redis, cfg.Storage.Namespace)
	case config.BackendPostgres:
		return blobstore.NewPostgresStore(cfg.Database)
	case config.BackendFilesystem, "":
		return blobstore.NewFilesystemStore(cfg.Storage.Dir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

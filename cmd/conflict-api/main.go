package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/sma-conflict-api/api/swagger"
	"github.com/noah-isme/sma-conflict-api/internal/advisory"
	"github.com/noah-isme/sma-conflict-api/internal/handler"
	"github.com/noah-isme/sma-conflict-api/internal/middleware"
	"github.com/noah-isme/sma-conflict-api/internal/repository"
	"github.com/noah-isme/sma-conflict-api/internal/service"
	"github.com/noah-isme/sma-conflict-api/pkg/cache"
	"github.com/noah-isme/sma-conflict-api/pkg/config"
	"github.com/noah-isme/sma-conflict-api/pkg/database"
	"github.com/noah-isme/sma-conflict-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-conflict-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-conflict-api/pkg/middleware/requestid"
)

// @title SMA Conflict API
// @version 0.1.0
// @description Conflict detection and resolution engine for class scheduling
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	// Redis only backs the advisory hint cache; the engine runs without it.
	var redisClient *redis.Client
	if cfg.Advisory.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, advisory hints uncached", "error", err)
		} else {
			defer redisClient.Close()
		}
	}

	stores := service.DetectorStores{
		Slots:       repository.NewSlotRepository(db),
		Enrollments: repository.NewEnrollmentRepository(db),
		Sections:    repository.NewSectionRepository(db),
		Teachers:    repository.NewTeacherRepository(db),
		Rooms:       repository.NewRoomRepository(db),
		Courses:     repository.NewCourseRepository(db),
		Students:    repository.NewStudentRepository(db),
		Conflicts:   repository.NewConflictRepository(db),
	}

	metrics := service.NewMetrics()
	detector := service.NewDetectorService(stores, service.NewDetector(cfg.Detector), metrics, logr)

	var suggesterAdvisory service.AdvisoryClient
	if cfg.Advisory.Enabled {
		suggesterAdvisory = advisory.NewClient(cfg.Advisory, redisClient, logr)
	}
	suggester := service.NewSuggestionService(stores, suggesterAdvisory, metrics, logr)
	priority := service.NewPriorityService(stores.Conflicts, logr)
	resolver := service.NewResolverService(stores, detector, suggester, cfg.Resolver, metrics, logr)

	validate := validator.New()
	conflictHandler := handler.NewConflictHandler(detector, priority)
	resolutionHandler := handler.NewResolutionHandler(detector, suggester, resolver, priority, validate)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		schedules := api.Group("/schedules/:id")
		schedules.GET("/conflicts", conflictHandler.List)
		schedules.GET("/conflicts/count", conflictHandler.Count)
		schedules.GET("/conflicts/priority", conflictHandler.ListByPriority)
		schedules.POST("/conflicts/detect", conflictHandler.Detect)
		schedules.POST("/conflicts/refresh", conflictHandler.Refresh)
		schedules.POST("/conflicts/check-slot", conflictHandler.CheckSlot)
		schedules.GET("/validate", conflictHandler.Validate)
		schedules.POST("/auto-resolve", resolutionHandler.AutoResolve)

		conflicts := api.Group("/conflicts/:id")
		conflicts.GET("/suggestions", resolutionHandler.Suggest)
		conflicts.GET("/swaps", resolutionHandler.SlotSwaps)
		conflicts.POST("/resolve", resolutionHandler.Apply)
		conflicts.POST("/mark-resolved", resolutionHandler.MarkResolved)
		conflicts.POST("/ignore", resolutionHandler.MarkIgnored)
		conflicts.POST("/unignore", resolutionHandler.Unignore)

		api.POST("/resolutions/impact", resolutionHandler.Impact)
		api.GET("/resolutions/:type/success-rate", resolutionHandler.SuccessRate)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env,
		"advisory_enabled", cfg.Advisory.Enabled)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/deptsched/timetable-api/internal/handler"
	"github.com/deptsched/timetable-api/internal/middleware"
	"github.com/deptsched/timetable-api/internal/models"
	"github.com/deptsched/timetable-api/internal/repository"
	"github.com/deptsched/timetable-api/internal/service"
	"github.com/deptsched/timetable-api/pkg/cache"
	"github.com/deptsched/timetable-api/pkg/config"
	"github.com/deptsched/timetable-api/pkg/database"
	"github.com/deptsched/timetable-api/pkg/logger"
	corsmiddleware "github.com/deptsched/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/deptsched/timetable-api/pkg/middleware/requestid"
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	// The cache is optional: a Redis outage degrades to direct DB reads.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, latest-run cache disabled", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	validate := validator.New()

	instructorRepo := repository.NewInstructorRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	timeSlotRepo := repository.NewTimeSlotRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	runRepo := repository.NewRunRepository(db)

	metricsService := service.NewMetricsService()
	authService := service.NewAuthService(validate, logr, service.AuthConfig{
		JWTSecret:         cfg.Auth.JWTSecret,
		JWTExpiration:     cfg.Auth.JWTExpiration,
		AdminEmail:        cfg.Auth.AdminEmail,
		AdminPasswordHash: cfg.Auth.AdminPasswordHash,
	})
	rosterService := service.NewRosterService(
		instructorRepo, roomRepo, timeSlotRepo, courseRepo, sectionRepo,
		db, logr, cfg.Roster.ImportDir,
	)
	timetableService := service.NewTimetableService(
		instructorRepo, roomRepo, timeSlotRepo, courseRepo, sectionRepo,
		runRepo, db, redisClient, metricsService, validate, logr,
		service.TimetableConfig{
			Seed:        cfg.Solver.Seed,
			CacheTTL:    cfg.Solver.CacheTTL,
			MaxSessions: cfg.Solver.MaxSessions,
		},
	)
	exportService := service.NewExportService(timetableService, nil, nil, cfg.Exports.PDFTitle, logr)

	authHandler := handler.NewAuthHandler(authService)
	rosterHandler := handler.NewRosterHandler(rosterService)
	timetableHandler := handler.NewTimetableHandler(timetableService, exportService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/token", authHandler.Token)

	protected := api.Group("")
	protected.Use(middleware.JWT(authService))

	roster := protected.Group("/roster")
	roster.GET("/instructors", rosterHandler.Instructors)
	roster.GET("/rooms", rosterHandler.Rooms)
	roster.GET("/timeslots", rosterHandler.TimeSlots)
	roster.POST("/import", middleware.RequireRoles(models.RoleAdmin), rosterHandler.Import)

	timetable := protected.Group("/timetable")
	timetable.POST("/generate", middleware.RequireRoles(models.RoleAdmin), timetableHandler.Generate)
	timetable.GET("/runs", timetableHandler.List)
	timetable.GET("/runs/:id", timetableHandler.Get)
	timetable.DELETE("/runs/:id", middleware.RequireRoles(models.RoleAdmin), timetableHandler.Delete)
	timetable.GET("/runs/:id/export", timetableHandler.Export)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

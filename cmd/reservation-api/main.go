package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/uni-adm/reservation-api/api/swagger"
	"github.com/uni-adm/reservation-api/internal/handler"
	"github.com/uni-adm/reservation-api/internal/middleware"
	"github.com/uni-adm/reservation-api/internal/repository"
	"github.com/uni-adm/reservation-api/internal/service"
	"github.com/uni-adm/reservation-api/pkg/cache"
	"github.com/uni-adm/reservation-api/pkg/config"
	"github.com/uni-adm/reservation-api/pkg/database"
	"github.com/uni-adm/reservation-api/pkg/logger"
	corsmiddleware "github.com/uni-adm/reservation-api/pkg/middleware/cors"
	reqidmiddleware "github.com/uni-adm/reservation-api/pkg/middleware/requestid"
)

// @title University Reservation API
// @version 1.0.0
// @description Room and instructor reservation scheduling service
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
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close()

	var cacheRepo *repository.CacheRepository
	if cfg.Catalog.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, catalog caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}

	validate := validator.New()

	reservationRepo := repository.NewReservationRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	instructorRepo := repository.NewInstructorRepository(db)
	courseRepo := repository.NewCourseRepository(db)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(cfg.Auth, validate, logr)
	reservationSvc := service.NewReservationService(reservationRepo, validate, logr, metricsSvc, cfg.Booking.MaxRetries, cfg.Booking.RetryBackoff)
	conflictSvc := service.NewConflictService(reservationRepo, logr)
	availabilitySvc := service.NewAvailabilityService(reservationRepo, logr)
	scheduleSvc := service.NewScheduleService(reservationRepo, logr)
	workloadSvc := service.NewWorkloadService(reservationRepo, logr)
	catalogSvc := service.NewCatalogService(roomRepo, instructorRepo, courseRepo, cacheRepo, cfg.Catalog.CacheTTL, logr, metricsSvc)

	authHandler := handler.NewAuthHandler(authSvc)
	reservationHandler := handler.NewReservationHandler(reservationSvc)
	conflictHandler := handler.NewConflictHandler(conflictSvc)
	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	workloadHandler := handler.NewWorkloadHandler(workloadSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	requireAuth := middleware.JWT(authSvc)

	api.POST("/auth/login", authHandler.Login)

	api.GET("/reservations", reservationHandler.List)
	api.GET("/reservations/:id", reservationHandler.Get)
	api.POST("/reservations", requireAuth, reservationHandler.Create)
	api.PUT("/reservations/:id", requireAuth, reservationHandler.Update)
	api.DELETE("/reservations/:id", requireAuth, reservationHandler.Delete)

	api.GET("/conflicts/room", conflictHandler.RoomConflicts)
	api.GET("/conflicts/instructor", conflictHandler.InstructorConflicts)

	api.GET("/availability/rooms", availabilityHandler.AvailableRooms)

	api.GET("/schedules/instructors/:id", scheduleHandler.InstructorSchedule)
	api.GET("/schedules/rooms/:building/:number", scheduleHandler.RoomSchedule)

	api.GET("/workload/instructors/:id", workloadHandler.InstructorWorkload)

	api.GET("/catalogs/rooms", catalogHandler.Rooms)
	api.GET("/catalogs/instructors", catalogHandler.Instructors)
	api.GET("/catalogs/courses", catalogHandler.Courses)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

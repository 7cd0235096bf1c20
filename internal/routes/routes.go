package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/alysesue/bookings-api-sub001/internal/audit"
	"github.com/alysesue/bookings-api-sub001/internal/cache"
	"github.com/alysesue/bookings-api-sub001/internal/config"
	"github.com/alysesue/bookings-api-sub001/internal/handlers"
	infraRepo "github.com/alysesue/bookings-api-sub001/internal/infra/repository"
	"github.com/alysesue/bookings-api-sub001/internal/metrics"
	"github.com/alysesue/bookings-api-sub001/internal/middleware"
	ucBookings "github.com/alysesue/bookings-api-sub001/internal/usecase/bookings"
	ucTimeslots "github.com/alysesue/bookings-api-sub001/internal/usecase/timeslots"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	availabilityCache *cache.AvailabilityCache,
	m *metrics.Metrics,
	log *zap.SugaredLogger,
) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)
	directoryRepo := infraRepo.NewDirectoryGormRepository(db)
	unavailRepo := infraRepo.NewUnavailabilityGormRepository(db)
	changeLogRepo := infraRepo.NewChangeLogGormRepository(db)
	txManager := infraRepo.NewTxManager(db)

	auditRecorder := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditRecorder, log)

	// ======================================================
	// USE CASES
	// ======================================================
	timeslotsService := ucTimeslots.NewService(
		bookingRepo,
		directoryRepo,
		unavailRepo,
		log,
		m,
	)

	bookingsService := ucBookings.NewService(
		txManager,
		bookingRepo,
		directoryRepo,
		changeLogRepo,
		timeslotsService,
		availabilityCache,
		m,
		log,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg, auditDispatcher)
	serviceHandler := handlers.NewServiceHandler(db, auditDispatcher, availabilityCache)
	providerHandler := handlers.NewProviderHandler(db, auditDispatcher, availabilityCache)
	unavailabilityHandler := handlers.NewUnavailabilityHandler(db, auditDispatcher, availabilityCache)
	timeslotHandler := handlers.NewTimeslotHandler(timeslotsService, directoryRepo, availabilityCache)
	bookingHandler := handlers.NewBookingHandler(bookingsService, directoryRepo)

	// ======================================================
	// OPS
	// ======================================================
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/services", serviceHandler.List)
			publicAPI.GET("/services/:serviceId/timeslots", timeslotHandler.Aggregated)
			publicAPI.GET("/services/:serviceId/timeslots/providers", timeslotHandler.ProvidersForSlot)
			publicAPI.POST("/bookings", bookingHandler.Create)
			publicAPI.POST("/bookings/:id/validate", bookingHandler.ValidateOnHold)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.POST("/services", serviceHandler.Create)
			secured.GET("/services/:serviceId", serviceHandler.Get)
			secured.PATCH("/services/:serviceId", serviceHandler.Update)

			secured.PUT("/services/:serviceId/schedules", serviceHandler.SetSchedules)
			secured.GET("/services/:serviceId/schedules", serviceHandler.ListSchedules)

			secured.POST("/services/:serviceId/providers", providerHandler.Create)
			secured.GET("/services/:serviceId/providers", providerHandler.List)
			secured.PUT("/providers/:providerId/schedules", providerHandler.SetSchedules)
			secured.GET("/providers/:providerId/schedules", providerHandler.ListSchedules)

			secured.POST("/services/:serviceId/unavailabilities", unavailabilityHandler.Create)
			secured.GET("/services/:serviceId/unavailabilities", unavailabilityHandler.List)
			secured.DELETE("/unavailabilities/:id", unavailabilityHandler.Delete)

			secured.GET("/services/:serviceId/timeslots", timeslotHandler.Aggregated)
			secured.GET("/services/:serviceId/timeslots/providers", timeslotHandler.ProvidersForSlot)

			secured.POST("/bookings", bookingHandler.Create)
			secured.GET("/bookings", bookingHandler.List)
			secured.GET("/bookings/:id", bookingHandler.Get)
			secured.GET("/bookings/:id/changelogs", bookingHandler.ChangeLogs)
			secured.PATCH("/bookings/:id", bookingHandler.Update)
			secured.PATCH("/bookings/:id/accept", bookingHandler.Accept)
			secured.PATCH("/bookings/:id/reject", bookingHandler.Reject)
			secured.PATCH("/bookings/:id/cancel", bookingHandler.Cancel)
			secured.PATCH("/bookings/:id/reschedule", bookingHandler.Reschedule)
			secured.PATCH("/bookings/:id/validate", bookingHandler.ValidateOnHold)
		}
	}
}

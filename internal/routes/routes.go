package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/handlers"
	infraRepo "github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/notify"
	ucAbsence "github.com/BruksfildServices01/barber-booking/internal/usecase/absence"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/availability"
	ucBooking "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

// Deps são as peças de infraestrutura criadas no main.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Log      *zap.Logger
	Audit    *audit.Dispatcher
	AuditLog *audit.Logger
	Notifier notify.Notifier
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(d.Log),
		middleware.CORSMiddleware(d.Config.AllowedOrigins()),
		middleware.Timeout(d.Config.RequestTimeout()),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// 🔧 INFRA
	// ======================================================
	store := infraRepo.NewGormStore(d.DB)
	catalog := store.Catalog()

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	createBookingUC := ucBooking.NewCreateBooking(store, d.Log, d.Audit)
	updateStatusUC := ucBooking.NewUpdateStatus(store, d.Log, d.Audit)
	listBookingsUC := ucBooking.NewListBookings(store)

	freeSlotsUC := availability.NewListFreeSlots(store)
	findBarbersUC := availability.NewFindAvailableBarbers(store)

	submitAbsenceUC := ucAbsence.NewSubmitAbsence(store, d.Log, d.Audit)
	approveAbsenceUC := ucAbsence.NewApproveAbsence(store, d.Log, d.Audit, d.Notifier)
	rejectAbsenceUC := ucAbsence.NewRejectAbsence(store, d.Log, d.Audit, d.Notifier)
	listAbsencesUC := ucAbsence.NewListAbsences(store)
	absenceDetailUC := ucAbsence.NewGetAbsenceDetail(store)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, d.Config, d.Log)
	meHandler := handlers.NewMeHandler(d.DB)
	barbershopHandler := handlers.NewBarbershopHandler(d.DB)
	barberHandler := handlers.NewBarberHandler(d.DB, d.Log, d.Audit)
	serviceHandler := handlers.NewServiceHandler(d.DB)
	clientHandler := handlers.NewClientHandler(d.DB)
	workingHoursHandler := handlers.NewWorkingHoursHandler(d.DB, catalog)

	bookingHandler := handlers.NewBookingHandler(catalog, listBookingsUC, updateStatusUC)

	absenceHandler := handlers.NewAbsenceHandler(
		catalog,
		submitAbsenceUC,
		approveAbsenceUC,
		rejectAbsenceUC,
		listAbsencesUC,
		absenceDetailUC,
		findBarbersUC,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(d.AuditLog)

	publicHandler := handlers.NewPublicHandler(d.DB, catalog, freeSlotsUC, createBookingUC)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		publicAPI.Use(middleware.RateLimitMiddleware(d.Config.RateLimitPerMin))
		{
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/barbers", publicHandler.ListBarbers)
			publicAPI.GET("/:slug/availability", publicHandler.Availability)
			publicAPI.POST("/:slug/bookings", publicHandler.CreateBooking)
		}

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		authAPI := api.Group("/auth")
		authAPI.Use(middleware.RateLimitMiddleware(d.Config.RateLimitPerMin))
		{
			authAPI.POST("/register", authHandler.Register)
			authAPI.POST("/login", authHandler.Login)
		}

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(d.Config.JWTSecret))
		{
			secured.GET("/me", meHandler.GetMe)

			// status: barbeiro (próprios) ou admin (todos)
			secured.PATCH("/bookings/:id/status", bookingHandler.UpdateStatus)

			// ------------------------------
			// BARBEIRO
			// ------------------------------
			barber := secured.Group("/me")
			barber.Use(middleware.RequireRole(models.RoleBarber))
			{
				barber.GET("/working-hours", workingHoursHandler.Get)
				barber.PUT("/working-hours", workingHoursHandler.Update)

				barber.GET("/bookings", bookingHandler.ListByDate)
				barber.GET("/bookings/month", bookingHandler.ListByMonth)

				barber.POST("/absences", absenceHandler.Submit)
				barber.GET("/absences", absenceHandler.ListMine)
			}

			// ------------------------------
			// ADMIN
			// ------------------------------
			admin := secured.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/barbershop", barbershopHandler.GetMeBarbershop)
				admin.PATCH("/barbershop", barbershopHandler.UpdateMeBarbershop)

				admin.GET("/barbers", barberHandler.List)
				admin.POST("/barbers", barberHandler.Create)
				admin.PATCH("/barbers/:id", barberHandler.Update)

				admin.GET("/services", serviceHandler.List)
				admin.POST("/services", serviceHandler.Create)
				admin.PATCH("/services/:id", serviceHandler.Update)

				admin.GET("/clients", clientHandler.List)
				admin.GET("/clients/:id/bookings", clientHandler.Bookings)

				admin.GET("/absences", absenceHandler.List)
				admin.GET("/absences/:id", absenceHandler.Get)
				admin.POST("/absences/:id/approve", absenceHandler.Approve)
				admin.POST("/absences/:id/reject", absenceHandler.Reject)
				admin.GET("/available-barbers", absenceHandler.AvailableBarbers)

				admin.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}

package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/auth"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/handlers"
	"github.com/BruksfildServices01/barber-booking/internal/infra/lock"
	infraRepo "github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/notification"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/waitinglist"
)

// Deps are the process-wide singletons built in main.
type Deps struct {
	DB     *gorm.DB
	Config *config.Config
	Log    *zap.Logger

	Issuer          *auth.Issuer
	AppointmentRepo *infraRepo.AppointmentGormRepository
	Locker          lock.Locker
	Notifier        *notification.Dispatcher
	Audit           *audit.Dispatcher
	WaitingList     *waitinglist.Service
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// USE CASES (APPOINTMENTS)
	// ======================================================
	appointmentDeps := ucAppointment.Deps{
		Repo:        d.AppointmentRepo,
		Locker:      d.Locker,
		Notifier:    d.Notifier,
		Audit:       d.Audit,
		WaitingList: d.WaitingList,
		Now:         timezone.Now,
		Cutoff:      d.Config.ClientCutoff,
	}

	getAvailabilityUC := ucAppointment.NewGetAvailability(
		d.AppointmentRepo,
		timezone.Now,
	)

	createAppointmentUC := ucAppointment.NewCreateAppointment(appointmentDeps)
	updateAppointmentUC := ucAppointment.NewUpdateAppointment(appointmentDeps)
	cancelAppointmentUC := ucAppointment.NewCancelAppointment(appointmentDeps)
	changeStatusUC := ucAppointment.NewChangeStatus(appointmentDeps)

	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(
		d.AppointmentRepo,
	)

	listAppointmentsByMonthUC := ucAppointment.NewListAppointmentsByMonth(
		d.AppointmentRepo,
	)

	listMineUC := ucAppointment.NewListMyAppointments(d.AppointmentRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, d.Issuer)
	meHandler := handlers.NewMeHandler(d.DB)
	publicHandler := handlers.NewPublicHandler(d.DB)

	appointmentHandler := handlers.NewAppointmentHandler(handlers.AppointmentUseCases{
		Availability: getAvailabilityUC,
		Create:       createAppointmentUC,
		Update:       updateAppointmentUC,
		Cancel:       cancelAppointmentUC,
		ListMine:     listMineUC,
		Clients:      d.AppointmentRepo,
	})

	staffHandler := handlers.NewStaffHandler(handlers.StaffUseCases{
		ListByDate:   listAppointmentsByDateUC,
		ListByMonth:  listAppointmentsByMonthUC,
		ChangeStatus: changeStatusUC,
		Create:       createAppointmentUC,
	})

	waitingListHandler := handlers.NewWaitingListHandler(d.WaitingList, d.AppointmentRepo)

	workingHoursHandler := handlers.NewWorkingHoursHandler(d.DB, d.Audit)
	vacationHandler := handlers.NewVacationHandler(d.DB, d.Audit)
	serviceHandler := handlers.NewServiceHandler(d.DB, d.Audit)
	barberHandler := handlers.NewBarberHandler(d.DB, d.Audit)
	clientHandler := handlers.NewClientHandler(d.DB)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)

	limiter := middleware.NewRateLimiter(d.Config.RateLimitPerMin, d.Log)
	authMW := middleware.AuthMiddleware(d.Issuer, timezone.Now)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		public := api.Group("/")
		public.Use(limiter.Middleware())
		{
			public.GET("/services", publicHandler.ListServices)
			public.GET("/barbers", publicHandler.ListBarbers)
			public.GET("/barbers/:id", publicHandler.GetBarber)
			public.GET("/barbers/:id/check-vacation", publicHandler.CheckVacation)

			public.GET("/appointments/public/available-slots", appointmentHandler.AvailableSlots)
			public.POST("/appointments/public", appointmentHandler.CreateGuest)

			public.POST("/auth/register", authHandler.Register)
			public.POST("/auth/login", authHandler.Login)
		}

		// ------------------------------
		// AUTHENTICATED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(authMW)
		{
			secured.POST("/auth/refresh", authHandler.Refresh)
			secured.GET("/me", meHandler.GetMe)
		}

		// ------------------------------
		// CLIENT
		// ------------------------------
		client := api.Group("/")
		client.Use(authMW, middleware.RequireRole(models.RoleClient))
		{
			client.POST("/appointments", appointmentHandler.Create)
			client.GET("/appointments/mine", appointmentHandler.ListMine)
			client.PUT("/appointments/:id", appointmentHandler.Update)
			client.PUT("/appointments/:id/cancel", appointmentHandler.Cancel)

			client.POST("/waiting-list", waitingListHandler.Join)
			client.GET("/waiting-list/mine", waitingListHandler.ListMine)
			client.DELETE("/waiting-list/:id", waitingListHandler.Withdraw)
		}

		// ------------------------------
		// STAFF (BARBER + ADMIN)
		// ------------------------------
		staff := api.Group("/staff")
		staff.Use(authMW, middleware.RequireRole(models.RoleBarber, models.RoleAdmin))
		{
			staff.GET("/appointments", staffHandler.ListByDate)
			staff.GET("/appointments/month", staffHandler.ListByMonth)
			staff.PATCH("/appointments/:id/status", staffHandler.ChangeStatus)

			staff.GET("/barbers/:id/working-hours", workingHoursHandler.Get)
			staff.PUT("/barbers/:id/working-hours", workingHoursHandler.Update)

			staff.GET("/barbers/:id/vacations", vacationHandler.List)
			staff.POST("/barbers/:id/vacations", vacationHandler.Create)
			staff.DELETE("/barbers/:id/vacations/:vacationId", vacationHandler.Delete)
		}

		// ------------------------------
		// ADMIN
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(authMW, middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/services", serviceHandler.List)
			admin.POST("/services", serviceHandler.Create)
			admin.PATCH("/services/:id", serviceHandler.Update)

			admin.POST("/barbers", barberHandler.Create)
			admin.PATCH("/barbers/:id", barberHandler.Update)

			admin.GET("/clients", clientHandler.List)
			admin.GET("/audit-logs", auditLogsHandler.List)

			admin.POST("/appointments", staffHandler.Create)

			admin.GET("/waiting-list", waitingListHandler.List)
			admin.PATCH("/waiting-list/:id", waitingListHandler.UpdateStatus)
		}
	}
}

package api

import (
	"log"
	stdhttp "net/http"

	intconfig "busagency/internal/config"
	"busagency/internal/domain/models"
	h "busagency/internal/http/handlers"
	"busagency/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(),
		middleware.CORS(env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.OPTIONS("/*path", func(c *gin.Context) { c.AbortWithStatus(stdhttp.StatusNoContent) })

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	adminOnly := middleware.RequireRole(string(models.RoleSuperAdmin))
	agencyStaff := middleware.RequireRole(
		string(models.RoleSuperAdmin),
		string(models.RoleAgencyAdmin),
		string(models.RoleAgencyEmployee),
	)
	agencyAdmin := middleware.RequireRole(
		string(models.RoleSuperAdmin),
		string(models.RoleAgencyAdmin),
	)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		auth := api.Group("/auth")
		auth.POST("/login", h.Login(env))
		auth.POST("/register", h.Register(env))
		auth.POST("/invitations/accept", h.AcceptInvitation(env))

		secured := api.Group("")
		secured.Use(middleware.RequireAuth(env.JWTSecret))

		secured.GET("/me", h.GetCurrentUser)

		// Agency onboarding is platform-level.
		agencies := secured.Group("/agencies", adminOnly)
		agencies.GET("", h.GetAgencies)
		agencies.GET("/:id", h.GetAgencyByID)
		agencies.POST("", h.CreateAgency)
		agencies.PUT("/:id", h.UpdateAgency)

		users := secured.Group("/users", agencyAdmin)
		users.GET("", h.GetAgencyUsers)
		users.POST("", h.CreateAgencyUser)
		users.PUT("/:id", h.UpdateAgencyUser)
		users.DELETE("/:id", h.DeactivateAgencyUser)

		invitations := secured.Group("/invitations", agencyAdmin)
		invitations.GET("", h.GetAgencyInvitations)
		invitations.POST("", h.CreateInvitation(env))
		invitations.DELETE("/:id", h.RevokeInvitation(env))

		buses := secured.Group("/buses", agencyAdmin)
		buses.GET("", h.GetAgencyBuses)
		buses.POST("", h.CreateBus)
		buses.PUT("/:id", h.UpdateBus)
		buses.DELETE("/:id", h.DeactivateBus)

		trips := secured.Group("/trips", agencyStaff)
		trips.GET("", h.GetAgencyTrips)
		trips.GET("/:id", h.GetTripByID)
		trips.POST("", agencyAdmin, h.CreateTrip(env))
		trips.PUT("/:id", agencyAdmin, h.UpdateTrip)
		trips.DELETE("/:id", agencyAdmin, h.DeactivateTrip)

		trips.GET("/:id/seats", h.GetTripSeatMap(env))
		trips.POST("/:id/seats/initialize", h.InitializeTripSeatMap(env))
		trips.POST("/:id/seats/sync", h.SyncTripSeatMap(env))
		trips.GET("/:id/seats/validate", h.ValidateTripSeatMap(env))

		trips.GET("/:id/bookings", h.GetTripBookings)
		trips.POST("/:id/bookings", h.CreateBooking(env))

		bookings := secured.Group("/bookings", agencyStaff)
		bookings.GET("/:id", h.GetBookingByID)
		bookings.PUT("/:id/cancel", h.CancelBooking(env))
		bookings.PUT("/:id/payment", h.UpdateBookingPayment)
		bookings.GET("/:id/e-ticket", h.GetBookingETicket)

		// Seat map backfill for trips created before seat maps existed.
		admin := secured.Group("/admin", adminOnly)
		admin.POST("/seat-maps/migrate", h.MigrateSeatMaps(env))
		admin.GET("/seat-maps/migration-status", h.GetMigrationStatus(env))
	}

	return r
}

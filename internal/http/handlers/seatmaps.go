package handlers

import (
	"net/http"

	intconfig "busagency/internal/config"
	"busagency/internal/http/middleware"
	"busagency/internal/repositories"
	"busagency/internal/services"

	"github.com/gin-gonic/gin"
)

func GetTripSeatMap(env intconfig.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		tripID, ok := IDParam(c, "id")
		if !ok {
			return
		}
		if _, ok := scopedTrip(c, tripID); !ok {
			return
		}
		repo := repositories.SeatMapRepository{}
		seats, err := repo.ListByTrip(c.Request.Context(), tripID)
		if err != nil {
			RespondError(c, http.StatusInternalServerError, "failed to list seats", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"tripId": tripID, "seats": seats, "count": len(seats)})
	}
}

// InitializeTripSeatMap generates the seat grid. Calling it twice is safe;
// the existing grid is returned unchanged.
func InitializeTripSeatMap(env intconfig.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		tripID, ok := IDParam(c, "id")
		if !ok {
			return
		}
		if _, ok := scopedTrip(c, tripID); !ok {
			return
		}
		seats, err := seatMapService(c, env).InitializeTrip(c.Request.Context(), tripID)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"tripId": tripID, "seats": seats, "count": len(seats)})
	}
}

// SyncTripSeatMap re-derives every seat's availability from active bookings.
func SyncTripSeatMap(env intconfig.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		tripID, ok := IDParam(c, "id")
		if !ok {
			return
		}
		if _, ok := scopedTrip(c, tripID); !ok {
			return
		}
		if err := seatMapService(c, env).SyncTrip(c.Request.Context(), tripID); err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "seat map synchronized", "tripId": tripID})
	}
}

func ValidateTripSeatMap(env intconfig.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		tripID, ok := IDParam(c, "id")
		if !ok {
			return
		}
		if _, ok := scopedTrip(c, tripID); !ok {
			return
		}
		report, err := seatMapService(c, env).ValidateTrip(c.Request.Context(), tripID)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

func migrationService(c *gin.Context, env intconfig.Env) services.MigrationService {
	return services.MigrationService{
		TripsRepo:   repositories.TripsRepository{},
		SeatMapRepo: repositories.SeatMapRepository{},
		SeatMaps:    seatMapService(c, env),
		Pause:       env.MigrationPause,
		RequestID:   middleware.GetRequestID(c),
	}
}

// MigrateSeatMaps backfills seat maps for every active trip that has none.
func MigrateSeatMaps(env intconfig.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := migrationService(c, env).MigrateAll(c.Request.Context())
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func GetMigrationStatus(env intconfig.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, err := migrationService(c, env).Status(c.Request.Context())
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, status)
	}
}

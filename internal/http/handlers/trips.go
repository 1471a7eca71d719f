package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	intconfig "busagency/internal/config"
	"busagency/internal/domain/models"
	"busagency/internal/http/middleware"
	"busagency/internal/repositories"
	"busagency/internal/services"

	"github.com/gin-gonic/gin"
)

func seatMapService(c *gin.Context, env intconfig.Env) services.SeatMapService {
	return services.SeatMapService{
		TripsRepo:    repositories.TripsRepository{},
		BookingsRepo: repositories.BookingsRepository{},
		SeatMapRepo:  repositories.SeatMapRepository{},
		Layout:       models.SeatLayout{SeatsPerRow: env.DefaultSeatsPerRow},
		RequestID:    middleware.GetRequestID(c),
	}
}

func GetAgencyTrips(c *gin.Context) {
	agencyID, ok := AgencyScope(c)
	if !ok {
		return
	}
	activeOnly := c.Query("active") == "true"

	repo := repositories.TripsRepository{}
	trips, err := repo.ListByAgency(c.Request.Context(), agencyID, activeOnly)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list trips", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": trips, "count": len(trips)})
}

func GetTripByID(c *gin.Context) {
	agencyID, ok := AgencyScope(c)
	if !ok {
		return
	}
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	repo := repositories.TripsRepository{}
	trip, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondError(c, http.StatusNotFound, "trip not found", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to load trip", err)
		return
	}
	if trip.AgencyID != agencyID {
		RespondError(c, http.StatusNotFound, "trip not found", nil)
		return
	}
	c.JSON(http.StatusOK, trip)
}

type tripPayload struct {
	BusID         int64  `json:"busId" binding:"required"`
	DriverID      int64  `json:"driverId"`
	DepartureCity string `json:"departureCity" binding:"required"`
	ArrivalCity   string `json:"arrivalCity" binding:"required"`
	DepartureAt   string `json:"departureAt" binding:"required"`
	ArrivalAt     string `json:"arrivalAt"`
	PriceFCFA     int64  `json:"priceFcfa"`
}

func CreateTrip(env intconfig.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		agencyID, ok := AgencyScope(c)
		if !ok {
			return
		}
		var in tripPayload
		if !BindJSONOrError(c, &in) {
			return
		}

		svc := services.TripService{
			TripsRepo: repositories.TripsRepository{},
			BusesRepo: repositories.BusesRepository{},
			SeatMaps:  seatMapService(c, env),
			RequestID: middleware.GetRequestID(c),
		}
		trip, err := svc.Create(c.Request.Context(), models.Trip{
			AgencyID:      agencyID,
			BusID:         in.BusID,
			DriverID:      in.DriverID,
			DepartureCity: in.DepartureCity,
			ArrivalCity:   in.ArrivalCity,
			DepartureAt:   in.DepartureAt,
			ArrivalAt:     in.ArrivalAt,
			PriceFCFA:     in.PriceFCFA,
		})
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusCreated, trip)
	}
}

func UpdateTrip(c *gin.Context) {
	agencyID, ok := AgencyScope(c)
	if !ok {
		return
	}
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	var in tripPayload
	if !BindJSONOrError(c, &in) {
		return
	}

	repo := repositories.TripsRepository{}
	trip, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondError(c, http.StatusNotFound, "trip not found", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to load trip", err)
		return
	}
	if trip.AgencyID != agencyID {
		RespondError(c, http.StatusNotFound, "trip not found", nil)
		return
	}

	trip.BusID = in.BusID
	trip.DriverID = in.DriverID
	trip.DepartureCity = in.DepartureCity
	trip.ArrivalCity = in.ArrivalCity
	trip.DepartureAt = in.DepartureAt
	trip.ArrivalAt = in.ArrivalAt
	trip.PriceFCFA = in.PriceFCFA

	if err := repo.Update(c.Request.Context(), trip); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to update trip", err)
		return
	}

	updated, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to reload trip", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func DeactivateTrip(c *gin.Context) {
	agencyID, ok := AgencyScope(c)
	if !ok {
		return
	}
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}

	repo := repositories.TripsRepository{}
	trip, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondError(c, http.StatusNotFound, "trip not found", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to load trip", err)
		return
	}
	if trip.AgencyID != agencyID {
		RespondError(c, http.StatusNotFound, "trip not found", nil)
		return
	}

	if err := repo.SetActive(c.Request.Context(), id, false); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to deactivate trip", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "trip deactivated"})
}

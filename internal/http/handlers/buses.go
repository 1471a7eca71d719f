package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"busagency/internal/domain/models"
	"busagency/internal/repositories"

	"github.com/gin-gonic/gin"
)

type busPayload struct {
	LicensePlate string `json:"licensePlate" binding:"required"`
	TotalSeats   int    `json:"totalSeats" binding:"required"`
	IsVIP        bool   `json:"isVip"`
	IsActive     *bool  `json:"isActive"`
}

func GetAgencyBuses(c *gin.Context) {
	agencyID, ok := AgencyScope(c)
	if !ok {
		return
	}
	repo := repositories.BusesRepository{}
	buses, err := repo.ListByAgency(c.Request.Context(), agencyID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list buses", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": buses, "count": len(buses)})
}

func CreateBus(c *gin.Context) {
	agencyID, ok := AgencyScope(c)
	if !ok {
		return
	}
	var in busPayload
	if !BindJSONOrError(c, &in) {
		return
	}
	if in.TotalSeats <= 0 {
		RespondError(c, http.StatusBadRequest, "totalSeats must be a positive seat count", nil)
		return
	}

	repo := repositories.BusesRepository{}
	id, err := repo.Insert(c.Request.Context(), models.Bus{
		AgencyID:     agencyID,
		LicensePlate: in.LicensePlate,
		TotalSeats:   in.TotalSeats,
		IsVIP:        in.IsVIP,
	})
	if err != nil {
		if repositories.IsDuplicateKey(err) {
			RespondError(c, http.StatusConflict, "license plate already registered", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to create bus", err)
		return
	}

	bus, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to reload bus", err)
		return
	}
	c.JSON(http.StatusCreated, bus)
}

func UpdateBus(c *gin.Context) {
	agencyID, ok := AgencyScope(c)
	if !ok {
		return
	}
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	var in busPayload
	if !BindJSONOrError(c, &in) {
		return
	}
	if in.TotalSeats <= 0 {
		RespondError(c, http.StatusBadRequest, "totalSeats must be a positive seat count", nil)
		return
	}

	repo := repositories.BusesRepository{}
	bus, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondError(c, http.StatusNotFound, "bus not found", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to load bus", err)
		return
	}
	if bus.AgencyID != agencyID {
		RespondError(c, http.StatusNotFound, "bus not found", nil)
		return
	}

	bus.LicensePlate = in.LicensePlate
	bus.TotalSeats = in.TotalSeats
	bus.IsVIP = in.IsVIP
	if in.IsActive != nil {
		bus.IsActive = *in.IsActive
	}

	if err := repo.Update(c.Request.Context(), bus); err != nil {
		if repositories.IsDuplicateKey(err) {
			RespondError(c, http.StatusConflict, "license plate already registered", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to update bus", err)
		return
	}
	c.JSON(http.StatusOK, bus)
}

// DeactivateBus takes a bus out of service; existing trips keep their seat maps.
func DeactivateBus(c *gin.Context) {
	agencyID, ok := AgencyScope(c)
	if !ok {
		return
	}
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}

	repo := repositories.BusesRepository{}
	bus, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondError(c, http.StatusNotFound, "bus not found", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to load bus", err)
		return
	}
	if bus.AgencyID != agencyID {
		RespondError(c, http.StatusNotFound, "bus not found", nil)
		return
	}

	if err := repo.SetActive(c.Request.Context(), id, false); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to deactivate bus", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "bus deactivated"})
}

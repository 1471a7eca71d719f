package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"busagency/internal/domain"
	"busagency/internal/domain/models"
	"busagency/internal/repositories"
	"busagency/internal/utils"
)

type TripService struct {
	TripsRepo repositories.TripsRepository
	BusesRepo repositories.BusesRepository
	SeatMaps  SeatMapService
	RequestID string
}

// Create inserts the trip and immediately generates its seat map so bookings
// can never race an uninitialized trip. The trip insert is kept even if seat
// generation fails; the migration driver picks such trips up later.
func (t TripService) Create(ctx context.Context, trip models.Trip) (models.Trip, error) {
	if trip.AgencyID <= 0 {
		return trip, domain.ValidationError{Field: "agency_id", Msg: "invalid agency id"}
	}
	if strings.TrimSpace(trip.DepartureCity) == "" || strings.TrimSpace(trip.ArrivalCity) == "" {
		return trip, domain.ValidationError{Field: "route", Msg: "departure and arrival cities are required"}
	}
	if strings.TrimSpace(trip.DepartureAt) == "" {
		return trip, domain.ValidationError{Field: "departure_at", Msg: "departure time is required"}
	}

	bus, err := t.BusesRepo.GetByID(ctx, trip.BusID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return trip, domain.NotFoundError{Resource: "bus", Err: err}
		}
		return trip, domain.InternalError{Msg: "failed to load bus", Err: err}
	}
	if bus.AgencyID != trip.AgencyID {
		return trip, domain.ValidationError{Field: "bus_id", Msg: "bus belongs to another agency"}
	}
	if bus.TotalSeats <= 0 {
		return trip, domain.ValidationError{Field: "bus_id", Msg: "bus capacity is not set"}
	}

	id, err := t.TripsRepo.Insert(ctx, trip)
	if err != nil {
		return trip, domain.InternalError{Msg: "failed to insert trip", Err: err}
	}

	created, err := t.TripsRepo.GetByID(ctx, id)
	if err != nil {
		return trip, domain.InternalError{Msg: "failed to reload trip", Err: err}
	}

	if _, err := t.seatMaps().InitializeTrip(ctx, id); err != nil {
		utils.LogEvent(t.RequestID, "trip", "seatmap_init_failed",
			fmt.Sprintf("trip_id=%d err=%v", id, err))
	}

	return created, nil
}

func (t TripService) seatMaps() SeatMapService {
	sm := t.SeatMaps
	if sm.RequestID == "" {
		sm.RequestID = t.RequestID
	}
	return sm
}

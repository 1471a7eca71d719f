package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"busagency/internal/domain"
	"busagency/internal/domain/models"
	"busagency/internal/repositories"
	"busagency/internal/utils"
)

// SeatMapService owns the per-trip seat inventory: generation, occupancy
// synchronization against the booking set, and consistency auditing.
type SeatMapService struct {
	TripsRepo    repositories.TripsRepository
	BookingsRepo repositories.BookingsRepository
	SeatMapRepo  repositories.SeatMapRepository
	Layout       models.SeatLayout
	RequestID    string
}

func (s SeatMapService) layout() models.SeatLayout {
	if s.Layout.SeatsPerRow > 0 {
		return s.Layout
	}
	return models.DefaultSeatLayout()
}

// InitializeTrip ensures exactly one seat row exists per seat number in
// [1, bus capacity]. Re-running against an initialized trip returns the
// existing rows unchanged; there is no partial re-generation.
func (s SeatMapService) InitializeTrip(ctx context.Context, tripID int64) ([]models.SeatMapEntry, error) {
	if tripID <= 0 {
		return nil, domain.ValidationError{Field: "trip_id", Msg: "invalid trip id"}
	}

	existing, err := s.SeatMapRepo.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to read seat map", Err: err}
	}
	if len(existing) > 0 {
		utils.LogEvent(s.RequestID, "seatmap", "init_skip",
			fmt.Sprintf("trip_id=%d seats=%d already initialized", tripID, len(existing)))
		return existing, nil
	}

	trip, err := s.TripsRepo.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundError{Resource: "trip", Err: err}
		}
		return nil, domain.InternalError{Msg: "failed to load trip", Err: err}
	}
	// Capacity must come from the bus row; guessing a default here would hide
	// misconfigured fleets behind a wrong seat count.
	if trip.BusTotalSeats <= 0 {
		return nil, domain.ValidationError{Field: "total_seats", Msg: "bus capacity is not set for this trip"}
	}

	occupied, err := s.activeSeatSet(ctx, tripID)
	if err != nil {
		return nil, err
	}

	seatType := trip.SeatType()
	layout := s.layout()
	entries := make([]models.SeatMapEntry, 0, trip.BusTotalSeats)
	for n := 1; n <= trip.BusTotalSeats; n++ {
		seat := strconv.Itoa(n)
		row, col := layout.Position(n)
		entries = append(entries, models.SeatMapEntry{
			TripID:            tripID,
			SeatNumber:        seat,
			PositionRow:       row,
			PositionColumn:    col,
			SeatType:          seatType,
			IsAvailable:       !occupied[seat],
			PriceModifierFCFA: 0,
		})
	}

	if err := s.SeatMapRepo.BulkInsert(ctx, entries); err != nil {
		if repositories.IsDuplicateKey(err) {
			return nil, domain.ConflictError{Resource: "seat_maps", Msg: "trip was initialized concurrently", Err: err}
		}
		return nil, domain.InternalError{Msg: "failed to insert seat map", Err: err}
	}

	utils.LogEvent(s.RequestID, "seatmap", "init",
		fmt.Sprintf("trip_id=%d seats=%d type=%s", tripID, len(entries), seatType))

	return s.SeatMapRepo.ListByTrip(ctx, tripID)
}

// SyncSeat makes exactly one seat row match the desired occupied flag. A
// missing row is an error: seat rows are only ever created by InitializeTrip,
// so seat_type always comes from the trip's bus and never from a guess.
func (s SeatMapService) SyncSeat(ctx context.Context, tripID int64, seatNumber string, occupied bool) error {
	entry, err := s.SeatMapRepo.GetByTripAndSeat(ctx, tripID, seatNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundError{Resource: "seat map entry", Err: err}
		}
		return domain.InternalError{Msg: "failed to load seat", Err: err}
	}

	wantAvailable := !occupied
	if entry.IsAvailable == wantAvailable {
		return nil
	}
	if err := s.SeatMapRepo.SetAvailabilityByID(ctx, entry.ID, wantAvailable); err != nil {
		return domain.InternalError{Msg: "failed to update seat availability", Err: err}
	}

	utils.LogEvent(s.RequestID, "seatmap", "sync_seat",
		fmt.Sprintf("trip_id=%d seat=%s occupied=%t", tripID, seatNumber, occupied))
	return nil
}

// SyncTrip recomputes is_available for every seat of the trip from the current
// active booking set, regardless of prior state.
func (s SeatMapService) SyncTrip(ctx context.Context, tripID int64) error {
	if tripID <= 0 {
		return domain.ValidationError{Field: "trip_id", Msg: "invalid trip id"}
	}
	booked, err := s.BookingsRepo.ActiveSeatNumbers(ctx, tripID)
	if err != nil {
		return domain.InternalError{Msg: "failed to load active bookings", Err: err}
	}
	if err := s.SeatMapRepo.SyncAvailability(ctx, tripID, booked); err != nil {
		return domain.InternalError{Msg: "failed to sync seat availability", Err: err}
	}
	utils.LogEvent(s.RequestID, "seatmap", "sync_trip",
		fmt.Sprintf("trip_id=%d booked=%d", tripID, len(booked)))
	return nil
}

// ConsistencyReport compares seat_maps against the active booking set.
type ConsistencyReport struct {
	TripID                       int64    `json:"tripId"`
	SeatsBookedButAvailable      []string `json:"seatsBookedButAvailable"`
	SeatsUnavailableButNotBooked []string `json:"seatsUnavailableButNotBooked"`
	MissingFromSeatMap           []string `json:"missingFromSeatMap"`
	SeatCount                    int      `json:"seatCount"`
	ActiveBookingCount           int      `json:"activeBookingCount"`
	IsConsistent                 bool     `json:"isConsistent"`
}

// ValidateTrip audits a trip's seat map. Read-only: reports divergence, never
// repairs it; pair with SyncTrip to heal.
func (s SeatMapService) ValidateTrip(ctx context.Context, tripID int64) (ConsistencyReport, error) {
	report := ConsistencyReport{
		TripID:                       tripID,
		SeatsBookedButAvailable:      []string{},
		SeatsUnavailableButNotBooked: []string{},
		MissingFromSeatMap:           []string{},
	}
	if tripID <= 0 {
		return report, domain.ValidationError{Field: "trip_id", Msg: "invalid trip id"}
	}

	entries, err := s.SeatMapRepo.ListByTrip(ctx, tripID)
	if err != nil {
		return report, domain.InternalError{Msg: "failed to read seat map", Err: err}
	}
	booked, err := s.BookingsRepo.ActiveSeatNumbers(ctx, tripID)
	if err != nil {
		return report, domain.InternalError{Msg: "failed to load active bookings", Err: err}
	}

	bySeat := make(map[string]models.SeatMapEntry, len(entries))
	for _, e := range entries {
		bySeat[e.SeatNumber] = e
	}
	bookedSet := make(map[string]bool, len(booked))
	for _, seat := range booked {
		bookedSet[seat] = true
	}

	for _, seat := range booked {
		entry, ok := bySeat[seat]
		switch {
		case !ok:
			report.MissingFromSeatMap = append(report.MissingFromSeatMap, seat)
		case entry.IsAvailable:
			// Double-sell risk: an active booking holds a seat still marked free.
			report.SeatsBookedButAvailable = append(report.SeatsBookedButAvailable, seat)
		}
	}
	for _, e := range entries {
		if !e.IsAvailable && !bookedSet[e.SeatNumber] {
			// Stuck inventory: blocked seat with no backing booking.
			report.SeatsUnavailableButNotBooked = append(report.SeatsUnavailableButNotBooked, e.SeatNumber)
		}
	}

	report.SeatCount = len(entries)
	report.ActiveBookingCount = len(booked)
	report.IsConsistent = len(report.SeatsBookedButAvailable) == 0 &&
		len(report.SeatsUnavailableButNotBooked) == 0 &&
		len(report.MissingFromSeatMap) == 0
	return report, nil
}

func (s SeatMapService) activeSeatSet(ctx context.Context, tripID int64) (map[string]bool, error) {
	booked, err := s.BookingsRepo.ActiveSeatNumbers(ctx, tripID)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to load active bookings", Err: err}
	}
	set := make(map[string]bool, len(booked))
	for _, seat := range booked {
		set[seat] = true
	}
	return set, nil
}

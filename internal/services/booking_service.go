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

	"github.com/google/uuid"
)

// BookingOutcome tells the caller how far the booking-plus-sync sequence got.
type BookingOutcome string

const (
	// BookingApplied: booking inserted and seat marked unavailable.
	BookingApplied BookingOutcome = "applied"
	// BookingSyncFailed: booking inserted but the seat row was not updated.
	// The inventory is inconsistent until SyncTrip runs for this trip.
	BookingSyncFailed BookingOutcome = "sync_failed"
	// BookingFailed: nothing persisted (insert failed, or sync failed and the
	// booking was compensated away).
	BookingFailed BookingOutcome = "failed"
)

type BookingSyncResult struct {
	Outcome    BookingOutcome `json:"outcome"`
	Booking    models.Booking `json:"booking"`
	SyncError  string         `json:"syncError,omitempty"`
	RolledBack bool           `json:"rolledBack,omitempty"`
}

type CreateBookingInput struct {
	TripID         int64                `json:"tripId"`
	SeatNumber     string               `json:"seatNumber"`
	PassengerName  string               `json:"passengerName"`
	PassengerPhone string               `json:"passengerPhone"`
	Status         models.BookingStatus `json:"status"`
	PriceFCFA      int64                `json:"priceFcfa"`
}

type BookingService struct {
	TripsRepo    repositories.TripsRepository
	BookingsRepo repositories.BookingsRepository
	SeatMaps     SeatMapService
	RequestID    string
}

// CreateWithSeatSync inserts one booking row and immediately marks its seat
// unavailable. The two writes are not one transaction; the result type plus
// the rollback flag let the caller pick a compensation policy instead of
// losing the partial state silently.
func (s BookingService) CreateWithSeatSync(ctx context.Context, in CreateBookingInput, rollbackOnSyncFailure bool) (BookingSyncResult, error) {
	result := BookingSyncResult{Outcome: BookingFailed}

	in.SeatNumber = strings.TrimSpace(in.SeatNumber)
	in.PassengerName = strings.TrimSpace(in.PassengerName)
	if in.TripID <= 0 {
		return result, domain.ValidationError{Field: "trip_id", Msg: "invalid trip id"}
	}
	if in.SeatNumber == "" {
		return result, domain.ValidationError{Field: "seat_number", Msg: "seat number is required"}
	}
	if in.PassengerName == "" {
		return result, domain.ValidationError{Field: "passenger_name", Msg: "passenger name is required"}
	}
	status := in.Status
	if status == "" {
		status = models.BookingPending
	}
	if !status.Active() {
		return result, domain.ValidationError{Field: "status", Msg: "a new booking must be confirmed or pending"}
	}

	trip, err := s.TripsRepo.GetByID(ctx, in.TripID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return result, domain.NotFoundError{Resource: "trip", Err: err}
		}
		return result, domain.InternalError{Msg: "failed to load trip", Err: err}
	}
	price := in.PriceFCFA
	if price <= 0 {
		price = trip.PriceFCFA
	}

	booking := models.Booking{
		TripID:         in.TripID,
		SeatNumber:     in.SeatNumber,
		PassengerName:  in.PassengerName,
		PassengerPhone: strings.TrimSpace(in.PassengerPhone),
		BookingStatus:  status,
		PaymentStatus:  models.PaymentUnpaid,
		PriceFCFA:      price,
		Reference:      NewBookingReference(),
	}

	id, err := s.BookingsRepo.Insert(ctx, booking)
	if err != nil {
		if repositories.IsDuplicateKey(err) {
			return result, domain.ConflictError{Resource: "booking", Msg: "seat is already booked for this trip", Err: err}
		}
		return result, domain.InternalError{Msg: "failed to insert booking", Err: err}
	}
	booking.ID = id
	result.Booking = booking

	syncErr := s.seatMaps().SyncSeat(ctx, in.TripID, in.SeatNumber, true)
	if syncErr == nil {
		result.Outcome = BookingApplied
		utils.LogEvent(s.RequestID, "booking", "create",
			fmt.Sprintf("booking_id=%d trip_id=%d seat=%s ref=%s", id, in.TripID, in.SeatNumber, booking.Reference))
		return result, nil
	}

	utils.LogEvent(s.RequestID, "booking", "seat_sync_failed",
		fmt.Sprintf("booking_id=%d trip_id=%d seat=%s err=%v", id, in.TripID, in.SeatNumber, syncErr))

	if rollbackOnSyncFailure {
		if delErr := s.BookingsRepo.Delete(ctx, id); delErr != nil {
			// Compensation itself failed; the partial state stands and the
			// caller gets both errors to act on.
			result.Outcome = BookingSyncFailed
			result.SyncError = fmt.Sprintf("sync: %v; rollback: %v", syncErr, delErr)
			return result, nil
		}
		result.Outcome = BookingFailed
		result.Booking = models.Booking{}
		result.RolledBack = true
		return result, domain.InternalError{Msg: "seat sync failed; booking rolled back", Err: syncErr}
	}

	result.Outcome = BookingSyncFailed
	result.SyncError = syncErr.Error()
	return result, nil
}

// Cancel releases the booking's seat. A seat map that was never initialized is
// tolerated: there is no seat row to free.
func (s BookingService) Cancel(ctx context.Context, bookingID int64) (models.Booking, error) {
	booking, err := s.BookingsRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, domain.NotFoundError{Resource: "booking", Err: err}
		}
		return models.Booking{}, domain.InternalError{Msg: "failed to load booking", Err: err}
	}
	if booking.BookingStatus == models.BookingCancelled {
		return booking, nil
	}

	if err := s.BookingsRepo.UpdateStatus(ctx, bookingID, models.BookingCancelled); err != nil {
		return booking, domain.InternalError{Msg: "failed to cancel booking", Err: err}
	}
	booking.BookingStatus = models.BookingCancelled

	if err := s.seatMaps().SyncSeat(ctx, booking.TripID, booking.SeatNumber, false); err != nil && !domain.IsNotFound(err) {
		return booking, err
	}

	utils.LogEvent(s.RequestID, "booking", "cancel",
		fmt.Sprintf("booking_id=%d trip_id=%d seat=%s", bookingID, booking.TripID, booking.SeatNumber))
	return booking, nil
}

func (s BookingService) seatMaps() SeatMapService {
	sm := s.SeatMaps
	if sm.RequestID == "" {
		sm.RequestID = s.RequestID
	}
	return sm
}

// NewBookingReference returns a short human-quotable code, e.g. BK-3F9A21C4.
func NewBookingReference() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "BK-" + strings.ToUpper(raw[:8])
}

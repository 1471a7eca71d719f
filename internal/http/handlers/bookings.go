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

func bookingService(c *gin.Context, env intconfig.Env) services.BookingService {
	return services.BookingService{
		TripsRepo:    repositories.TripsRepository{},
		BookingsRepo: repositories.BookingsRepository{},
		SeatMaps:     seatMapService(c, env),
		RequestID:    middleware.GetRequestID(c),
	}
}

// scopedTrip loads the trip and hides it when it belongs to another agency.
func scopedTrip(c *gin.Context, tripID int64) (models.Trip, bool) {
	agencyID, ok := AgencyScope(c)
	if !ok {
		return models.Trip{}, false
	}
	repo := repositories.TripsRepository{}
	trip, err := repo.GetByID(c.Request.Context(), tripID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondError(c, http.StatusNotFound, "trip not found", nil)
			return models.Trip{}, false
		}
		RespondError(c, http.StatusInternalServerError, "failed to load trip", err)
		return models.Trip{}, false
	}
	if trip.AgencyID != agencyID {
		RespondError(c, http.StatusNotFound, "trip not found", nil)
		return models.Trip{}, false
	}
	return trip, true
}

type bookingPayload struct {
	SeatNumber     string `json:"seatNumber" binding:"required"`
	PassengerName  string `json:"passengerName" binding:"required"`
	PassengerPhone string `json:"passengerPhone"`
	Status         string `json:"status"`
	PriceFCFA      int64  `json:"priceFcfa"`

	// When seat sync fails the booking is deleted again unless the caller
	// opts into keeping it for manual repair.
	KeepOnSyncFailure bool `json:"keepOnSyncFailure"`
}

func CreateBooking(env intconfig.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		tripID, ok := IDParam(c, "id")
		if !ok {
			return
		}
		if _, ok := scopedTrip(c, tripID); !ok {
			return
		}
		var in bookingPayload
		if !BindJSONOrError(c, &in) {
			return
		}

		result, err := bookingService(c, env).CreateWithSeatSync(c.Request.Context(), services.CreateBookingInput{
			TripID:         tripID,
			SeatNumber:     in.SeatNumber,
			PassengerName:  in.PassengerName,
			PassengerPhone: in.PassengerPhone,
			Status:         models.BookingStatus(in.Status),
			PriceFCFA:      in.PriceFCFA,
		}, !in.KeepOnSyncFailure)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusCreated, result)
	}
}

func GetTripBookings(c *gin.Context) {
	tripID, ok := IDParam(c, "id")
	if !ok {
		return
	}
	if _, ok := scopedTrip(c, tripID); !ok {
		return
	}
	repo := repositories.BookingsRepository{}
	bookings, err := repo.ListByTrip(c.Request.Context(), tripID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list bookings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": bookings, "count": len(bookings)})
}

func GetBookingByID(c *gin.Context) {
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	repo := repositories.BookingsRepository{}
	booking, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondError(c, http.StatusNotFound, "booking not found", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to load booking", err)
		return
	}
	if _, ok := scopedTrip(c, booking.TripID); !ok {
		return
	}
	c.JSON(http.StatusOK, booking)
}

func CancelBooking(env intconfig.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IDParam(c, "id")
		if !ok {
			return
		}
		repo := repositories.BookingsRepository{}
		booking, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				RespondError(c, http.StatusNotFound, "booking not found", nil)
				return
			}
			RespondError(c, http.StatusInternalServerError, "failed to load booking", err)
			return
		}
		if _, ok := scopedTrip(c, booking.TripID); !ok {
			return
		}

		cancelled, err := bookingService(c, env).Cancel(c.Request.Context(), id)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, cancelled)
	}
}

func UpdateBookingPayment(c *gin.Context) {
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	var in struct {
		PaymentStatus string `json:"paymentStatus" binding:"required"`
	}
	if !BindJSONOrError(c, &in) {
		return
	}
	status := models.PaymentStatus(in.PaymentStatus)
	if status != models.PaymentPaid && status != models.PaymentUnpaid {
		RespondError(c, http.StatusBadRequest, "paymentStatus must be paid or unpaid", nil)
		return
	}

	repo := repositories.BookingsRepository{}
	booking, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondError(c, http.StatusNotFound, "booking not found", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to load booking", err)
		return
	}
	if _, ok := scopedTrip(c, booking.TripID); !ok {
		return
	}

	if err := repo.UpdatePaymentStatus(c.Request.Context(), id, status); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to update payment status", err)
		return
	}
	booking.PaymentStatus = status
	c.JSON(http.StatusOK, booking)
}

// GetBookingETicket streams the booking's PDF ticket.
func GetBookingETicket(c *gin.Context) {
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	repo := repositories.BookingsRepository{}
	booking, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondError(c, http.StatusNotFound, "booking not found", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to load booking", err)
		return
	}
	if _, ok := scopedTrip(c, booking.TripID); !ok {
		return
	}

	svc := services.TicketService{
		BookingsRepo: repo,
		TripsRepo:    repositories.TripsRepository{},
		RequestID:    middleware.GetRequestID(c),
	}
	pdf, filename, err := svc.GenerateETicket(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

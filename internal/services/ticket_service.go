package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"busagency/internal/domain"
	"busagency/internal/domain/models"
	"busagency/internal/repositories"
	"busagency/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// TicketService renders the e-ticket PDF handed to a passenger at boarding.
type TicketService struct {
	BookingsRepo repositories.BookingsRepository
	TripsRepo    repositories.TripsRepository
	RequestID    string
}

func (s TicketService) GenerateETicket(ctx context.Context, bookingID int64) ([]byte, string, error) {
	booking, err := s.BookingsRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", domain.NotFoundError{Resource: "booking", Err: err}
		}
		return nil, "", domain.InternalError{Msg: "failed to load booking", Err: err}
	}
	if booking.BookingStatus == models.BookingCancelled {
		return nil, "", domain.ValidationError{Field: "booking", Msg: "cannot issue a ticket for a cancelled booking"}
	}

	trip, err := s.TripsRepo.GetByID(ctx, booking.TripID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, "", domain.InternalError{Msg: "failed to load trip", Err: err}
	}

	utils.LogEvent(s.RequestID, "ticket", "generate_eticket",
		fmt.Sprintf("booking_id=%d ref=%s", bookingID, booking.Reference))
	return buildETicketPDF(booking, trip)
}

func buildETicketPDF(b models.Booking, t models.Trip) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	seatClass := "Standard"
	if t.BusIsVIP {
		seatClass = "VIP"
	}

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Passenger      : %s", safe(b.PassengerName, "-")),
		fmt.Sprintf("Phone          : %s", safe(b.PassengerPhone, "-")),
		fmt.Sprintf("Seat           : %s (%s)", safe(b.SeatNumber, "-"), seatClass),
		fmt.Sprintf("Route          : %s -> %s", safe(t.DepartureCity, "-"), safe(t.ArrivalCity, "-")),
		fmt.Sprintf("Departure      : %s", safe(t.DepartureAt, "-")),
		fmt.Sprintf("Bus            : %s", safe(t.BusPlate, "-")),
		fmt.Sprintf("Price          : %s", utils.FormatFCFA(b.PriceFCFA)),
		fmt.Sprintf("Payment        : %s", safe(string(b.PaymentStatus), "-")),
		fmt.Sprintf("Reference      : %s", safe(b.Reference, "-")),
		fmt.Sprintf("Issued         : %s", time.Now().Format("2006-01-02 15:04")),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "This e-ticket is valid for one passenger on one seat. Please present it at departure.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("ETICKET_%s.pdf", safeFilenamePart(b.Reference))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}

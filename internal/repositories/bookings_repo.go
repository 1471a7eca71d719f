package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	intconfig "busagency/internal/config"
	"busagency/internal/domain/models"
)

type BookingsRepository struct {
	DB *sql.DB
}

func (r BookingsRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const bookingColumns = `id, trip_id, seat_number, passenger_name, passenger_phone,
	booking_status, payment_status, price_fcfa, reference,
	COALESCE(DATE_FORMAT(created_at, '%Y-%m-%d %H:%i:%s'), '')`

func scanBooking(row interface{ Scan(...any) error }) (models.Booking, error) {
	var b models.Booking
	var status, payment string
	err := row.Scan(
		&b.ID,
		&b.TripID,
		&b.SeatNumber,
		&b.PassengerName,
		&b.PassengerPhone,
		&status,
		&payment,
		&b.PriceFCFA,
		&b.Reference,
		&b.CreatedAt,
	)
	if err != nil {
		return b, err
	}
	b.BookingStatus = models.BookingStatus(status)
	b.PaymentStatus = models.PaymentStatus(payment)
	return b, nil
}

// ActiveSeatNumbers returns seat numbers held by confirmed or pending bookings.
func (r BookingsRepository) ActiveSeatNumbers(ctx context.Context, tripID int64) ([]string, error) {
	if tripID <= 0 {
		return nil, fmt.Errorf("invalid trip id")
	}
	rows, err := r.db().QueryContext(ctx, `
		SELECT seat_number FROM bookings
		WHERE trip_id=? AND booking_status IN ('confirmed','pending')
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var seat string
		if err := rows.Scan(&seat); err != nil {
			return out, err
		}
		seat = strings.TrimSpace(seat)
		if seat != "" {
			out = append(out, seat)
		}
	}
	return out, rows.Err()
}

func (r BookingsRepository) Insert(ctx context.Context, b models.Booking) (int64, error) {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO bookings
			(trip_id, seat_number, passenger_name, passenger_phone,
			 booking_status, payment_status, price_fcfa, reference)
		VALUES (?,?,?,?,?,?,?,?)
	`,
		b.TripID,
		strings.TrimSpace(b.SeatNumber),
		strings.TrimSpace(b.PassengerName),
		strings.TrimSpace(b.PassengerPhone),
		string(b.BookingStatus),
		string(b.PaymentStatus),
		b.PriceFCFA,
		b.Reference,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Delete removes a booking row; used as saga compensation when the seat sync
// after an insert fails and the caller asked for rollback.
func (r BookingsRepository) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("invalid booking id")
	}
	_, err := r.db().ExecContext(ctx, `DELETE FROM bookings WHERE id=?`, id)
	return err
}

func (r BookingsRepository) GetByID(ctx context.Context, id int64) (models.Booking, error) {
	if id <= 0 {
		return models.Booking{}, sql.ErrNoRows
	}
	row := r.db().QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id=? LIMIT 1`, id)
	return scanBooking(row)
}

func (r BookingsRepository) GetByReference(ctx context.Context, reference string) (models.Booking, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return models.Booking{}, sql.ErrNoRows
	}
	row := r.db().QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE reference=? LIMIT 1`, reference)
	return scanBooking(row)
}

func (r BookingsRepository) ListByTrip(ctx context.Context, tripID int64) ([]models.Booking, error) {
	if tripID <= 0 {
		return nil, fmt.Errorf("invalid trip id")
	}
	rows, err := r.db().QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE trip_id=? ORDER BY id ASC`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return out, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r BookingsRepository) UpdateStatus(ctx context.Context, id int64, status models.BookingStatus) error {
	if id <= 0 {
		return fmt.Errorf("invalid booking id")
	}
	if !status.Valid() {
		return fmt.Errorf("invalid booking status %q", status)
	}
	_, err := r.db().ExecContext(ctx,
		`UPDATE bookings SET booking_status=? WHERE id=?`, string(status), id)
	return err
}

func (r BookingsRepository) UpdatePaymentStatus(ctx context.Context, id int64, status models.PaymentStatus) error {
	if id <= 0 {
		return fmt.Errorf("invalid booking id")
	}
	_, err := r.db().ExecContext(ctx,
		`UPDATE bookings SET payment_status=? WHERE id=?`, string(status), id)
	return err
}

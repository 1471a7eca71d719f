package services

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"busagency/internal/domain"
	"busagency/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

func newBookingService(db *sql.DB) BookingService {
	return BookingService{
		TripsRepo:    repositories.TripsRepository{DB: db},
		BookingsRepo: repositories.BookingsRepository{DB: db},
		SeatMaps:     newSeatMapService(db),
	}
}

func expectTripLookup(mock sqlmock.Sqlmock, tripID int64, price int64) {
	mock.ExpectQuery("SELECT t\\.id, t\\.agency_id").WithArgs(tripID).
		WillReturnRows(sqlmock.NewRows(tripColumnsForTest).
			AddRow(tripID, 1, 2, 0, "Douala", "Yaounde", "2026-01-01 08:00:00", "", price, true, "CE-123-AB", 4, false))
}

func TestCreateWithSeatSyncApplied(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	expectTripLookup(mock, 7, 5000)
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectQuery("SELECT id, trip_id, seat_number").WithArgs(int64(7), "3").
		WillReturnRows(sqlmock.NewRows(seatMapColumns).
			AddRow(13, 7, "3", 1, 3, "standard", true, 0))
	mock.ExpectExec("UPDATE seat_maps SET is_available=").WithArgs(false, int64(13)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	result, err := newBookingService(db).CreateWithSeatSync(context.Background(), CreateBookingInput{
		TripID:        7,
		SeatNumber:    "3",
		PassengerName: "Alice Fotso",
	}, true)
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if result.Outcome != BookingApplied {
		t.Fatalf("expected applied, got %s", result.Outcome)
	}
	if result.Booking.ID != 42 {
		t.Fatalf("booking id not set, got %d", result.Booking.ID)
	}
	if result.Booking.PriceFCFA != 5000 {
		t.Fatalf("price should fall back to trip price, got %d", result.Booking.PriceFCFA)
	}
	if !strings.HasPrefix(result.Booking.Reference, "BK-") {
		t.Fatalf("reference missing prefix: %q", result.Booking.Reference)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateWithSeatSyncDuplicateSeatConflicts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	expectTripLookup(mock, 7, 5000)
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	_, err = newBookingService(db).CreateWithSeatSync(context.Background(), CreateBookingInput{
		TripID:        7,
		SeatNumber:    "3",
		PassengerName: "Alice Fotso",
	}, true)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict for double-booked seat, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateWithSeatSyncRollsBackOnSyncFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	expectTripLookup(mock, 7, 5000)
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(42, 1))
	// Seat row missing, so the sync step fails.
	mock.ExpectQuery("SELECT id, trip_id, seat_number").WithArgs(int64(7), "3").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("DELETE FROM bookings").WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	result, err := newBookingService(db).CreateWithSeatSync(context.Background(), CreateBookingInput{
		TripID:        7,
		SeatNumber:    "3",
		PassengerName: "Alice Fotso",
	}, true)
	if err == nil {
		t.Fatalf("rolled-back create must return an error")
	}
	if result.Outcome != BookingFailed || !result.RolledBack {
		t.Fatalf("expected failed+rolledBack, got %+v", result)
	}
	if result.Booking.ID != 0 {
		t.Fatalf("rolled-back result must not expose the deleted booking")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateWithSeatSyncKeepsBookingWhenAsked(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	expectTripLookup(mock, 7, 5000)
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectQuery("SELECT id, trip_id, seat_number").WithArgs(int64(7), "3").
		WillReturnError(sql.ErrNoRows)
	// No DELETE: the caller opted out of rollback.

	result, err := newBookingService(db).CreateWithSeatSync(context.Background(), CreateBookingInput{
		TripID:        7,
		SeatNumber:    "3",
		PassengerName: "Alice Fotso",
	}, false)
	if err != nil {
		t.Fatalf("keep policy should not error: %v", err)
	}
	if result.Outcome != BookingSyncFailed {
		t.Fatalf("expected sync_failed, got %s", result.Outcome)
	}
	if result.Booking.ID != 42 || result.SyncError == "" {
		t.Fatalf("kept booking and sync error must both be reported: %+v", result)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelToleratesMissingSeatMap(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	bookingCols := []string{
		"id", "trip_id", "seat_number", "passenger_name", "passenger_phone",
		"booking_status", "payment_status", "price_fcfa", "reference", "created_at",
	}
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=").WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow(42, 7, "3", "Alice Fotso", "699000000", "confirmed", "paid", 5000, "BK-AAAA1111", "2026-01-01 09:00:00"))
	mock.ExpectExec("UPDATE bookings SET booking_status=").WithArgs("cancelled", int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Trip predates seat maps; the release step finds no seat row.
	mock.ExpectQuery("SELECT id, trip_id, seat_number").WithArgs(int64(7), "3").
		WillReturnError(sql.ErrNoRows)

	booking, err := newBookingService(db).Cancel(context.Background(), 42)
	if err != nil {
		t.Fatalf("cancel error: %v", err)
	}
	if !booking.BookingStatus.Valid() || booking.BookingStatus.Active() {
		t.Fatalf("booking should be cancelled, got %s", booking.BookingStatus)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

package services

import (
	"context"
	"database/sql"
	"testing"

	"busagency/internal/domain"
	"busagency/internal/domain/models"
	"busagency/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

var seatMapColumns = []string{
	"id", "trip_id", "seat_number", "position_row", "position_column",
	"seat_type", "is_available", "price_modifier_fcfa",
}

var tripColumnsForTest = []string{
	"id", "agency_id", "bus_id", "driver_id", "departure_city", "arrival_city",
	"departure_at", "arrival_at", "price_fcfa", "is_active",
	"license_plate", "total_seats", "is_vip",
}

func newSeatMapService(db *sql.DB) SeatMapService {
	return SeatMapService{
		TripsRepo:    repositories.TripsRepository{DB: db},
		BookingsRepo: repositories.BookingsRepository{DB: db},
		SeatMapRepo:  repositories.SeatMapRepository{DB: db},
	}
}

func TestInitializeTripGeneratesOneRowPerSeat(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	// No seat rows yet.
	mock.ExpectQuery("SELECT id, trip_id, seat_number").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(seatMapColumns))
	// VIP bus with 4 seats.
	mock.ExpectQuery("SELECT t\\.id, t\\.agency_id").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(tripColumnsForTest).
			AddRow(7, 1, 2, 0, "Douala", "Yaounde", "2026-01-01 08:00:00", "", 5000, true, "CE-123-AB", 4, true))
	// Seat 2 already carries an active booking.
	mock.ExpectQuery("SELECT seat_number FROM bookings").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_number"}).AddRow("2"))
	// One multi-row insert; seat 2 starts unavailable, every seat is vip.
	mock.ExpectExec("INSERT INTO seat_maps").WithArgs(
		int64(7), "1", 1, 1, "vip", true, int64(0),
		int64(7), "2", 1, 2, "vip", false, int64(0),
		int64(7), "3", 1, 3, "vip", true, int64(0),
		int64(7), "4", 1, 4, "vip", true, int64(0),
	).WillReturnResult(sqlmock.NewResult(1, 4))
	// Re-read after insert.
	mock.ExpectQuery("SELECT id, trip_id, seat_number").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(seatMapColumns).
			AddRow(1, 7, "1", 1, 1, "vip", true, 0).
			AddRow(2, 7, "2", 1, 2, "vip", false, 0).
			AddRow(3, 7, "3", 1, 3, "vip", true, 0).
			AddRow(4, 7, "4", 1, 4, "vip", true, 0))

	seats, err := newSeatMapService(db).InitializeTrip(context.Background(), 7)
	if err != nil {
		t.Fatalf("initialize error: %v", err)
	}
	if len(seats) != 4 {
		t.Fatalf("expected 4 seats, got %d", len(seats))
	}
	for _, s := range seats {
		if s.SeatType != models.SeatTypeVIP {
			t.Fatalf("seat %s has type %s, want vip", s.SeatNumber, s.SeatType)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInitializeTripIsIdempotent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	// Existing rows short-circuit everything; no insert may happen.
	mock.ExpectQuery("SELECT id, trip_id, seat_number").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(seatMapColumns).
			AddRow(1, 7, "1", 1, 1, "standard", true, 0).
			AddRow(2, 7, "2", 1, 2, "standard", false, 0))

	seats, err := newSeatMapService(db).InitializeTrip(context.Background(), 7)
	if err != nil {
		t.Fatalf("initialize error: %v", err)
	}
	if len(seats) != 2 {
		t.Fatalf("expected existing 2 seats back, got %d", len(seats))
	}
	if seats[1].IsAvailable {
		t.Fatalf("existing availability must not be touched")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInitializeTripRejectsMissingCapacity(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id, trip_id, seat_number").WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(seatMapColumns))
	mock.ExpectQuery("SELECT t\\.id, t\\.agency_id").WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(tripColumnsForTest).
			AddRow(9, 1, 2, 0, "Douala", "Bafoussam", "2026-01-01 08:00:00", "", 3000, true, "", 0, false))

	_, err = newSeatMapService(db).InitializeTrip(context.Background(), 9)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error for zero capacity, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSyncSeatRefusesToInventSeatRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id, trip_id, seat_number").WithArgs(int64(7), "99").
		WillReturnError(sql.ErrNoRows)

	err = newSeatMapService(db).SyncSeat(context.Background(), 7, "99", true)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not-found for missing seat row, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSyncSeatSkipsWriteWhenAlreadyInSync(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id, trip_id, seat_number").WithArgs(int64(7), "2").
		WillReturnRows(sqlmock.NewRows(seatMapColumns).
			AddRow(12, 7, "2", 1, 2, "standard", false, 0))

	// occupied=true matches is_available=false; no UPDATE expected.
	if err := newSeatMapService(db).SyncSeat(context.Background(), 7, "2", true); err != nil {
		t.Fatalf("sync error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSyncTripRunsInOneTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT seat_number FROM bookings").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_number"}).AddRow("2").AddRow("3"))
	mock.ExpectBegin()
	mock.ExpectExec("SET is_available=0").WithArgs(int64(7), "2", "3").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("SET is_available=1").WithArgs(int64(7), "2", "3").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	if err := newSeatMapService(db).SyncTrip(context.Background(), 7); err != nil {
		t.Fatalf("sync error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSyncTripFreesEverySeatWhenNothingBooked(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT seat_number FROM bookings").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_number"}))
	mock.ExpectBegin()
	mock.ExpectExec("SET is_available=1").WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectCommit()

	if err := newSeatMapService(db).SyncTrip(context.Background(), 7); err != nil {
		t.Fatalf("sync error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestValidateTripReportsEveryDivergence(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id, trip_id, seat_number").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(seatMapColumns).
			AddRow(1, 7, "1", 1, 1, "standard", true, 0).
			AddRow(2, 7, "2", 1, 2, "standard", false, 0).
			AddRow(3, 7, "3", 1, 3, "standard", true, 0).
			AddRow(4, 7, "4", 1, 4, "standard", false, 0))
	mock.ExpectQuery("SELECT seat_number FROM bookings").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_number"}).
			AddRow("2").AddRow("3").AddRow("9"))

	report, err := newSeatMapService(db).ValidateTrip(context.Background(), 7)
	if err != nil {
		t.Fatalf("validate error: %v", err)
	}
	if report.IsConsistent {
		t.Fatalf("report should flag divergence")
	}
	if len(report.SeatsBookedButAvailable) != 1 || report.SeatsBookedButAvailable[0] != "3" {
		t.Fatalf("booked-but-available wrong: %v", report.SeatsBookedButAvailable)
	}
	if len(report.SeatsUnavailableButNotBooked) != 1 || report.SeatsUnavailableButNotBooked[0] != "4" {
		t.Fatalf("unavailable-but-not-booked wrong: %v", report.SeatsUnavailableButNotBooked)
	}
	if len(report.MissingFromSeatMap) != 1 || report.MissingFromSeatMap[0] != "9" {
		t.Fatalf("missing-from-seat-map wrong: %v", report.MissingFromSeatMap)
	}
	if report.SeatCount != 4 || report.ActiveBookingCount != 3 {
		t.Fatalf("counts wrong: %+v", report)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestValidateTripCleanReport(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id, trip_id, seat_number").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(seatMapColumns).
			AddRow(1, 7, "1", 1, 1, "standard", false, 0).
			AddRow(2, 7, "2", 1, 2, "standard", true, 0))
	mock.ExpectQuery("SELECT seat_number FROM bookings").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_number"}).AddRow("1"))

	report, err := newSeatMapService(db).ValidateTrip(context.Background(), 7)
	if err != nil {
		t.Fatalf("validate error: %v", err)
	}
	if !report.IsConsistent {
		t.Fatalf("expected consistent report, got %+v", report)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

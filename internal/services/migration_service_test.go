package services

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"busagency/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMigrationService(db *sql.DB) MigrationService {
	return MigrationService{
		TripsRepo:   repositories.TripsRepository{DB: db},
		SeatMapRepo: repositories.SeatMapRepository{DB: db},
		SeatMaps:    newSeatMapService(db),
	}
}

func TestMigrateAllSkipsInitializedTrips(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id FROM trips WHERE is_active=1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))

	// Trip 1 already has seat rows.
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM seat_maps").WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(40))

	// Trip 2 gets generated and synced.
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM seat_maps").WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT id, trip_id, seat_number").WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(seatMapColumns))
	mock.ExpectQuery("SELECT t\\.id, t\\.agency_id").WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(tripColumnsForTest).
			AddRow(2, 1, 3, 0, "Douala", "Kribi", "2026-01-02 07:00:00", "", 4000, true, "LT-456-CD", 2, false))
	mock.ExpectQuery("SELECT seat_number FROM bookings").WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_number"}))
	mock.ExpectExec("INSERT INTO seat_maps").
		WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectQuery("SELECT id, trip_id, seat_number").WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(seatMapColumns).
			AddRow(1, 2, "1", 1, 1, "standard", true, 0).
			AddRow(2, 2, "2", 1, 2, "standard", true, 0))
	mock.ExpectQuery("SELECT seat_number FROM bookings").WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_number"}))
	mock.ExpectBegin()
	mock.ExpectExec("SET is_available=1").WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	summary, err := newMigrationService(db).MigrateAll(context.Background())
	if err != nil {
		t.Fatalf("migrate error: %v", err)
	}
	if summary.Total != 2 || summary.Skipped != 1 || summary.Migrated != 1 || summary.Errors != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMigrateAllContainsFailures(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id FROM trips WHERE is_active=1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5).AddRow(6))

	// Trip 5 blows up; trip 6 must still be processed.
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM seat_maps").WithArgs(int64(5)).
		WillReturnError(fmt.Errorf("connection reset"))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM seat_maps").WithArgs(int64(6)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	summary, err := newMigrationService(db).MigrateAll(context.Background())
	if err != nil {
		t.Fatalf("batch must survive per-trip failures, got %v", err)
	}
	if summary.Errors != 1 || summary.Skipped != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(summary.FailedTripIDs) != 1 || summary.FailedTripIDs[0] != 5 {
		t.Fatalf("failed trip ids wrong: %v", summary.FailedTripIDs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMigrationStatusPercentages(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM trips WHERE is_active=1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectQuery("SELECT COUNT\\(DISTINCT trip_id\\) FROM seat_maps").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	status, err := newMigrationService(db).Status(context.Background())
	if err != nil {
		t.Fatalf("status error: %v", err)
	}
	if status.PercentComplete != 50 || status.Complete {
		t.Fatalf("unexpected status: %+v", status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMigrationStatusNoTripsIsComplete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM trips WHERE is_active=1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT COUNT\\(DISTINCT trip_id\\) FROM seat_maps").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	status, err := newMigrationService(db).Status(context.Background())
	if err != nil {
		t.Fatalf("status error: %v", err)
	}
	if !status.Complete || status.PercentComplete != 100 {
		t.Fatalf("empty fleet should read complete: %+v", status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

package repositories

import (
	"context"
	"testing"

	"busagency/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

func TestBulkInsertNoEntriesIsNoop(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	repo := SeatMapRepository{DB: db}
	if err := repo.BulkInsert(context.Background(), nil); err != nil {
		t.Fatalf("empty bulk insert should be a no-op: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBulkInsertSingleStatement(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO seat_maps").WithArgs(
		int64(7), "1", 1, 1, "standard", true, int64(0),
		int64(7), "2", 1, 2, "standard", false, int64(0),
	).WillReturnResult(sqlmock.NewResult(1, 2))

	repo := SeatMapRepository{DB: db}
	err = repo.BulkInsert(context.Background(), []models.SeatMapEntry{
		{TripID: 7, SeatNumber: "1", PositionRow: 1, PositionColumn: 1, SeatType: models.SeatTypeStandard, IsAvailable: true},
		{TripID: 7, SeatNumber: "2", PositionRow: 1, PositionColumn: 2, SeatType: models.SeatTypeStandard, IsAvailable: false},
	})
	if err != nil {
		t.Fatalf("bulk insert error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSyncAvailabilityRollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("SET is_available=0").WithArgs(int64(7), "2").
		WillReturnError(&mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"})
	mock.ExpectRollback()

	repo := SeatMapRepository{DB: db}
	if err := repo.SyncAvailability(context.Background(), 7, []string{"2"}); err == nil {
		t.Fatalf("expected error to surface from failed update")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestIsDuplicateKey(t *testing.T) {
	if !IsDuplicateKey(&mysql.MySQLError{Number: 1062}) {
		t.Fatalf("1062 should read as duplicate key")
	}
	if IsDuplicateKey(&mysql.MySQLError{Number: 1205}) {
		t.Fatalf("1205 is not a duplicate key")
	}
	if IsDuplicateKey(nil) {
		t.Fatalf("nil is not a duplicate key")
	}
}

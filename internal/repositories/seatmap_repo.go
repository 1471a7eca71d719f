package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	intconfig "busagency/internal/config"
	"busagency/internal/domain/models"
)

type SeatMapRepository struct {
	DB *sql.DB
}

func (r SeatMapRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r SeatMapRepository) CountByTrip(ctx context.Context, tripID int64) (int, error) {
	if tripID <= 0 {
		return 0, fmt.Errorf("invalid trip id")
	}
	var n int
	err := r.db().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM seat_maps WHERE trip_id=?`, tripID).Scan(&n)
	return n, err
}

// ListByTrip returns all seat rows for a trip in seat-number order.
func (r SeatMapRepository) ListByTrip(ctx context.Context, tripID int64) ([]models.SeatMapEntry, error) {
	if tripID <= 0 {
		return nil, fmt.Errorf("invalid trip id")
	}
	rows, err := r.db().QueryContext(ctx, `
		SELECT id, trip_id, seat_number, position_row, position_column,
		       seat_type, is_available, price_modifier_fcfa
		FROM seat_maps
		WHERE trip_id=?
		ORDER BY CAST(seat_number AS UNSIGNED) ASC
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.SeatMapEntry{}
	for rows.Next() {
		var e models.SeatMapEntry
		var seatType string
		if err := rows.Scan(
			&e.ID,
			&e.TripID,
			&e.SeatNumber,
			&e.PositionRow,
			&e.PositionColumn,
			&seatType,
			&e.IsAvailable,
			&e.PriceModifierFCFA,
		); err != nil {
			return out, err
		}
		e.SeatType = models.SeatType(seatType)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r SeatMapRepository) GetByTripAndSeat(ctx context.Context, tripID int64, seatNumber string) (models.SeatMapEntry, error) {
	var e models.SeatMapEntry
	seatNumber = strings.TrimSpace(seatNumber)
	if tripID <= 0 || seatNumber == "" {
		return e, sql.ErrNoRows
	}
	var seatType string
	err := r.db().QueryRowContext(ctx, `
		SELECT id, trip_id, seat_number, position_row, position_column,
		       seat_type, is_available, price_modifier_fcfa
		FROM seat_maps
		WHERE trip_id=? AND seat_number=?
		LIMIT 1
	`, tripID, seatNumber).Scan(
		&e.ID,
		&e.TripID,
		&e.SeatNumber,
		&e.PositionRow,
		&e.PositionColumn,
		&seatType,
		&e.IsAvailable,
		&e.PriceModifierFCFA,
	)
	if err != nil {
		return e, err
	}
	e.SeatType = models.SeatType(seatType)
	return e, nil
}

// BulkInsert writes all entries in a single multi-row INSERT so concurrent
// double-initialization surfaces as one duplicate-key error, never a partial set.
func (r SeatMapRepository) BulkInsert(ctx context.Context, entries []models.SeatMapEntry) error {
	if len(entries) == 0 {
		return nil
	}
	placeholders := make([]string, 0, len(entries))
	args := make([]any, 0, len(entries)*7)
	for _, e := range entries {
		placeholders = append(placeholders, "(?,?,?,?,?,?,?)")
		args = append(args,
			e.TripID,
			e.SeatNumber,
			e.PositionRow,
			e.PositionColumn,
			string(e.SeatType),
			e.IsAvailable,
			e.PriceModifierFCFA,
		)
	}
	stmt := `INSERT INTO seat_maps
		(trip_id, seat_number, position_row, position_column, seat_type, is_available, price_modifier_fcfa)
		VALUES ` + strings.Join(placeholders, ",")
	_, err := r.db().ExecContext(ctx, stmt, args...)
	return err
}

// SetAvailabilityByID updates only is_available on an existing seat row.
func (r SeatMapRepository) SetAvailabilityByID(ctx context.Context, id int64, available bool) error {
	if id <= 0 {
		return fmt.Errorf("invalid seat id")
	}
	_, err := r.db().ExecContext(ctx,
		`UPDATE seat_maps SET is_available=? WHERE id=?`, available, id)
	return err
}

// SyncAvailability overwrites is_available for every seat of the trip from the
// booked set. Both statements run in one transaction so no reader observes the
// halfway state between "mark unavailable" and "mark available".
func (r SeatMapRepository) SyncAvailability(ctx context.Context, tripID int64, bookedSeats []string) error {
	if tripID <= 0 {
		return fmt.Errorf("invalid trip id")
	}

	tx, err := r.db().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if len(bookedSeats) == 0 {
		if _, err := tx.ExecContext(ctx,
			`UPDATE seat_maps SET is_available=1 WHERE trip_id=?`, tripID); err != nil {
			return err
		}
		return tx.Commit()
	}

	in := strings.TrimSuffix(strings.Repeat("?,", len(bookedSeats)), ",")
	args := make([]any, 0, len(bookedSeats)+1)
	args = append(args, tripID)
	for _, s := range bookedSeats {
		args = append(args, strings.TrimSpace(s))
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE seat_maps SET is_available=0 WHERE trip_id=? AND seat_number IN (`+in+`)`,
		args...); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE seat_maps SET is_available=1 WHERE trip_id=? AND seat_number NOT IN (`+in+`)`,
		args...); err != nil {
		return err
	}
	return tx.Commit()
}

// DistinctTripCount counts trips that have at least one seat row.
func (r SeatMapRepository) DistinctTripCount(ctx context.Context) (int, error) {
	var n int
	err := r.db().QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT trip_id) FROM seat_maps`).Scan(&n)
	return n, err
}

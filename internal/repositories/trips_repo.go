package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	intconfig "busagency/internal/config"
	intdb "busagency/internal/db"
	"busagency/internal/domain/models"
)

type TripsRepository struct {
	DB *sql.DB
}

func (r TripsRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const tripColumns = `t.id, t.agency_id, t.bus_id, COALESCE(t.driver_id,0),
	t.departure_city, t.arrival_city,
	COALESCE(DATE_FORMAT(t.departure_at, '%Y-%m-%d %H:%i:%s'), ''),
	COALESCE(DATE_FORMAT(t.arrival_at, '%Y-%m-%d %H:%i:%s'), ''),
	t.price_fcfa, t.is_active,
	COALESCE(b.license_plate,''), COALESCE(b.total_seats,0), COALESCE(b.is_vip,0)`

const tripFrom = ` FROM trips t LEFT JOIN buses b ON b.id = t.bus_id `

func scanTrip(row interface{ Scan(...any) error }) (models.Trip, error) {
	var t models.Trip
	err := row.Scan(
		&t.ID,
		&t.AgencyID,
		&t.BusID,
		&t.DriverID,
		&t.DepartureCity,
		&t.ArrivalCity,
		&t.DepartureAt,
		&t.ArrivalAt,
		&t.PriceFCFA,
		&t.IsActive,
		&t.BusPlate,
		&t.BusTotalSeats,
		&t.BusIsVIP,
	)
	return t, err
}

// GetByID loads a trip with its bus capacity and type joined in.
func (r TripsRepository) GetByID(ctx context.Context, id int64) (models.Trip, error) {
	if id <= 0 {
		return models.Trip{}, sql.ErrNoRows
	}
	row := r.db().QueryRowContext(ctx,
		`SELECT `+tripColumns+tripFrom+`WHERE t.id=? LIMIT 1`, id)
	return scanTrip(row)
}

func (r TripsRepository) ListByAgency(ctx context.Context, agencyID int64, activeOnly bool) ([]models.Trip, error) {
	if agencyID <= 0 {
		return nil, fmt.Errorf("invalid agency id")
	}
	query := `SELECT ` + tripColumns + tripFrom + `WHERE t.agency_id=?`
	if activeOnly {
		query += ` AND t.is_active=1`
	}
	query += ` ORDER BY t.departure_at ASC, t.id ASC`

	rows, err := r.db().QueryContext(ctx, query, agencyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return out, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListActiveIDs returns ids of every active trip, oldest first. The migration
// driver walks this list.
func (r TripsRepository) ListActiveIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db().QueryContext(ctx,
		`SELECT id FROM trips WHERE is_active=1 ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return out, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r TripsRepository) CountActive(ctx context.Context) (int, error) {
	var n int
	err := r.db().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM trips WHERE is_active=1`).Scan(&n)
	return n, err
}

func (r TripsRepository) Insert(ctx context.Context, t models.Trip) (int64, error) {
	var driver any
	if t.DriverID > 0 {
		driver = t.DriverID
	}
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO trips
			(agency_id, bus_id, driver_id, departure_city, arrival_city,
			 departure_at, arrival_at, price_fcfa, is_active)
		VALUES (?,?,?,?,?,?,?,?,1)
	`,
		t.AgencyID,
		t.BusID,
		driver,
		strings.TrimSpace(t.DepartureCity),
		strings.TrimSpace(t.ArrivalCity),
		t.DepartureAt,
		intdb.NullIfEmpty(strings.TrimSpace(t.ArrivalAt)),
		t.PriceFCFA,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r TripsRepository) Update(ctx context.Context, t models.Trip) error {
	if t.ID <= 0 {
		return fmt.Errorf("invalid trip id")
	}
	var driver any
	if t.DriverID > 0 {
		driver = t.DriverID
	}
	_, err := r.db().ExecContext(ctx, `
		UPDATE trips SET
			bus_id=?, driver_id=?, departure_city=?, arrival_city=?,
			departure_at=?, arrival_at=?, price_fcfa=?
		WHERE id=?
	`,
		t.BusID,
		driver,
		strings.TrimSpace(t.DepartureCity),
		strings.TrimSpace(t.ArrivalCity),
		t.DepartureAt,
		intdb.NullIfEmpty(strings.TrimSpace(t.ArrivalAt)),
		t.PriceFCFA,
		t.ID,
	)
	return err
}

// SetActive toggles the trip; seat rows are kept (cascade only on hard delete).
func (r TripsRepository) SetActive(ctx context.Context, id int64, active bool) error {
	if id <= 0 {
		return fmt.Errorf("invalid trip id")
	}
	_, err := r.db().ExecContext(ctx,
		`UPDATE trips SET is_active=? WHERE id=?`, active, id)
	return err
}

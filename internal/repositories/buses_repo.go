package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	intconfig "busagency/internal/config"
	"busagency/internal/domain/models"
)

type BusesRepository struct {
	DB *sql.DB
}

func (r BusesRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func scanBus(row interface{ Scan(...any) error }) (models.Bus, error) {
	var b models.Bus
	err := row.Scan(
		&b.ID,
		&b.AgencyID,
		&b.LicensePlate,
		&b.TotalSeats,
		&b.IsVIP,
		&b.IsActive,
	)
	return b, err
}

func (r BusesRepository) GetByID(ctx context.Context, id int64) (models.Bus, error) {
	if id <= 0 {
		return models.Bus{}, sql.ErrNoRows
	}
	row := r.db().QueryRowContext(ctx, `
		SELECT id, agency_id, license_plate, total_seats, is_vip, is_active
		FROM buses WHERE id=? LIMIT 1
	`, id)
	return scanBus(row)
}

func (r BusesRepository) ListByAgency(ctx context.Context, agencyID int64) ([]models.Bus, error) {
	if agencyID <= 0 {
		return nil, fmt.Errorf("invalid agency id")
	}
	rows, err := r.db().QueryContext(ctx, `
		SELECT id, agency_id, license_plate, total_seats, is_vip, is_active
		FROM buses WHERE agency_id=? ORDER BY id ASC
	`, agencyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Bus{}
	for rows.Next() {
		b, err := scanBus(rows)
		if err != nil {
			return out, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r BusesRepository) Insert(ctx context.Context, b models.Bus) (int64, error) {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO buses (agency_id, license_plate, total_seats, is_vip, is_active)
		VALUES (?,?,?,?,1)
	`,
		b.AgencyID,
		strings.ToUpper(strings.TrimSpace(b.LicensePlate)),
		b.TotalSeats,
		b.IsVIP,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r BusesRepository) Update(ctx context.Context, b models.Bus) error {
	if b.ID <= 0 {
		return fmt.Errorf("invalid bus id")
	}
	_, err := r.db().ExecContext(ctx, `
		UPDATE buses SET license_plate=?, total_seats=?, is_vip=?, is_active=?
		WHERE id=?
	`,
		strings.ToUpper(strings.TrimSpace(b.LicensePlate)),
		b.TotalSeats,
		b.IsVIP,
		b.IsActive,
		b.ID,
	)
	return err
}

func (r BusesRepository) SetActive(ctx context.Context, id int64, active bool) error {
	if id <= 0 {
		return fmt.Errorf("invalid bus id")
	}
	_, err := r.db().ExecContext(ctx,
		`UPDATE buses SET is_active=? WHERE id=?`, active, id)
	return err
}

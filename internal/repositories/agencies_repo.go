package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	intconfig "busagency/internal/config"
	"busagency/internal/domain/models"
)

type AgenciesRepository struct {
	DB *sql.DB
}

func (r AgenciesRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func scanAgency(row interface{ Scan(...any) error }) (models.Agency, error) {
	var a models.Agency
	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Slug,
		&a.ContactPhone,
		&a.ContactEmail,
		&a.IsActive,
	)
	return a, err
}

func (r AgenciesRepository) GetByID(ctx context.Context, id int64) (models.Agency, error) {
	if id <= 0 {
		return models.Agency{}, sql.ErrNoRows
	}
	row := r.db().QueryRowContext(ctx, `
		SELECT id, name, slug, COALESCE(contact_phone,''), COALESCE(contact_email,''), is_active
		FROM agencies WHERE id=? LIMIT 1
	`, id)
	return scanAgency(row)
}

func (r AgenciesRepository) List(ctx context.Context) ([]models.Agency, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT id, name, slug, COALESCE(contact_phone,''), COALESCE(contact_email,''), is_active
		FROM agencies ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Agency{}
	for rows.Next() {
		a, err := scanAgency(rows)
		if err != nil {
			return out, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r AgenciesRepository) Insert(ctx context.Context, a models.Agency) (int64, error) {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO agencies (name, slug, contact_phone, contact_email, is_active)
		VALUES (?,?,?,?,1)
	`,
		strings.TrimSpace(a.Name),
		strings.ToLower(strings.TrimSpace(a.Slug)),
		strings.TrimSpace(a.ContactPhone),
		strings.TrimSpace(a.ContactEmail),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r AgenciesRepository) Update(ctx context.Context, a models.Agency) error {
	if a.ID <= 0 {
		return fmt.Errorf("invalid agency id")
	}
	_, err := r.db().ExecContext(ctx, `
		UPDATE agencies SET name=?, contact_phone=?, contact_email=?, is_active=?
		WHERE id=?
	`,
		strings.TrimSpace(a.Name),
		strings.TrimSpace(a.ContactPhone),
		strings.TrimSpace(a.ContactEmail),
		a.IsActive,
		a.ID,
	)
	return err
}

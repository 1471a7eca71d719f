package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	intconfig "busagency/internal/config"
	"busagency/internal/domain/models"
)

type UsersRepository struct {
	DB *sql.DB
}

func (r UsersRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var u models.User
	var role string
	err := row.Scan(
		&u.ID,
		&u.AgencyID,
		&u.FullName,
		&u.Email,
		&u.Phone,
		&u.PasswordHash,
		&role,
		&u.IsActive,
	)
	if err != nil {
		return u, err
	}
	u.Role = models.Role(role)
	return u, nil
}

const userColumns = `id, COALESCE(agency_id,0), full_name, email, COALESCE(phone,''),
	password_hash, role, is_active`

func (r UsersRepository) GetByID(ctx context.Context, id int64) (models.User, error) {
	if id <= 0 {
		return models.User{}, sql.ErrNoRows
	}
	row := r.db().QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id=? LIMIT 1`, id)
	return scanUser(row)
}

func (r UsersRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return models.User{}, sql.ErrNoRows
	}
	row := r.db().QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email=? LIMIT 1`, email)
	return scanUser(row)
}

func (r UsersRepository) ListByAgency(ctx context.Context, agencyID int64) ([]models.User, error) {
	if agencyID <= 0 {
		return nil, fmt.Errorf("invalid agency id")
	}
	rows, err := r.db().QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE agency_id=? ORDER BY id ASC`, agencyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return out, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r UsersRepository) Insert(ctx context.Context, u models.User) (int64, error) {
	var agency any
	if u.AgencyID > 0 {
		agency = u.AgencyID
	}
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO users (agency_id, full_name, email, phone, password_hash, role, is_active)
		VALUES (?,?,?,?,?,?,1)
	`,
		agency,
		strings.TrimSpace(u.FullName),
		strings.ToLower(strings.TrimSpace(u.Email)),
		strings.TrimSpace(u.Phone),
		u.PasswordHash,
		string(u.Role),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r UsersRepository) Update(ctx context.Context, u models.User) error {
	if u.ID <= 0 {
		return fmt.Errorf("invalid user id")
	}
	_, err := r.db().ExecContext(ctx, `
		UPDATE users SET full_name=?, phone=?, role=?, is_active=?
		WHERE id=?
	`,
		strings.TrimSpace(u.FullName),
		strings.TrimSpace(u.Phone),
		string(u.Role),
		u.IsActive,
		u.ID,
	)
	return err
}

func (r UsersRepository) SetActive(ctx context.Context, id int64, active bool) error {
	if id <= 0 {
		return fmt.Errorf("invalid user id")
	}
	_, err := r.db().ExecContext(ctx,
		`UPDATE users SET is_active=? WHERE id=?`, active, id)
	return err
}

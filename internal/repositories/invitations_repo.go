package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	intconfig "busagency/internal/config"
	"busagency/internal/domain/models"
)

type InvitationsRepository struct {
	DB *sql.DB
}

func (r InvitationsRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const invitationColumns = `id, agency_id, email, role, token, status, invited_by,
	COALESCE(DATE_FORMAT(expires_at, '%Y-%m-%d %H:%i:%s'), '')`

func scanInvitation(row interface{ Scan(...any) error }) (models.Invitation, error) {
	var inv models.Invitation
	var role, status string
	err := row.Scan(
		&inv.ID,
		&inv.AgencyID,
		&inv.Email,
		&role,
		&inv.Token,
		&status,
		&inv.InvitedBy,
		&inv.ExpiresAt,
	)
	if err != nil {
		return inv, err
	}
	inv.Role = models.Role(role)
	inv.Status = models.InvitationStatus(status)
	return inv, nil
}

func (r InvitationsRepository) GetByToken(ctx context.Context, token string) (models.Invitation, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return models.Invitation{}, sql.ErrNoRows
	}
	row := r.db().QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM agency_employee_invitations WHERE token=? LIMIT 1`, token)
	return scanInvitation(row)
}

func (r InvitationsRepository) ListByAgency(ctx context.Context, agencyID int64) ([]models.Invitation, error) {
	if agencyID <= 0 {
		return nil, fmt.Errorf("invalid agency id")
	}
	rows, err := r.db().QueryContext(ctx,
		`SELECT `+invitationColumns+` FROM agency_employee_invitations WHERE agency_id=? ORDER BY id DESC`, agencyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Invitation{}
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return out, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r InvitationsRepository) Insert(ctx context.Context, inv models.Invitation) (int64, error) {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO agency_employee_invitations
			(agency_id, email, role, token, status, invited_by, expires_at)
		VALUES (?,?,?,?,?,?,?)
	`,
		inv.AgencyID,
		strings.ToLower(strings.TrimSpace(inv.Email)),
		string(inv.Role),
		inv.Token,
		string(inv.Status),
		inv.InvitedBy,
		inv.ExpiresAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r InvitationsRepository) UpdateStatus(ctx context.Context, id int64, status models.InvitationStatus) error {
	if id <= 0 {
		return fmt.Errorf("invalid invitation id")
	}
	_, err := r.db().ExecContext(ctx,
		`UPDATE agency_employee_invitations SET status=? WHERE id=?`, string(status), id)
	return err
}

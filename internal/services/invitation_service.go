package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"busagency/internal/domain"
	"busagency/internal/domain/models"
	"busagency/internal/repositories"
	"busagency/internal/utils"

	"github.com/google/uuid"
)

// InvitationService handles employee onboarding tokens. Delivery is out of
// scope: the token is returned to the caller, not emailed.
type InvitationService struct {
	InvitationsRepo repositories.InvitationsRepository
	UsersRepo       repositories.UsersRepository
	TTL             time.Duration
	BcryptCost      int
	RequestID       string
}

func (s InvitationService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return 7 * 24 * time.Hour
}

func (s InvitationService) Create(ctx context.Context, agencyID, invitedBy int64, email string, role models.Role) (models.Invitation, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if agencyID <= 0 {
		return models.Invitation{}, domain.ValidationError{Field: "agency_id", Msg: "invalid agency id"}
	}
	if email == "" || !strings.Contains(email, "@") {
		return models.Invitation{}, domain.ValidationError{Field: "email", Msg: "valid email is required"}
	}
	if role == "" {
		role = models.RoleAgencyEmployee
	}
	if role == models.RoleSuperAdmin || !role.Valid() {
		return models.Invitation{}, domain.ValidationError{Field: "role", Msg: "role must be an agency role"}
	}
	if _, err := s.UsersRepo.GetByEmail(ctx, email); err == nil {
		return models.Invitation{}, domain.ConflictError{Resource: "user", Msg: "email already registered"}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return models.Invitation{}, domain.InternalError{Msg: "failed to check email", Err: err}
	}

	inv := models.Invitation{
		AgencyID:  agencyID,
		Email:     email,
		Role:      role,
		Token:     uuid.NewString(),
		Status:    models.InvitationPending,
		InvitedBy: invitedBy,
		ExpiresAt: utils.FormatDateTime(utils.NowUTC().Add(s.ttl())),
	}
	id, err := s.InvitationsRepo.Insert(ctx, inv)
	if err != nil {
		return models.Invitation{}, domain.InternalError{Msg: "failed to create invitation", Err: err}
	}
	inv.ID = id

	utils.LogEvent(s.RequestID, "invitation", "create",
		fmt.Sprintf("invitation_id=%d agency_id=%d role=%s", id, agencyID, role))
	return inv, nil
}

// Accept turns a pending invitation into an agency user account.
func (s InvitationService) Accept(ctx context.Context, token, fullName, phone, password string) (models.User, error) {
	inv, err := s.InvitationsRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, domain.NotFoundError{Resource: "invitation", Err: err}
		}
		return models.User{}, domain.InternalError{Msg: "failed to load invitation", Err: err}
	}
	if inv.Status != models.InvitationPending {
		return models.User{}, domain.ConflictError{Resource: "invitation", Msg: fmt.Sprintf("invitation is %s", inv.Status)}
	}
	if expiry, parseErr := utils.ParseDateTime(inv.ExpiresAt); parseErr == nil && expiry.Before(time.Now()) {
		return models.User{}, domain.ConflictError{Resource: "invitation", Msg: "invitation has expired"}
	}

	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return models.User{}, domain.ValidationError{Field: "full_name", Msg: "full name is required"}
	}
	if len(password) < 8 {
		return models.User{}, domain.ValidationError{Field: "password", Msg: "password must be at least 8 characters"}
	}
	hash, err := utils.HashPassword(password, s.BcryptCost)
	if err != nil {
		return models.User{}, domain.InternalError{Msg: "failed to hash password", Err: err}
	}

	user := models.User{
		AgencyID:     inv.AgencyID,
		FullName:     fullName,
		Email:        inv.Email,
		Phone:        strings.TrimSpace(phone),
		PasswordHash: hash,
		Role:         inv.Role,
		IsActive:     true,
	}
	id, err := s.UsersRepo.Insert(ctx, user)
	if err != nil {
		if repositories.IsDuplicateKey(err) {
			return models.User{}, domain.ConflictError{Resource: "user", Msg: "email already registered", Err: err}
		}
		return models.User{}, domain.InternalError{Msg: "failed to create user", Err: err}
	}
	user.ID = id

	if err := s.InvitationsRepo.UpdateStatus(ctx, inv.ID, models.InvitationAccepted); err != nil {
		utils.LogEvent(s.RequestID, "invitation", "accept_status_failed",
			fmt.Sprintf("invitation_id=%d err=%v", inv.ID, err))
	}

	utils.LogEvent(s.RequestID, "invitation", "accept",
		fmt.Sprintf("invitation_id=%d user_id=%d", inv.ID, id))
	return user, nil
}

func (s InvitationService) Revoke(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ValidationError{Field: "id", Msg: "invalid invitation id"}
	}
	if err := s.InvitationsRepo.UpdateStatus(ctx, id, models.InvitationRevoked); err != nil {
		return domain.InternalError{Msg: "failed to revoke invitation", Err: err}
	}
	return nil
}

package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"busagency/internal/domain/models"
	"busagency/internal/repositories"
	"busagency/internal/utils"

	"github.com/gin-gonic/gin"
)

func GetAgencyUsers(c *gin.Context) {
	agencyID, ok := AgencyScope(c)
	if !ok {
		return
	}
	repo := repositories.UsersRepository{}
	users, err := repo.ListByAgency(c.Request.Context(), agencyID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list users", err)
		return
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	c.JSON(http.StatusOK, gin.H{"items": users, "count": len(users)})
}

func GetCurrentUser(c *gin.Context) {
	rc := RequestCtx(c)
	repo := repositories.UsersRepository{}
	user, err := repo.GetByID(c.Request.Context(), rc.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondError(c, http.StatusNotFound, "user not found", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to load user", err)
		return
	}
	user.PasswordHash = ""
	c.JSON(http.StatusOK, user)
}

type userCreatePayload struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// CreateAgencyUser adds an employee directly, bypassing the invitation flow.
func CreateAgencyUser(c *gin.Context) {
	agencyID, ok := AgencyScope(c)
	if !ok {
		return
	}
	var in userCreatePayload
	if !BindJSONOrError(c, &in) {
		return
	}
	if len(in.Password) < 8 {
		RespondError(c, http.StatusBadRequest, "password must be at least 8 characters", nil)
		return
	}
	role := models.RoleAgencyEmployee
	if in.Role != "" {
		role = models.Role(in.Role)
	}
	if role == models.RoleSuperAdmin || !role.Valid() {
		RespondError(c, http.StatusBadRequest, "role must be an agency role", nil)
		return
	}

	hash, err := utils.HashPassword(in.Password, 0)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to hash password", err)
		return
	}

	repo := repositories.UsersRepository{}
	id, err := repo.Insert(c.Request.Context(), models.User{
		AgencyID:     agencyID,
		FullName:     in.FullName,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	})
	if err != nil {
		if repositories.IsDuplicateKey(err) {
			RespondError(c, http.StatusConflict, "email already registered", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to create user", err)
		return
	}

	user, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to reload user", err)
		return
	}
	user.PasswordHash = ""
	c.JSON(http.StatusCreated, user)
}

type userUpdatePayload struct {
	FullName string `json:"fullName" binding:"required"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	IsActive *bool  `json:"isActive"`
}

// UpdateAgencyUser lets an agency admin edit employees of their own agency.
func UpdateAgencyUser(c *gin.Context) {
	agencyID, ok := AgencyScope(c)
	if !ok {
		return
	}
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	var in userUpdatePayload
	if !BindJSONOrError(c, &in) {
		return
	}

	repo := repositories.UsersRepository{}
	user, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondError(c, http.StatusNotFound, "user not found", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to load user", err)
		return
	}
	if user.AgencyID != agencyID {
		RespondError(c, http.StatusNotFound, "user not found", nil)
		return
	}
	if user.Role == models.RoleSuperAdmin {
		RespondError(c, http.StatusForbidden, "cannot edit a platform administrator", nil)
		return
	}

	user.FullName = in.FullName
	user.Phone = in.Phone
	if in.Role != "" {
		role := models.Role(in.Role)
		if role == models.RoleSuperAdmin || !role.Valid() {
			RespondError(c, http.StatusBadRequest, "role must be an agency role", nil)
			return
		}
		user.Role = role
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}

	if err := repo.Update(c.Request.Context(), user); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to update user", err)
		return
	}
	user.PasswordHash = ""
	c.JSON(http.StatusOK, user)
}

// DeactivateAgencyUser disables the account; rows are never hard-deleted.
func DeactivateAgencyUser(c *gin.Context) {
	agencyID, ok := AgencyScope(c)
	if !ok {
		return
	}
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}

	repo := repositories.UsersRepository{}
	user, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondError(c, http.StatusNotFound, "user not found", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to load user", err)
		return
	}
	if user.AgencyID != agencyID || user.Role == models.RoleSuperAdmin {
		RespondError(c, http.StatusNotFound, "user not found", nil)
		return
	}

	if err := repo.SetActive(c.Request.Context(), id, false); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to deactivate user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deactivated"})
}

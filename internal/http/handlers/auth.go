package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	intconfig "busagency/internal/config"
	"busagency/internal/domain/models"
	"busagency/internal/repositories"
	"busagency/internal/utils"

	"github.com/gin-gonic/gin"
)

type loginPayload struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerPayload struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges email+password for a signed token.
func Login(env intconfig.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in loginPayload
		if !BindJSONOrError(c, &in) {
			return
		}

		users := repositories.UsersRepository{}
		user, err := users.GetByEmail(c.Request.Context(), in.Email)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				RespondError(c, http.StatusUnauthorized, "invalid credentials", nil)
				return
			}
			RespondError(c, http.StatusInternalServerError, "failed to load user", err)
			return
		}
		if !user.IsActive || !utils.CheckPassword(user.PasswordHash, in.Password) {
			RespondError(c, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}

		token, err := utils.GenerateToken(env.JWTSecret, env.JWTTTL, user)
		if err != nil {
			RespondError(c, http.StatusInternalServerError, "failed to sign token", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
	}
}

// Register bootstraps the first super admin. Once any user exists, accounts
// are created only through agency invitations.
func Register(env intconfig.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in registerPayload
		if !BindJSONOrError(c, &in) {
			return
		}
		if len(in.Password) < 8 {
			RespondError(c, http.StatusBadRequest, "password must be at least 8 characters", nil)
			return
		}
		email := strings.ToLower(strings.TrimSpace(in.Email))
		if !strings.Contains(email, "@") {
			RespondError(c, http.StatusBadRequest, "valid email is required", nil)
			return
		}

		var existing int
		if err := intconfig.DB.QueryRowContext(c.Request.Context(),
			`SELECT COUNT(*) FROM users`).Scan(&existing); err != nil {
			RespondError(c, http.StatusInternalServerError, "failed to check users", err)
			return
		}
		if existing > 0 {
			RespondError(c, http.StatusForbidden, "registration is closed; ask for an invitation", nil)
			return
		}

		hash, err := utils.HashPassword(in.Password, 0)
		if err != nil {
			RespondError(c, http.StatusInternalServerError, "failed to hash password", err)
			return
		}

		users := repositories.UsersRepository{}
		user := models.User{
			FullName:     strings.TrimSpace(in.FullName),
			Email:        email,
			Phone:        strings.TrimSpace(in.Phone),
			PasswordHash: hash,
			Role:         models.RoleSuperAdmin,
			IsActive:     true,
		}
		id, err := users.Insert(c.Request.Context(), user)
		if err != nil {
			if repositories.IsDuplicateKey(err) {
				RespondError(c, http.StatusConflict, "email already registered", nil)
				return
			}
			RespondError(c, http.StatusInternalServerError, "failed to create user", err)
			return
		}
		user.ID = id

		token, err := utils.GenerateToken(env.JWTSecret, env.JWTTTL, user)
		if err != nil {
			RespondError(c, http.StatusInternalServerError, "failed to sign token", err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
	}
}

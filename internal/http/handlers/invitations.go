package handlers

import (
	"net/http"

	intconfig "busagency/internal/config"
	"busagency/internal/domain/models"
	"busagency/internal/http/middleware"
	"busagency/internal/repositories"
	"busagency/internal/services"

	"github.com/gin-gonic/gin"
)

func invitationService(c *gin.Context, env intconfig.Env) services.InvitationService {
	return services.InvitationService{
		InvitationsRepo: repositories.InvitationsRepository{},
		UsersRepo:       repositories.UsersRepository{},
		TTL:             env.InvitationTTL,
		RequestID:       middleware.GetRequestID(c),
	}
}

func GetAgencyInvitations(c *gin.Context) {
	agencyID, ok := AgencyScope(c)
	if !ok {
		return
	}
	repo := repositories.InvitationsRepository{}
	list, err := repo.ListByAgency(c.Request.Context(), agencyID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list invitations", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": list, "count": len(list)})
}

func CreateInvitation(env intconfig.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		agencyID, ok := AgencyScope(c)
		if !ok {
			return
		}
		var in struct {
			Email string `json:"email" binding:"required"`
			Role  string `json:"role"`
		}
		if !BindJSONOrError(c, &in) {
			return
		}

		rc := RequestCtx(c)
		inv, err := invitationService(c, env).Create(
			c.Request.Context(), agencyID, rc.UserID, in.Email, models.Role(in.Role))
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusCreated, inv)
	}
}

// AcceptInvitation is unauthenticated; the token is the credential.
func AcceptInvitation(env intconfig.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Token    string `json:"token" binding:"required"`
			FullName string `json:"fullName" binding:"required"`
			Phone    string `json:"phone"`
			Password string `json:"password" binding:"required"`
		}
		if !BindJSONOrError(c, &in) {
			return
		}

		user, err := invitationService(c, env).Accept(
			c.Request.Context(), in.Token, in.FullName, in.Phone, in.Password)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		user.PasswordHash = ""
		c.JSON(http.StatusCreated, user)
	}
}

func RevokeInvitation(env intconfig.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IDParam(c, "id")
		if !ok {
			return
		}
		if err := invitationService(c, env).Revoke(c.Request.Context(), id); err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "invitation revoked"})
	}
}

package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"busagency/internal/domain/models"
	"busagency/internal/repositories"
	"busagency/internal/utils"

	"github.com/gin-gonic/gin"
)

type agencyPayload struct {
	Name         string `json:"name" binding:"required"`
	Slug         string `json:"slug"`
	ContactPhone string `json:"contactPhone"`
	ContactEmail string `json:"contactEmail"`
	IsActive     *bool  `json:"isActive"`
}

func GetAgencies(c *gin.Context) {
	repo := repositories.AgenciesRepository{}
	list, err := repo.List(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list agencies", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": list, "count": len(list)})
}

func GetAgencyByID(c *gin.Context) {
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	repo := repositories.AgenciesRepository{}
	agency, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondError(c, http.StatusNotFound, "agency not found", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to load agency", err)
		return
	}
	c.JSON(http.StatusOK, agency)
}

func CreateAgency(c *gin.Context) {
	var in agencyPayload
	if !BindJSONOrError(c, &in) {
		return
	}

	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = utils.Slugify(in.Name)
	}
	if slug == "" {
		RespondError(c, http.StatusBadRequest, "agency name must produce a non-empty slug", nil)
		return
	}

	repo := repositories.AgenciesRepository{}
	id, err := repo.Insert(c.Request.Context(), models.Agency{
		Name:         in.Name,
		Slug:         slug,
		ContactPhone: in.ContactPhone,
		ContactEmail: in.ContactEmail,
	})
	if err != nil {
		if repositories.IsDuplicateKey(err) {
			RespondError(c, http.StatusConflict, "agency slug already exists", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to create agency", err)
		return
	}

	agency, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to reload agency", err)
		return
	}
	c.JSON(http.StatusCreated, agency)
}

func UpdateAgency(c *gin.Context) {
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	var in agencyPayload
	if !BindJSONOrError(c, &in) {
		return
	}

	repo := repositories.AgenciesRepository{}
	agency, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondError(c, http.StatusNotFound, "agency not found", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to load agency", err)
		return
	}

	agency.Name = strings.TrimSpace(in.Name)
	agency.ContactPhone = strings.TrimSpace(in.ContactPhone)
	agency.ContactEmail = strings.TrimSpace(in.ContactEmail)
	if in.IsActive != nil {
		agency.IsActive = *in.IsActive
	}

	if err := repo.Update(c.Request.Context(), agency); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to update agency", err)
		return
	}
	c.JSON(http.StatusOK, agency)
}

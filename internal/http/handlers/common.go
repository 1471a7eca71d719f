package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"busagency/internal/domain"
	"busagency/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// RespondError sends a standard error payload with request_id included.
func RespondError(c *gin.Context, status int, message string, err error) {
	payload := gin.H{
		"message":    message,
		"request_id": middleware.GetRequestID(c),
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	c.JSON(status, payload)
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		RespondError(c, http.StatusBadRequest, "empty body", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid payload", err)
		return false
	}
	return true
}

// IDParam parses a positive numeric path parameter.
func IDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid "+name, err)
		return 0, false
	}
	return id, true
}

// AgencyScope resolves which agency the caller may act on. Super admins may
// target any agency via ?agency_id=; everyone else is pinned to their own.
func AgencyScope(c *gin.Context) (int64, bool) {
	rc, ok := middleware.GetAuth(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "not authenticated", nil)
		return 0, false
	}
	if rc.Role == "super_admin" {
		raw := strings.TrimSpace(c.Query("agency_id"))
		if raw == "" {
			RespondError(c, http.StatusBadRequest, "agency_id query parameter is required for super admin", nil)
			return 0, false
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			RespondError(c, http.StatusBadRequest, "invalid agency_id", err)
			return 0, false
		}
		return id, true
	}
	if rc.AgencyID <= 0 {
		RespondError(c, http.StatusForbidden, "account is not attached to an agency", nil)
		return 0, false
	}
	return rc.AgencyID, true
}

// RequestCtx is a shorthand for the authenticated caller, empty when absent.
func RequestCtx(c *gin.Context) domain.RequestContext {
	rc, _ := middleware.GetAuth(c)
	return rc
}

package handlers

import (
	"net/http"

	intconfig "busagency/internal/config"
	intdb "busagency/internal/db"

	"github.com/gin-gonic/gin"
)

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// DBCheck pings the store and reports whether the core tables exist.
func DBCheck(c *gin.Context) {
	if err := intconfig.EnsureDB(); err != nil {
		RespondError(c, http.StatusServiceUnavailable, "database unreachable", err)
		return
	}

	tables := gin.H{}
	for _, t := range []string{"agencies", "users", "buses", "trips", "bookings", "seat_maps"} {
		tables[t] = intdb.HasTable(intconfig.DB, t)
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "tables": tables})
}

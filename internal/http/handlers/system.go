package handlers

import (
	"net/http"

	intconfig "github.com/Yidian-He/hilton-online-service/internal/config"

	"github.com/gin-gonic/gin"
)

// Health answers the liveness probe; database reachability is reported as
// a detail without failing the probe.
func Health(c *gin.Context) {
	dbStatus := "ok"
	if err := intconfig.EnsureDB(); err != nil {
		dbStatus = err.Error()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"database": dbStatus,
	})
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alimgiray/daybrief/internal/services"
)

type HealthHandler struct {
	refreshService *services.RefreshService
}

func NewHealthHandler(refreshService *services.RefreshService) *HealthHandler {
	return &HealthHandler{refreshService: refreshService}
}

// HealthCheck reports process liveness and cache freshness
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	response := gin.H{
		"status": "ok",
		"time":   time.Now(),
	}

	if lastSuccess, hasCache := h.refreshService.LastSuccess(); hasCache {
		response["last_refresh"] = lastSuccess
	} else {
		response["last_refresh"] = nil
	}

	c.JSON(http.StatusOK, response)
}

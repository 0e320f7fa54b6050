package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"rulesbot/repository"
	"rulesbot/services"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 5 * time.Second

// ServerInfo is what the health and test endpoints report about the process.
type ServerInfo struct {
	Version          string
	Env              string
	Database         string
	CORSEnabled      bool
	OpenAIConfigured bool
}

type HealthHandler struct {
	store     repository.Store
	info      ServerInfo
	startedAt time.Time
}

func NewHealthHandler(store repository.Store, info ServerInfo) *HealthHandler {
	return &HealthHandler{
		store:     store,
		info:      info,
		startedAt: time.Now(),
	}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	now := services.FormatTimestamp(time.Now())
	if err := h.store.Ping(ctx); err != nil {
		log.Printf("Health check failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"timestamp": now,
			"error":     err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": now,
		"uptime":    time.Since(h.startedAt).Seconds(),
		"database":  h.info.Database,
		"version":   h.info.Version,
	})
}

func (h *HealthHandler) Test(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":           "Board game rules API is running",
		"env":               h.info.Env,
		"cors_enabled":      h.info.CORSEnabled,
		"openai_configured": h.info.OpenAIConfigured,
		"database":          h.info.Database,
	})
}

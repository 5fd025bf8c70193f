package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quickstay/backend-hotel/pkg/database"
	"github.com/quickstay/backend-hotel/pkg/redis"
)

// HealthHandler reports service and dependency health
type HealthHandler struct {
	mongo *database.MongoDB
	redis *redis.Client
}

// NewHealthHandler creates a health handler. Either dependency may be nil
// and is then reported as disabled.
func NewHealthHandler(mongo *database.MongoDB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		mongo: mongo,
		redis: redisClient,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()
	healthy := true
	components := gin.H{}

	if h.mongo != nil {
		if err := h.mongo.HealthCheck(ctx); err != nil {
			components["mongodb"] = "unhealthy"
			healthy = false
		} else {
			components["mongodb"] = "healthy"
		}
	} else {
		components["mongodb"] = "disabled"
		healthy = false
	}

	if h.redis != nil {
		if err := h.redis.HealthCheck(ctx); err != nil {
			components["redis"] = "unhealthy"
		} else {
			components["redis"] = "healthy"
		}
	} else {
		components["redis"] = "disabled"
	}

	status := http.StatusOK
	overall := "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "unhealthy"
	}

	c.JSON(status, gin.H{
		"status":     overall,
		"components": components,
	})
}

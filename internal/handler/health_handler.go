package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"game-board-api/internal/database"
)

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *gorm.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

// Health reports process liveness
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports whether dependencies are reachable. Redis is optional and
// only reported, never fails readiness.
func (h *HealthHandler) Ready(c *gin.Context) {
	checks := gin.H{}

	dbOK := false
	if h.db != nil {
		if sqlDB, err := h.db.DB(); err == nil && sqlDB.PingContext(c.Request.Context()) == nil {
			dbOK = true
		}
	} else {
		// the background retry may have connected after startup
		dbOK = database.IsConnected()
	}
	checks["database"] = status(dbOK)

	redisOK := h.redis != nil && h.redis.Ping(c.Request.Context()).Err() == nil
	checks["redis"] = status(redisOK)

	if !dbOK {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "checks": checks})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "checks": checks})
}

func status(ok bool) string {
	if ok {
		return "up"
	}
	return "down"
}

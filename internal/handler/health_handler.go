package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/damoang/angple-content/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// HealthHandler reports dependency health
type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewHealthHandler creates a new HealthHandler. redis may be nil
func NewHealthHandler(db *gorm.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{}
	healthy := true

	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
			middleware.ObserveDBStats(sqlDB.Stats())
		}
		checks["database"] = statusOf(err)
		healthy = healthy && err == nil
	}
	if h.redis != nil {
		err := h.redis.Ping(ctx).Err()
		checks["redis"] = statusOf(err)
		healthy = healthy && err == nil
	}

	status := http.StatusOK
	overall := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}
	c.JSON(status, gin.H{"status": overall, "checks": checks, "time": time.Now().Unix()})
}

func statusOf(err error) string {
	if err != nil {
		return "down: " + err.Error()
	}
	return "up"
}

package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/amirphl/reachbee/app/dto"
	"github.com/amirphl/reachbee/utils"
)

const healthCheckTimeout = 2 * time.Second

// HealthHandler reports service and dependency status
type HealthHandler struct {
	db      *gorm.DB
	rc      *redis.Client
	version string
	logger  *zap.Logger
}

// NewHealthHandler creates a new health handler. db and rc may be nil.
func NewHealthHandler(db *gorm.DB, rc *redis.Client, version string, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{db: db, rc: rc, version: version, logger: logger}
}

// Health checks the database and cache
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} dto.APIResponse "Service is healthy"
// @Failure 503 {object} dto.APIResponse "A dependency is down"
// @Router /api/health [get]
func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()

	checks := fiber.Map{}
	healthy := true

	if h.db != nil {
		checks["database"] = "ok"
		sqlDB, err := h.db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			h.logger.Warn("Database health check failed", zap.Error(err))
			checks["database"] = "down"
			healthy = false
		}
	}

	if h.rc != nil {
		checks["cache"] = "ok"
		if err := h.rc.Ping(ctx).Err(); err != nil {
			h.logger.Warn("Cache health check failed", zap.Error(err))
			checks["cache"] = "down"
			healthy = false
		}
	} else {
		checks["cache"] = "disabled"
	}

	data := fiber.Map{
		"status":    "ok",
		"timestamp": utils.UTCNow().Unix(),
		"version":   h.version,
		"service":   "reachbee-api",
		"checks":    checks,
	}
	if !healthy {
		data["status"] = "degraded"
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.APIResponse{
			Success: false,
			Message: "Service is degraded",
			Data:    data,
			Error:   dto.ErrorDetail{Code: "SERVICE_DEGRADED"},
		})
	}

	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data:    data,
	})
}

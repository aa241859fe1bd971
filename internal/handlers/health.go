// health.go
//
// Health check routes.

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sjafferali/meditrack/internal/config"
	"github.com/sjafferali/meditrack/internal/services"
	"github.com/sjafferali/meditrack/internal/utils"
	"gorm.io/gorm"
)

// HealthHandler handles health check routes
type HealthHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// GetHealth handles GET /api/v1/health
// @Summary Health check
// @Description Report service and database health
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	result := services.HealthCheck(h.Cfg, h.DB)

	status := fiber.StatusOK
	if result.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}

	return utils.SuccessResponse(c, result, status)
}

package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursehub/internal/app/models/dto"
)

// Pinger is anything whose reachability the health check reports, such as a pgx pool
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController reports liveness and database reachability
type HealthController struct {
	db Pinger
}

// NewHealthController creates a new HealthController; db may be nil
func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db}
}

// Health reports service status
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse "Service healthy"
// @Failure 503 {object} dto.ErrorResponse "Database unreachable"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	if c.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		if err := c.db.Ping(pingCtx); err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Database unreachable")
			ctx.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(errorDetail))
			return
		}
	}
	respond(ctx, http.StatusOK, gin.H{"status": "ok"})
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/dafibh/household/household-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler serves health and clock endpoints
type SystemHandler struct {
	db            Pinger
	ledgerService *service.LedgerService
}

// NewSystemHandler creates a new SystemHandler. db may be nil when no store is wired.
func NewSystemHandler(db Pinger, ledgerService *service.LedgerService) *SystemHandler {
	return &SystemHandler{db: db, ledgerService: ledgerService}
}

// HealthResponse is the health check body
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Health handles GET /health
func (h *SystemHandler) Health(c echo.Context) error {
	if h.db == nil {
		return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Database: "not configured"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("Health check failed: database unreachable")
		return c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Database: "unreachable"})
	}
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Database: "ok"})
}

// ServerTimeResponse is the display clock body
type ServerTimeResponse struct {
	Time     string `json:"time"`
	Display  string `json:"display"`
	TimeZone string `json:"timeZone"`
}

// ServerTime handles GET /api/v1/server-time
func (h *SystemHandler) ServerTime(c echo.Context) error {
	now := h.ledgerService.ServerTime()
	return c.JSON(http.StatusOK, ServerTimeResponse{
		Time:     now.Time.Format(time.RFC3339),
		Display:  now.Display,
		TimeZone: now.TimeZone,
	})
}

package handlers

import (
	"context"
	"sort"
	"time"

	"github.com/amirphl/bkm-notes/app/dto"
	"github.com/amirphl/bkm-notes/utils"
	"github.com/gofiber/fiber/v3"
)

// HealthCheck reports whether one dependency is reachable
type HealthCheck func(ctx context.Context) error

type SystemHandlerInterface interface {
	Cron(c fiber.Ctx) error
	Health(c fiber.Ctx) error
}

// SystemHandler serves the operational endpoints
type SystemHandler struct {
	version string
	checks  map[string]HealthCheck
}

// NewSystemHandler creates a system handler. checks maps a component name to its probe.
func NewSystemHandler(version string, checks map[string]HealthCheck) *SystemHandler {
	if checks == nil {
		checks = map[string]HealthCheck{}
	}
	return &SystemHandler{version: version, checks: checks}
}

// Cron acknowledges the scheduler ping. No background processing is attached to it.
// @Summary Cron ping
// @Tags System
// @Produce plain
// @Success 200 {string} string "okay"
// @Router /cron [get]
func (h *SystemHandler) Cron(c fiber.Ctx) error {
	return c.SendString("okay")
}

// Health probes the database and cache
// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} dto.APIResponse
// @Failure 503 {object} dto.APIResponse
// @Router /health [get]
func (h *SystemHandler) Health(c fiber.Ctx) error {
	ctx, cancel := requestContextWithTimeout(c, "/health", 5*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	healthy := true
	components := make(fiber.Map, len(names))
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			healthy = false
			components[name] = err.Error()
			continue
		}
		components[name] = "ok"
	}

	status, code, message := "ok", fiber.StatusOK, "Service is healthy"
	if !healthy {
		status, code, message = "degraded", fiber.StatusServiceUnavailable, "Service is degraded"
	}

	return c.Status(code).JSON(dto.APIResponse{
		Success: healthy,
		Message: message,
		Data: fiber.Map{
			"status":     status,
			"timestamp":  utils.UTCNow().Unix(),
			"version":    h.version,
			"service":    "bkm-notes",
			"components": components,
		},
	})
}

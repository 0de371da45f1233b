package handlers

import (
	"cafe/internal/services"

	"github.com/gofiber/fiber/v2"
)

// StatsHandler serves the admin dashboard figures.
type StatsHandler struct {
	service *services.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(service *services.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

// RegisterRoutes registers the stats route.
func (h *StatsHandler) RegisterRoutes(router fiber.Router, g Guards) {
	router.Get("/stats", g.Auth, g.Admin, h.HandleGetStats)
}

// HandleGetStats returns customer count and confirmed order revenue.
func (h *StatsHandler) HandleGetStats(c *fiber.Ctx) error {
	stats, err := h.service.GetStats(c.UserContext())
	if err != nil {
		return respondError(c, "Could not compute stats", err)
	}
	return c.JSON(stats)
}

package handler

import (
	"go-student-center/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetSummary returns overview statistics, daily gross for the last week and top products
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.service.GetSummary(c.UserContext())
	if err != nil {
		c.Locals("error_cause", err.Error())
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard summary"})
	}
	return c.JSON(summary)
}

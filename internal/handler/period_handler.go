package handler

import (
	"go-student-center/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PeriodHandler struct {
	periodService service.PeriodService
}

func NewPeriodHandler(periodService service.PeriodService) *PeriodHandler {
	return &PeriodHandler{periodService: periodService}
}

// CreatePeriod opens a management period (gestión)
// POST /api/v1/periods
func (h *PeriodHandler) CreatePeriod(c *fiber.Ctx) error {
	var req service.PeriodRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	period, err := h.periodService.CreatePeriod(c.UserContext(), &req, getActor(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Period created successfully",
		"data":    period.ToResponse(),
	})
}

// PUT /api/v1/periods/:id
func (h *PeriodHandler) UpdatePeriod(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid period ID")
	}

	var req service.PeriodRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	period, err := h.periodService.UpdatePeriod(c.UserContext(), id, &req, getActor(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Period updated successfully",
		"data":    period.ToResponse(),
	})
}

// DeletePeriod also deletes the period's events and board
// DELETE /api/v1/periods/:id
func (h *PeriodHandler) DeletePeriod(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid period ID")
	}

	if err := h.periodService.DeletePeriod(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Period deleted successfully"})
}

func (h *PeriodHandler) GetPeriods(c *fiber.Ctx) error {
	periods, err := h.periodService.ListPeriods(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(periods)
}

func (h *PeriodHandler) GetPeriod(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid period ID")
	}

	period, err := h.periodService.GetPeriod(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(period.ToResponse())
}

// GetBoard lists who holds which role in the period
// GET /api/v1/periods/:id/members
func (h *PeriodHandler) GetBoard(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid period ID")
	}

	seats, err := h.periodService.ListBoard(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(seats)
}

// POST /api/v1/periods/:id/members
func (h *PeriodHandler) AssignRole(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid period ID")
	}

	var req service.AssignRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	membership, err := h.periodService.AssignRole(c.UserContext(), id, &req, getActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Role assigned", "data": membership})
}

// DELETE /api/v1/periods/:id/members/:membership_id
func (h *PeriodHandler) RemoveAssignment(c *fiber.Ctx) error {
	periodID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid period ID")
	}
	membershipID, ok := paramID(c, "membership_id")
	if !ok {
		return badRequest(c, "Invalid membership ID")
	}

	if err := h.periodService.RemoveAssignment(c.UserContext(), periodID, membershipID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Role removed"})
}

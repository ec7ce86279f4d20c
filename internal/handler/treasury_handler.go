package handler

import (
	"go-student-center/internal/service"

	"github.com/gofiber/fiber/v2"
)

type TreasuryHandler struct {
	service service.TreasuryService
}

func NewTreasuryHandler(s service.TreasuryService) *TreasuryHandler {
	return &TreasuryHandler{service: s}
}

// RecordEntry stores a manual income or expense
// POST /api/v1/treasury
func (h *TreasuryHandler) RecordEntry(c *fiber.Ctx) error {
	var req service.EntryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	entry, err := h.service.RecordEntry(c.UserContext(), &req, getActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Entry recorded", "data": entry})
}

// DELETE /api/v1/treasury/:id
func (h *TreasuryHandler) DeleteEntry(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid entry ID")
	}

	if err := h.service.DeleteEntry(c.UserContext(), id, getActor(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Entry deleted"})
}

func (h *TreasuryHandler) Income(c *fiber.Ctx) error {
	list, err := h.service.ListIncome(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

func (h *TreasuryHandler) Expense(c *fiber.Ctx) error {
	list, err := h.service.ListExpense(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

func (h *TreasuryHandler) Balance(c *fiber.Ctx) error {
	balance, err := h.service.Balance(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(balance)
}

package handler

import (
	"go-student-center/internal/model"
	"go-student-center/internal/repository"
	"go-student-center/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SaleHandler struct {
	service service.SaleService
}

func NewSaleHandler(s service.SaleService) *SaleHandler {
	return &SaleHandler{service: s}
}

// CreateSale records a point-of-sale transaction
// POST /api/v1/sales
func (h *SaleHandler) CreateSale(c *fiber.Ctx) error {
	var req service.CreateSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	sale, err := h.service.CreateSale(c.UserContext(), &req, getActor(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Sale created",
		"data":    sale.ToResponse(),
	})
}

// UpdateSale edits quantity, product, payment method or event
// PUT /api/v1/sales/:id
func (h *SaleHandler) UpdateSale(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid sale ID")
	}

	var req service.UpdateSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	sale, err := h.service.UpdateSale(c.UserContext(), id, &req, getActor(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Sale updated",
		"data":    sale.ToResponse(),
	})
}

// DELETE /api/v1/sales/:id
func (h *SaleHandler) DeleteSale(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid sale ID")
	}

	if err := h.service.DeleteSale(c.UserContext(), id, getActor(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Sale deleted"})
}

// GET /api/v1/sales/:id
func (h *SaleHandler) GetSale(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid sale ID")
	}

	sale, err := h.service.GetSale(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sale.ToResponse())
}

// ListSales returns the sales history with totals
// GET /api/v1/sales?q=&payment_method=&event_id=&order=&page=&limit=
func (h *SaleHandler) ListSales(c *fiber.Ctx) error {
	filter := repository.SaleFilter{
		Query:         c.Query("q"),
		PaymentMethod: model.PaymentMethod(c.Query("payment_method")),
		Order:         c.Query("order"),
		Page:          c.QueryInt("page", 1),
		Limit:         c.QueryInt("limit", 0),
	}
	if raw := c.Query("event_id"); raw != "" {
		eventID, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "Invalid event ID")
		}
		filter.EventID = &eventID
	}

	history, err := h.service.ListSales(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(history)
}

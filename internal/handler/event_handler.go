package handler

import (
	"go-student-center/internal/service"

	"github.com/gofiber/fiber/v2"
)

type EventHandler struct {
	service service.EventService
}

func NewEventHandler(s service.EventService) *EventHandler {
	return &EventHandler{service: s}
}

func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	var req service.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	event, err := h.service.CreateEvent(c.UserContext(), &req, getActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Event created", "data": event})
}

func (h *EventHandler) UpdateEvent(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid event ID")
	}

	var req service.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	event, err := h.service.UpdateEvent(c.UserContext(), id, &req, getActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Event updated", "data": event})
}

func (h *EventHandler) DeleteEvent(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid event ID")
	}

	if err := h.service.DeleteEvent(c.UserContext(), id, getActor(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Event deleted"})
}

func (h *EventHandler) GetEvents(c *fiber.Ctx) error {
	events, err := h.service.ListEvents(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(events)
}

func (h *EventHandler) GetEvent(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid event ID")
	}

	event, err := h.service.GetEvent(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(event)
}

// GET /api/v1/events/calendar
func (h *EventHandler) Calendar(c *fiber.Ctx) error {
	entries, err := h.service.Calendar(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entries)
}

// GET /api/v1/events/:id/detail
func (h *EventHandler) Detail(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid event ID")
	}

	detail, err := h.service.EventDetail(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(detail)
}

// Recompute rebuilds the cached revenue from the event's sales
// POST /api/v1/events/:id/recompute
func (h *EventHandler) Recompute(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid event ID")
	}

	drift, err := h.service.RecomputeRevenue(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"drifted": drift.Drifted(), "data": drift})
}

package handler

import (
	"errors"

	"go-student-center/internal/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// getActor returns the operator set by the Actor middleware.
func getActor(c *fiber.Ctx) string {
	actor, ok := c.Locals("actor").(string)
	if !ok || actor == "" {
		return "system"
	}
	return actor
}

// paramID parses a UUID route param.
func paramID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

// respondError maps domain errors to HTTP status codes. Anything unknown is a
// 500 with a generic message; the cause is kept for the request logger.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal Server Error"

	switch {
	case errors.Is(err, apperror.ErrInsufficientStock):
		status, message = fiber.StatusConflict, err.Error()
	case errors.Is(err, apperror.ErrInactiveProduct), errors.Is(err, apperror.ErrValidation):
		status, message = fiber.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, apperror.ErrNotFound):
		status, message = fiber.StatusNotFound, err.Error()
	default:
		c.Locals("error_cause", err.Error())
	}

	return c.Status(status).JSON(fiber.Map{"error": message})
}

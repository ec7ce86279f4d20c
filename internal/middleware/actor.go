package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const ActorHeader = "X-Actor"

// Actor stores who is operating the point of sale in the request context.
// Authentication happens upstream; the header is trusted as given.
func Actor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := strings.TrimSpace(c.Get(ActorHeader))
		if actor == "" {
			actor = "system"
		}
		c.Locals("actor", actor)
		return c.Next()
	}
}

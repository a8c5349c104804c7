package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// SessionHeader carries the onboarding session ID on every in-flow request.
const SessionHeader = "X-Onboarding-Session"

// SessionRequired pulls the session ID from the header (or, for websocket
// upgrades where headers are awkward, the query string) into Locals.
func SessionRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := strings.TrimSpace(c.Get(SessionHeader))
		if sessionID == "" {
			sessionID = strings.TrimSpace(c.Query("session"))
		}
		if sessionID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing onboarding session",
			})
		}

		c.Locals("session_id", sessionID)
		return c.Next()
	}
}

package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// VersionMiddleware normalizes the X-Api-Version header and keeps it in
// request locals for handlers that branch on it.
func VersionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		version := c.Get("X-Api-Version", "1.0.0")

		// Short form alias
		if version == "1.0" {
			version = "1.0.0"
		}

		c.Locals("apiVersion", version)

		return c.Next()
	}
}

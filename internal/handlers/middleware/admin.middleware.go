package middleware

import (
	"github.com/gofiber/fiber/v2"
)

func (m *Middleware) RequireAdmin() fiber.Handler {
	log := m.log.Function("RequireAdmin")

	return func(c *fiber.Ctx) error {
		user := GetUser(c)
		if user == nil {
			log.Info("user not found in context")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authentication required",
			})
		}

		if !user.IsAdmin {
			log.Info("user is not admin", "userID", user.ID)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "admin access required",
			})
		}

		return c.Next()
	}
}

// RequireSelfOrAdmin lets a user act on their own :id. Admins may act on any.
func (m *Middleware) RequireSelfOrAdmin() fiber.Handler {
	log := m.log.Function("RequireSelfOrAdmin")

	return func(c *fiber.Ctx) error {
		user := GetUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authentication required",
			})
		}

		if user.IsAdmin || c.Params("id") == user.ID.String() {
			return c.Next()
		}

		log.Info("user acting on another account", "userID", user.ID, "target", c.Params("id"))
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "you can only modify your own account",
		})
	}
}

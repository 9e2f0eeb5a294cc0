package handlers

import (
	"mygamelist/internal/handlers/middleware"
	"mygamelist/internal/models"
	"mygamelist/internal/websockets"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketHandler serves catalog notifications to authenticated clients.
func WebSocketHandler(router fiber.Router, mw middleware.Middleware, wsManager *websockets.Manager) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}, mw.RequireAuth())

	router.Get("/ws", websocket.New(func(c *websocket.Conn) {
		user, ok := c.Locals(middleware.UserKeyFiber).(*models.User)
		if !ok {
			_ = c.Close()
			return
		}
		wsManager.HandleWebSocket(c, user.ID)
	}))
}

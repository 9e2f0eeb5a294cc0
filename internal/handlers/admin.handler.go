package handlers

import (
	adminController "mygamelist/internal/controllers/admin"
	"mygamelist/internal/handlers/middleware"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Handler
	controller adminController.AdminControllerInterface
}

func NewAdminHandler(
	router fiber.Router,
	mw middleware.Middleware,
	controller adminController.AdminControllerInterface,
) *AdminHandler {
	return &AdminHandler{
		Handler:    newHandler(router, mw, "admin_handler"),
		controller: controller,
	}
}

func (h *AdminHandler) Register() {
	admin := h.router.Group("/admin", h.middleware.RequireAuth(), h.middleware.RequireAdmin())

	admin.Get("/status", h.getStatus)
	admin.Post("/dedupe", h.triggerDedupe)
	admin.Post("/facets/refresh", h.refreshFacets)
}

func (h *AdminHandler) getStatus(c *fiber.Ctx) error {
	return c.JSON(h.controller.GetStatus(c.UserContext()))
}

func (h *AdminHandler) triggerDedupe(c *fiber.Ctx) error {
	result, err := h.controller.TriggerDedupe(c.UserContext())
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(result)
}

func (h *AdminHandler) refreshFacets(c *fiber.Ctx) error {
	if err := h.controller.RefreshFacets(c.UserContext()); err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(fiber.Map{"message": "facets refreshed"})
}

package handlers

import (
	libraryController "mygamelist/internal/controllers/library"
	"mygamelist/internal/handlers/middleware"

	"github.com/gofiber/fiber/v2"
)

type LibraryHandler struct {
	Handler
	controller libraryController.LibraryControllerInterface
}

func NewLibraryHandler(
	router fiber.Router,
	mw middleware.Middleware,
	controller libraryController.LibraryControllerInterface,
) *LibraryHandler {
	return &LibraryHandler{
		Handler:    newHandler(router, mw, "library_handler"),
		controller: controller,
	}
}

func (h *LibraryHandler) Register() {
	library := h.router.Group("/library", h.middleware.RequireAuth())

	library.Post("/", h.createEntry)
	library.Get("/", h.listOwn)
	library.Get("/users/:userId", h.listForUser)
	library.Get("/games/:gameId", h.getEntry)
	library.Put("/games/:gameId", h.updateEntry)
	library.Delete("/:id", h.deleteEntry)
}

func (h *LibraryHandler) createEntry(c *fiber.Ctx) error {
	var req libraryController.CreateEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	entry, err := h.controller.CreateEntry(c.UserContext(), middleware.GetUser(c), req)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (h *LibraryHandler) listOwn(c *fiber.Ctx) error {
	entries, err := h.controller.ListOwn(c.UserContext(), middleware.GetUser(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(entries)
}

func (h *LibraryHandler) listForUser(c *fiber.Ctx) error {
	userID, err := parseUUIDParam(c, "userId")
	if err != nil {
		return h.handleError(c, err)
	}

	entries, err := h.controller.ListForUser(c.UserContext(), userID)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(entries)
}

func (h *LibraryHandler) getEntry(c *fiber.Ctx) error {
	gameID, err := parseUUIDParam(c, "gameId")
	if err != nil {
		return h.handleError(c, err)
	}
	userID, err := optionalUUIDQuery(c, "userId")
	if err != nil {
		return h.handleError(c, err)
	}

	entry, err := h.controller.GetEntry(c.UserContext(), middleware.GetUser(c), userID, gameID)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(entry)
}

func (h *LibraryHandler) updateEntry(c *fiber.Ctx) error {
	gameID, err := parseUUIDParam(c, "gameId")
	if err != nil {
		return h.handleError(c, err)
	}
	userID, err := optionalUUIDQuery(c, "userId")
	if err != nil {
		return h.handleError(c, err)
	}

	var req libraryController.UpdateEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	entry, err := h.controller.UpdateEntry(
		c.UserContext(),
		middleware.GetUser(c),
		userID,
		gameID,
		req,
	)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(entry)
}

func (h *LibraryHandler) deleteEntry(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return h.handleError(c, err)
	}

	if err := h.controller.DeleteEntry(c.UserContext(), middleware.GetUser(c), id); err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(fiber.Map{"message": "library entry deleted"})
}

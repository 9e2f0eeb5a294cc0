package handlers

import (
	userController "mygamelist/internal/controllers/users"
	"mygamelist/internal/handlers/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	Handler
	controller userController.UserControllerInterface
}

func NewUserHandler(
	router fiber.Router,
	mw middleware.Middleware,
	controller userController.UserControllerInterface,
) *UserHandler {
	return &UserHandler{
		Handler:    newHandler(router, mw, "user_handler"),
		controller: controller,
	}
}

func (h *UserHandler) Register() {
	users := h.router.Group("/users", h.middleware.RequireAuth())

	users.Get("/profile", h.getProfile)
	users.Get("/", h.middleware.RequireAdmin(), h.listUsers)
	users.Get("/search", h.searchUsers)
	users.Get("/:id", h.getUser)
	users.Put("/:id", h.middleware.RequireSelfOrAdmin(), h.updateUser)
	users.Delete("/:id", h.middleware.RequireSelfOrAdmin(), h.deleteUser)
	users.Post("/:id/follow", h.follow)
}

func (h *UserHandler) getProfile(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	profile, err := h.controller.GetProfile(c.UserContext(), user.ID)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(profile)
}

func (h *UserHandler) listUsers(c *fiber.Ctx) error {
	users, err := h.controller.ListUsers(c.UserContext())
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(users)
}

func (h *UserHandler) searchUsers(c *fiber.Ctx) error {
	users, err := h.controller.SearchUsers(c.UserContext(), c.Query("query"))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(users)
}

func (h *UserHandler) getUser(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return h.handleError(c, err)
	}

	user, err := h.controller.GetUser(c.UserContext(), id)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(user)
}

func (h *UserHandler) updateUser(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return h.handleError(c, err)
	}

	var req userController.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	user, err := h.controller.UpdateUser(c.UserContext(), id, req)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(user)
}

func (h *UserHandler) deleteUser(c *fiber.Ctx) error {
	log := h.log.Function("deleteUser")

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return h.handleError(c, err)
	}

	if err := h.controller.DeleteUser(c.UserContext(), id); err != nil {
		return h.handleError(c, err)
	}

	caller := middleware.GetUser(c)
	if caller.ID == id {
		clearSessionCookie(c, h.middleware.Config.CookieSecure)
	}

	log.Info("user deleted", "userID", id, "by", caller.ID)
	return c.JSON(fiber.Map{"message": "user deleted"})
}

func (h *UserHandler) follow(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return h.handleError(c, err)
	}

	result, err := h.controller.Follow(c.UserContext(), middleware.GetUser(c).ID, id)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(result)
}

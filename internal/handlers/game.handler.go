package handlers

import (
	gamesController "mygamelist/internal/controllers/games"
	"mygamelist/internal/handlers/middleware"
	"mygamelist/internal/types"

	"github.com/gofiber/fiber/v2"
)

type GamesHandler struct {
	Handler
	controller gamesController.GamesControllerInterface
}

func NewGamesHandler(
	router fiber.Router,
	mw middleware.Middleware,
	controller gamesController.GamesControllerInterface,
) *GamesHandler {
	return &GamesHandler{
		Handler:    newHandler(router, mw, "game_handler"),
		controller: controller,
	}
}

func (h *GamesHandler) Register() {
	games := h.router.Group("/games")

	games.Get("/", h.listGames)
	games.Get("/search", h.searchGames)
	games.Get("/top-games", h.getTopGames)
	games.Get("/filters", h.getFilters)
	games.Get("/:id", h.getGame)

	admin := games.Group("/", h.middleware.RequireAuth(), h.middleware.RequireAdmin())
	admin.Post("/", h.createGame)
	admin.Put("/:id", h.updateGame)
	admin.Delete("/:id", h.deleteGame)
}

func (h *GamesHandler) listGames(c *fiber.Ctx) error {
	games, err := h.controller.ListGames(c.UserContext())
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(games)
}

func (h *GamesHandler) searchGames(c *fiber.Ctx) error {
	games, err := h.controller.SearchGames(c.UserContext(), c.Query("search"))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(games)
}

func (h *GamesHandler) getTopGames(c *fiber.Ctx) error {
	games, err := h.controller.GetTopGames(c.UserContext(), types.TopGamesParams{
		Limit:    c.Query("limit"),
		Platform: c.Query("platform"),
		Tag:      c.Query("tag"),
		Rating:   c.Query("rating"),
		Released: c.Query("released"),
	})
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(games)
}

func (h *GamesHandler) getFilters(c *fiber.Ctx) error {
	facets, err := h.controller.GetFilters(c.UserContext())
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(facets)
}

func (h *GamesHandler) getGame(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return h.handleError(c, err)
	}

	game, err := h.controller.GetGame(c.UserContext(), id)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(game)
}

func (h *GamesHandler) createGame(c *fiber.Ctx) error {
	var req gamesController.GameRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	game, err := h.controller.CreateGame(c.UserContext(), req)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(game)
}

func (h *GamesHandler) updateGame(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return h.handleError(c, err)
	}

	var req gamesController.GameRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	game, err := h.controller.UpdateGame(c.UserContext(), id, req)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(game)
}

func (h *GamesHandler) deleteGame(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return h.handleError(c, err)
	}

	if err := h.controller.DeleteGame(c.UserContext(), id); err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(fiber.Map{"message": "game deleted"})
}

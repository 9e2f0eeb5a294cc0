package handlers

import (
	"context"
	"errors"
	"testing"

	gamesController "mygamelist/internal/controllers/games"
	"mygamelist/internal/models"
	"mygamelist/internal/repositories/mocks"
	"mygamelist/internal/types"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixedFacets struct{}

func (fixedFacets) Get(ctx context.Context) (types.FacetSet, error) {
	facets := types.EmptyFacetSet()
	facets.Platforms = []string{"PC"}
	return facets, nil
}

func newGamesServer(t *testing.T) (*testServer, *mocks.GameRepository) {
	s := newTestServer(t)
	games := &mocks.GameRepository{}
	controller := gamesController.NewWithFacets(games, fixedFacets{}, nil, s.config)
	NewGamesHandler(s.api, s.mw, controller).Register()
	return s, games
}

func TestGamesHandler_PublicRoutes(t *testing.T) {
	t.Run("top games", func(t *testing.T) {
		s, games := newGamesServer(t)
		games.On("FindTopByPopularity", mock.Anything, mock.Anything, 2).Return([]models.Game{
			{IDGameBD: 1, Name: "Low", Rating: 2},
			{IDGameBD: 2, Name: "High", Rating: 4.8},
		}, nil)

		resp := s.do(t, fiber.MethodGet, "/api/games/top-games?limit=2", "", nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body []models.Game
		decode(t, resp, &body)
		require.Len(t, body, 2)
		assert.Equal(t, "High", body[0].Name)
	})

	t.Run("filters", func(t *testing.T) {
		s, _ := newGamesServer(t)

		resp := s.do(t, fiber.MethodGet, "/api/games/filters", "", nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body types.FacetSet
		decode(t, resp, &body)
		assert.Equal(t, []string{"PC"}, body.Platforms)
	})

	t.Run("search", func(t *testing.T) {
		s, games := newGamesServer(t)
		games.On("SearchByName", mock.Anything, "zelda").Return([]models.Game{}, nil)

		resp := s.do(t, fiber.MethodGet, "/api/games/search?search=Zelda", "", nil)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		games.AssertExpectations(t)
	})

	t.Run("malformed id", func(t *testing.T) {
		s, _ := newGamesServer(t)

		resp := s.do(t, fiber.MethodGet, "/api/games/not-a-uuid", "", nil)
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		var body map[string]string
		decode(t, resp, &body)
		assert.Equal(t, "invalid id", body["error"])
	})

	t.Run("missing game", func(t *testing.T) {
		s, games := newGamesServer(t)
		id := uuid.New()
		games.On("GetByID", mock.Anything, id).Return(nil, types.Wrap(types.ErrNotFound, "game not found"))

		resp := s.do(t, fiber.MethodGet, "/api/games/"+id.String(), "", nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("storage failure hides details", func(t *testing.T) {
		s, games := newGamesServer(t)
		games.On("List", mock.Anything).
			Return(nil, types.StorageError("list games", errors.New("connection refused")))

		resp := s.do(t, fiber.MethodGet, "/api/games", "", nil)
		require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

		var body map[string]string
		decode(t, resp, &body)
		assert.Equal(t, "internal server error", body["error"])
	})
}

func TestGamesHandler_AdminRoutes(t *testing.T) {
	valid := map[string]any{"idGameBD": 99, "name": "Hades"}

	t.Run("anonymous", func(t *testing.T) {
		s, _ := newGamesServer(t)
		resp := s.do(t, fiber.MethodPost, "/api/games", "", valid)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("not an admin", func(t *testing.T) {
		s, _ := newGamesServer(t)
		token := s.signIn(t, newUser("player", false))

		resp := s.do(t, fiber.MethodPost, "/api/games", token, valid)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("field error", func(t *testing.T) {
		s, _ := newGamesServer(t)
		token := s.signIn(t, newUser("admin", true))

		resp := s.do(t, fiber.MethodPost, "/api/games", token, map[string]any{"idGameBD": 99})
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		var body map[string]string
		decode(t, resp, &body)
		assert.Equal(t, "name", body["field"])
	})

	t.Run("malformed body", func(t *testing.T) {
		s, _ := newGamesServer(t)
		token := s.signIn(t, newUser("admin", true))

		resp := s.do(t, fiber.MethodPost, "/api/games", token, "{not json")
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("create", func(t *testing.T) {
		s, games := newGamesServer(t)
		token := s.signIn(t, newUser("admin", true))
		games.On("Create", mock.Anything, mock.Anything).Return(nil)

		resp := s.do(t, fiber.MethodPost, "/api/games", token, valid)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)

		var body models.Game
		decode(t, resp, &body)
		assert.Equal(t, "Hades", body.Name)
	})

	t.Run("delete", func(t *testing.T) {
		s, games := newGamesServer(t)
		token := s.signIn(t, newUser("admin", true))
		id := uuid.New()
		games.On("Delete", mock.Anything, id).Return(nil)

		resp := s.do(t, fiber.MethodDelete, "/api/games/"+id.String(), token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body map[string]string
		decode(t, resp, &body)
		assert.Equal(t, "game deleted", body["message"])
	})
}

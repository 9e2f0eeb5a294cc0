package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mygamelist/config"
	"mygamelist/internal/handlers/middleware"
	"mygamelist/internal/models"
	"mygamelist/internal/repositories/mocks"
	"mygamelist/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	app    *fiber.App
	api    fiber.Router
	users  *mocks.UserRepository
	tokens *services.TokenService
	mw     middleware.Middleware
	config config.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := config.Config{
		GeneralVersion:      "test",
		JWTSecret:           "handler-test-secret",
		JWTExpiryHours:      1,
		StoreTimeoutSeconds: 5,
		TopGamesMaxLimit:    100,
		LoginRatePerMinute:  2,
	}

	tokens := services.NewTokenService(cfg, nil)
	users := &mocks.UserRepository{}
	mw := middleware.NewMiddleware(tokens, users, cfg)

	app := fiber.New()
	app.Use(mw.TraceID())

	return &testServer{
		app:    app,
		api:    app.Group("/api"),
		users:  users,
		tokens: tokens,
		mw:     mw,
		config: cfg,
	}
}

// signIn registers user with the repository mock and returns a bearer token.
func (s *testServer) signIn(t *testing.T, user *models.User) string {
	t.Helper()

	s.users.On("GetByID", mock.Anything, user.ID).Return(user, nil).Maybe()

	token, _, err := s.tokens.Issue(user)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			encoded, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(encoded)
		}
		reader = strings.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, target any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func newUser(username string, admin bool) *models.User {
	return &models.User{
		BaseUUIDModel: models.BaseUUIDModel{ID: uuid.New()},
		Username:      username,
		Email:         username + "@example.com",
		IsAdmin:       admin,
	}
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer(t)
	HealthHandler(s.api, s.config)

	resp := s.do(t, fiber.MethodGet, "/api/health", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	decode(t, resp, &body)
	require.Equal(t, "mygamelist_api", body["service"])
	require.Equal(t, "test", body["version"])
	require.NotEmpty(t, resp.Header.Get(middleware.TraceIDHeader))
}

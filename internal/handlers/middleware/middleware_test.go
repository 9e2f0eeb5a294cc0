package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"mygamelist/config"
	"mygamelist/internal/models"
	"mygamelist/internal/repositories/mocks"
	"mygamelist/internal/services"
	"mygamelist/internal/types"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (Middleware, *services.TokenService, *mocks.UserRepository) {
	t.Helper()
	cfg := config.Config{JWTSecret: "middleware-test-secret", JWTExpiryHours: 1, LoginRatePerMinute: 1}
	tokens := services.NewTokenService(cfg, nil)
	users := &mocks.UserRepository{}
	return NewMiddleware(tokens, users, cfg), tokens, users
}

func whoAmI(c *fiber.Ctx) error {
	user := GetUser(c)
	if user == nil {
		return c.SendString("anonymous")
	}
	return c.SendString(user.Username)
}

func send(t *testing.T, app *fiber.App, req *http.Request) (int, string) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestRequireAuth(t *testing.T) {
	mw, tokens, users := setup(t)

	user := &models.User{BaseUUIDModel: models.BaseUUIDModel{ID: uuid.New()}, Username: "player"}
	users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	token, _, err := tokens.Issue(user)
	require.NoError(t, err)

	ghost := &models.User{BaseUUIDModel: models.BaseUUIDModel{ID: uuid.New()}, Username: "ghost"}
	users.On("GetByID", mock.Anything, ghost.ID).Return(nil, types.Wrap(types.ErrNotFound, "user not found"))
	ghostToken, _, err := tokens.Issue(ghost)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/me", mw.RequireAuth(), whoAmI)

	t.Run("bearer", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		status, body := send(t, app, req)
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "player", body)
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
		status, _ := send(t, app, req)
		assert.Equal(t, fiber.StatusOK, status)
	})

	t.Run("missing", func(t *testing.T) {
		status, _ := send(t, app, httptest.NewRequest(fiber.MethodGet, "/me", nil))
		assert.Equal(t, fiber.StatusUnauthorized, status)
	})

	t.Run("garbage", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer not.a.token")
		status, body := send(t, app, req)
		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.Contains(t, body, "invalid token")
	})

	t.Run("deleted user", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+ghostToken)
		status, _ := send(t, app, req)
		assert.Equal(t, fiber.StatusUnauthorized, status)
	})
}

func TestRequireAuth_UserLoadHasDeadline(t *testing.T) {
	mw, tokens, users := setup(t)

	user := &models.User{BaseUUIDModel: models.BaseUUIDModel{ID: uuid.New()}, Username: "player"}
	users.On("GetByID", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), user.ID).Return(user, nil)
	token, _, err := tokens.Issue(user)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/me", mw.RequireAuth(), whoAmI)

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	status, body := send(t, app, req)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "player", body)
	users.AssertExpectations(t)
}

func TestOptionalAuth(t *testing.T) {
	mw, _, _ := setup(t)

	app := fiber.New()
	app.Get("/me", mw.OptionalAuth(), whoAmI)

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer not.a.token")
	status, body := send(t, app, req)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "anonymous", body)
}

func TestRequireSelfOrAdmin(t *testing.T) {
	mw, _, _ := setup(t)
	self := uuid.New()

	as := func(user *models.User) fiber.Handler {
		return func(c *fiber.Ctx) error {
			c.Locals(UserKeyFiber, user)
			return c.Next()
		}
	}

	testCases := []struct {
		name   string
		user   *models.User
		target string
		want   int
	}{
		{"self", &models.User{BaseUUIDModel: models.BaseUUIDModel{ID: self}}, self.String(), fiber.StatusOK},
		{"other", &models.User{BaseUUIDModel: models.BaseUUIDModel{ID: self}}, uuid.NewString(), fiber.StatusForbidden},
		{"admin", &models.User{BaseUUIDModel: models.BaseUUIDModel{ID: self}, IsAdmin: true}, uuid.NewString(), fiber.StatusOK},
		{"anonymous", nil, self.String(), fiber.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Put("/users/:id", as(tc.user), mw.RequireSelfOrAdmin(), whoAmI)

			status, _ := send(t, app, httptest.NewRequest(fiber.MethodPut, "/users/"+tc.target, nil))
			assert.Equal(t, tc.want, status)
		})
	}
}

func TestLoginRateLimit(t *testing.T) {
	mw, _, _ := setup(t)

	app := fiber.New()
	app.Post("/login", mw.LoginRateLimit(), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	status, _ := send(t, app, httptest.NewRequest(fiber.MethodPost, "/login", nil))
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = send(t, app, httptest.NewRequest(fiber.MethodPost, "/login", nil))
	assert.Equal(t, fiber.StatusTooManyRequests, status)
}

func TestIPLimiter_Disabled(t *testing.T) {
	limiter := newIPLimiter(0)
	for i := 0; i < 5; i++ {
		assert.True(t, limiter.allow("10.0.0.1"))
	}
}

func TestTraceID(t *testing.T) {
	mw, _, _ := setup(t)

	app := fiber.New()
	app.Get("/", mw.TraceID(), func(c *fiber.Ctx) error { return c.SendString(GetTraceID(c)) })

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(TraceIDHeader, "trace-123")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "trace-123", resp.Header.Get(TraceIDHeader))

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(TraceIDHeader))
}

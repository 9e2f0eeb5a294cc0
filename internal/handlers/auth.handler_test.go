package handlers

import (
	"testing"

	authController "mygamelist/internal/controllers/auth"
	"mygamelist/internal/handlers/middleware"
	"mygamelist/internal/models"
	"mygamelist/internal/types"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAuthServer(t *testing.T) *testServer {
	s := newTestServer(t)
	NewAuthHandler(s.api, s.mw, authController.NewAuthController(s.users, s.tokens, s.config)).Register()
	return s
}

func TestAuthHandler_Signup(t *testing.T) {
	s := newAuthServer(t)
	notFound := types.Wrap(types.ErrNotFound, "user not found")
	s.users.On("GetByUsername", mock.Anything, "newbie").Return(nil, notFound)
	s.users.On("GetByEmail", mock.Anything, "newbie@example.com").Return(nil, notFound)
	s.users.On("Create", mock.Anything, mock.Anything).Return(nil)

	resp := s.do(t, fiber.MethodPost, "/api/users/signup", "", map[string]any{
		"username": "newbie",
		"email":    "newbie@example.com",
		"password": "secret1",
		"isAdmin":  true,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body models.User
	decode(t, resp, &body)
	assert.Equal(t, "newbie", body.Username)
	assert.False(t, body.IsAdmin, "anonymous signup cannot grant admin")
}

func TestAuthHandler_LoginAndLogout(t *testing.T) {
	s := newAuthServer(t)

	user := newUser("player", false)
	require.NoError(t, user.SetPassword("secret1"))
	s.users.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)
	s.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	resp := s.do(t, fiber.MethodPost, "/api/users/login", "", map[string]string{
		"email":    user.Email,
		"password": "secret1",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var cookieValue string
	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.TokenCookie {
			cookieValue = cookie.Value
			assert.True(t, cookie.HttpOnly)
			assert.Equal(t, "/", cookie.Path)
		}
	}

	var body map[string]string
	decode(t, resp, &body)
	require.NotEmpty(t, body["token"])
	assert.Equal(t, body["token"], cookieValue)

	resp = s.do(t, fiber.MethodPost, "/api/users/logout", body["token"], nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = s.do(t, fiber.MethodPost, "/api/users/logout", body["token"], nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var rejected map[string]string
	decode(t, resp, &rejected)
	assert.Equal(t, "token revoked", rejected["error"])
}

func TestAuthHandler_BadCredentials(t *testing.T) {
	s := newAuthServer(t)

	user := newUser("player", false)
	require.NoError(t, user.SetPassword("secret1"))
	s.users.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

	resp := s.do(t, fiber.MethodPost, "/api/users/login", "", map[string]string{
		"email":    user.Email,
		"password": "wrong-password",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "invalid email or password", body["error"])
}

func TestAuthHandler_LoginIsRateLimited(t *testing.T) {
	s := newAuthServer(t)
	s.users.On("GetByEmail", mock.Anything, mock.Anything).
		Return(nil, types.Wrap(types.ErrNotFound, "user not found"))

	login := map[string]string{"email": "nobody@example.com", "password": "secret1"}

	for i := 0; i < s.config.LoginRatePerMinute; i++ {
		resp := s.do(t, fiber.MethodPost, "/api/users/login", "", login)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	}

	resp := s.do(t, fiber.MethodPost, "/api/users/login", "", login)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

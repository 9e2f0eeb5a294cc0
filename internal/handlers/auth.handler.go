package handlers

import (
	"time"

	authController "mygamelist/internal/controllers/auth"
	"mygamelist/internal/handlers/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Handler
	controller authController.AuthControllerInterface
}

func NewAuthHandler(
	router fiber.Router,
	mw middleware.Middleware,
	controller authController.AuthControllerInterface,
) *AuthHandler {
	return &AuthHandler{
		Handler:    newHandler(router, mw, "auth_handler"),
		controller: controller,
	}
}

func (h *AuthHandler) Register() {
	users := h.router.Group("/users")

	users.Post("/signup", h.middleware.OptionalAuth(), h.signup)
	users.Post("/login", h.middleware.LoginRateLimit(), h.login)
	users.Post("/logout", h.middleware.RequireAuth(), h.logout)
}

// signup creates an account. An admin caller may create other admins.
func (h *AuthHandler) signup(c *fiber.Ctx) error {
	var req authController.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	user, err := h.controller.Signup(c.UserContext(), req, middleware.GetUser(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	log := h.log.Function("login")

	var req authController.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	result, err := h.controller.Login(c.UserContext(), req)
	if err != nil {
		return h.handleError(c, err)
	}

	h.setSessionCookie(c, result.Token, result.Claims.ExpiresAt.Time)

	log.Info("user logged in", "userID", result.User.ID)
	return c.JSON(fiber.Map{
		"message": "login successful",
		"token":   result.Token,
	})
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	if err := h.controller.Logout(c.UserContext(), middleware.GetClaims(c)); err != nil {
		return h.handleError(c, err)
	}

	clearSessionCookie(c, h.middleware.Config.CookieSecure)
	return c.JSON(fiber.Map{"message": "logged out"})
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.middleware.Config.CookieSecure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func clearSessionCookie(c *fiber.Ctx, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

package middleware

import (
	"context"
	"errors"
	"strings"

	"mygamelist/internal/models"
	"mygamelist/internal/services"
	"mygamelist/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AuthContextKey is used to store auth info in context
type AuthContextKey string

const (
	UserKey        AuthContextKey = "user"
	UserKeyFiber   string         = "User"
	ClaimsKeyFiber string         = "Claims"
	TokenCookie    string         = "token"
)

// RequireAuth accepts the session cookie, or a bearer token when no cookie is
// sent, and loads the caller.
func (m *Middleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := logger.New("middleware").TraceFromContext(c.UserContext()).Function("RequireAuth")

		token := extractToken(c)
		if token == "" {
			log.Debug("missing session token")
			return unauthorized(c, "authentication required")
		}

		user, claims, err := m.authenticate(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, types.ErrUnauthorized) {
				log.Info("rejected session token", "error", err)
				return unauthorized(c, err.Error())
			}
			log.Er("failed to authenticate request", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal server error",
			})
		}

		setCaller(c, user, claims)
		return c.Next()
	}
}

// OptionalAuth loads the caller when a valid token is present and otherwise
// lets the request through anonymously.
func (m *Middleware) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return c.Next()
		}

		if user, claims, err := m.authenticate(c.UserContext(), token); err == nil {
			setCaller(c, user, claims)
		}
		return c.Next()
	}
}

func (m *Middleware) authenticate(
	ctx context.Context,
	token string,
) (*models.User, *services.Claims, error) {
	claims, err := m.tokens.Parse(token)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, m.Config.StoreTimeout())
	defer cancel()

	revoked, err := m.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, nil, err
	}
	if revoked {
		return nil, nil, types.Wrap(types.ErrUnauthorized, "token revoked")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, nil, types.Wrap(types.ErrUnauthorized, "invalid token")
	}

	user, err := m.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, nil, types.Wrap(types.ErrUnauthorized, "user not found")
		}
		return nil, nil, err
	}

	return user, claims, nil
}

func extractToken(c *fiber.Ctx) string {
	if token := c.Cookies(TokenCookie); token != "" {
		return token
	}

	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func setCaller(c *fiber.Ctx, user *models.User, claims *services.Claims) {
	c.Locals(UserKeyFiber, user)
	c.Locals(ClaimsKeyFiber, claims)
	c.SetUserContext(context.WithValue(c.UserContext(), UserKey, user))
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": message})
}

// GetUser extracts user from Fiber context
func GetUser(c *fiber.Ctx) *models.User {
	user, ok := c.Locals(UserKeyFiber).(*models.User)
	if !ok {
		return nil
	}
	return user
}

func GetClaims(c *fiber.Ctx) *services.Claims {
	claims, ok := c.Locals(ClaimsKeyFiber).(*services.Claims)
	if !ok {
		return nil
	}
	return claims
}

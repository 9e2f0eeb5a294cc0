package handlers

import (
	"errors"

	"mygamelist/internal/types"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// statusFor maps the shared error sentinels onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, types.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, types.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, types.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, types.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *Handler) handleError(c *fiber.Ctx, err error) error {
	var fieldErr *types.FieldError
	if errors.As(err, &fieldErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"field": fieldErr.Field,
			"error": fieldErr.Message,
		})
	}

	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		h.log.TraceFromContext(c.UserContext()).
			Er("request failed", err, "method", c.Method(), "path", c.Path())
		return c.Status(status).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, types.Wrap(types.ErrValidation, "invalid "+name)
	}
	return id, nil
}

// optionalUUIDQuery returns nil when the query value is absent.
func optionalUUIDQuery(c *fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, types.Wrap(types.ErrValidation, "invalid "+name)
	}
	return &id, nil
}


package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"mixing-service/internal/services"
)

var errorStatus = []struct {
	err     error
	status  int
	message string
}{
	{services.ErrInsufficientCredit, fiber.StatusForbidden, "Not enough credits to add a new track"},
	{services.ErrNotOwner, fiber.StatusForbidden, "You do not own this project"},
	{services.ErrProjectInactive, fiber.StatusForbidden, "This project is not accepting changes"},
	{services.ErrForbidden, fiber.StatusForbidden, "You may not access this file"},
	{services.ErrNotFound, fiber.StatusNotFound, "Not found"},
	{services.ErrUnauthenticated, fiber.StatusUnauthorized, "Authentication credentials were not provided or are invalid"},
	{services.ErrUsernameTaken, fiber.StatusConflict, "Username already taken"},
}

// respondError writes the JSON error body for a service error. Unknown errors
// are logged and reported as 500.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	var invalidErr *services.ValidationError
	if errors.As(err, &invalidErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": invalidErr.Message,
		})
	}
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return c.Status(e.status).JSON(fiber.Map{
				"error":   true,
				"message": e.message,
			})
		}
	}
	logger.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   true,
		"message": "Internal server error",
	})
}

func badRequest(c *fiber.Ctx, message string, err error) error {
	body := fiber.Map{
		"error":   true,
		"message": message,
	}
	if err != nil {
		body["details"] = err.Error()
	}
	return c.Status(fiber.StatusBadRequest).JSON(body)
}

// paramUUID parses a UUID path parameter.
func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}

// queryUUID parses an optional UUID query parameter. It returns nil when
// the parameter is absent.
func queryUUID(c *fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

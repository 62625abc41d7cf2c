package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-stonestock-ws/internal/service"
)

// httpError maps service errors onto HTTP statuses. Anything unrecognized is
// a 400 with the error text; the services keep their messages client-safe.
func httpError(c *fiber.Ctx, err error) error {
	var insufficient *service.InsufficientStockError
	var quantity *service.QuantityError

	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		return c.Status(403).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(404).JSON(fiber.Map{"error": "Not found"})
	case errors.Is(err, service.ErrAlreadyCancelled):
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrImportRunning):
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &insufficient):
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &quantity):
		return c.Status(422).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(400).JSON(fiber.Map{"error": err.Error()})
}

func uuidParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}

// locationQuery parses the optional ?location_id= filter.
func locationQuery(c *fiber.Ctx) (*uuid.UUID, error) {
	raw := c.Query("location_id")
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

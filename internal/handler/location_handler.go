package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-stonestock-ws/internal/middleware"
	"go-stonestock-ws/internal/service"
)

type LocationHandler struct {
	service service.LocationService
}

func NewLocationHandler(s service.LocationService) *LocationHandler {
	return &LocationHandler{service: s}
}

func (h *LocationHandler) List(c *fiber.Ctx) error {
	locations, err := h.service.List(middleware.ActorFrom(c))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"data": locations})
}

func (h *LocationHandler) Create(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	loc, err := h.service.Create(middleware.ActorFrom(c), req.Name)
	if err != nil {
		return httpError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Location created", "data": loc})
}

func (h *LocationHandler) Deactivate(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid location id"})
	}
	if err := h.service.Deactivate(middleware.ActorFrom(c), id); err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Location deactivated"})
}

package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-stonestock-ws/internal/middleware"
	"go-stonestock-ws/internal/service"
)

type AdjustmentHandler struct {
	service service.AdjustmentService
}

func NewAdjustmentHandler(s service.AdjustmentService) *AdjustmentHandler {
	return &AdjustmentHandler{service: s}
}

func (h *AdjustmentHandler) Create(c *fiber.Ctx) error {
	var req service.AdjustmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := h.service.Adjust(middleware.ActorFrom(c), &req); err != nil {
		return httpError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Adjustment recorded"})
}

func (h *AdjustmentHandler) CreateBatch(c *fiber.Ctx) error {
	var req service.BatchAdjustmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := h.service.AdjustBatch(middleware.ActorFrom(c), &req); err != nil {
		return httpError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Adjustments recorded"})
}

func (h *AdjustmentHandler) List(c *fiber.Ctx) error {
	entries, err := h.service.List(middleware.ActorFrom(c), c.Query("search"), c.QueryInt("limit"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"data": entries})
}

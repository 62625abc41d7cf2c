package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-stonestock-ws/internal/middleware"
	"go-stonestock-ws/internal/model"
	"go-stonestock-ws/internal/service"
)

type ItemHandler struct {
	service service.ItemService
}

func NewItemHandler(s service.ItemService) *ItemHandler {
	return &ItemHandler{service: s}
}

func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var item model.Item
	if err := c.BodyParser(&item); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.Create(middleware.ActorFrom(c), &item); err != nil {
		return httpError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Item created", "data": item})
}

func (h *ItemHandler) Update(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item id"})
	}
	var item model.Item
	if err := c.BodyParser(&item); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.Update(middleware.ActorFrom(c), id, &item)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item updated", "data": updated})
}

func (h *ItemHandler) List(c *fiber.Ctx) error {
	items, err := h.service.List(middleware.ActorFrom(c), c.Query("search"), c.Query("category"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"data": items})
}

func (h *ItemHandler) Get(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item id"})
	}
	item, err := h.service.Get(middleware.ActorFrom(c), id)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"data": item})
}

func (h *ItemHandler) GetBySKU(c *fiber.Ctx) error {
	item, err := h.service.GetBySKU(middleware.ActorFrom(c), c.Params("sku"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"data": item})
}

func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item id"})
	}
	if err := h.service.Delete(middleware.ActorFrom(c), id); err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item deleted"})
}

package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-stonestock-ws/internal/middleware"
	"go-stonestock-ws/internal/model"
	"go-stonestock-ws/internal/service"
)

type StockHandler struct {
	service service.StockService
}

func NewStockHandler(s service.StockService) *StockHandler {
	return &StockHandler{service: s}
}

func (h *StockHandler) Ledger(c *fiber.Ctx) error {
	entries, err := h.service.Ledger(middleware.ActorFrom(c), c.Query("search"), c.QueryInt("limit"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"data": entries})
}

func (h *StockHandler) Balance(c *fiber.Ctx) error {
	itemID, err := uuidParam(c, "item_id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item id"})
	}
	locationID, err := locationQuery(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid location id"})
	}

	balance, err := h.service.BalanceOf(middleware.ActorFrom(c), itemID, locationID)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"data": balance})
}

func (h *StockHandler) Slabs(c *fiber.Ctx) error {
	rows, err := h.service.Slabs(middleware.ActorFrom(c), c.Query("search"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"data": rows})
}

func (h *StockHandler) Tiles(c *fiber.Ctx) error {
	rows, err := h.service.Tiles(middleware.ActorFrom(c), c.Query("search"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"data": rows})
}

func (h *StockHandler) Blocks(c *fiber.Ctx) error {
	rows, err := h.service.Blocks(middleware.ActorFrom(c), c.Query("search"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"data": rows})
}

func (h *StockHandler) Tables(c *fiber.Ctx) error {
	rows, err := h.service.Tables(middleware.ActorFrom(c), c.Query("search"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"data": rows})
}

// snapshotCategories maps the stock page path segment onto its category.
var snapshotCategories = map[string]model.Category{
	"slabs":  model.CategorySlab,
	"tiles":  model.CategoryTile,
	"blocks": model.CategoryBlock,
	"tables": model.CategoryTable,
}

func (h *StockHandler) HideSnapshot(c *fiber.Ctx) error {
	category, ok := snapshotCategories[c.Params("category")]
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Unknown stock category"})
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid snapshot id"})
	}

	if err := h.service.HideSnapshot(middleware.ActorFrom(c), category, id); err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Stock row hidden"})
}

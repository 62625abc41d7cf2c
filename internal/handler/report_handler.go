package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-stonestock-ws/internal/middleware"
	"go-stonestock-ws/internal/service"
)

type ReportHandler struct {
	service service.ReportService
	exports service.ExportService
}

func NewReportHandler(s service.ReportService, exports service.ExportService) *ReportHandler {
	return &ReportHandler{service: s, exports: exports}
}

func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	dash, err := h.service.Dashboard(middleware.ActorFrom(c))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"data": dash})
}

func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	locationID, err := locationQuery(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid location id"})
	}
	rows, err := h.service.LowStock(middleware.ActorFrom(c), c.QueryInt("limit"), locationID)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"data": rows})
}

func (h *ReportHandler) LocationSummary(c *fiber.Ctx) error {
	rows, err := h.service.LocationSummary(middleware.ActorFrom(c))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"data": rows})
}

func (h *ReportHandler) LocationStock(c *fiber.Ctx) error {
	locationID, err := locationQuery(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid location id"})
	}
	rows, err := h.service.LocationStock(middleware.ActorFrom(c), locationID, c.Query("category"), c.Query("search"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"data": rows})
}

// ExportStock streams the stock report in the requested format:
// ?format=csv|xlsx|pdf (default csv).
func (h *ReportHandler) ExportStock(c *fiber.Ctx) error {
	locationID, err := locationQuery(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid location id"})
	}
	actor := middleware.ActorFrom(c)
	category := c.Query("category")
	search := c.Query("search")

	var file *service.ExportFile
	switch c.Query("format", "csv") {
	case "csv":
		file, err = h.exports.StockReportCSV(actor, locationID, category, search)
	case "xlsx":
		file, err = h.exports.StockReportXLSX(actor, locationID, category, search)
	case "pdf":
		file, err = h.exports.StockReportPDF(c.Context(), actor, locationID, category, search)
	default:
		return c.Status(400).JSON(fiber.Map{"error": "Unknown format: use csv, xlsx or pdf"})
	}
	if err != nil {
		return httpError(c, err)
	}
	return sendFile(c, file)
}

package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-stonestock-ws/internal/middleware"
	"go-stonestock-ws/internal/service"
)

type TradeHandler struct {
	service service.TradeService
	exports service.ExportService
}

func NewTradeHandler(s service.TradeService, exports service.ExportService) *TradeHandler {
	return &TradeHandler{service: s, exports: exports}
}

func (h *TradeHandler) CreatePurchase(c *fiber.Ctx) error {
	var req service.PurchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	p, err := h.service.CreatePurchase(middleware.ActorFrom(c), &req)
	if err != nil {
		return httpError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Purchase recorded", "data": p})
}

func (h *TradeHandler) CreateSale(c *fiber.Ctx) error {
	var req service.SaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	s, err := h.service.CreateSale(middleware.ActorFrom(c), &req)
	if err != nil {
		return httpError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Sale recorded", "data": s})
}

func (h *TradeHandler) CreateSaleReturn(c *fiber.Ctx) error {
	var req service.SaleReturnRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	sr, err := h.service.CreateSaleReturn(middleware.ActorFrom(c), &req)
	if err != nil {
		return httpError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Sale return recorded", "data": sr})
}

func (h *TradeHandler) CreatePurchaseReturn(c *fiber.Ctx) error {
	var req service.PurchaseReturnRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	pr, err := h.service.CreatePurchaseReturn(middleware.ActorFrom(c), &req)
	if err != nil {
		return httpError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Purchase return recorded", "data": pr})
}

func (h *TradeHandler) ListPurchases(c *fiber.Ctx) error {
	rows, err := h.service.ListPurchases(middleware.ActorFrom(c), c.Query("search"), c.QueryInt("limit"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"data": rows})
}

func (h *TradeHandler) ListSales(c *fiber.Ctx) error {
	rows, err := h.service.ListSales(middleware.ActorFrom(c), c.Query("search"), c.QueryInt("limit"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"data": rows})
}

func (h *TradeHandler) ListSaleReturns(c *fiber.Ctx) error {
	rows, err := h.service.ListSaleReturns(middleware.ActorFrom(c), c.Query("search"), c.QueryInt("limit"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"data": rows})
}

func (h *TradeHandler) ListPurchaseReturns(c *fiber.Ctx) error {
	rows, err := h.service.ListPurchaseReturns(middleware.ActorFrom(c), c.Query("search"), c.QueryInt("limit"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"data": rows})
}

func (h *TradeHandler) GetPurchase(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid purchase id"})
	}
	p, err := h.service.GetPurchase(middleware.ActorFrom(c), id)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"data": p})
}

func (h *TradeHandler) GetSale(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale id"})
	}
	s, err := h.service.GetSale(middleware.ActorFrom(c), id)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"data": s})
}

func (h *TradeHandler) CancelPurchase(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid purchase id"})
	}
	if err := h.service.CancelPurchase(middleware.ActorFrom(c), id); err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Purchase cancelled"})
}

func (h *TradeHandler) CancelSale(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale id"})
	}
	if err := h.service.CancelSale(middleware.ActorFrom(c), id); err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Sale cancelled"})
}

func (h *TradeHandler) CancelSaleReturn(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale return id"})
	}
	if err := h.service.CancelSaleReturn(middleware.ActorFrom(c), id); err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Sale return cancelled"})
}

func (h *TradeHandler) CancelPurchaseReturn(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid purchase return id"})
	}
	if err := h.service.CancelPurchaseReturn(middleware.ActorFrom(c), id); err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Purchase return cancelled"})
}

func (h *TradeHandler) PurchaseInvoicePDF(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid purchase id"})
	}
	file, err := h.exports.PurchaseInvoicePDF(c.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		return httpError(c, err)
	}
	return sendFile(c, file)
}

func (h *TradeHandler) SaleInvoicePDF(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale id"})
	}
	file, err := h.exports.SaleInvoicePDF(c.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		return httpError(c, err)
	}
	return sendFile(c, file)
}

func sendFile(c *fiber.Ctx, file *service.ExportFile) error {
	c.Set("Content-Type", file.ContentType)
	c.Set("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	return c.Send(file.Data)
}

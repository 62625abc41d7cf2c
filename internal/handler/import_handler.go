package handler

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"go-stonestock-ws/internal/middleware"
	"go-stonestock-ws/internal/service"
)

type ImportHandler struct {
	service service.ImportService
}

func NewImportHandler(s service.ImportService) *ImportHandler {
	return &ImportHandler{service: s}
}

// Upload accepts a multipart "file" field and starts the import in the
// background. Progress streams over the websocket; Status polls the result.
func (h *ImportHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Missing file upload"})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Cannot open upload"})
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Cannot read upload"})
	}

	if err := h.service.Start(middleware.ActorFrom(c), fileHeader.Filename, data); err != nil {
		return httpError(c, err)
	}
	return c.Status(202).JSON(fiber.Map{"message": "Import started"})
}

func (h *ImportHandler) Status(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.service.Status()})
}

func (h *ImportHandler) Stop(c *fiber.Ctx) error {
	if err := h.service.Stop(middleware.ActorFrom(c)); err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Import stopping"})
}

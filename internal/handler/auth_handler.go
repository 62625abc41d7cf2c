package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-stonestock-ws/internal/middleware"
	"go-stonestock-ws/internal/service"
)

type AuthHandler struct {
	service service.AuthService
}

func NewAuthHandler(s service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	resp, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	actor := middleware.ActorFrom(c)
	if err := h.service.Logout(actor.UserID); err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// Me returns the current actor; the client uses it to rebuild UI state after
// a reload.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(middleware.ActorFrom(c))
}

func (h *AuthHandler) Heartbeat(c *fiber.Ctx) error {
	actor := middleware.ActorFrom(c)
	if err := h.service.Heartbeat(actor.UserID); err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"message": "ok"})
}

// FirstRunStatus is unauthenticated: the login screen asks it to decide
// whether to show the bootstrap form.
func (h *AuthHandler) FirstRunStatus(c *fiber.Ctx) error {
	needed, err := h.service.NeedsBootstrap()
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"needs_bootstrap": needed})
}

// Bootstrap creates the initial administrator. Only works on an empty user
// table; the service enforces that.
func (h *AuthHandler) Bootstrap(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	resp, err := h.service.BootstrapAdmin(req.Username, req.Password)
	if err != nil {
		return httpError(c, err)
	}
	return c.Status(201).JSON(resp)
}

package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-stonestock-ws/internal/middleware"
	"go-stonestock-ws/internal/service"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.service.List(middleware.ActorFrom(c))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"data": users})
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user id"})
	}
	user, err := h.service.Get(middleware.ActorFrom(c), id)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"data": user})
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req service.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	user, err := h.service.Create(middleware.ActorFrom(c), &req)
	if err != nil {
		return httpError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "User created", "data": user})
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user id"})
	}
	var req service.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	user, err := h.service.Update(middleware.ActorFrom(c), id, &req)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User updated", "data": user})
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user id"})
	}
	if err := h.service.Delete(middleware.ActorFrom(c), id); err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}

func (h *UserHandler) SetPrivileges(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user id"})
	}
	var req struct {
		Privileges []string `json:"privileges"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	user, err := h.service.SetPrivileges(middleware.ActorFrom(c), id, req.Privileges)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Privileges updated", "data": user})
}

func (h *UserHandler) ListRoles(c *fiber.Ctx) error {
	roles, err := h.service.ListRoles(middleware.ActorFrom(c))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"data": roles})
}

func (h *UserHandler) ListPrivileges(c *fiber.Ctx) error {
	privileges, err := h.service.ListPrivileges(middleware.ActorFrom(c))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(fiber.Map{"data": privileges})
}

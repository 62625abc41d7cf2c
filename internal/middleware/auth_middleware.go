package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"go-stonestock-ws/internal/model"
	"go-stonestock-ws/internal/repository"
	"go-stonestock-ws/pkg/jwt"
)

const actorKey = "actor"

// RequireAuth validates the bearer token and stores the resolved Actor in the
// request locals. The token version is re-checked against the database so a
// later login on another device invalidates this session.
func RequireAuth(userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "User not found"})
		}
		if !user.IsActive {
			return c.Status(401).JSON(fiber.Map{"error": "Account is disabled"})
		}
		if user.TokenVersion != claims.TokenVersion {
			return c.Status(401).JSON(fiber.Map{"error": "Session expired (logged in on another device)"})
		}

		c.Locals(actorKey, model.Actor{
			UserID:     user.ID,
			Username:   user.Username,
			RoleCode:   user.RoleCode(),
			Privileges: user.GetPrivilegeCodes(),
		})
		return c.Next()
	}
}

// ActorFrom retrieves the authenticated actor set by RequireAuth.
func ActorFrom(c *fiber.Ctx) model.Actor {
	if actor, ok := c.Locals(actorKey).(model.Actor); ok {
		return actor
	}
	return model.Actor{}
}

// RequirePrivilege rejects the request early when the actor lacks the
// privilege. Services check again at their own boundary; this keeps 403s
// cheap and the error message route-specific.
func RequirePrivilege(code string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := ActorFrom(c)
		if actor.Can(code) {
			return c.Next()
		}
		return c.Status(403).JSON(fiber.Map{
			"error": "Forbidden: requires '" + code + "' privilege",
		})
	}
}

// RequireAnyPrivilege passes when the actor holds at least one of the codes.
func RequireAnyPrivilege(codes ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := ActorFrom(c)
		for _, code := range codes {
			if actor.Can(code) {
				return c.Next()
			}
		}
		return c.Status(403).JSON(fiber.Map{
			"error": "Forbidden: requires one of " + strings.Join(codes, ", ") + " privileges",
		})
	}
}

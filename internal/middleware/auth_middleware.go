package middleware

import (
	"strings"

	"erp-pdv-api/internal/model"
	"erp-pdv-api/internal/repository"
	"erp-pdv-api/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

const (
	localActor      = "actor"
	localPrivileges = "user_privileges"
)

// RequireAuth validates the bearer token against the user's current session
// and stores the caller's Actor and privileges in the request locals.
func RequireAuth(tokens *jwt.Manager, userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "Missing authorization token")
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return unauthorized(c, "Invalid authorization format. Use: Bearer <token>")
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			return unauthorized(c, "Invalid or expired token")
		}

		// Check strict session against DB
		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			return unauthorized(c, "User not found")
		}
		if !user.IsActive {
			return unauthorized(c, "User account is inactive")
		}
		if user.TokenVersion != claims.TokenVersion {
			return unauthorized(c, "Session expired (logged in on another device)")
		}

		// privileges come from the database so revocations apply at once
		c.Locals(localActor, user.Actor())
		c.Locals(localPrivileges, user.GetPrivilegeCodes())

		return c.Next()
	}
}

// Actor returns the caller set by RequireAuth, or the system actor.
func Actor(c *fiber.Ctx) model.Actor {
	if actor, ok := c.Locals(localActor).(model.Actor); ok {
		return actor
	}
	return model.SystemActor
}

// RequirePrivilege checks if the authenticated user has the required privilege
func RequirePrivilege(requiredPrivilege string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		privileges, ok := c.Locals(localPrivileges).([]string)
		if !ok {
			return forbidden(c, "No privileges found")
		}

		for _, p := range privileges {
			if p == requiredPrivilege {
				return c.Next()
			}
		}

		return forbidden(c, "Forbidden: requires '"+requiredPrivilege+"' privilege")
	}
}

// RequireAnyPrivilege checks if the user has at least one of the specified privileges
func RequireAnyPrivilege(requiredPrivileges ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		privileges, ok := c.Locals(localPrivileges).([]string)
		if !ok {
			return forbidden(c, "No privileges found")
		}

		for _, userPriv := range privileges {
			for _, reqPriv := range requiredPrivileges {
				if userPriv == reqPriv {
					return c.Next()
				}
			}
		}

		return forbidden(c, "Forbidden: requires one of "+strings.Join(requiredPrivileges, ", ")+" privileges")
	}
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msg, "kind": "unauthorized"})
}

func forbidden(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": msg, "kind": "forbidden"})
}

package middleware

import (
	"slices"

	common_models "sk-pengajuan/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

// RequireRole rejects requests whose actor does not hold one of the given roles.
// It only guards route access; per-state rules are enforced by the services.
func RequireRole(roles ...common_models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFrom(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		if !slices.Contains(roles, actor.Role) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Access denied: role " + string(actor.Role) + " is not allowed here",
			})
		}

		return c.Next()
	}
}

// RequireReviewer admits the OKK, Sekjend and Ketum roles.
func RequireReviewer() fiber.Handler {
	return RequireRole(common_models.RoleOKK, common_models.RoleSekjend, common_models.RoleKetum)
}

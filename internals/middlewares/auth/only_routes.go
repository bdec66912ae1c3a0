package auth

import (
	"github.com/gofiber/fiber/v2"

	"masjidfinder_backend/internals/constants"
	"masjidfinder_backend/internals/helpers/apperror"
)

// OnlyRolesSlice memungkinkan akses jika user memiliki salah satu dari role yang diizinkan.
// Harus dipasang setelah AuthMiddleware.
func OnlyRolesSlice(message string, allowedRoles []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(constants.LocUserRole).(string)
		if !ok || role == "" {
			return apperror.Unauthenticated("Not authorized to access this route")
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				return c.Next()
			}
		}
		return apperror.Forbidden(message)
	}
}

package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"masjidfinder_backend/internals/constants"
	"masjidfinder_backend/internals/helpers/apperror"
	"masjidfinder_backend/internals/helpers/authz"
)

// Ambil user_id dari c.Locals("user_id") yang diisi AuthMiddleware.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	switch t := c.Locals(constants.LocUserID).(type) {
	case uuid.UUID:
		if t == uuid.Nil {
			return uuid.Nil, apperror.Unauthenticated("Not authorized to access this route")
		}
		return t, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return uuid.Nil, apperror.Unauthenticated("Not authorized to access this route")
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return uuid.Nil, apperror.Unauthenticated("Invalid user id in token")
		}
		return id, nil
	default:
		return uuid.Nil, apperror.Unauthenticated("Not authorized to access this route")
	}
}

// GetUserRole: role *saat ini* (dibaca ulang dari DB oleh middleware, bukan dari klaim token).
func GetUserRole(c *fiber.Ctx) string {
	role, _ := c.Locals(constants.LocUserRole).(string)
	return role
}

// GetActor: identitas + role pemanggil untuk dicek oleh authz.
func GetActor(c *fiber.Ctx) (authz.Actor, error) {
	id, err := GetUserIDFromToken(c)
	if err != nil {
		return authz.Actor{}, err
	}
	return authz.Actor{ID: id, Role: GetUserRole(c)}, nil
}

// ParseUUIDParam: path param wajib berupa UUID.
func ParseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(c.Params(name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.InvalidInput("Invalid " + name)
	}
	return id, nil
}

// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"context"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"masjidfinder_backend/internals/constants"
	userModel "masjidfinder_backend/internals/features/users/user/model"
	helper "masjidfinder_backend/internals/helpers"
	"masjidfinder_backend/internals/helpers/apperror"
)

const (
	msgNoToken     = "Not authorized to access this route"
	msgTokenFailed = "Not authorized, token failed"
	msgRevoked     = "Not authorized, token has been revoked"
	cookieToken    = "access_token"
)

type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*userModel.UserModel, error)
}

type RevocationChecker interface {
	Contains(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware: token -> user_id -> role TERKINI dari DB (bukan dari klaim),
// jadi perubahan role langsung berlaku di request berikutnya.
func AuthMiddleware(tokens TokenVerifier, users UserFinder, revoked RevocationChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1) Authorization header, fallback cookie
		tokenString, ok := helper.ExtractBearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			tokenString = strings.TrimSpace(c.Cookies(cookieToken))
		}
		if tokenString == "" {
			return apperror.Unauthenticated(msgNoToken)
		}

		// 2) Blacklist (logout)
		if revoked != nil {
			hit, err := revoked.Contains(c.UserContext(), tokenString)
			if err != nil {
				return apperror.Internal("Token revocation check failed", err)
			}
			if hit {
				return apperror.Unauthenticated(msgRevoked)
			}
		}

		// 3) Verifikasi signature + exp
		userID, err := tokens.Verify(tokenString)
		if err != nil {
			log.Printf("[WARN] AuthMiddleware: %s %s: %v", c.Method(), c.OriginalURL(), err)
			return apperror.Unauthenticated(msgTokenFailed)
		}

		// 4) User harus masih ada
		u, err := users.FindByID(c.UserContext(), userID)
		if err != nil {
			if apperror.Is(err, apperror.KindNotFound) {
				return apperror.Unauthenticated(msgTokenFailed)
			}
			return err
		}

		c.Locals(constants.LocUserID, u.ID)
		c.Locals(constants.LocUserRole, u.Role)
		helper.SetRawAccessToken(c, tokenString)
		return c.Next()
	}
}

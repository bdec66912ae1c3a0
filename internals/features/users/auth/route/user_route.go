// file: internals/features/users/auth/route/user_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"masjidfinder_backend/internals/features/users/auth/controller"
	"masjidfinder_backend/internals/features/users/auth/service"
	userService "masjidfinder_backend/internals/features/users/user/service"
)

// AuthRoutes: /api/auth (register, login, logout, me)
func AuthRoutes(api fiber.Router, auth *service.AuthService, identity *userService.IdentityService, protect fiber.Handler) {
	authController := controller.NewAuthController(auth, identity)

	baseAuth := api.Group("/auth")

	// 🔓 Public
	baseAuth.Post("/register", authController.Register)
	baseAuth.Post("/login", authController.Login)

	// 🔐 Protected
	baseAuth.Post("/logout", protect, authController.Logout)
	baseAuth.Get("/me", protect, authController.Me)
	baseAuth.Put("/me", protect, authController.UpdateMe)
}

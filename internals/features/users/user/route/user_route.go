package route

import (
	"github.com/gofiber/fiber/v2"

	"masjidfinder_backend/internals/constants"
	userController "masjidfinder_backend/internals/features/users/user/controller"
	"masjidfinder_backend/internals/features/users/user/service"
	authMiddleware "masjidfinder_backend/internals/middlewares/auth"
)

// UserRoutes: manajemen user, khusus main_admin. Base: /api/auth/users
func UserRoutes(api fiber.Router, identity *service.IdentityService, protect fiber.Handler) {
	ctrl := userController.NewUserController(identity)

	users := api.Group("/auth/users",
		protect,
		authMiddleware.OnlyRolesSlice(constants.RoleErrorMainAdmin("manage users"), constants.MainAdminOnly),
	)
	users.Get("/", ctrl.GetUsers)
	users.Put("/:id/role", ctrl.UpdateUserRole)
}

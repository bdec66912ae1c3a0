package route

import (
	"github.com/gofiber/fiber/v2"

	"masjidfinder_backend/internals/constants"
	"masjidfinder_backend/internals/features/requests/controller"
	"masjidfinder_backend/internals/features/requests/service"
	authMiddleware "masjidfinder_backend/internals/middlewares/auth"
)

// RequestRoutes: semua butuh login; list-all & process hanya main_admin.
func RequestRoutes(api fiber.Router, svc *service.WorkflowService, protect fiber.Handler) {
	ctrl := controller.NewRequestController(svc)
	mainAdminOnly := authMiddleware.OnlyRolesSlice(
		constants.RoleErrorMainAdmin("manage requests"),
		constants.MainAdminOnly,
	)

	// 📨 Group: /requests
	req := api.Group("/requests", protect)
	req.Post("/", ctrl.CreateRequest)
	req.Get("/my-requests", ctrl.GetMyRequests) // harus sebelum /:id
	req.Get("/", mainAdminOnly, ctrl.GetAllRequests)
	req.Get("/:id", ctrl.GetRequestByID)
	req.Put("/:id/process", mainAdminOnly, ctrl.ProcessRequest)
	req.Delete("/:id", ctrl.DeleteRequest)
}

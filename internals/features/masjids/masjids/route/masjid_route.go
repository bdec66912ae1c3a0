package route

import (
	"github.com/gofiber/fiber/v2"

	"masjidfinder_backend/internals/constants"
	"masjidfinder_backend/internals/features/masjids/masjids/controller"
	"masjidfinder_backend/internals/features/masjids/masjids/service"
	authMiddleware "masjidfinder_backend/internals/middlewares/auth"
)

// MasjidRoutes: baca publik, tulis hanya admin & main_admin.
func MasjidRoutes(api fiber.Router, svc *service.MasjidService, protect fiber.Handler) {
	ctrl := controller.NewMasjidController(svc)

	// 🕌 Group: /masjids
	masjid := api.Group("/masjids")
	masjid.Get("/", ctrl.GetAllMasjids)
	masjid.Get("/nearby", ctrl.GetNearbyMasjids) // harus sebelum /:id
	masjid.Get("/:id", ctrl.GetMasjidByID)

	adminOnly := authMiddleware.OnlyRolesSlice(
		constants.RoleErrorAdmin("modify masjids directly. Please submit a request."),
		constants.AdminAndAbove,
	)
	masjid.Post("/", protect, adminOnly, ctrl.CreateMasjid)
	masjid.Put("/:id", protect, adminOnly, ctrl.UpdateMasjid)
	masjid.Delete("/:id", protect, adminOnly, ctrl.DeleteMasjid)
}

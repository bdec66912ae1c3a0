package controller

import (
	"github.com/gofiber/fiber/v2"

	"masjidfinder_backend/internals/features/masjids/masjids/model"
	"masjidfinder_backend/internals/features/masjids/masjids/service"
	helper "masjidfinder_backend/internals/helpers"
	"masjidfinder_backend/internals/helpers/apperror"
)

type MasjidController struct {
	svc *service.MasjidService
}

func NewMasjidController(svc *service.MasjidService) *MasjidController {
	return &MasjidController{svc: svc}
}

// ✅ GET /api/masjids
func (mc *MasjidController) GetAllMasjids(c *fiber.Ctx) error {
	list, err := mc.svc.List(c.UserContext())
	if err != nil {
		return err
	}
	return helper.JsonList(c, "Masjids fetched successfully", list, len(list))
}

// ✅ GET /api/masjids/nearby?longitude=..&latitude=..&maxDistance=..
func (mc *MasjidController) GetNearbyMasjids(c *fiber.Ctx) error {
	q, err := service.ParseNearQuery(c.Query("longitude"), c.Query("latitude"), c.Query("maxDistance"))
	if err != nil {
		return err
	}
	list, err := mc.svc.Near(c.UserContext(), q)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "Nearby masjids fetched successfully", list, len(list))
}

// ✅ GET /api/masjids/:id
func (mc *MasjidController) GetMasjidByID(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	m, err := mc.svc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Masjid fetched successfully", m)
}

// 🟢 POST /api/masjids (admin & main_admin)
func (mc *MasjidController) CreateMasjid(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return err
	}
	var body model.MasjidData
	if err := c.BodyParser(&body); err != nil {
		return apperror.InvalidInput("Invalid request body")
	}
	m, err := mc.svc.Create(c.UserContext(), actor, body)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Masjid created successfully", m)
}

// 🟡 PUT /api/masjids/:id (partial update)
func (mc *MasjidController) UpdateMasjid(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var body model.MasjidData
	if err := c.BodyParser(&body); err != nil {
		return apperror.InvalidInput("Invalid request body")
	}
	m, err := mc.svc.Update(c.UserContext(), actor, id, body)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Masjid updated successfully", m)
}

// 🔴 DELETE /api/masjids/:id
func (mc *MasjidController) DeleteMasjid(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := mc.svc.Delete(c.UserContext(), actor, id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Masjid deleted successfully", nil)
}

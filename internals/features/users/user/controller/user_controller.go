package controller

import (
	"github.com/gofiber/fiber/v2"

	"masjidfinder_backend/internals/features/users/user/dto"
	"masjidfinder_backend/internals/features/users/user/service"
	helper "masjidfinder_backend/internals/helpers"
	"masjidfinder_backend/internals/helpers/apperror"
)

type UserController struct {
	identity *service.IdentityService
}

func NewUserController(identity *service.IdentityService) *UserController {
	return &UserController{identity: identity}
}

// GET /api/auth/users (main_admin)
func (uc *UserController) GetUsers(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return err
	}
	users, err := uc.identity.List(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "Users fetched successfully", dto.ToUserResponses(users), len(users))
}

// PUT /api/auth/users/:id/role (main_admin)
func (uc *UserController) UpdateUserRole(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var body dto.UpdateRoleRequest
	if err := c.BodyParser(&body); err != nil {
		return apperror.InvalidInput("Invalid request body")
	}
	if err := helper.ValidateStruct(body); err != nil {
		return err
	}

	u, err := uc.identity.SetRole(c.UserContext(), actor, id, body.Role)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "User role updated to "+u.Role, dto.ToUserResponse(*u))
}

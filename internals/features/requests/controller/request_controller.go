package controller

import (
	"github.com/gofiber/fiber/v2"

	"masjidfinder_backend/internals/features/requests/dto"
	"masjidfinder_backend/internals/features/requests/service"
	helper "masjidfinder_backend/internals/helpers"
	"masjidfinder_backend/internals/helpers/apperror"
)

type RequestController struct {
	svc *service.WorkflowService
}

func NewRequestController(svc *service.WorkflowService) *RequestController {
	return &RequestController{svc: svc}
}

// 🟢 POST /api/requests
func (rc *RequestController) CreateRequest(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return err
	}
	var body dto.CreateRequestRequest
	if err := c.BodyParser(&body); err != nil {
		return apperror.InvalidInput("Invalid request body")
	}
	req, err := rc.svc.Submit(c.UserContext(), actor, body)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Request submitted successfully", req)
}

// ✅ GET /api/requests/my-requests
func (rc *RequestController) GetMyRequests(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return err
	}
	list, err := rc.svc.ListMine(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "Requests fetched successfully", list, len(list))
}

// ✅ GET /api/requests?status=&type= (main_admin)
func (rc *RequestController) GetAllRequests(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return err
	}
	var q dto.ListRequestsQuery
	if err := c.QueryParser(&q); err != nil {
		return apperror.InvalidInput("Invalid query parameters")
	}
	list, err := rc.svc.ListAll(c.UserContext(), actor, q)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "Requests fetched successfully", list, len(list))
}

// ✅ GET /api/requests/:id
func (rc *RequestController) GetRequestByID(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	req, err := rc.svc.Get(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Request fetched successfully", req)
}

// 🟡 PUT /api/requests/:id/process (main_admin)
func (rc *RequestController) ProcessRequest(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var body dto.ProcessRequestRequest
	if err := c.BodyParser(&body); err != nil {
		return apperror.InvalidInput("Invalid request body")
	}
	req, err := rc.svc.Process(c.UserContext(), actor, id, body)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Request "+string(req.RequestStatus)+" successfully", req)
}

// 🔴 DELETE /api/requests/:id (hanya yang masih pending)
func (rc *RequestController) DeleteRequest(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := rc.svc.Delete(c.UserContext(), actor, id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Request deleted successfully", nil)
}

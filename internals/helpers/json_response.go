// file: internals/helpers/json_response.go
package helper

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"masjidfinder_backend/internals/helpers/apperror"
)

// exposeInternalErrors: true only in development, attaches the underlying
// error text to 500 responses.
var exposeInternalErrors bool

func SetExposeInternalErrors(v bool) { exposeInternalErrors = v }

/* ===============================
   Error helpers (standard shape)
=================================*/

type ErrorResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code,omitempty"`
	Error     string `json:"error,omitempty"`
}

func statusToErrorCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return apperror.KindInvalidInput.String()
	case fiber.StatusUnauthorized:
		return apperror.KindUnauthenticated.String()
	case fiber.StatusForbidden:
		return apperror.KindForbidden.String()
	case fiber.StatusNotFound:
		return apperror.KindNotFound.String()
	case fiber.StatusConflict:
		return apperror.KindConflict.String()
	default:
		if status >= 500 {
			return apperror.KindInternal.String()
		}
		return "ERROR"
	}
}

// JsonError: error generic (tanpa kind), dipakai middleware & fallback.
func JsonError(c *fiber.Ctx, status int, message string) error {
	if status == 0 {
		status = fiber.StatusInternalServerError
	}
	if strings.TrimSpace(message) == "" {
		message = fiber.ErrInternalServerError.Message
	}
	return c.Status(status).JSON(ErrorResponse{
		Success:   false,
		Message:   message,
		ErrorCode: statusToErrorCode(status),
	})
}

// JsonFromError renders any error returned by a handler:
// *apperror.Error -> its kind, *fiber.Error -> its code, anything else -> 500.
func JsonFromError(c *fiber.Ctx, err error) error {
	var ae *apperror.Error
	if errors.As(err, &ae) {
		resp := ErrorResponse{
			Success:   false,
			Message:   ae.Message,
			ErrorCode: ae.Kind.String(),
		}
		if ae.Kind == apperror.KindInternal {
			log.Printf("[ERROR] %s %s: %v", c.Method(), c.OriginalURL(), err)
			resp.Message = "Server Error"
			if exposeInternalErrors {
				resp.Error = err.Error()
			}
		}
		return c.Status(ae.Kind.HTTPStatus()).JSON(resp)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}

	log.Printf("[ERROR] %s %s: %v", c.Method(), c.OriginalURL(), err)
	resp := ErrorResponse{
		Success:   false,
		Message:   "Server Error",
		ErrorCode: apperror.KindInternal.String(),
	}
	if exposeInternalErrors && err != nil {
		resp.Error = err.Error()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(resp)
}

/* ===============================
   JSON responses (standard success)
=================================*/

// JsonList: list + count (GET /list dsb)
func JsonList(c *fiber.Ctx, message string, data any, count int) error {
	if strings.TrimSpace(message) == "" {
		message = "ok"
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": message,
		"count":   count,
		"data":    data,
	})
}

// JsonOK: response sukses generic (GET detail, dsb)
func JsonOK(c *fiber.Ctx, message string, data any) error {
	if strings.TrimSpace(message) == "" {
		message = "ok"
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// JsonCreated: response sukses create (POST)
func JsonCreated(c *fiber.Ctx, message string, data any) error {
	if strings.TrimSpace(message) == "" {
		message = "created"
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// JsonUpdated: response sukses update (PATCH/PUT)
func JsonUpdated(c *fiber.Ctx, message string, data any) error {
	if strings.TrimSpace(message) == "" {
		message = "updated"
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// JsonDeleted: response sukses delete (DELETE)
func JsonDeleted(c *fiber.Ctx, message string, data any) error {
	if strings.TrimSpace(message) == "" {
		message = "deleted"
	}
	body := fiber.Map{
		"success": true,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(fiber.StatusOK).JSON(body)
}

package helper

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"masjidfinder_backend/internals/helpers/apperror"
)

var validate = newValidator()

// pesan error pakai nama field JSON, bukan nama field Go
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// ValidateStruct menjalankan tag `validate` dan mengubah hasilnya jadi InvalidInput.
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apperror.InvalidInput("Invalid input")
	}

	msgs := make([]string, 0, len(ve))
	for _, fieldErr := range ve {
		msgs = append(msgs, fieldMessage(fieldErr))
	}
	sort.Strings(msgs)
	return apperror.InvalidInput(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return field + " must be at least " + fe.Param() + " characters"
	case "max":
		return field + " must be at most " + fe.Param() + " characters"
	case "oneof":
		return field + " must be one of: " + fe.Param()
	case "latitude":
		return field + " must be a valid latitude"
	case "longitude":
		return field + " must be a valid longitude"
	default:
		return field + " is invalid"
	}
}

// ParseBody: BodyParser + ValidateStruct sekaligus.
func ParseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperror.InvalidInput("Invalid request body")
	}
	return ValidateStruct(out)
}

package helper

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"masjidfinder_backend/internals/constants"
	"masjidfinder_backend/internals/helpers/apperror"
)

func render(t *testing.T, handler fiber.Handler) (int, ErrorResponse) {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: JsonFromError, DisableStartupMessage: true})
	app.Get("/", handler)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out ErrorResponse
	require.NoError(t, sonic.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func TestJsonFromErrorKinds(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
		msg    string
	}{
		{apperror.InvalidInput("bad"), 400, "INVALID_INPUT", "bad"},
		{apperror.Conflict("taken"), 400, "CONFLICT", "taken"},
		{apperror.AuthFailure("Invalid credentials"), 401, "AUTH_FAILURE", "Invalid credentials"},
		{apperror.Unauthenticated("no token"), 401, "UNAUTHENTICATED", "no token"},
		{apperror.Forbidden("nope"), 403, "FORBIDDEN", "nope"},
		{apperror.NotFound("Masjid not found"), 404, "NOT_FOUND", "Masjid not found"},
		{fmt.Errorf("service: %w", apperror.NotFound("wrapped")), 404, "NOT_FOUND", "wrapped"},
		{apperror.Internal("Database error", errors.New("conn reset")), 500, "INTERNAL", "Server Error"},
		{fiber.ErrMethodNotAllowed, 405, "ERROR", fiber.ErrMethodNotAllowed.Message},
		{fiber.NewError(fiber.StatusTooManyRequests, "slow down"), 429, "ERROR", "slow down"},
		{errors.New("boom"), 500, "INTERNAL", "Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			err := tt.err
			status, out := render(t, func(*fiber.Ctx) error { return err })
			assert.Equal(t, tt.status, status)
			assert.False(t, out.Success)
			assert.Equal(t, tt.code, out.ErrorCode)
			assert.Equal(t, tt.msg, out.Message)
			assert.Empty(t, out.Error)
		})
	}
}

func TestJsonFromErrorExposesCauseInDevelopment(t *testing.T) {
	SetExposeInternalErrors(true)
	t.Cleanup(func() { SetExposeInternalErrors(false) })

	status, out := render(t, func(*fiber.Ctx) error {
		return apperror.Internal("Database error", errors.New("conn reset"))
	})
	assert.Equal(t, 500, status)
	assert.Equal(t, "Server Error", out.Message)
	assert.Contains(t, out.Error, "conn reset")

	// kind non-internal tidak pernah bawa detail
	_, out = render(t, func(*fiber.Ctx) error { return apperror.NotFound("x") })
	assert.Empty(t, out.Error)
}

func TestValidateStructMessages(t *testing.T) {
	type body struct {
		Email string `json:"email" validate:"required,email"`
		Name  string `json:"user_name" validate:"required,min=2"`
		Kind  string `json:"kind" validate:"omitempty,oneof=a b"`
	}

	assert.NoError(t, ValidateStruct(body{Email: "a@b.co", Name: "ab"}))

	err := ValidateStruct(body{Email: "nope", Name: "a", Kind: "c"})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput))
	var ae *apperror.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "email must be a valid email; kind must be one of: a b; user_name must be at least 2 characters", ae.Message)

	err = ValidateStruct(body{})
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "email is required; user_name is required", ae.Message)
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer   abc  ", "abc", true},
		{`Bearer "abc"`, "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"Bearer a b", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ExtractBearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.want, got, tt.header)
	}
}

func TestActorFromLocals(t *testing.T) {
	id := uuid.New()
	app := fiber.New(fiber.Config{ErrorHandler: JsonFromError, DisableStartupMessage: true})
	app.Get("/with", func(c *fiber.Ctx) error {
		c.Locals(constants.LocUserID, id)
		c.Locals(constants.LocUserRole, constants.RoleAdmin)
		actor, err := GetActor(c)
		if err != nil {
			return err
		}
		return c.SendString(actor.ID.String() + "|" + actor.Role)
	})
	app.Get("/without", func(c *fiber.Ctx) error {
		_, err := GetActor(c)
		return err
	})
	app.Get("/param/:id", func(c *fiber.Ctx) error {
		_, err := ParseUUIDParam(c, "id")
		return err
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/with", nil), -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, id.String()+"|admin", string(raw))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/without", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/param/xyz", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

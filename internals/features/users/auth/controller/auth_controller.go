package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"masjidfinder_backend/internals/constants"
	"masjidfinder_backend/internals/features/users/auth/service"
	"masjidfinder_backend/internals/features/users/user/dto"
	userService "masjidfinder_backend/internals/features/users/user/service"
	helper "masjidfinder_backend/internals/helpers"
	"masjidfinder_backend/internals/helpers/apperror"
)

const cookieAccessToken = "access_token"

type AuthController struct {
	auth     *service.AuthService
	identity *userService.IdentityService
}

func NewAuthController(auth *service.AuthService, identity *userService.IdentityService) *AuthController {
	return &AuthController{auth: auth, identity: identity}
}

// 🟢 POST /api/auth/register
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var body dto.RegisterRequest
	if err := c.BodyParser(&body); err != nil {
		return apperror.InvalidInput("Invalid request body")
	}
	res, err := ac.auth.Register(c.UserContext(), body)
	if err != nil {
		return err
	}

	msg := "User registered successfully"
	if res.User.Role == constants.RoleMainAdmin {
		msg = "Main admin account created successfully"
	}
	setAccessCookie(c, res.Token, res.ExpiresAt)
	return helper.JsonCreated(c, msg, dto.ToAuthResponse(*res.User, res.Token, res.ExpiresAt))
}

// 🟢 POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var body dto.LoginRequest
	if err := c.BodyParser(&body); err != nil {
		return apperror.InvalidInput("Invalid request body")
	}
	res, err := ac.auth.Login(c.UserContext(), body)
	if err != nil {
		return err
	}
	setAccessCookie(c, res.Token, res.ExpiresAt)
	return helper.JsonOK(c, "Login successful", dto.ToAuthResponse(*res.User, res.Token, res.ExpiresAt))
}

// 🔴 POST /api/auth/logout
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	if err := ac.auth.Logout(c.UserContext(), helper.GetRawAccessToken(c)); err != nil {
		return err
	}
	setAccessCookie(c, "", time.Now().Add(-time.Hour))
	return helper.JsonOK(c, "Logout successful", nil)
}

// ✅ GET /api/auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	u, err := ac.identity.Get(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "User fetched successfully", dto.ToUserResponse(*u))
}

// 🟡 PUT /api/auth/me
func (ac *AuthController) UpdateMe(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return err
	}
	var body dto.UpdateProfileRequest
	if err := c.BodyParser(&body); err != nil {
		return apperror.InvalidInput("Invalid request body")
	}
	u, err := ac.identity.UpdateProfile(c.UserContext(), actor, body)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Profile updated successfully", dto.ToUserResponse(*u))
}

func setAccessCookie(c *fiber.Ctx, token string, expires time.Time) {
	maxAge := int(time.Until(expires).Seconds())
	if token == "" || maxAge <= 0 {
		maxAge = -1
	}
	c.Cookie(&fiber.Cookie{
		Name:     cookieAccessToken,
		Value:    token,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
	})
}

package dto

import (
	"time"

	"github.com/google/uuid"

	"masjidfinder_backend/internals/features/users/user/model"
)

/* =========================================================
   REQUEST DTO
========================================================= */

type RegisterRequest struct {
	UserName string `json:"user_name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type UpdateProfileRequest struct {
	UserName string `json:"user_name" validate:"required,min=2,max=100"`
}

/* =========================================================
   RESPONSE DTO (password hash tidak pernah ikut)
========================================================= */

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	UserName  string    `json:"user_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserBrief: bentuk "populate" untuk relasi (requested_by, processed_by, added_by)
type UserBrief struct {
	ID       uuid.UUID `json:"id"`
	UserName string    `json:"user_name"`
	Email    string    `json:"email"`
	Role     string    `json:"role,omitempty"`
}

type AuthResponse struct {
	ID        uuid.UUID `json:"id"`
	UserName  string    `json:"user_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func ToUserResponse(u model.UserModel) UserResponse {
	return UserResponse{
		ID:        u.ID,
		UserName:  u.UserName,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func ToUserResponses(users []model.UserModel) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserResponse(u))
	}
	return out
}

func ToUserBrief(u model.UserModel, withRole bool) *UserBrief {
	b := &UserBrief{ID: u.ID, UserName: u.UserName, Email: u.Email}
	if withRole {
		b.Role = u.Role
	}
	return b
}

func ToAuthResponse(u model.UserModel, token string, expiresAt time.Time) AuthResponse {
	return AuthResponse{
		ID:        u.ID,
		UserName:  u.UserName,
		Email:     u.Email,
		Role:      u.Role,
		Token:     token,
		ExpiresAt: expiresAt,
	}
}

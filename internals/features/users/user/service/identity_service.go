package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"masjidfinder_backend/internals/constants"
	"masjidfinder_backend/internals/features/users/user/dto"
	"masjidfinder_backend/internals/features/users/user/model"
	"masjidfinder_backend/internals/features/users/user/repository"
	helper "masjidfinder_backend/internals/helpers"
	"masjidfinder_backend/internals/helpers/apperror"
	"masjidfinder_backend/internals/helpers/authz"
)

// pesan seragam: jangan bocorkan apakah email terdaftar
const msgInvalidCredentials = "Invalid credentials"

type PasswordHasher interface {
	Hash(raw string) (string, error)
	Verify(raw, hash string) bool
}

type IdentityService struct {
	users  repository.UserRepository
	hasher PasswordHasher
}

func NewIdentityService(users repository.UserRepository, hasher PasswordHasher) *IdentityService {
	return &IdentityService{users: users, hasher: hasher}
}

// Register: user pertama yang pernah dibuat otomatis jadi main_admin.
func (s *IdentityService) Register(ctx context.Context, req dto.RegisterRequest) (*model.UserModel, error) {
	req.UserName = strings.TrimSpace(req.UserName)
	req.Email = strings.TrimSpace(req.Email)
	if err := helper.ValidateStruct(req); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, apperror.Conflict("User already exists with this email")
	} else if !apperror.Is(err, apperror.KindNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.Internal("Password hashing failed", err)
	}

	u := &model.UserModel{
		UserName: req.UserName,
		Email:    req.Email,
		Password: hash,
	}
	if err := s.users.Create(ctx, u, bootstrapRole); err != nil {
		return nil, err
	}
	return u, nil
}

func bootstrapRole(existing int64) string {
	if existing == 0 {
		return constants.RoleMainAdmin
	}
	return constants.RoleUser
}

func (s *IdentityService) Authenticate(ctx context.Context, email, rawPassword string) (*model.UserModel, error) {
	email = strings.TrimSpace(email)
	if email == "" || rawPassword == "" {
		return nil, apperror.InvalidInput("Please provide email and password")
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, apperror.AuthFailure(msgInvalidCredentials)
		}
		return nil, err
	}
	if !s.hasher.Verify(rawPassword, u.Password) {
		return nil, apperror.AuthFailure(msgInvalidCredentials)
	}
	return u, nil
}

func (s *IdentityService) Get(ctx context.Context, id uuid.UUID) (*model.UserModel, error) {
	return s.users.FindByID(ctx, id)
}

func (s *IdentityService) List(ctx context.Context, actor authz.Actor) ([]model.UserModel, error) {
	if err := authz.Authorize(actor, authz.ActionListUsers, authz.Resource{}); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

// SetRole: hanya main_admin, target main_admin kebal, role baru cuma user/admin.
func (s *IdentityService) SetRole(ctx context.Context, actor authz.Actor, targetID uuid.UUID, newRole string) (*model.UserModel, error) {
	if err := authz.Authorize(actor, authz.ActionUpdateUserRole, authz.Resource{}); err != nil {
		return nil, err
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ActionUpdateUserRole, authz.Resource{TargetRole: target.Role}); err != nil {
		return nil, err
	}

	newRole = strings.TrimSpace(newRole)
	if !isAssignable(newRole) {
		return nil, apperror.InvalidInput("Invalid role. Can only set to user or admin")
	}
	if err := authz.Authorize(actor, authz.ActionUpdateUserRole, authz.Resource{TargetRole: target.Role, NewRole: newRole}); err != nil {
		return nil, err
	}

	return s.users.UpdateRole(ctx, targetID, newRole)
}

func (s *IdentityService) UpdateProfile(ctx context.Context, actor authz.Actor, req dto.UpdateProfileRequest) (*model.UserModel, error) {
	req.UserName = strings.TrimSpace(req.UserName)
	if err := helper.ValidateStruct(req); err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ActionUpdateOwnProfile, authz.Resource{OwnerID: actor.ID}); err != nil {
		return nil, err
	}
	return s.users.UpdateName(ctx, actor.ID, req.UserName)
}

func isAssignable(role string) bool {
	for _, r := range constants.AssignableRoles {
		if r == role {
			return true
		}
	}
	return false
}

// GrantAdmin: satu-satunya jalur eskalasi ke admin (dipakai saat admin_access
// di-approve). users boleh repository yang terikat transaksi.
func GrantAdmin(ctx context.Context, users repository.UserRepository, userID uuid.UUID) (*model.UserModel, error) {
	u, err := users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Role == constants.RoleMainAdmin {
		return nil, apperror.Forbidden("Cannot change main admin role")
	}
	if u.Role == constants.RoleAdmin {
		return u, nil
	}
	return users.UpdateRole(ctx, userID, constants.RoleAdmin)
}

package service

import (
	"context"
	"log"
	"strings"
	"time"

	authRepo "masjidfinder_backend/internals/features/users/auth/repository"
	"masjidfinder_backend/internals/features/users/user/dto"
	userModel "masjidfinder_backend/internals/features/users/user/model"
	userService "masjidfinder_backend/internals/features/users/user/service"
	"masjidfinder_backend/internals/helpers/apperror"
)

/* ==========================
   Types
========================== */

type AuthResult struct {
	User      *userModel.UserModel
	Token     string
	ExpiresAt time.Time
}

// AuthService: register / login / logout di atas IdentityService + TokenService.
type AuthService struct {
	identity  *userService.IdentityService
	tokens    *TokenService
	blacklist authRepo.BlacklistRepository
}

func NewAuthService(identity *userService.IdentityService, tokens *TokenService, blacklist authRepo.BlacklistRepository) *AuthService {
	return &AuthService{identity: identity, tokens: tokens, blacklist: blacklist}
}

/* ==========================
   REGISTER & LOGIN
========================== */

func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*AuthResult, error) {
	u, err := s.identity.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] user registered: %s (%s)", u.ID, u.Role)
	return s.issue(u)
}

func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*AuthResult, error) {
	u, err := s.identity.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

func (s *AuthService) issue(u *userModel.UserModel) (*AuthResult, error) {
	token, exp, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, apperror.Internal("Failed to issue token", err)
	}
	return &AuthResult{User: u, Token: token, ExpiresAt: exp}, nil
}

/* ==========================
   LOGOUT
========================== */

// Logout mem-blacklist token sampai exp-nya; idempotent.
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		log.Println("[INFO] Logout tanpa access token; tidak ada yang di-blacklist")
		return nil
	}
	_, exp, err := s.tokens.Parse(accessToken)
	if err != nil {
		// token sudah tidak valid = sudah tidak bisa dipakai
		return nil
	}
	if err := s.blacklist.Add(ctx, accessToken, exp); err != nil {
		return err
	}
	return nil
}

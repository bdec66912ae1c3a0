// internals/features/users/auth/service/token_service.go
package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Masa berlaku token tetap 30 hari, tanpa refresh.
const AccessTTL = 30 * 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string) (*TokenService, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("JWT_SECRET belum diset")
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    AccessTTL,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// WithClock dipakai test untuk menggeser waktu.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	cp := *s
	cp.now = now
	return &cp
}

// Issue embeds only the user id; role is resolved fresh on every request.
func (s *TokenService) Issue(userID uuid.UUID) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := jwt.MapClaims{
		"id":  userID.String(),
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify fails closed: expired, malformed, mis-signed or id-less tokens all yield ErrInvalidToken.
func (s *TokenService) Verify(token string) (uuid.UUID, error) {
	id, _, err := s.Parse(token)
	return id, err
}

// Parse = Verify + expiry, dipakai logout untuk TTL blacklist.
func (s *TokenService) Parse(token string) (uuid.UUID, time.Time, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return uuid.Nil, time.Time{}, ErrInvalidToken
	}

	claims := jwt.MapClaims{}
	parser := jwt.Parser{
		ValidMethods:         []string{jwt.SigningMethodHS256.Alg()},
		SkipClaimsValidation: true,
	}
	if _, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}); err != nil {
		return uuid.Nil, time.Time{}, ErrInvalidToken
	}

	expF, ok := claims["exp"].(float64)
	if !ok {
		return uuid.Nil, time.Time{}, ErrInvalidToken
	}
	exp := time.Unix(int64(expF), 0).UTC()
	if !s.now().Before(exp) {
		return uuid.Nil, time.Time{}, ErrInvalidToken
	}

	idStr, ok := claims["id"].(string)
	if !ok {
		return uuid.Nil, time.Time{}, ErrInvalidToken
	}
	id, err := uuid.Parse(strings.TrimSpace(idStr))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, time.Time{}, ErrInvalidToken
	}
	return id, exp, nil
}

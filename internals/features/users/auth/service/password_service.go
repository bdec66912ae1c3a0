package service

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordService membungkus bcrypt. Cost bisa diturunkan di test.
type PasswordService struct {
	Cost int
}

func NewPasswordService() *PasswordService {
	return &PasswordService{Cost: bcrypt.DefaultCost}
}

func (p *PasswordService) Hash(raw string) (string, error) {
	cost := p.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(raw), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (p *PasswordService) Verify(raw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}

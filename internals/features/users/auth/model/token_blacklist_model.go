package model

import (
	"time"
)

// TokenBlacklist: token yang sudah logout, ditolak sampai kedaluwarsa.
// Yang disimpan hash SHA-256 (hex), bukan token mentah.
type TokenBlacklist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TokenHash string    `gorm:"type:char(64);not null;uniqueIndex" json:"-"`
	ExpiredAt time.Time `gorm:"not null;index" json:"expired_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName memastikan nama tabel sesuai dengan skema database
func (TokenBlacklist) TableName() string {
	return "token_blacklist"
}

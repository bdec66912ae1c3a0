// internals/features/users/auth/repository/auth_repository.go
package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	authModel "masjidfinder_backend/internals/features/users/auth/model"
	"masjidfinder_backend/internals/helpers/dberr"
)

type BlacklistRepository interface {
	Add(ctx context.Context, token string, expiresAt time.Time) error
	Contains(ctx context.Context, token string) (bool, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

type GormBlacklistRepository struct {
	db *gorm.DB
}

func NewGormBlacklistRepository(db *gorm.DB) *GormBlacklistRepository {
	return &GormBlacklistRepository{db: db}
}

func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Add idempotent: logout dua kali tidak error.
func (r *GormBlacklistRepository) Add(ctx context.Context, token string, expiresAt time.Time) error {
	row := authModel.TokenBlacklist{
		TokenHash: HashToken(token),
		ExpiredAt: expiresAt.UTC(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "token_hash"}}, DoNothing: true}).
		Create(&row).Error
	return dberr.Translate(err, "Token not found", "Token already revoked")
}

func (r *GormBlacklistRepository) Contains(ctx context.Context, token string) (bool, error) {
	var exists bool
	err := r.db.WithContext(ctx).
		Raw(`SELECT EXISTS(SELECT 1 FROM token_blacklist WHERE token_hash = ?)`, HashToken(token)).
		Scan(&exists).Error
	if err != nil {
		return false, dberr.Translate(err, "Token not found", "Token already revoked")
	}
	return exists, nil
}

func (r *GormBlacklistRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expired_at <= ?", now.UTC()).
		Delete(&authModel.TokenBlacklist{})
	if res.Error != nil {
		return 0, dberr.Translate(res.Error, "Token not found", "Token already revoked")
	}
	return res.RowsAffected, nil
}

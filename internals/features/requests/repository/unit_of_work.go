package repository

import (
	"context"

	"gorm.io/gorm"

	masjidRepo "masjidfinder_backend/internals/features/masjids/masjids/repository"
	userRepo "masjidfinder_backend/internals/features/users/user/repository"
)

// Repositories: semua store yang disentuh workflow, terikat ke satu koneksi/transaksi.
type Repositories struct {
	Requests RequestRepository
	Users    userRepo.UserRepository
	Masjids  masjidRepo.MasjidRepository
}

// TxManager menjalankan fn dalam satu unit atomik; error dari fn = rollback semua.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
}

func NewGormRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Requests: NewGormRequestRepository(db),
		Users:    userRepo.NewGormUserRepository(db),
		Masjids:  masjidRepo.NewGormMasjidRepository(db),
	}
}

type GormTxManager struct {
	db *gorm.DB
}

func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

func (m *GormTxManager) WithinTx(ctx context.Context, fn func(repos Repositories) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormRepositories(tx))
	})
}

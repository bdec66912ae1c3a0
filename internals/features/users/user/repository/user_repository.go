// internals/features/users/user/repository/user_repository.go
package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"masjidfinder_backend/internals/constants"
	"masjidfinder_backend/internals/features/users/user/model"
	"masjidfinder_backend/internals/helpers/apperror"
	"masjidfinder_backend/internals/helpers/dberr"
)

const (
	msgUserNotFound = "User not found"
	msgEmailTaken   = "User already exists with this email"

	// kunci pg_advisory_xact_lock untuk serialisasi registrasi (count + insert)
	registrationLockKey int64 = 7_310_001
)

// UserRepository is the Identity Store capability.
type UserRepository interface {
	// Create inserts u. roleFor receives the number of users that existed
	// before the insert, evaluated inside the same atomic unit.
	Create(ctx context.Context, u *model.UserModel, roleFor func(existing int64) string) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.UserModel, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.UserModel, error)
	FindByEmail(ctx context.Context, email string) (*model.UserModel, error)
	List(ctx context.Context) ([]model.UserModel, error)
	// UpdateRole never touches a main_admin row.
	UpdateRole(ctx context.Context, id uuid.UUID, role string) (*model.UserModel, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) (*model.UserModel, error)
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(ctx context.Context, u *model.UserModel, roleFor func(existing int64) string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`SELECT pg_advisory_xact_lock(?)`, registrationLockKey).Error; err != nil {
			return err
		}
		var existing int64
		if err := tx.Model(&model.UserModel{}).Count(&existing).Error; err != nil {
			return err
		}
		u.Role = roleFor(existing)
		return tx.Create(u).Error
	})
	return dberr.Translate(err, msgUserNotFound, msgEmailTaken)
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.UserModel, error) {
	var u model.UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, dberr.Translate(err, msgUserNotFound, msgEmailTaken)
	}
	return &u, nil
}

func (r *GormUserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.UserModel, error) {
	out := make([]model.UserModel, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, dberr.Translate(err, msgUserNotFound, msgEmailTaken)
	}
	return out, nil
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*model.UserModel, error) {
	var u model.UserModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, dberr.Translate(err, msgUserNotFound, msgEmailTaken)
	}
	return &u, nil
}

func (r *GormUserRepository) List(ctx context.Context) ([]model.UserModel, error) {
	var users []model.UserModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, dberr.Translate(err, msgUserNotFound, msgEmailTaken)
	}
	return users, nil
}

func (r *GormUserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role string) (*model.UserModel, error) {
	res := r.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ? AND role <> ?", id, constants.RoleMainAdmin).
		Update("role", role)
	if res.Error != nil {
		return nil, dberr.Translate(res.Error, msgUserNotFound, msgEmailTaken)
	}
	if res.RowsAffected == 0 {
		// bedakan: tidak ada vs main_admin
		u, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if u.Role == constants.RoleMainAdmin {
			return nil, apperror.Forbidden("Cannot change main admin role")
		}
		return u, nil
	}
	return r.FindByID(ctx, id)
}

func (r *GormUserRepository) UpdateName(ctx context.Context, id uuid.UUID, name string) (*model.UserModel, error) {
	res := r.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", id).
		Update("user_name", name)
	if res.Error != nil {
		return nil, dberr.Translate(res.Error, msgUserNotFound, msgEmailTaken)
	}
	if res.RowsAffected == 0 {
		return nil, apperror.NotFound(msgUserNotFound)
	}
	return r.FindByID(ctx, id)
}

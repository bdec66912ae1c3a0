// internals/features/masjids/masjids/repository/masjid_repository.go
package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"masjidfinder_backend/internals/features/masjids/masjids/model"
	"masjidfinder_backend/internals/helpers/apperror"
	"masjidfinder_backend/internals/helpers/dberr"
)

const (
	msgMasjidNotFound = "Masjid not found"
	msgMasjidConflict = "Masjid already exists"
)

// titik masjid & titik query sebagai geography (meter)
const (
	sqlMasjidPoint = `ST_SetSRID(ST_MakePoint(masjid_longitude, masjid_latitude), 4326)::geography`
	sqlQueryPoint  = `ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography`
)

type NearQuery struct {
	Longitude   float64
	Latitude    float64
	MaxDistance float64 // meter
}

// MasjidRepository is the Masjid Store capability.
type MasjidRepository interface {
	Create(ctx context.Context, m *model.MasjidModel) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MasjidModel, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.MasjidModel, error)
	// FindAll: terbaru dulu
	FindAll(ctx context.Context) ([]model.MasjidModel, error)
	// FindNear: terdekat dulu, hanya yang jaraknya <= MaxDistance
	FindNear(ctx context.Context, q NearQuery) ([]model.NearbyMasjid, error)
	// Update menyimpan semua field yang bisa diubah; NotFound kalau id tidak ada.
	Update(ctx context.Context, m *model.MasjidModel) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type GormMasjidRepository struct {
	db *gorm.DB
}

func NewGormMasjidRepository(db *gorm.DB) *GormMasjidRepository {
	return &GormMasjidRepository{db: db}
}

func (r *GormMasjidRepository) Create(ctx context.Context, m *model.MasjidModel) error {
	if err := m.Validate(); err != nil {
		return err
	}
	err := r.db.WithContext(ctx).Create(m).Error
	return dberr.Translate(err, msgMasjidNotFound, msgMasjidConflict)
}

func (r *GormMasjidRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.MasjidModel, error) {
	var m model.MasjidModel
	if err := r.db.WithContext(ctx).Where("masjid_id = ?", id).First(&m).Error; err != nil {
		return nil, dberr.Translate(err, msgMasjidNotFound, msgMasjidConflict)
	}
	return &m, nil
}

func (r *GormMasjidRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.MasjidModel, error) {
	out := make([]model.MasjidModel, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	if err := r.db.WithContext(ctx).Where("masjid_id IN ?", ids).Find(&out).Error; err != nil {
		return nil, dberr.Translate(err, msgMasjidNotFound, msgMasjidConflict)
	}
	return out, nil
}

func (r *GormMasjidRepository) FindAll(ctx context.Context) ([]model.MasjidModel, error) {
	var list []model.MasjidModel
	if err := r.db.WithContext(ctx).Order("masjid_created_at DESC").Find(&list).Error; err != nil {
		return nil, dberr.Translate(err, msgMasjidNotFound, msgMasjidConflict)
	}
	return list, nil
}

func (r *GormMasjidRepository) FindNear(ctx context.Context, q NearQuery) ([]model.NearbyMasjid, error) {
	if err := model.ValidateCoordinates(q.Longitude, q.Latitude); err != nil {
		return nil, err
	}
	if q.MaxDistance < 0 {
		return nil, apperror.InvalidInput("maxDistance must not be negative")
	}

	var rows []model.NearbyMasjid
	err := r.db.WithContext(ctx).
		Raw(`SELECT masjids.*, ST_Distance(`+sqlMasjidPoint+`, `+sqlQueryPoint+`) AS distance_meters
			FROM masjids
			WHERE ST_DWithin(`+sqlMasjidPoint+`, `+sqlQueryPoint+`, ?)
			ORDER BY distance_meters ASC, masjid_created_at DESC`,
			q.Longitude, q.Latitude,
			q.Longitude, q.Latitude, q.MaxDistance,
		).
		Scan(&rows).Error
	if err != nil {
		return nil, dberr.Translate(err, msgMasjidNotFound, msgMasjidConflict)
	}
	return rows, nil
}

func (r *GormMasjidRepository) Update(ctx context.Context, m *model.MasjidModel) error {
	if err := m.Validate(); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).
		Model(&model.MasjidModel{}).
		Where("masjid_id = ?", m.MasjidID).
		Updates(map[string]any{
			"masjid_name":         m.MasjidName,
			"masjid_address":      m.MasjidAddress,
			"masjid_longitude":    m.MasjidLongitude,
			"masjid_latitude":     m.MasjidLatitude,
			"masjid_prayer_times": m.MasjidPrayerTimes,
			"masjid_description":  m.MasjidDescription,
			"masjid_phone_number": m.MasjidPhoneNumber,
			// updated_at tidak boleh mundur
			"masjid_updated_at": gorm.Expr("GREATEST(masjid_updated_at, ?)", m.MasjidUpdatedAt),
		})
	if res.Error != nil {
		return dberr.Translate(res.Error, msgMasjidNotFound, msgMasjidConflict)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound(msgMasjidNotFound)
	}
	return nil
}

func (r *GormMasjidRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("masjid_id = ?", id).Delete(&model.MasjidModel{})
	if res.Error != nil {
		return dberr.Translate(res.Error, msgMasjidNotFound, msgMasjidConflict)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound(msgMasjidNotFound)
	}
	return nil
}

// internals/features/requests/repository/request_repository.go
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"masjidfinder_backend/internals/features/requests/model"
	"masjidfinder_backend/internals/helpers/apperror"
	"masjidfinder_backend/internals/helpers/dberr"
)

const (
	MsgRequestNotFound       = "Request not found"
	MsgPendingAdminAccess    = "You already have a pending admin access request"
	MsgAlreadyProcessed      = "Request has already been processed"
	MsgCannotDeleteProcessed = "Cannot delete processed requests"
)

// RequestFilter: field nil = tidak difilter.
type RequestFilter struct {
	Status      *model.RequestStatus
	Type        *model.RequestType
	RequestedBy *uuid.UUID
}

type RequestRepository interface {
	// Create gagal Conflict kalau requester sudah punya admin_access pending.
	Create(ctx context.Context, r *model.RequestModel) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.RequestModel, error)
	// FindByIDForUpdate mengunci baris sampai transaksi selesai.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.RequestModel, error)
	// List: terbaru dulu
	List(ctx context.Context, f RequestFilter) ([]model.RequestModel, error)
	// MarkProcessed hanya berhasil kalau status saat ini masih pending.
	MarkProcessed(ctx context.Context, id uuid.UUID, status model.RequestStatus, processedBy uuid.UUID, adminResponse string, at time.Time) (*model.RequestModel, error)
	// DeleteIfPending hanya menghapus request yang masih pending.
	DeleteIfPending(ctx context.Context, id uuid.UUID) error
}

type GormRequestRepository struct {
	db *gorm.DB
}

func NewGormRequestRepository(db *gorm.DB) *GormRequestRepository {
	return &GormRequestRepository{db: db}
}

func (r *GormRequestRepository) Create(ctx context.Context, req *model.RequestModel) error {
	req.RequestStatus = model.StatusPending
	req.RequestProcessedBy = nil
	req.RequestProcessedAt = nil
	err := r.db.WithContext(ctx).Create(req).Error
	return dberr.Translate(err, MsgRequestNotFound, MsgPendingAdminAccess)
}

func (r *GormRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.RequestModel, error) {
	var req model.RequestModel
	if err := r.db.WithContext(ctx).Where("request_id = ?", id).First(&req).Error; err != nil {
		return nil, dberr.Translate(err, MsgRequestNotFound, MsgAlreadyProcessed)
	}
	return &req, nil
}

func (r *GormRequestRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.RequestModel, error) {
	var req model.RequestModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, dberr.Translate(err, MsgRequestNotFound, MsgAlreadyProcessed)
	}
	return &req, nil
}

func (r *GormRequestRepository) List(ctx context.Context, f RequestFilter) ([]model.RequestModel, error) {
	q := r.db.WithContext(ctx).Model(&model.RequestModel{})
	if f.Status != nil {
		q = q.Where("request_status = ?", *f.Status)
	}
	if f.Type != nil {
		q = q.Where("request_type = ?", *f.Type)
	}
	if f.RequestedBy != nil {
		q = q.Where("request_requested_by = ?", *f.RequestedBy)
	}

	var list []model.RequestModel
	if err := q.Order("request_created_at DESC").Find(&list).Error; err != nil {
		return nil, dberr.Translate(err, MsgRequestNotFound, MsgAlreadyProcessed)
	}
	return list, nil
}

func (r *GormRequestRepository) MarkProcessed(
	ctx context.Context,
	id uuid.UUID,
	status model.RequestStatus,
	processedBy uuid.UUID,
	adminResponse string,
	at time.Time,
) (*model.RequestModel, error) {
	if !model.CanTransition(model.StatusPending, status) {
		return nil, apperror.InvalidInput("Invalid status. Must be approved or rejected")
	}
	at = at.UTC()
	res := r.db.WithContext(ctx).
		Model(&model.RequestModel{}).
		Where("request_id = ? AND request_status = ?", id, model.StatusPending).
		Updates(map[string]any{
			"request_status":         status,
			"request_processed_by":   processedBy,
			"request_processed_at":   at,
			"request_admin_response": adminResponse,
			"request_updated_at":     at,
		})
	if res.Error != nil {
		return nil, dberr.Translate(res.Error, MsgRequestNotFound, MsgAlreadyProcessed)
	}
	if res.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, apperror.Conflict(MsgAlreadyProcessed)
	}
	return r.FindByID(ctx, id)
}

func (r *GormRequestRepository) DeleteIfPending(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("request_id = ? AND request_status = ?", id, model.StatusPending).
		Delete(&model.RequestModel{})
	if res.Error != nil {
		return dberr.Translate(res.Error, MsgRequestNotFound, MsgCannotDeleteProcessed)
	}
	if res.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return apperror.Conflict(MsgCannotDeleteProcessed)
	}
	return nil
}

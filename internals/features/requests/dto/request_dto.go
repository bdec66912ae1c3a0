package dto

import (
	"time"

	"github.com/google/uuid"

	masjidDTO "masjidfinder_backend/internals/features/masjids/masjids/dto"
	masjidModel "masjidfinder_backend/internals/features/masjids/masjids/model"
	"masjidfinder_backend/internals/features/requests/model"
	userDTO "masjidfinder_backend/internals/features/users/user/dto"
)

/* =========================================================
   REQUEST DTO
========================================================= */

type CreateRequestRequest struct {
	RequestType       string                  `json:"request_type" validate:"required"`
	RequestMasjidID   string                  `json:"request_masjid_id"`
	RequestMasjidData *masjidModel.MasjidData `json:"request_masjid_data"`
	RequestReason     string                  `json:"request_reason" validate:"max=2000"`
}

type ProcessRequestRequest struct {
	RequestStatus        string `json:"request_status" validate:"required"`
	RequestAdminResponse string `json:"request_admin_response" validate:"max=2000"`
}

// ListRequestsQuery: ?status=&type=
type ListRequestsQuery struct {
	Status string `query:"status"`
	Type   string `query:"type"`
}

/* =========================================================
   RESPONSE DTO
========================================================= */

type RequestResponse struct {
	RequestID            uuid.UUID               `json:"request_id"`
	RequestType          model.RequestType       `json:"request_type"`
	RequestStatus        model.RequestStatus     `json:"request_status"`
	RequestRequestedBy   *userDTO.UserBrief      `json:"request_requested_by"`
	RequestMasjidID      *uuid.UUID              `json:"request_masjid_id,omitempty"`
	RequestMasjid        *masjidDTO.MasjidBrief  `json:"request_masjid,omitempty"`
	RequestMasjidData    *masjidModel.MasjidData `json:"request_masjid_data,omitempty"`
	RequestReason        string                  `json:"request_reason"`
	RequestAdminResponse string                  `json:"request_admin_response"`
	RequestProcessedBy   *userDTO.UserBrief      `json:"request_processed_by,omitempty"`
	RequestProcessedAt   *time.Time              `json:"request_processed_at,omitempty"`
	RequestCreatedAt     time.Time               `json:"request_created_at"`
	RequestUpdatedAt     time.Time               `json:"request_updated_at"`
}

// FromModel: users & masjids = hasil batch lookup (boleh tidak lengkap).
func FromModel(
	r model.RequestModel,
	users map[uuid.UUID]*userDTO.UserBrief,
	masjids map[uuid.UUID]*masjidDTO.MasjidBrief,
) RequestResponse {
	out := RequestResponse{
		RequestID:            r.RequestID,
		RequestType:          r.RequestType,
		RequestStatus:        r.RequestStatus,
		RequestRequestedBy:   briefOrID(users, r.RequestRequestedBy),
		RequestMasjidID:      r.RequestMasjidID,
		RequestReason:        r.RequestReason,
		RequestAdminResponse: r.RequestAdminResponse,
		RequestProcessedAt:   r.RequestProcessedAt,
		RequestCreatedAt:     r.RequestCreatedAt,
		RequestUpdatedAt:     r.RequestUpdatedAt,
	}
	if r.RequestMasjidID != nil {
		out.RequestMasjid = masjids[*r.RequestMasjidID]
	}
	if data := r.RequestMasjidData.Data(); !data.IsEmpty() {
		out.RequestMasjidData = &data
	}
	if r.RequestProcessedBy != nil {
		out.RequestProcessedBy = briefOrID(users, *r.RequestProcessedBy)
	}
	return out
}

func briefOrID(users map[uuid.UUID]*userDTO.UserBrief, id uuid.UUID) *userDTO.UserBrief {
	if b, ok := users[id]; ok {
		return b
	}
	return &userDTO.UserBrief{ID: id}
}

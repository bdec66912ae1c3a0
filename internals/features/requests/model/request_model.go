package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	masjidModel "masjidfinder_backend/internals/features/masjids/masjids/model"
	"masjidfinder_backend/internals/helpers/apperror"
)

type RequestType string

const (
	TypeAdminAccess  RequestType = "admin_access"
	TypeAddMasjid    RequestType = "add_masjid"
	TypeEditMasjid   RequestType = "edit_masjid"
	TypeDeleteMasjid RequestType = "delete_masjid"
)

func ParseRequestType(s string) (RequestType, error) {
	switch t := RequestType(strings.TrimSpace(s)); t {
	case TypeAdminAccess, TypeAddMasjid, TypeEditMasjid, TypeDeleteMasjid:
		return t, nil
	default:
		return "", apperror.InvalidInput("Invalid request type. Must be admin_access, add_masjid, edit_masjid or delete_masjid")
	}
}

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// transisi yang sah; approved & rejected terminal
var transitions = map[RequestStatus][]RequestStatus{
	StatusPending: {StatusApproved, StatusRejected},
}

func CanTransition(from, to RequestStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func ParseStatus(s string) (RequestStatus, error) {
	switch st := RequestStatus(strings.TrimSpace(s)); st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, nil
	default:
		return "", apperror.InvalidInput("Invalid status. Must be pending, approved or rejected")
	}
}

// ParseDecision: keputusan main_admin, hanya approved / rejected.
func ParseDecision(s string) (RequestStatus, error) {
	switch st := RequestStatus(strings.TrimSpace(s)); st {
	case StatusApproved, StatusRejected:
		return st, nil
	default:
		return "", apperror.InvalidInput("Invalid status. Must be approved or rejected")
	}
}

type RequestModel struct {
	RequestID            uuid.UUID                                  `gorm:"column:request_id;type:uuid;default:gen_random_uuid();primaryKey" json:"request_id"`
	RequestType          RequestType                                `gorm:"column:request_type;type:varchar(20);not null" json:"request_type"`
	RequestStatus        RequestStatus                              `gorm:"column:request_status;type:varchar(20);not null;default:'pending';index" json:"request_status"`
	RequestRequestedBy   uuid.UUID                                  `gorm:"column:request_requested_by;type:uuid;not null;index" json:"request_requested_by"`
	RequestMasjidID      *uuid.UUID                                 `gorm:"column:request_masjid_id;type:uuid" json:"request_masjid_id,omitempty"`
	RequestMasjidData    datatypes.JSONType[masjidModel.MasjidData] `gorm:"column:request_masjid_data;type:jsonb;not null;default:'{}'" json:"request_masjid_data"`
	RequestReason        string                                     `gorm:"column:request_reason;type:text;not null;default:''" json:"request_reason"`
	RequestAdminResponse string                                     `gorm:"column:request_admin_response;type:text;not null;default:''" json:"request_admin_response"`
	RequestProcessedBy   *uuid.UUID                                 `gorm:"column:request_processed_by;type:uuid" json:"request_processed_by,omitempty"`
	RequestProcessedAt   *time.Time                                 `gorm:"column:request_processed_at" json:"request_processed_at,omitempty"`
	RequestCreatedAt     time.Time                                  `gorm:"column:request_created_at;autoCreateTime;index" json:"request_created_at"`
	RequestUpdatedAt     time.Time                                  `gorm:"column:request_updated_at;autoUpdateTime" json:"request_updated_at"`
}

func (RequestModel) TableName() string {
	return "requests"
}

func (r *RequestModel) IsPending() bool {
	return r.RequestStatus == StatusPending
}

package model

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"

	masjidModel "masjidfinder_backend/internals/features/masjids/masjids/model"
	"masjidfinder_backend/internals/helpers/apperror"
)

// Proposal: isi perubahan yang diajukan sebuah request.
// Variannya tertutup (AdminAccess, AddMasjid, EditMasjid, DeleteMasjid).
type Proposal interface {
	Type() RequestType
	sealed()
}

type AdminAccess struct{}

type AddMasjid struct {
	Data masjidModel.MasjidData
}

type EditMasjid struct {
	MasjidID uuid.UUID
	Data     masjidModel.MasjidData
}

type DeleteMasjid struct {
	MasjidID uuid.UUID
}

func (AdminAccess) Type() RequestType  { return TypeAdminAccess }
func (AddMasjid) Type() RequestType    { return TypeAddMasjid }
func (EditMasjid) Type() RequestType   { return TypeEditMasjid }
func (DeleteMasjid) Type() RequestType { return TypeDeleteMasjid }

func (AdminAccess) sealed()  {}
func (AddMasjid) sealed()    {}
func (EditMasjid) sealed()   {}
func (DeleteMasjid) sealed() {}

// NewProposal memvalidasi payload per jenis request.
// data disalin (deep copy) supaya snapshot tidak berbagi memori dengan input.
func NewProposal(t RequestType, masjidID *uuid.UUID, data *masjidModel.MasjidData) (Proposal, error) {
	switch t {
	case TypeAdminAccess:
		return AdminAccess{}, nil

	case TypeAddMasjid:
		if data == nil {
			return nil, apperror.InvalidInput("request_masjid_data is required for add_masjid")
		}
		if err := data.ValidateComplete(); err != nil {
			return nil, err
		}
		return AddMasjid{Data: data.Clone()}, nil

	case TypeEditMasjid:
		if masjidID == nil || *masjidID == uuid.Nil {
			return nil, apperror.InvalidInput("request_masjid_id is required for edit_masjid")
		}
		if data == nil {
			return nil, apperror.InvalidInput("request_masjid_data is required for edit_masjid")
		}
		if err := data.ValidatePartial(); err != nil {
			return nil, err
		}
		return EditMasjid{MasjidID: *masjidID, Data: data.Clone()}, nil

	case TypeDeleteMasjid:
		if masjidID == nil || *masjidID == uuid.Nil {
			return nil, apperror.InvalidInput("request_masjid_id is required for delete_masjid")
		}
		return DeleteMasjid{MasjidID: *masjidID}, nil

	default:
		return nil, apperror.InvalidInput("Invalid request type")
	}
}

// SetProposal menulis type, target & snapshot ke record.
func (r *RequestModel) SetProposal(p Proposal) {
	r.RequestType = p.Type()
	r.RequestMasjidID = nil
	r.RequestMasjidData = datatypes.NewJSONType(masjidModel.MasjidData{})

	switch v := p.(type) {
	case AddMasjid:
		r.RequestMasjidData = datatypes.NewJSONType(v.Data.Clone())
	case EditMasjid:
		id := v.MasjidID
		r.RequestMasjidID = &id
		r.RequestMasjidData = datatypes.NewJSONType(v.Data.Clone())
	case DeleteMasjid:
		id := v.MasjidID
		r.RequestMasjidID = &id
	}
}

// Proposal membangun kembali varian dari record tersimpan.
func (r *RequestModel) Proposal() (Proposal, error) {
	data := r.RequestMasjidData.Data()
	switch r.RequestType {
	case TypeAdminAccess:
		return AdminAccess{}, nil
	case TypeAddMasjid:
		return AddMasjid{Data: data.Clone()}, nil
	case TypeEditMasjid:
		if r.RequestMasjidID == nil {
			return nil, apperror.Internal("edit_masjid request without masjid id", nil)
		}
		return EditMasjid{MasjidID: *r.RequestMasjidID, Data: data.Clone()}, nil
	case TypeDeleteMasjid:
		if r.RequestMasjidID == nil {
			return nil, apperror.Internal("delete_masjid request without masjid id", nil)
		}
		return DeleteMasjid{MasjidID: *r.RequestMasjidID}, nil
	default:
		return nil, apperror.Internal("unknown request type "+string(r.RequestType), nil)
	}
}

package dto

import (
	"time"

	"github.com/google/uuid"

	"masjidfinder_backend/internals/features/masjids/masjids/model"
	userDTO "masjidfinder_backend/internals/features/users/user/dto"
)

// GeoPoint: GeoJSON Point, coordinates = [longitude, latitude]
type GeoPoint struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

func NewGeoPoint(lon, lat float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: [2]float64{lon, lat}}
}

// MasjidBrief: bentuk populate masjid di dalam request
type MasjidBrief struct {
	MasjidID      uuid.UUID `json:"masjid_id"`
	MasjidName    string    `json:"masjid_name"`
	MasjidAddress string    `json:"masjid_address"`
}

type MasjidResponse struct {
	MasjidID          uuid.UUID          `json:"masjid_id"`
	MasjidName        string             `json:"masjid_name"`
	MasjidAddress     string             `json:"masjid_address"`
	MasjidLocation    GeoPoint           `json:"masjid_location"`
	MasjidPrayerTimes model.PrayerTimes  `json:"masjid_prayer_times"`
	MasjidDescription string             `json:"masjid_description"`
	MasjidPhoneNumber string             `json:"masjid_phone_number"`
	MasjidAddedBy     *userDTO.UserBrief `json:"masjid_added_by,omitempty"`
	MasjidDistance    *float64           `json:"masjid_distance_meters,omitempty"`
	MasjidCreatedAt   time.Time          `json:"masjid_created_at"`
	MasjidUpdatedAt   time.Time          `json:"masjid_updated_at"`
}

// FromModel: addedBy boleh nil (user pembuat sudah tidak ada).
func FromModel(m model.MasjidModel, addedBy *userDTO.UserBrief) MasjidResponse {
	return MasjidResponse{
		MasjidID:          m.MasjidID,
		MasjidName:        m.MasjidName,
		MasjidAddress:     m.MasjidAddress,
		MasjidLocation:    NewGeoPoint(m.MasjidLongitude, m.MasjidLatitude),
		MasjidPrayerTimes: m.MasjidPrayerTimes.Data(),
		MasjidDescription: m.MasjidDescription,
		MasjidPhoneNumber: m.MasjidPhoneNumber,
		MasjidAddedBy:     addedBy,
		MasjidCreatedAt:   m.MasjidCreatedAt,
		MasjidUpdatedAt:   m.MasjidUpdatedAt,
	}
}

func ToMasjidBrief(m model.MasjidModel) *MasjidBrief {
	return &MasjidBrief{
		MasjidID:      m.MasjidID,
		MasjidName:    m.MasjidName,
		MasjidAddress: m.MasjidAddress,
	}
}

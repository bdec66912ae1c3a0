package model

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"masjidfinder_backend/internals/helpers/apperror"
)

// PrayerTimes: lima waktu wajib + jummah opsional (string jam, mis. "04:35").
type PrayerTimes struct {
	Fajr    string `json:"fajr"`
	Dhuhr   string `json:"dhuhr"`
	Asr     string `json:"asr"`
	Maghrib string `json:"maghrib"`
	Isha    string `json:"isha"`
	Jummah  string `json:"jummah"`
}

func (p PrayerTimes) Validate() error {
	missing := make([]string, 0, 5)
	for _, f := range []struct{ name, val string }{
		{"fajr", p.Fajr},
		{"dhuhr", p.Dhuhr},
		{"asr", p.Asr},
		{"maghrib", p.Maghrib},
		{"isha", p.Isha},
	} {
		if strings.TrimSpace(f.val) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return apperror.InvalidInput("masjid_prayer_times missing: " + strings.Join(missing, ", "))
	}
	return nil
}

// ValidateCoordinates: pasangan (lon, lat) WGS84 yang valid.
func ValidateCoordinates(lon, lat float64) error {
	if math.IsNaN(lon) || math.IsNaN(lat) || math.IsInf(lon, 0) || math.IsInf(lat, 0) {
		return apperror.InvalidInput("Coordinates must be finite numbers")
	}
	if lon < -180 || lon > 180 {
		return apperror.InvalidInput("masjid_longitude must be between -180 and 180")
	}
	if lat < -90 || lat > 90 {
		return apperror.InvalidInput("masjid_latitude must be between -90 and 90")
	}
	return nil
}

type MasjidModel struct {
	MasjidID          uuid.UUID                       `gorm:"column:masjid_id;type:uuid;default:gen_random_uuid();primaryKey" json:"masjid_id"`
	MasjidName        string                          `gorm:"column:masjid_name;type:varchar(200);not null" json:"masjid_name"`
	MasjidAddress     string                          `gorm:"column:masjid_address;type:text;not null" json:"masjid_address"`
	MasjidLongitude   float64                         `gorm:"column:masjid_longitude;type:double precision;not null" json:"masjid_longitude"`
	MasjidLatitude    float64                         `gorm:"column:masjid_latitude;type:double precision;not null" json:"masjid_latitude"`
	MasjidPrayerTimes datatypes.JSONType[PrayerTimes] `gorm:"column:masjid_prayer_times;type:jsonb;not null" json:"masjid_prayer_times"`
	MasjidDescription string                          `gorm:"column:masjid_description;type:text;not null;default:''" json:"masjid_description"`
	MasjidPhoneNumber string                          `gorm:"column:masjid_phone_number;type:varchar(50);not null;default:''" json:"masjid_phone_number"`
	MasjidAddedBy     uuid.UUID                       `gorm:"column:masjid_added_by;type:uuid;not null;index" json:"masjid_added_by"`
	MasjidCreatedAt   time.Time                       `gorm:"column:masjid_created_at;not null" json:"masjid_created_at"`
	MasjidUpdatedAt   time.Time                       `gorm:"column:masjid_updated_at;not null" json:"masjid_updated_at"`
}

func (MasjidModel) TableName() string {
	return "masjids"
}

// Validate: invariant data yang dijaga store (field wajib + koordinat valid).
func (m *MasjidModel) Validate() error {
	if strings.TrimSpace(m.MasjidName) == "" {
		return apperror.InvalidInput("masjid_name is required")
	}
	if strings.TrimSpace(m.MasjidAddress) == "" {
		return apperror.InvalidInput("masjid_address is required")
	}
	if err := ValidateCoordinates(m.MasjidLongitude, m.MasjidLatitude); err != nil {
		return err
	}
	return m.MasjidPrayerTimes.Data().Validate()
}

// Touch: updated_at tidak pernah mundur walau jam sistem mundur.
func (m *MasjidModel) Touch(now time.Time) {
	now = now.UTC()
	if m.MasjidCreatedAt.IsZero() {
		m.MasjidCreatedAt = now
	}
	if now.After(m.MasjidUpdatedAt) {
		m.MasjidUpdatedAt = now
	}
}

// NearbyMasjid: hasil FindNear + jarak (meter) dari titik query.
type NearbyMasjid struct {
	MasjidModel
	DistanceMeters float64 `gorm:"column:distance_meters" json:"distance_meters"`
}

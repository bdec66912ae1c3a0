package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"masjidfinder_backend/internals/helpers/apperror"
)

// MasjidData: payload masjid (semua field opsional). Dipakai sebagai body
// create/update langsung dan sebagai snapshot di dalam request.
type MasjidData struct {
	MasjidName        *string      `json:"masjid_name,omitempty"`
	MasjidAddress     *string      `json:"masjid_address,omitempty"`
	MasjidLatitude    *float64     `json:"masjid_latitude,omitempty"`
	MasjidLongitude   *float64     `json:"masjid_longitude,omitempty"`
	MasjidPrayerTimes *PrayerTimes `json:"masjid_prayer_times,omitempty"`
	MasjidDescription *string      `json:"masjid_description,omitempty"`
	MasjidPhoneNumber *string      `json:"masjid_phone_number,omitempty"`
}

// Clone: deep copy, snapshot tidak boleh berbagi pointer dengan input.
func (d MasjidData) Clone() MasjidData {
	out := MasjidData{
		MasjidName:        cloneString(d.MasjidName),
		MasjidAddress:     cloneString(d.MasjidAddress),
		MasjidLatitude:    cloneFloat(d.MasjidLatitude),
		MasjidLongitude:   cloneFloat(d.MasjidLongitude),
		MasjidDescription: cloneString(d.MasjidDescription),
		MasjidPhoneNumber: cloneString(d.MasjidPhoneNumber),
	}
	if d.MasjidPrayerTimes != nil {
		pt := *d.MasjidPrayerTimes
		out.MasjidPrayerTimes = &pt
	}
	return out
}

func (d MasjidData) IsEmpty() bool {
	return d.MasjidName == nil && d.MasjidAddress == nil &&
		d.MasjidLatitude == nil && d.MasjidLongitude == nil &&
		d.MasjidPrayerTimes == nil && d.MasjidDescription == nil &&
		d.MasjidPhoneNumber == nil
}

func (d MasjidData) HasLocation() bool {
	return d.MasjidLatitude != nil && d.MasjidLongitude != nil
}

// ValidateComplete: semua field wajib untuk membuat masjid baru.
func (d MasjidData) ValidateComplete() error {
	if blank(d.MasjidName) || blank(d.MasjidAddress) || !d.HasLocation() || d.MasjidPrayerTimes == nil {
		return apperror.InvalidInput("Please provide all required fields")
	}
	if err := ValidateCoordinates(*d.MasjidLongitude, *d.MasjidLatitude); err != nil {
		return err
	}
	return d.MasjidPrayerTimes.Validate()
}

// ValidatePartial: minimal satu field; yang dikirim harus valid.
func (d MasjidData) ValidatePartial() error {
	if d.IsEmpty() {
		return apperror.InvalidInput("No masjid fields to update")
	}
	if d.HasLocation() {
		if err := ValidateCoordinates(*d.MasjidLongitude, *d.MasjidLatitude); err != nil {
			return err
		}
	}
	if d.MasjidPrayerTimes != nil {
		return d.MasjidPrayerTimes.Validate()
	}
	return nil
}

// ToModel builds a new masjid owned by addedBy. Call ValidateComplete first.
func (d MasjidData) ToModel(addedBy uuid.UUID, now time.Time) MasjidModel {
	m := MasjidModel{
		MasjidName:        strings.TrimSpace(*d.MasjidName),
		MasjidAddress:     strings.TrimSpace(*d.MasjidAddress),
		MasjidLongitude:   *d.MasjidLongitude,
		MasjidLatitude:    *d.MasjidLatitude,
		MasjidPrayerTimes: datatypes.NewJSONType(*d.MasjidPrayerTimes),
		MasjidAddedBy:     addedBy,
	}
	if d.MasjidDescription != nil {
		m.MasjidDescription = strings.TrimSpace(*d.MasjidDescription)
	}
	if d.MasjidPhoneNumber != nil {
		m.MasjidPhoneNumber = strings.TrimSpace(*d.MasjidPhoneNumber)
	}
	m.Touch(now)
	return m
}

// ApplyTo: partial update. Nama/alamat kosong diabaikan; deskripsi & telepon
// boleh dikosongkan; lokasi hanya diganti kalau lat & lon dua-duanya ada.
func (d MasjidData) ApplyTo(m *MasjidModel, now time.Time) {
	if !blank(d.MasjidName) {
		m.MasjidName = strings.TrimSpace(*d.MasjidName)
	}
	if !blank(d.MasjidAddress) {
		m.MasjidAddress = strings.TrimSpace(*d.MasjidAddress)
	}
	if d.MasjidDescription != nil {
		m.MasjidDescription = strings.TrimSpace(*d.MasjidDescription)
	}
	if d.MasjidPhoneNumber != nil {
		m.MasjidPhoneNumber = strings.TrimSpace(*d.MasjidPhoneNumber)
	}
	if d.MasjidPrayerTimes != nil {
		m.MasjidPrayerTimes = datatypes.NewJSONType(*d.MasjidPrayerTimes)
	}
	if d.HasLocation() {
		m.MasjidLongitude = *d.MasjidLongitude
		m.MasjidLatitude = *d.MasjidLatitude
	}
	m.Touch(now)
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

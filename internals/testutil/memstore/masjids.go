package memstore

import (
	"context"
	"math"
	"sort"

	"github.com/google/uuid"

	"masjidfinder_backend/internals/features/masjids/masjids/model"
	"masjidfinder_backend/internals/features/masjids/masjids/repository"
	"masjidfinder_backend/internals/helpers/apperror"
)

const earthRadiusMeters = 6371008.8

type MasjidStore struct {
	view
}

func (m *MasjidStore) Create(ctx context.Context, masjid *model.MasjidModel) error {
	if err := masjid.Validate(); err != nil {
		return err
	}
	defer m.lock()()
	if masjid.MasjidID == uuid.Nil {
		masjid.MasjidID = uuid.New()
	}
	if masjid.MasjidCreatedAt.IsZero() {
		masjid.Touch(m.s.now())
	}
	m.s.st.masjids[masjid.MasjidID] = *masjid
	m.s.st.order[masjid.MasjidID] = m.s.nextSeq()
	return nil
}

func (m *MasjidStore) FindByID(ctx context.Context, id uuid.UUID) (*model.MasjidModel, error) {
	defer m.lock()()
	found, ok := m.s.st.masjids[id]
	if !ok {
		return nil, apperror.NotFound("Masjid not found")
	}
	return &found, nil
}

func (m *MasjidStore) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.MasjidModel, error) {
	defer m.lock()()
	out := make([]model.MasjidModel, 0, len(ids))
	for _, id := range ids {
		if found, ok := m.s.st.masjids[id]; ok {
			out = append(out, found)
		}
	}
	return out, nil
}

func (m *MasjidStore) FindAll(ctx context.Context) ([]model.MasjidModel, error) {
	defer m.lock()()
	st := m.s.st
	out := make([]model.MasjidModel, 0, len(st.masjids))
	for _, found := range st.masjids {
		out = append(out, found)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.MasjidCreatedAt.Equal(b.MasjidCreatedAt) {
			return a.MasjidCreatedAt.After(b.MasjidCreatedAt)
		}
		return st.order[a.MasjidID] > st.order[b.MasjidID]
	})
	return out, nil
}

func (m *MasjidStore) FindNear(ctx context.Context, q repository.NearQuery) ([]model.NearbyMasjid, error) {
	if err := model.ValidateCoordinates(q.Longitude, q.Latitude); err != nil {
		return nil, err
	}
	if q.MaxDistance < 0 {
		return nil, apperror.InvalidInput("maxDistance must not be negative")
	}
	defer m.lock()()

	out := make([]model.NearbyMasjid, 0)
	for _, found := range m.s.st.masjids {
		d := Haversine(q.Longitude, q.Latitude, found.MasjidLongitude, found.MasjidLatitude)
		if d <= q.MaxDistance {
			out = append(out, model.NearbyMasjid{MasjidModel: found, DistanceMeters: d})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DistanceMeters < out[j].DistanceMeters })
	return out, nil
}

func (m *MasjidStore) Update(ctx context.Context, masjid *model.MasjidModel) error {
	if err := masjid.Validate(); err != nil {
		return err
	}
	defer m.lock()()
	found, ok := m.s.st.masjids[masjid.MasjidID]
	if !ok {
		return apperror.NotFound("Masjid not found")
	}
	next := *masjid
	next.MasjidCreatedAt = found.MasjidCreatedAt
	next.MasjidAddedBy = found.MasjidAddedBy
	if found.MasjidUpdatedAt.After(next.MasjidUpdatedAt) {
		next.MasjidUpdatedAt = found.MasjidUpdatedAt
	}
	m.s.st.masjids[masjid.MasjidID] = next
	return nil
}

func (m *MasjidStore) Delete(ctx context.Context, id uuid.UUID) error {
	defer m.lock()()
	if _, ok := m.s.st.masjids[id]; !ok {
		return apperror.NotFound("Masjid not found")
	}
	delete(m.s.st.masjids, id)
	return nil
}

// Haversine: jarak great-circle dalam meter.
func Haversine(lon1, lat1, lon2, lat2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(a)))
}

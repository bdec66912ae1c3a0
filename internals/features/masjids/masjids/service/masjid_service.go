// internals/features/masjids/masjids/service/masjid_service.go
package service

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"masjidfinder_backend/internals/features/masjids/masjids/cache"
	"masjidfinder_backend/internals/features/masjids/masjids/dto"
	"masjidfinder_backend/internals/features/masjids/masjids/model"
	"masjidfinder_backend/internals/features/masjids/masjids/repository"
	userDTO "masjidfinder_backend/internals/features/users/user/dto"
	userRepo "masjidfinder_backend/internals/features/users/user/repository"
	"masjidfinder_backend/internals/helpers/apperror"
	"masjidfinder_backend/internals/helpers/authz"
)

// DefaultNearDistance: radius default pencarian (meter)
const DefaultNearDistance = 5000.0

type MasjidService struct {
	masjids repository.MasjidRepository
	users   userRepo.UserRepository
	cache   cache.MasjidCache
	now     func() time.Time
}

func NewMasjidService(masjids repository.MasjidRepository, users userRepo.UserRepository, c cache.MasjidCache) *MasjidService {
	if c == nil {
		c = cache.NopMasjidCache{}
	}
	return &MasjidService{masjids: masjids, users: users, cache: c, now: time.Now}
}

func (s *MasjidService) WithClock(now func() time.Time) *MasjidService {
	s.now = now
	return s
}

/* =========================================================
   READ (publik)
========================================================= */

func (s *MasjidService) List(ctx context.Context) ([]dto.MasjidResponse, error) {
	list, stamp, ok := s.cache.GetList(ctx)
	if !ok {
		var err error
		if list, err = s.masjids.FindAll(ctx); err != nil {
			return nil, err
		}
		s.cache.SetList(ctx, stamp, list)
	}
	return s.render(ctx, list)
}

func (s *MasjidService) Get(ctx context.Context, id uuid.UUID) (*dto.MasjidResponse, error) {
	m, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	out, err := s.render(ctx, []model.MasjidModel{*m})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// ParseNearQuery: lon & lat wajib, maxDistance opsional (default 5000 m).
func ParseNearQuery(lonRaw, latRaw, maxRaw string) (repository.NearQuery, error) {
	lonRaw, latRaw, maxRaw = strings.TrimSpace(lonRaw), strings.TrimSpace(latRaw), strings.TrimSpace(maxRaw)
	if lonRaw == "" || latRaw == "" {
		return repository.NearQuery{}, apperror.InvalidInput("Please provide longitude and latitude")
	}
	lon, err := strconv.ParseFloat(lonRaw, 64)
	if err != nil {
		return repository.NearQuery{}, apperror.InvalidInput("longitude must be a number")
	}
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return repository.NearQuery{}, apperror.InvalidInput("latitude must be a number")
	}
	if err := model.ValidateCoordinates(lon, lat); err != nil {
		return repository.NearQuery{}, err
	}

	// maxDistance kosong / bukan angka / <= 0 -> default
	q := repository.NearQuery{Longitude: lon, Latitude: lat, MaxDistance: DefaultNearDistance}
	if d, err := strconv.ParseFloat(maxRaw, 64); err == nil && d > 0 && !math.IsInf(d, 0) {
		q.MaxDistance = d
	}
	return q, nil
}

func (s *MasjidService) Near(ctx context.Context, q repository.NearQuery) ([]dto.MasjidResponse, error) {
	rows, err := s.masjids.FindNear(ctx, q)
	if err != nil {
		return nil, err
	}
	list := make([]model.MasjidModel, 0, len(rows))
	for _, r := range rows {
		list = append(list, r.MasjidModel)
	}
	out, err := s.render(ctx, list)
	if err != nil {
		return nil, err
	}
	for i := range out {
		d := rows[i].DistanceMeters
		out[i].MasjidDistance = &d
	}
	return out, nil
}

/* =========================================================
   MUTATION (admin & main_admin)
========================================================= */

func (s *MasjidService) Create(ctx context.Context, actor authz.Actor, data model.MasjidData) (*dto.MasjidResponse, error) {
	if err := authz.Authorize(actor, authz.ActionCreateMasjid, authz.Resource{}); err != nil {
		return nil, err
	}
	if err := data.ValidateComplete(); err != nil {
		return nil, err
	}

	m := data.ToModel(actor.ID, s.now())
	if err := s.masjids.Create(ctx, &m); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	return s.Get(ctx, m.MasjidID)
}

func (s *MasjidService) Update(ctx context.Context, actor authz.Actor, id uuid.UUID, data model.MasjidData) (*dto.MasjidResponse, error) {
	if err := authz.Authorize(actor, authz.ActionUpdateMasjid, authz.Resource{}); err != nil {
		return nil, err
	}
	if err := data.ValidatePartial(); err != nil {
		return nil, err
	}

	m, err := s.masjids.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	data.ApplyTo(m, s.now())
	if err := s.masjids.Update(ctx, m); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	return s.Get(ctx, id)
}

func (s *MasjidService) Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	if err := authz.Authorize(actor, authz.ActionDeleteMasjid, authz.Resource{}); err != nil {
		return err
	}
	if err := s.masjids.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

/* =========================================================
   helpers
========================================================= */

func (s *MasjidService) find(ctx context.Context, id uuid.UUID) (*model.MasjidModel, error) {
	cached, stamp, ok := s.cache.GetOne(ctx, id)
	if ok {
		return cached, nil
	}
	m, err := s.masjids.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.SetOne(ctx, stamp, m)
	return m, nil
}

// render: populate added_by dengan satu query batch.
func (s *MasjidService) render(ctx context.Context, list []model.MasjidModel) ([]dto.MasjidResponse, error) {
	ids := make([]uuid.UUID, 0, len(list))
	seen := make(map[uuid.UUID]bool, len(list))
	for _, m := range list {
		if !seen[m.MasjidAddedBy] {
			seen[m.MasjidAddedBy] = true
			ids = append(ids, m.MasjidAddedBy)
		}
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	briefs := make(map[uuid.UUID]*userDTO.UserBrief, len(users))
	for _, u := range users {
		briefs[u.ID] = userDTO.ToUserBrief(u, false)
	}

	out := make([]dto.MasjidResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.FromModel(m, briefs[m.MasjidAddedBy]))
	}
	return out, nil
}

// Package memstore: implementasi in-memory semua repository, untuk test
// service & HTTP tanpa Postgres. Satu mutex = semua operasi serial;
// WithinTx memegang mutex selama fn berjalan dan mengembalikan snapshot
// kalau fn error.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	masjidModel "masjidfinder_backend/internals/features/masjids/masjids/model"
	requestModel "masjidfinder_backend/internals/features/requests/model"
	requestRepo "masjidfinder_backend/internals/features/requests/repository"
	userModel "masjidfinder_backend/internals/features/users/user/model"
)

type state struct {
	users     map[uuid.UUID]userModel.UserModel
	masjids   map[uuid.UUID]masjidModel.MasjidModel
	requests  map[uuid.UUID]requestModel.RequestModel
	order     map[uuid.UUID]int64 // urutan insert, pemecah seri created_at
	blacklist map[string]time.Time
}

func newState() *state {
	return &state{
		users:     map[uuid.UUID]userModel.UserModel{},
		masjids:   map[uuid.UUID]masjidModel.MasjidModel{},
		requests:  map[uuid.UUID]requestModel.RequestModel{},
		order:     map[uuid.UUID]int64{},
		blacklist: map[string]time.Time{},
	}
}

func (s *state) clone() *state {
	out := newState()
	for k, v := range s.users {
		out.users[k] = v
	}
	for k, v := range s.masjids {
		out.masjids[k] = v
	}
	for k, v := range s.requests {
		out.requests[k] = copyRequest(v)
	}
	for k, v := range s.order {
		out.order[k] = v
	}
	for k, v := range s.blacklist {
		out.blacklist[k] = v
	}
	return out
}

type Store struct {
	mu  sync.Mutex
	st  *state
	seq int64
	now func() time.Time

	// dipakai test rollback: MarkProcessed berikutnya gagal dengan error ini
	failMarkProcessed error
}

func New() *Store {
	return &Store{st: newState(), now: time.Now}
}

// FailNextMarkProcessed membuat panggilan MarkProcessed berikutnya gagal.
func (s *Store) FailNextMarkProcessed(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failMarkProcessed = err
}

// view: akses ke store; inTx = mutex sudah dipegang WithinTx.
type view struct {
	s    *Store
	inTx bool
}

func (v view) lock() func() {
	if v.inTx {
		return func() {}
	}
	v.s.mu.Lock()
	return v.s.mu.Unlock
}

func (s *Store) repositories(inTx bool) requestRepo.Repositories {
	v := view{s: s, inTx: inTx}
	return requestRepo.Repositories{
		Requests: &RequestStore{v},
		Users:    &UserStore{v},
		Masjids:  &MasjidStore{v},
	}
}

// Repositories: repository non-transaksional di atas store ini.
func (s *Store) Repositories() requestRepo.Repositories {
	return s.repositories(false)
}

func (s *Store) Blacklist() *BlacklistStore {
	return &BlacklistStore{view{s: s}}
}

// WithinTx implements requestRepo.TxManager.
func (s *Store) WithinTx(ctx context.Context, fn func(repos requestRepo.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	snapshot := s.st.clone()
	if err := fn(s.repositories(true)); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

func copyRequest(r requestModel.RequestModel) requestModel.RequestModel {
	out := r
	out.RequestMasjidData = datatypes.NewJSONType(r.RequestMasjidData.Data().Clone())
	if r.RequestMasjidID != nil {
		id := *r.RequestMasjidID
		out.RequestMasjidID = &id
	}
	if r.RequestProcessedBy != nil {
		id := *r.RequestProcessedBy
		out.RequestProcessedBy = &id
	}
	if r.RequestProcessedAt != nil {
		t := *r.RequestProcessedAt
		out.RequestProcessedAt = &t
	}
	return out
}

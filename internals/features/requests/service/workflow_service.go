// internals/features/requests/service/workflow_service.go
package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"masjidfinder_backend/internals/constants"
	"masjidfinder_backend/internals/features/masjids/masjids/cache"
	masjidDTO "masjidfinder_backend/internals/features/masjids/masjids/dto"
	"masjidfinder_backend/internals/features/requests/dto"
	"masjidfinder_backend/internals/features/requests/model"
	"masjidfinder_backend/internals/features/requests/repository"
	userDTO "masjidfinder_backend/internals/features/users/user/dto"
	userService "masjidfinder_backend/internals/features/users/user/service"
	helper "masjidfinder_backend/internals/helpers"
	"masjidfinder_backend/internals/helpers/apperror"
	"masjidfinder_backend/internals/helpers/authz"
)

// WorkflowService: pengajuan perubahan (request) yang baru menyentuh store
// setelah di-approve main_admin.
type WorkflowService struct {
	tx    repository.TxManager
	repos repository.Repositories
	cache cache.MasjidCache
	now   func() time.Time
}

func NewWorkflowService(tx repository.TxManager, repos repository.Repositories, c cache.MasjidCache) *WorkflowService {
	if c == nil {
		c = cache.NopMasjidCache{}
	}
	return &WorkflowService{tx: tx, repos: repos, cache: c, now: time.Now}
}

func (s *WorkflowService) WithClock(now func() time.Time) *WorkflowService {
	s.now = now
	return s
}

/* =========================================================
   SUBMIT
========================================================= */

func (s *WorkflowService) Submit(ctx context.Context, actor authz.Actor, in dto.CreateRequestRequest) (*dto.RequestResponse, error) {
	if err := authz.Authorize(actor, authz.ActionSubmitRequest, authz.Resource{OwnerID: actor.ID}); err != nil {
		return nil, err
	}
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}

	reqType, err := model.ParseRequestType(in.RequestType)
	if err != nil {
		return nil, err
	}
	var masjidID *uuid.UUID
	if raw := strings.TrimSpace(in.RequestMasjidID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, apperror.InvalidInput("Invalid request_masjid_id")
		}
		masjidID = &id
	}
	proposal, err := model.NewProposal(reqType, masjidID, in.RequestMasjidData)
	if err != nil {
		return nil, err
	}

	switch p := proposal.(type) {
	case model.AdminAccess:
		if err := s.checkAdminAccessAllowed(ctx, actor.ID); err != nil {
			return nil, err
		}
	case model.EditMasjid:
		if _, err := s.repos.Masjids.FindByID(ctx, p.MasjidID); err != nil {
			return nil, err
		}
	case model.DeleteMasjid:
		if _, err := s.repos.Masjids.FindByID(ctx, p.MasjidID); err != nil {
			return nil, err
		}
	}

	req := &model.RequestModel{
		RequestRequestedBy: actor.ID,
		RequestReason:      strings.TrimSpace(in.RequestReason),
	}
	req.SetProposal(proposal)
	if err := s.repos.Requests.Create(ctx, req); err != nil {
		return nil, err
	}
	return s.renderOne(ctx, *req)
}

// admin_access: requester harus masih user biasa & belum punya yang pending.
// Keunikan pending tetap dijaga storage (partial unique index) untuk race.
func (s *WorkflowService) checkAdminAccessAllowed(ctx context.Context, requesterID uuid.UUID) error {
	u, err := s.repos.Users.FindByID(ctx, requesterID)
	if err != nil {
		return err
	}
	if u.Role == constants.RoleAdmin || u.Role == constants.RoleMainAdmin {
		return apperror.Conflict("You already have admin access")
	}

	pending, typ := model.StatusPending, model.TypeAdminAccess
	existing, err := s.repos.Requests.List(ctx, repository.RequestFilter{
		Status:      &pending,
		Type:        &typ,
		RequestedBy: &requesterID,
	})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return apperror.Conflict(repository.MsgPendingAdminAccess)
	}
	return nil
}

/* =========================================================
   READ
========================================================= */

func (s *WorkflowService) ListAll(ctx context.Context, actor authz.Actor, q dto.ListRequestsQuery) ([]dto.RequestResponse, error) {
	if err := authz.Authorize(actor, authz.ActionListAllRequests, authz.Resource{}); err != nil {
		return nil, err
	}

	var f repository.RequestFilter
	if raw := strings.TrimSpace(q.Status); raw != "" {
		st, err := model.ParseStatus(raw)
		if err != nil {
			return nil, err
		}
		f.Status = &st
	}
	if raw := strings.TrimSpace(q.Type); raw != "" {
		t, err := model.ParseRequestType(raw)
		if err != nil {
			return nil, err
		}
		f.Type = &t
	}

	list, err := s.repos.Requests.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, list)
}

func (s *WorkflowService) ListMine(ctx context.Context, actor authz.Actor) ([]dto.RequestResponse, error) {
	if err := authz.Authorize(actor, authz.ActionReadOwnRequests, authz.Resource{OwnerID: actor.ID}); err != nil {
		return nil, err
	}
	list, err := s.repos.Requests.List(ctx, repository.RequestFilter{RequestedBy: &actor.ID})
	if err != nil {
		return nil, err
	}
	return s.render(ctx, list)
}

func (s *WorkflowService) Get(ctx context.Context, actor authz.Actor, id uuid.UUID) (*dto.RequestResponse, error) {
	req, err := s.repos.Requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ActionReadRequest, authz.Resource{OwnerID: req.RequestRequestedBy}); err != nil {
		return nil, err
	}
	return s.renderOne(ctx, *req)
}

/* =========================================================
   PROCESS (main_admin)
========================================================= */

// Process: lock request -> cek pending -> side effect -> flip status,
// semuanya dalam satu transaksi. Gagal di mana pun = request tetap pending.
func (s *WorkflowService) Process(ctx context.Context, actor authz.Actor, id uuid.UUID, in dto.ProcessRequestRequest) (*dto.RequestResponse, error) {
	if err := authz.Authorize(actor, authz.ActionProcessRequest, authz.Resource{}); err != nil {
		return nil, err
	}
	decision, err := model.ParseDecision(in.RequestStatus)
	if err != nil {
		return nil, err
	}
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}

	var (
		processed     *model.RequestModel
		touchedMasjid bool
	)
	err = s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		req, err := repos.Requests.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !model.CanTransition(req.RequestStatus, decision) {
			return apperror.Conflict(repository.MsgAlreadyProcessed)
		}

		if decision == model.StatusApproved {
			proposal, err := req.Proposal()
			if err != nil {
				return err
			}
			if touchedMasjid, err = s.apply(ctx, repos, req, proposal); err != nil {
				return err
			}
		}

		processed, err = repos.Requests.MarkProcessed(ctx, id, decision, actor.ID, strings.TrimSpace(in.RequestAdminResponse), s.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	if touchedMasjid {
		s.cache.Invalidate(ctx)
	}
	log.Printf("[INFO] request %s %s by %s", id, decision, actor.ID)
	return s.renderOne(ctx, *processed)
}

// apply menjalankan efek approve per varian. bool = masjid berubah.
func (s *WorkflowService) apply(ctx context.Context, repos repository.Repositories, req *model.RequestModel, proposal model.Proposal) (bool, error) {
	switch p := proposal.(type) {
	case model.AdminAccess:
		_, err := userService.GrantAdmin(ctx, repos.Users, req.RequestRequestedBy)
		return false, err

	case model.AddMasjid:
		if err := p.Data.ValidateComplete(); err != nil {
			return false, err
		}
		m := p.Data.ToModel(req.RequestRequestedBy, s.now())
		if err := repos.Masjids.Create(ctx, &m); err != nil {
			return false, err
		}
		return true, nil

	case model.EditMasjid:
		m, err := repos.Masjids.FindByID(ctx, p.MasjidID)
		if err != nil {
			return false, err
		}
		p.Data.ApplyTo(m, s.now())
		if err := repos.Masjids.Update(ctx, m); err != nil {
			return false, err
		}
		return true, nil

	case model.DeleteMasjid:
		// masjid sudah hilang = tujuan request sudah tercapai
		if err := repos.Masjids.Delete(ctx, p.MasjidID); err != nil && !apperror.Is(err, apperror.KindNotFound) {
			return false, err
		}
		return true, nil

	default:
		return false, apperror.Internal("unsupported request type "+string(proposal.Type()), nil)
	}
}

/* =========================================================
   DELETE (withdraw)
========================================================= */

func (s *WorkflowService) Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	req, err := s.repos.Requests.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.Authorize(actor, authz.ActionDeleteRequest, authz.Resource{OwnerID: req.RequestRequestedBy}); err != nil {
		return err
	}
	if !req.IsPending() {
		return apperror.Conflict(repository.MsgCannotDeleteProcessed)
	}
	return s.repos.Requests.DeleteIfPending(ctx, id)
}

/* =========================================================
   render (populate user & masjid)
========================================================= */

func (s *WorkflowService) renderOne(ctx context.Context, req model.RequestModel) (*dto.RequestResponse, error) {
	out, err := s.render(ctx, []model.RequestModel{req})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *WorkflowService) render(ctx context.Context, list []model.RequestModel) ([]dto.RequestResponse, error) {
	userIDs := make([]uuid.UUID, 0, len(list))
	masjidIDs := make([]uuid.UUID, 0, len(list))
	seen := make(map[uuid.UUID]bool, len(list)*2)
	for _, r := range list {
		for _, id := range []*uuid.UUID{&r.RequestRequestedBy, r.RequestProcessedBy} {
			if id != nil && !seen[*id] {
				seen[*id] = true
				userIDs = append(userIDs, *id)
			}
		}
		if r.RequestMasjidID != nil && !seen[*r.RequestMasjidID] {
			seen[*r.RequestMasjidID] = true
			masjidIDs = append(masjidIDs, *r.RequestMasjidID)
		}
	}

	users, err := s.repos.Users.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	userBriefs := make(map[uuid.UUID]*userDTO.UserBrief, len(users))
	for _, u := range users {
		userBriefs[u.ID] = userDTO.ToUserBrief(u, true)
	}

	masjids, err := s.repos.Masjids.FindByIDs(ctx, masjidIDs)
	if err != nil {
		return nil, err
	}
	masjidBriefs := make(map[uuid.UUID]*masjidDTO.MasjidBrief, len(masjids))
	for _, m := range masjids {
		masjidBriefs[m.MasjidID] = masjidDTO.ToMasjidBrief(m)
	}

	out := make([]dto.RequestResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.FromModel(r, userBriefs, masjidBriefs))
	}
	return out, nil
}

package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"masjidfinder_backend/internals/features/requests/model"
	"masjidfinder_backend/internals/features/requests/repository"
	"masjidfinder_backend/internals/helpers/apperror"
)

type RequestStore struct {
	view
}

func (r *RequestStore) Create(ctx context.Context, req *model.RequestModel) error {
	defer r.lock()()
	st := r.s.st

	// sama seperti uq_requests_pending_admin_access
	if req.RequestType == model.TypeAdminAccess {
		for _, existing := range st.requests {
			if existing.RequestType == model.TypeAdminAccess &&
				existing.RequestStatus == model.StatusPending &&
				existing.RequestRequestedBy == req.RequestRequestedBy {
				return apperror.Conflict(repository.MsgPendingAdminAccess)
			}
		}
	}

	req.RequestStatus = model.StatusPending
	req.RequestProcessedBy = nil
	req.RequestProcessedAt = nil
	if req.RequestID == uuid.Nil {
		req.RequestID = uuid.New()
	}
	now := r.s.now().UTC()
	req.RequestCreatedAt, req.RequestUpdatedAt = now, now

	st.requests[req.RequestID] = copyRequest(*req)
	st.order[req.RequestID] = r.s.nextSeq()
	return nil
}

func (r *RequestStore) FindByID(ctx context.Context, id uuid.UUID) (*model.RequestModel, error) {
	defer r.lock()()
	return r.find(id)
}

// FindByIDForUpdate: mutex store sudah memberi eksklusivitas.
func (r *RequestStore) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.RequestModel, error) {
	defer r.lock()()
	return r.find(id)
}

func (r *RequestStore) find(id uuid.UUID) (*model.RequestModel, error) {
	found, ok := r.s.st.requests[id]
	if !ok {
		return nil, apperror.NotFound(repository.MsgRequestNotFound)
	}
	out := copyRequest(found)
	return &out, nil
}

func (r *RequestStore) List(ctx context.Context, f repository.RequestFilter) ([]model.RequestModel, error) {
	defer r.lock()()
	st := r.s.st

	out := make([]model.RequestModel, 0)
	for _, req := range st.requests {
		if f.Status != nil && req.RequestStatus != *f.Status {
			continue
		}
		if f.Type != nil && req.RequestType != *f.Type {
			continue
		}
		if f.RequestedBy != nil && req.RequestRequestedBy != *f.RequestedBy {
			continue
		}
		out = append(out, copyRequest(req))
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.RequestCreatedAt.Equal(b.RequestCreatedAt) {
			return a.RequestCreatedAt.After(b.RequestCreatedAt)
		}
		return st.order[a.RequestID] > st.order[b.RequestID]
	})
	return out, nil
}

func (r *RequestStore) MarkProcessed(
	ctx context.Context,
	id uuid.UUID,
	status model.RequestStatus,
	processedBy uuid.UUID,
	adminResponse string,
	at time.Time,
) (*model.RequestModel, error) {
	defer r.lock()()
	if err := r.s.failMarkProcessed; err != nil {
		r.s.failMarkProcessed = nil
		return nil, err
	}
	if !model.CanTransition(model.StatusPending, status) {
		return nil, apperror.InvalidInput("Invalid status. Must be approved or rejected")
	}

	found, ok := r.s.st.requests[id]
	if !ok {
		return nil, apperror.NotFound(repository.MsgRequestNotFound)
	}
	if !found.IsPending() {
		return nil, apperror.Conflict(repository.MsgAlreadyProcessed)
	}

	at = at.UTC()
	by := processedBy
	found.RequestStatus = status
	found.RequestProcessedBy = &by
	found.RequestProcessedAt = &at
	found.RequestAdminResponse = adminResponse
	found.RequestUpdatedAt = at
	r.s.st.requests[id] = found

	out := copyRequest(found)
	return &out, nil
}

func (r *RequestStore) DeleteIfPending(ctx context.Context, id uuid.UUID) error {
	defer r.lock()()
	found, ok := r.s.st.requests[id]
	if !ok {
		return apperror.NotFound(repository.MsgRequestNotFound)
	}
	if !found.IsPending() {
		return apperror.Conflict(repository.MsgCannotDeleteProcessed)
	}
	delete(r.s.st.requests, id)
	return nil
}

package memstore

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"masjidfinder_backend/internals/constants"
	"masjidfinder_backend/internals/features/users/user/model"
	"masjidfinder_backend/internals/helpers/apperror"
)

type UserStore struct {
	view
}

func (u *UserStore) Create(ctx context.Context, user *model.UserModel, roleFor func(existing int64) string) error {
	defer u.lock()()
	st := u.s.st
	for _, existing := range st.users {
		if existing.Email == user.Email {
			return apperror.Conflict("User already exists with this email")
		}
	}
	user.Role = roleFor(int64(len(st.users)))
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := u.s.now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	st.users[user.ID] = *user
	st.order[user.ID] = u.s.nextSeq()
	return nil
}

func (u *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*model.UserModel, error) {
	defer u.lock()()
	found, ok := u.s.st.users[id]
	if !ok {
		return nil, apperror.NotFound("User not found")
	}
	return &found, nil
}

func (u *UserStore) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.UserModel, error) {
	defer u.lock()()
	out := make([]model.UserModel, 0, len(ids))
	for _, id := range ids {
		if found, ok := u.s.st.users[id]; ok {
			out = append(out, found)
		}
	}
	return out, nil
}

func (u *UserStore) FindByEmail(ctx context.Context, email string) (*model.UserModel, error) {
	defer u.lock()()
	for _, found := range u.s.st.users {
		if found.Email == email {
			return &found, nil
		}
	}
	return nil, apperror.NotFound("User not found")
}

func (u *UserStore) List(ctx context.Context) ([]model.UserModel, error) {
	defer u.lock()()
	st := u.s.st
	out := make([]model.UserModel, 0, len(st.users))
	for _, found := range st.users {
		out = append(out, found)
	}
	sort.Slice(out, func(i, j int) bool { return st.order[out[i].ID] < st.order[out[j].ID] })
	return out, nil
}

func (u *UserStore) UpdateRole(ctx context.Context, id uuid.UUID, role string) (*model.UserModel, error) {
	defer u.lock()()
	found, ok := u.s.st.users[id]
	if !ok {
		return nil, apperror.NotFound("User not found")
	}
	if found.Role == constants.RoleMainAdmin {
		return nil, apperror.Forbidden("Cannot change main admin role")
	}
	found.Role = role
	found.UpdatedAt = u.s.now().UTC()
	u.s.st.users[id] = found
	return &found, nil
}

func (u *UserStore) UpdateName(ctx context.Context, id uuid.UUID, name string) (*model.UserModel, error) {
	defer u.lock()()
	found, ok := u.s.st.users[id]
	if !ok {
		return nil, apperror.NotFound("User not found")
	}
	found.UserName = name
	found.UpdatedAt = u.s.now().UTC()
	u.s.st.users[id] = found
	return &found, nil
}

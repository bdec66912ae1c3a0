package memstore

import (
	"context"
	"time"

	authRepo "masjidfinder_backend/internals/features/users/auth/repository"
)

type BlacklistStore struct {
	view
}

func (b *BlacklistStore) Add(ctx context.Context, token string, expiresAt time.Time) error {
	defer b.lock()()
	h := authRepo.HashToken(token)
	if _, ok := b.s.st.blacklist[h]; !ok {
		b.s.st.blacklist[h] = expiresAt.UTC()
	}
	return nil
}

func (b *BlacklistStore) Contains(ctx context.Context, token string) (bool, error) {
	defer b.lock()()
	_, ok := b.s.st.blacklist[authRepo.HashToken(token)]
	return ok, nil
}

func (b *BlacklistStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	defer b.lock()()
	var n int64
	for h, exp := range b.s.st.blacklist {
		if !exp.After(now) {
			delete(b.s.st.blacklist, h)
			n++
		}
	}
	return n, nil
}

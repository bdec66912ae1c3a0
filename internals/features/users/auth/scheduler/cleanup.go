package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	authRepo "masjidfinder_backend/internals/features/users/auth/repository"
)

const defaultCleanupSpec = "@every 1h"

// StartBlacklistCleanupScheduler menghapus baris token_blacklist yang sudah kedaluwarsa.
// Caller wajib memanggil Stop() pada *cron.Cron saat shutdown.
func StartBlacklistCleanupScheduler(repo authRepo.BlacklistRepository, spec string) (*cron.Cron, error) {
	if spec == "" {
		spec = defaultCleanupSpec
	}
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { RunBlacklistCleanup(repo) }); err != nil {
		return nil, err
	}
	c.Start()
	log.Printf("[CLEANUP] Blacklist cleanup scheduled (%s)", spec)
	return c, nil
}

func RunBlacklistCleanup(repo authRepo.BlacklistRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := repo.PurgeExpired(ctx, time.Now())
	if err != nil {
		log.Printf("[CLEANUP ERROR] Gagal hapus token kadaluarsa: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[CLEANUP] %d token kadaluarsa dihapus", n)
	}
}

package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"masjidfinder_backend/internals/testutil/memstore"
)

func TestRunBlacklistCleanupPurgesExpiredOnly(t *testing.T) {
	ctx := context.Background()
	bl := memstore.New().Blacklist()
	require.NoError(t, bl.Add(ctx, "old", time.Now().Add(-time.Minute)))
	require.NoError(t, bl.Add(ctx, "fresh", time.Now().Add(time.Hour)))

	RunBlacklistCleanup(bl)

	old, _ := bl.Contains(ctx, "old")
	fresh, _ := bl.Contains(ctx, "fresh")
	assert.False(t, old)
	assert.True(t, fresh)
}

func TestStartBlacklistCleanupScheduler(t *testing.T) {
	bl := memstore.New().Blacklist()

	c, err := StartBlacklistCleanupScheduler(bl, "")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
	<-c.Stop().Done()

	_, err = StartBlacklistCleanupScheduler(bl, "not a cron spec")
	assert.Error(t, err)
}

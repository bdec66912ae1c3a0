// internals/features/masjids/masjids/cache/masjid_cache.go
package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"masjidfinder_backend/internals/features/masjids/masjids/model"
)

const (
	keyGeneration = "masjid:gen"       // dinaikkan tiap ada mutasi masjid
	keyListFmt    = "masjid:%d:list"   // masjid:{gen}:list
	keyOneFmt     = "masjid:%d:one:%s" // masjid:{gen}:one:{masjid_id}
	DefaultTTL    = 60 * time.Second
)

// Stamp: generation yang terbaca saat miss. Set dengan stamp lama tidak akan
// pernah terbaca lagi, jadi data basi hasil race dengan Invalidate aman.
type Stamp int64

const noStamp Stamp = -1

// MasjidCache: read-through cache untuk list & detail masjid.
// Gagal baca/tulis cache tidak pernah menggagalkan request; cukup di-log.
type MasjidCache interface {
	GetList(ctx context.Context) ([]model.MasjidModel, Stamp, bool)
	SetList(ctx context.Context, stamp Stamp, list []model.MasjidModel)
	GetOne(ctx context.Context, id uuid.UUID) (*model.MasjidModel, Stamp, bool)
	SetOne(ctx context.Context, stamp Stamp, m *model.MasjidModel)
	// Invalidate membuang semua entry (list + detail) sekaligus.
	Invalidate(ctx context.Context)
}

type RedisMasjidCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisMasjidCache(client *redis.Client, ttl time.Duration) *RedisMasjidCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisMasjidCache{client: client, ttl: ttl}
}

func (c *RedisMasjidCache) generation(ctx context.Context) Stamp {
	gen, err := c.client.Get(ctx, keyGeneration).Int64()
	if errors.Is(err, redis.Nil) {
		return 0
	}
	if err != nil {
		log.Printf("[WARN] masjid cache: read generation: %v", err)
		return noStamp
	}
	return Stamp(gen)
}

func (c *RedisMasjidCache) GetList(ctx context.Context) ([]model.MasjidModel, Stamp, bool) {
	gen := c.generation(ctx)
	if gen == noStamp {
		return nil, gen, false
	}
	var list []model.MasjidModel
	if !c.get(ctx, fmt.Sprintf(keyListFmt, gen), &list) {
		return nil, gen, false
	}
	return list, gen, true
}

func (c *RedisMasjidCache) SetList(ctx context.Context, stamp Stamp, list []model.MasjidModel) {
	if stamp == noStamp {
		return
	}
	c.set(ctx, fmt.Sprintf(keyListFmt, stamp), list)
}

func (c *RedisMasjidCache) GetOne(ctx context.Context, id uuid.UUID) (*model.MasjidModel, Stamp, bool) {
	gen := c.generation(ctx)
	if gen == noStamp {
		return nil, gen, false
	}
	var m model.MasjidModel
	if !c.get(ctx, fmt.Sprintf(keyOneFmt, gen, id), &m) {
		return nil, gen, false
	}
	return &m, gen, true
}

func (c *RedisMasjidCache) SetOne(ctx context.Context, stamp Stamp, m *model.MasjidModel) {
	if m == nil || stamp == noStamp {
		return
	}
	c.set(ctx, fmt.Sprintf(keyOneFmt, stamp, m.MasjidID), m)
}

// Invalidate: INCR generation, entry lama otomatis tidak terbaca lalu expire sendiri.
func (c *RedisMasjidCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, keyGeneration).Err(); err != nil {
		log.Printf("[WARN] masjid cache: invalidate: %v", err)
	}
}

func (c *RedisMasjidCache) get(ctx context.Context, key string, out any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[WARN] masjid cache: get %s: %v", key, err)
		}
		return false
	}
	if err := sonic.Unmarshal(raw, out); err != nil {
		log.Printf("[WARN] masjid cache: decode %s: %v", key, err)
		return false
	}
	return true
}

func (c *RedisMasjidCache) set(ctx context.Context, key string, v any) {
	raw, err := sonic.Marshal(v)
	if err != nil {
		log.Printf("[WARN] masjid cache: encode %s: %v", key, err)
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Printf("[WARN] masjid cache: set %s: %v", key, err)
	}
}

// NopMasjidCache dipakai kalau REDIS_URL kosong.
type NopMasjidCache struct{}

func (NopMasjidCache) GetList(context.Context) ([]model.MasjidModel, Stamp, bool) {
	return nil, noStamp, false
}
func (NopMasjidCache) SetList(context.Context, Stamp, []model.MasjidModel) {}
func (NopMasjidCache) GetOne(context.Context, uuid.UUID) (*model.MasjidModel, Stamp, bool) {
	return nil, noStamp, false
}
func (NopMasjidCache) SetOne(context.Context, Stamp, *model.MasjidModel) {}
func (NopMasjidCache) Invalidate(context.Context)                        {}

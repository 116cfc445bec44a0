package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Siddarth2230/kiters/internal/models"
	"github.com/Siddarth2230/kiters/pkg/cache"
	"github.com/Siddarth2230/kiters/pkg/eid"
	"github.com/Siddarth2230/kiters/pkg/logging"
)

// newL2 starts an in-process Redis and returns a cache on it using the
// production key prefix.
func newL2(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedisCache(client, ExternalIDKeyPrefix, time.Minute), mr
}

// newCachedService builds a service with an empty LRU in front of l2.
func newCachedService(store Store, l2 *cache.RedisCache, logs *bytes.Buffer) *ExternalIDService {
	logger := logging.Nop()
	if logs != nil {
		logger = logging.New(logging.Config{Format: logging.FormatJSON, Output: logs})
	}
	return NewExternalIDService(store, l2, 16, logger)
}

func seed(t *testing.T, store *memStore, prefix string) models.ExternalIDRecord {
	t.Helper()
	id := eid.New(prefix)
	rec := models.ExternalIDRecord{
		EID: id.String(), Prefix: prefix, UUID: id.UUID().String(), CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.Save(context.Background(), &rec))
	return rec
}

func TestExternalIDService_StoreHitFillsL2(t *testing.T) {
	store := newMemStore()
	rec := seed(t, store, "user")
	l2, mr := newL2(t)

	got, err := newCachedService(store, l2, nil).Lookup(context.Background(), rec.EID)
	require.NoError(t, err)
	assert.Equal(t, rec.EID, got.EID)
	assert.Equal(t, 1, store.finds)

	assert.Equal(t, []string{ExternalIDKeyPrefix + rec.EID}, mr.Keys())
	assert.Equal(t, time.Minute, mr.TTL(ExternalIDKeyPrefix+rec.EID))
}

func TestExternalIDService_L2HitSkipsStore(t *testing.T) {
	store := newMemStore()
	rec := seed(t, store, "user")
	l2, _ := newL2(t)
	ctx := context.Background()

	// the first instance warms L2, a second one starts with a cold LRU
	_, err := newCachedService(store, l2, nil).Lookup(ctx, rec.EID)
	require.NoError(t, err)
	require.Equal(t, 1, store.finds)

	fresh := newCachedService(store, l2, nil)
	got, err := fresh.Lookup(ctx, rec.EID)
	require.NoError(t, err)
	assert.Equal(t, rec.EID, got.EID)
	assert.Equal(t, rec.UUID, got.UUID)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, 1, store.finds, "served from redis")

	// and now from its LRU
	_, err = fresh.Lookup(ctx, rec.EID)
	require.NoError(t, err)
	assert.Equal(t, 1, store.finds)
}

func TestExternalIDService_L2HitWithoutStore(t *testing.T) {
	l2, _ := newL2(t)
	id := eid.New("team")
	require.NoError(t, l2.Set(context.Background(), id.String(), models.ExternalIDRecord{
		EID: id.String(), Prefix: "team", UUID: id.UUID().String(),
	}))

	svc := newCachedService(nil, l2, nil)
	got, err := svc.Lookup(context.Background(), id.String())
	require.NoError(t, err)
	assert.Equal(t, "team", got.Prefix)

	exists, err := newCachedService(nil, l2, nil).Exists(context.Background(), id.String())
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestExternalIDService_DeleteEvictsL2(t *testing.T) {
	store := newMemStore()
	rec := seed(t, store, "user")
	l2, mr := newL2(t)
	ctx := context.Background()

	svc := newCachedService(store, l2, nil)
	_, err := svc.Lookup(ctx, rec.EID)
	require.NoError(t, err)
	require.True(t, mr.Exists(ExternalIDKeyPrefix+rec.EID))

	require.NoError(t, svc.Delete(ctx, rec.EID))
	assert.False(t, mr.Exists(ExternalIDKeyPrefix+rec.EID))

	fresh := newCachedService(store, l2, nil)
	_, err = fresh.Lookup(ctx, rec.EID)
	assert.ErrorIs(t, err, ErrNotFound)
	exists, err := fresh.Exists(ctx, rec.EID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestExternalIDService_RedisErrorsDoNotFailLookup(t *testing.T) {
	store := newMemStore()
	rec := seed(t, store, "user")
	l2, mr := newL2(t)
	mr.SetError("ERR redis unavailable")
	ctx := context.Background()

	var logs bytes.Buffer
	svc := newCachedService(store, l2, &logs)

	got, err := svc.Lookup(ctx, rec.EID)
	require.NoError(t, err)
	assert.Equal(t, rec.EID, got.EID)
	assert.Equal(t, 1, store.finds)
	assert.Contains(t, logs.String(), "redis get failed")
	assert.Contains(t, logs.String(), "redis set failed")

	logs.Reset()
	exists, err := newCachedService(store, l2, &logs).Exists(ctx, rec.EID)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Contains(t, logs.String(), "redis exists failed")

	logs.Reset()
	require.NoError(t, svc.Delete(ctx, rec.EID))
	assert.Contains(t, logs.String(), "redis delete failed")
}

package identity

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuslaunch/campus-launch-backend/internal/docstore"
)

func testCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewCache(client, zerolog.Nop()), mr
}

func TestCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	cache, mr := testCache(t)

	_, ok := cache.Get(ctx, "u1")
	assert.False(t, ok)

	cache.Put(ctx, "u1", docstore.Document{"name": "Asha", "college": "IIT Delhi"})

	doc, ok := cache.Get(ctx, "u1")
	require.True(t, ok)
	assert.Equal(t, "Asha", doc["name"])

	// Entries expire.
	mr.FastForward(profileTTL + time.Second)
	_, ok = cache.Get(ctx, "u1")
	assert.False(t, ok)
}

func TestCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	cache, _ := testCache(t)

	cache.Put(ctx, "u1", docstore.Document{"name": "Asha"})
	cache.Invalidate(ctx, "u1")

	_, ok := cache.Get(ctx, "u1")
	assert.False(t, ok)
}

func TestCacheInvalidateAll(t *testing.T) {
	ctx := context.Background()
	cache, mr := testCache(t)

	cache.Put(ctx, "u1", docstore.Document{"name": "Asha"})
	cache.Put(ctx, "u2", docstore.Document{"name": "Ravi"})
	require.NoError(t, mr.Set("unrelated", "keep"))

	cache.InvalidateAll(ctx)

	_, ok := cache.Get(ctx, "u1")
	assert.False(t, ok)
	_, ok = cache.Get(ctx, "u2")
	assert.False(t, ok)

	// Keys outside the profile namespace survive.
	assert.True(t, mr.Exists("unrelated"))
}

func TestCacheCorruptEntryDropped(t *testing.T) {
	ctx := context.Background()
	cache, mr := testCache(t)

	require.NoError(t, mr.Set(profileKeyPrefix+"u1", "{not json"))

	_, ok := cache.Get(ctx, "u1")
	assert.False(t, ok)
	assert.False(t, mr.Exists(profileKeyPrefix+"u1"))
}

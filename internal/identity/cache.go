package identity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/campuslaunch/campus-launch-backend/internal/docstore"
)

const (
	profileKeyPrefix = "profile:" // profile:{uid}
	profileTTL       = 5 * time.Minute
)

// Cache is a Redis-backed cache of profile documents keyed by uid.
// It is purely an optimization for the resolver's join; misses and
// Redis failures fall through to the document store.
type Cache struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewCache(client *redis.Client, log zerolog.Logger) *Cache {
	return &Cache{
		client: client,
		log:    log.With().Str("component", "profile-cache").Logger(),
	}
}

func (c *Cache) Get(ctx context.Context, uid string) (docstore.Document, bool) {
	data, err := c.client.Get(ctx, profileKeyPrefix+uid).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.log.Warn().Err(err).Str("uid", uid).Msg("cache read failed")
		return nil, false
	}

	var doc docstore.Document
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		c.log.Warn().Err(err).Str("uid", uid).Msg("cache entry corrupt, dropping")
		c.client.Del(ctx, profileKeyPrefix+uid)
		return nil, false
	}
	return doc, true
}

func (c *Cache) Put(ctx context.Context, uid string, doc docstore.Document) {
	data, err := json.Marshal(doc)
	if err != nil {
		c.log.Warn().Err(err).Str("uid", uid).Msg("cache marshal failed")
		return
	}
	if err := c.client.Set(ctx, profileKeyPrefix+uid, data, profileTTL).Err(); err != nil {
		c.log.Warn().Err(err).Str("uid", uid).Msg("cache write failed")
	}
}

func (c *Cache) Invalidate(ctx context.Context, uid string) {
	if err := c.client.Del(ctx, profileKeyPrefix+uid).Err(); err != nil {
		c.log.Warn().Err(err).Str("uid", uid).Msg("cache invalidate failed")
	}
}

// InvalidateAll clears every cached profile. Used on sign-out, where the
// resolver can no longer tell which entries are safe to keep.
func (c *Cache) InvalidateAll(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, profileKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		c.client.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.Warn().Err(err).Msg("cache scan failed")
	}
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/client-onboarding/internal/domain/client"
	"github.com/BruksfildServices01/client-onboarding/internal/models"
)

const (
	clientListCacheKey  = "onboarding:clients:all"
	clientListGenKey    = "onboarding:clients:gen"
	clientListKeyFormat = clientListCacheKey + ":%d"
)

var errCacheMiss = errors.New("cache miss")

// ListCache stores the serialized client list plus a generation counter.
type ListCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
}

type RedisListCache struct {
	rdb *redis.Client
}

func NewRedisListCache(rdb *redis.Client) *RedisListCache {
	return &RedisListCache{rdb: rdb}
}

func (c *RedisListCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errCacheMiss
	}
	return b, err
}

func (c *RedisListCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *RedisListCache) Incr(ctx context.Context, key string) (int64, error) {
	return c.rdb.Incr(ctx, key).Result()
}

// CachedClientRepository serves ListAll from the cache. The cached list is
// keyed by a generation that every successful insert bumps, so a list read
// that raced an insert can only write to a generation nobody reads anymore.
// Cache failures fall through to the store.
type CachedClientRepository struct {
	next  domain.Repository
	cache ListCache
	ttl   time.Duration
	lggr  *zap.Logger
}

func NewCachedClientRepository(
	next domain.Repository,
	cache ListCache,
	ttl time.Duration,
	lggr *zap.Logger,
) *CachedClientRepository {
	return &CachedClientRepository{
		next:  next,
		cache: cache,
		ttl:   ttl,
		lggr:  lggr.Named("client_cache"),
	}
}

func (r *CachedClientRepository) Insert(
	ctx context.Context,
	in domain.NewClient,
) (*models.Client, error) {

	client, err := r.next.Insert(ctx, in)
	if err != nil {
		return nil, err
	}

	if _, err := r.cache.Incr(ctx, clientListGenKey); err != nil {
		r.lggr.Warn("failed to invalidate client list", zap.Error(err))
	}

	return client, nil
}

func (r *CachedClientRepository) ListAll(
	ctx context.Context,
) ([]models.Client, error) {

	key, err := r.listKey(ctx)
	if err != nil {
		r.lggr.Warn("client list cache read failed", zap.Error(err))
		return r.next.ListAll(ctx)
	}

	if b, err := r.cache.Get(ctx, key); err == nil {
		var clients []models.Client
		if err := json.Unmarshal(b, &clients); err == nil {
			return clients, nil
		}
		r.lggr.Warn("discarding undecodable client list")
	} else if !errors.Is(err, errCacheMiss) {
		r.lggr.Warn("client list cache read failed", zap.Error(err))
	}

	clients, err := r.next.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(clients); err == nil {
		if err := r.cache.Set(ctx, key, b, r.ttl); err != nil {
			r.lggr.Warn("client list cache write failed", zap.Error(err))
		}
	}

	return clients, nil
}

// listKey reads the current generation; a missing counter is generation 0.
func (r *CachedClientRepository) listKey(ctx context.Context) (string, error) {
	var gen int64

	b, err := r.cache.Get(ctx, clientListGenKey)
	switch {
	case errors.Is(err, errCacheMiss):
	case err != nil:
		return "", err
	default:
		if gen, err = strconv.ParseInt(string(b), 10, 64); err != nil {
			return "", fmt.Errorf("bad client list generation %q: %w", b, err)
		}
	}

	return fmt.Sprintf(clientListKeyFormat, gen), nil
}

// Compile-time check
var _ domain.Repository = (*CachedClientRepository)(nil)

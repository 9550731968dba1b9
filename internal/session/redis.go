package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/eco-market/internal/common"
	"github.com/Dan9191/eco-market/internal/models"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:"

// RedisStore keeps sessions as keys with a native TTL, so expired entries
// disappear without sweeping.
type RedisStore struct {
	rdb redis.Cmdable
}

func NewRedisStore(rdb redis.Cmdable) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (r *RedisStore) Save(ctx context.Context, s *models.Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := r.rdb.Set(ctx, redisKeyPrefix+s.ID, s.UserID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w: %w", common.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *RedisStore) Load(ctx context.Context, id string) (*models.Session, error) {
	key := redisKeyPrefix + id

	var get *redis.StringCmd
	var pttl *redis.DurationCmd
	_, err := r.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		get = p.Get(ctx, key)
		pttl = p.PTTL(ctx, key)
		return nil
	})
	if errors.Is(err, redis.Nil) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w: %w", common.ErrStoreUnavailable, err)
	}

	ttl := pttl.Val()
	if ttl <= 0 {
		return nil, common.ErrorNotFound
	}
	return &models.Session{ID: id, UserID: get.Val(), ExpiresAt: time.Now().Add(ttl)}, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w: %w", common.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *RedisStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

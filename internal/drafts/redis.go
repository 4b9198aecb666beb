package drafts

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

const DRAFT_CACHE_PREFIX = "draft:"

type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (Draft, error) {
	data, err := s.rdb.Get(ctx, DRAFT_CACHE_PREFIX+sessionID).Bytes()
	if err == redis.Nil {
		return Draft{}, ErrNotFound
	}
	if err != nil {
		return Draft{}, err
	}
	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return Draft{}, err
	}
	return d, nil
}

func (s *RedisStore) Save(ctx context.Context, d Draft) error {
	var stored *Draft
	current, err := s.Get(ctx, d.SessionID)
	switch err {
	case nil:
		stored = &current
	case ErrNotFound:
	default:
		return err
	}
	if err := checkRevision(stored, d); err != nil {
		return err
	}

	d.UpdatedAt = time.Now()
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, DRAFT_CACHE_PREFIX+d.SessionID, data, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, DRAFT_CACHE_PREFIX+sessionID).Err()
}

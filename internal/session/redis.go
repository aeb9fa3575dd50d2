package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

type RedisProvider struct {
	rdb redis.Cmdable
	ttl time.Duration
}

var _ Provider = (*RedisProvider)(nil)

func NewRedisProvider(rdb redis.Cmdable, ttl time.Duration) *RedisProvider {
	return &RedisProvider{rdb: rdb, ttl: ttl}
}

func (p *RedisProvider) Open(sessionID string) Store {
	return &redisStore{rdb: p.rdb, id: sessionID, ttl: p.ttl}
}

// redisStore keeps a session as a hash under session:<id>; every write
// pushes the expiry forward.
type redisStore struct {
	rdb redis.Cmdable
	id  string
	ttl time.Duration
}

func (s *redisStore) ID() string { return s.id }

func (s *redisStore) key() string { return "session:" + s.id }

func (s *redisStore) GetInt(ctx context.Context, field string) (int64, bool, error) {
	raw, err := s.rdb.HGet(ctx, s.key(), field).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("session get %s: %w", field, err)
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("session get %s: %w", field, err)
	}
	return v, true, nil
}

func (s *redisStore) SetInt(ctx context.Context, field string, value int64) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.key(), field, value)
		if s.ttl > 0 {
			pipe.Expire(ctx, s.key(), s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("session set %s: %w", field, err)
	}
	return nil
}

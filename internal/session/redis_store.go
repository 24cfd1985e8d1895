package session

import (
	"context"
	"time"

	redisutil "github.com/joelyk/maison-du-parfum/pkg/redis"
	"github.com/joelyk/maison-du-parfum/pkg/logger"
	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(sid string) string {
	return "session:" + sid
}

func (s *RedisStore) Load(ctx context.Context, sid string) (*Data, error) {
	var data Data
	found, err := redisutil.GetJSON(ctx, s.client, sessionKey(sid), &data)
	if err != nil {
		logger.Error("Failed to load session", err)
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return &data, nil
}

// Save rewrites the bag and slides its expiry.
func (s *RedisStore) Save(ctx context.Context, sid string, data *Data) error {
	if err := redisutil.SetJSON(ctx, s.client, sessionKey(sid), data, s.ttl); err != nil {
		logger.Error("Failed to save session", err)
		return err
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sid string) error {
	return s.client.Del(ctx, sessionKey(sid)).Err()
}

package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/foxseedlab/raidtracker/internal/session"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:"

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) session.Store {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Shutdown() error {
	return s.client.Close()
}

func (s *RedisStore) key(id string) string {
	return redisKeyPrefix + id
}

func (s *RedisStore) Create(ctx context.Context, sess session.Session) error {
	b, err := session.Encode(sess)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(sess.ID()), b, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session %s: %w", sess.ID(), err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (session.Session, error) {
	b, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	return session.Decode(b)
}

// Update rewrites an existing session and restarts its TTL. Expired sessions
// are not resurrected.
func (s *RedisStore) Update(ctx context.Context, sess session.Session) error {
	b, err := session.Encode(sess)
	if err != nil {
		return err
	}
	ok, err := s.client.SetXX(ctx, s.key(sess.ID()), b, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to update session %s: %w", sess.ID(), err)
	}
	if !ok {
		return session.ErrNotFound
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}

package sessionstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/foxseedlab/raidtracker/internal/config"
	"github.com/foxseedlab/raidtracker/internal/session"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do/v2"
)

const redisInitTimeout = 10 * time.Second

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (session.Store, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.RedisURL == "" {
			slog.Warn("REDIS_URL is empty; workflow sessions are kept in process memory")
			return NewMemoryStore(cfg.SessionTTL(), time.Now), nil
		}

		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis url: %w", err)
		}
		client := redis.NewClient(opts)

		ctx, cancel := context.WithTimeout(context.Background(), redisInitTimeout)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		return NewRedisStore(client, cfg.SessionTTL()), nil
	})
}

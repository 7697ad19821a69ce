package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/station-console/internal/config"
	"github.com/spec-kit/station-console/internal/domain"
)

const redisSessionKey = "station-console:session"

// RedisStorage keeps the session record under a fixed Redis key.
type RedisStorage struct {
	client *redis.Client
}

// NewRedisStorage connects to Redis using the provided configuration.
func NewRedisStorage(cfg config.RedisConfig, logger *zap.Logger) *RedisStorage {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &RedisStorage{client: client}
}

// Load reads the session record. A missing key means no session.
func (s *RedisStorage) Load(ctx context.Context) (*domain.Session, error) {
	data, err := s.client.Get(ctx, redisSessionKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Save writes the session record. Sessions with a known expiry get a
// matching key TTL so Redis drops them on its own.
func (s *RedisStorage) Save(ctx context.Context, sess *domain.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	ttl := time.Duration(0)
	if !sess.ExpiresAt.IsZero() {
		ttl = time.Until(sess.ExpiresAt)
		if ttl <= 0 {
			return nil
		}
	}
	return s.client.Set(ctx, redisSessionKey, data, ttl).Err()
}

// Clear removes the session record.
func (s *RedisStorage) Clear(ctx context.Context) error {
	return s.client.Del(ctx, redisSessionKey).Err()
}

// Close closes the underlying client.
func (s *RedisStorage) Close() {
	if s != nil && s.client != nil {
		_ = s.client.Close()
	}
}

// Ping verifies Redis connectivity.
func (s *RedisStorage) Ping(ctx context.Context) error {
	if s == nil || s.client == nil {
		return errors.New("redis client not configured")
	}
	return s.client.Ping(ctx).Err()
}

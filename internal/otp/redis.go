package otp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"scanpay/pkg/config"
)

const keyPrefix = "otp:"

// RedisStore keeps challenges in redis so every server instance sees the
// same pending set. The key TTL matches the challenge expiry, so redis
// evicts stale challenges on its own.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to redis and verifies the connection
func NewRedisStore(cfg *config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("otp: connect to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// Put stores a challenge with the given TTL
func (s *RedisStore) Put(ctx context.Context, phone string, ch Challenge, ttl time.Duration) error {
	ch.ExpiresAt = time.Now().Add(ttl)
	data, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("otp: marshal challenge: %w", err)
	}
	return s.client.Set(ctx, keyPrefix+phone, data, ttl).Err()
}

// Get returns the pending challenge for the phone number
func (s *RedisStore) Get(ctx context.Context, phone string) (Challenge, error) {
	data, err := s.client.Get(ctx, keyPrefix+phone).Bytes()
	if errors.Is(err, redis.Nil) {
		return Challenge{}, ErrNotFound
	}
	if err != nil {
		return Challenge{}, fmt.Errorf("otp: read challenge: %w", err)
	}

	var ch Challenge
	if err := json.Unmarshal(data, &ch); err != nil {
		return Challenge{}, fmt.Errorf("otp: decode challenge: %w", err)
	}
	return ch, nil
}

// Delete removes the pending challenge for the phone number
func (s *RedisStore) Delete(ctx context.Context, phone string) error {
	return s.client.Del(ctx, keyPrefix+phone).Err()
}

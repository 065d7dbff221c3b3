// Package redisstore keeps dashboard credentials in Redis so several
// dashboard instances behind a load balancer share browser sessions.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jrsteele09/go-inventory-dashboard/credentials"
	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "inventario:credentials"

var _ credentials.Backend = (*Backend)(nil)

type Backend struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// New connects using a redis:// URL. A ttl <= 0 stores keys without expiry.
func New(ctx context.Context, redisURL string, ttl time.Duration) (*Backend, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewWithClient(client, ttl), nil
}

func NewWithClient(client *redis.Client, ttl time.Duration) *Backend {
	// go-redis treats a negative expiration as KEEPTTL
	if ttl < 0 {
		ttl = 0
	}
	return &Backend{client: client, prefix: defaultPrefix, ttl: ttl}
}

func (b *Backend) Close() error {
	return b.client.Close()
}

func (b *Backend) Scope(namespace string) credentials.Storage {
	return &storage{backend: b, namespace: namespace}
}

type storage struct {
	backend   *Backend
	namespace string
}

func (s *storage) redisKey(key string) string {
	return s.backend.prefix + ":" + s.namespace + ":" + key
}

func (s *storage) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.backend.client.Get(ctx, s.redisKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %q: %w", key, err)
	}
	return value, true, nil
}

// pairKeys expire together
var pairKeys = []string{credentials.AccessTokenKey, credentials.RefreshTokenKey}

// Set writes every item in one MULTI/EXEC so readers never see half a pair.
// Writing one half of the pair renews the TTL of the other half.
func (s *storage) Set(ctx context.Context, items map[string]string) error {
	_, err := s.backend.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range items {
			pipe.Set(ctx, s.redisKey(k), v, s.backend.ttl)
		}
		if s.backend.ttl <= 0 {
			return nil
		}
		for _, k := range pairKeys {
			if _, written := items[k]; !written {
				pipe.Expire(ctx, s.redisKey(k), s.backend.ttl)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *storage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	redisKeys := make([]string, len(keys))
	for i, k := range keys {
		redisKeys[i] = s.redisKey(k)
	}
	if err := s.backend.client.Del(ctx, redisKeys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

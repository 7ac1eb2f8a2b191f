package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist records revoked tokens until they would have expired anyway.
type TokenBlacklist interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
	Close() error
}

type RedisTokenBlacklist struct {
	Client *redis.Client
}

// NewRedisTokenBlacklist connects to redisURL and checks the connection.
func NewRedisTokenBlacklist(ctx context.Context, redisURL string) (*RedisTokenBlacklist, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisTokenBlacklist{Client: client}, nil
}

func blacklistKey(token string) string {
	return "blacklist:access:" + token
}

func (tb *RedisTokenBlacklist) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := tb.Client.Set(ctx, blacklistKey(token), "true", ttl).Err(); err != nil {
		return fmt.Errorf("failed to blacklist token in Redis: %w", err)
	}
	return nil
}

func (tb *RedisTokenBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := tb.Client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// IsConnected checks if the Redis connection is alive
func (tb *RedisTokenBlacklist) IsConnected(ctx context.Context) bool {
	if tb == nil || tb.Client == nil {
		return false
	}
	return tb.Client.Ping(ctx).Err() == nil
}

func (tb *RedisTokenBlacklist) Close() error {
	return tb.Client.Close()
}

// MemoryTokenBlacklist keeps revoked tokens in process memory. Entries are
// dropped lazily once expired.
type MemoryTokenBlacklist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryTokenBlacklist() *MemoryTokenBlacklist {
	return &MemoryTokenBlacklist{entries: make(map[string]time.Time), now: time.Now}
}

func (m *MemoryTokenBlacklist) Revoke(_ context.Context, token string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if !expiresAt.After(now) {
		return nil
	}
	for t, exp := range m.entries {
		if !exp.After(now) {
			delete(m.entries, t)
		}
	}
	m.entries[token] = expiresAt
	return nil
}

func (m *MemoryTokenBlacklist) IsRevoked(_ context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.entries[token]
	if !ok {
		return false, nil
	}
	if !exp.After(m.now()) {
		delete(m.entries, token)
		return false, nil
	}
	return true, nil
}

func (m *MemoryTokenBlacklist) Close() error { return nil }

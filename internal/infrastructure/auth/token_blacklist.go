package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	identityapp "github.com/invoicely/backend/internal/application/identity"
	"github.com/redis/go-redis/v9"
)

// TokenBlacklist records revoked token IDs until their natural expiry.
// Add satisfies the application-layer port; IsBlacklisted is consulted
// by the authentication middleware on every request.
type TokenBlacklist interface {
	identityapp.TokenBlacklist
	IsBlacklisted(ctx context.Context, tokenID string) (bool, error)
}

// RedisTokenBlacklist implements TokenBlacklist using Redis
type RedisTokenBlacklist struct {
	client    *redis.Client
	keyPrefix string
}

var _ TokenBlacklist = (*RedisTokenBlacklist)(nil)

// NewRedisTokenBlacklist creates a Redis-based token blacklist
func NewRedisTokenBlacklist(client *redis.Client) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{
		client:    client,
		keyPrefix: "token:blacklist:",
	}
}

// Add marks a token as revoked until its expiry time
func (b *RedisTokenBlacklist) Add(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// already expired, nothing to revoke
		return nil
	}

	key := b.keyPrefix + tokenID
	if err := b.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

// IsBlacklisted reports whether a token has been revoked
func (b *RedisTokenBlacklist) IsBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	key := b.keyPrefix + tokenID
	n, err := b.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return n > 0, nil
}

// InMemoryTokenBlacklist is an in-process blacklist for development
// and tests. Entries are dropped lazily once past their expiry.
type InMemoryTokenBlacklist struct {
	mu     sync.RWMutex
	tokens map[string]time.Time
}

var _ TokenBlacklist = (*InMemoryTokenBlacklist)(nil)

// NewInMemoryTokenBlacklist creates an in-memory token blacklist
func NewInMemoryTokenBlacklist() *InMemoryTokenBlacklist {
	return &InMemoryTokenBlacklist{
		tokens: make(map[string]time.Time),
	}
}

// Add marks a token as revoked until its expiry time
func (b *InMemoryTokenBlacklist) Add(_ context.Context, tokenID string, expiresAt time.Time) error {
	if time.Now().After(expiresAt) {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens[tokenID] = expiresAt
	return nil
}

// IsBlacklisted reports whether a token has been revoked
func (b *InMemoryTokenBlacklist) IsBlacklisted(_ context.Context, tokenID string) (bool, error) {
	b.mu.RLock()
	expiresAt, ok := b.tokens[tokenID]
	b.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if time.Now().After(expiresAt) {
		b.mu.Lock()
		delete(b.tokens, tokenID)
		b.mu.Unlock()
		return false, nil
	}
	return true, nil
}

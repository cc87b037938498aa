package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const oauthStateKeyPrefix = "oauth:state:"

// OAuthStateRepository records anti-forgery state nonces in Redis so each can be used once.
// With no client configured every call is a no-op and nonces are accepted.
type OAuthStateRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewOAuthStateRepository constructs the repository. client may be nil.
func NewOAuthStateRepository(client *redis.Client, logger *zap.Logger) *OAuthStateRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OAuthStateRepository{client: client, logger: logger}
}

// Remember stores nonce until ttl elapses.
func (r *OAuthStateRepository) Remember(ctx context.Context, nonce string, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}
	ok, err := r.client.SetNX(ctx, oauthStateKeyPrefix+nonce, "1", ttl).Result()
	if err != nil {
		return fmt.Errorf("redis setnx state: %w", err)
	}
	if !ok {
		return errors.New("state nonce already issued")
	}
	return nil
}

// Consume deletes nonce and reports whether it was still pending.
func (r *OAuthStateRepository) Consume(ctx context.Context, nonce string) (bool, error) {
	if r.client == nil {
		return true, nil
	}
	_, err := r.client.GetDel(ctx, oauthStateKeyPrefix+nonce).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis getdel state: %w", err)
	}
	return true, nil
}

// PingContext checks the Redis connection. It succeeds when no client is configured.
func (r *OAuthStateRepository) PingContext(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying Redis connection if present.
func (r *OAuthStateRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

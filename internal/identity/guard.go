package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const claimKeyPrefix = "idp:claim:"

// ClaimGuard enforces single-use identity claims by recording consumed claim
// ids in Redis for the remainder of the claim's lifetime. This is provider
// policy; locally issued session credentials stay stateless.
type ClaimGuard struct {
	client *redis.Client
}

// NewClaimGuard wraps a Redis client. A nil client disables the guard.
func NewClaimGuard(client *redis.Client) *ClaimGuard {
	return &ClaimGuard{client: client}
}

// Consume marks the claim id as used. A second consumption of the same id
// within the ttl is a replay and fails.
func (g *ClaimGuard) Consume(ctx context.Context, claimID string, ttl time.Duration) error {
	if g == nil || g.client == nil || claimID == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Minute
	}

	ok, err := g.client.SetNX(ctx, claimKeyPrefix+claimID, "1", ttl).Result()
	if err != nil {
		return fmt.Errorf("claim guard: %w", err)
	}
	if !ok {
		return ErrClaimRejected
	}
	return nil
}

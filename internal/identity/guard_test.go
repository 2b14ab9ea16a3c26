package identity

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimGuardSingleUse(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	guard := NewClaimGuard(client)

	ctx := context.Background()
	require.NoError(t, guard.Consume(ctx, "claim-1", time.Minute))

	err := guard.Consume(ctx, "claim-1", time.Minute)
	assert.ErrorIs(t, err, ErrClaimRejected, "replayed claim id must be rejected")

	require.NoError(t, guard.Consume(ctx, "claim-2", time.Minute))
}

func TestClaimGuardExpiryReleasesID(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	guard := NewClaimGuard(client)

	ctx := context.Background()
	require.NoError(t, guard.Consume(ctx, "claim-1", time.Second))

	mr.FastForward(2 * time.Second)
	assert.NoError(t, guard.Consume(ctx, "claim-1", time.Second))
}

func TestClaimGuardDisabled(t *testing.T) {
	guard := NewClaimGuard(nil)
	assert.NoError(t, guard.Consume(context.Background(), "claim-1", time.Minute))
	assert.NoError(t, guard.Consume(context.Background(), "claim-1", time.Minute))
}

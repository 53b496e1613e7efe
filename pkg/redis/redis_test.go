package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LNshuti/energy/pkg/config"
)

func disabledClient(t *testing.T) *Client {
	t.Helper()
	cfg := &config.Config{Redis: config.RedisConfig{Enabled: false}}

	client, err := New(context.Background(), cfg)
	require.NoError(t, err)
	return client
}

func TestNewClient_Disabled(t *testing.T) {
	client := disabledClient(t)

	assert.False(t, client.Enabled())
	assert.Nil(t, client.Redis())
	assert.NoError(t, client.Close())
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(disabledClient(t), "energy")

	allowed, remaining, err := limiter.Allow(context.Background(), YahooRateLimit)
	require.NoError(t, err)
	assert.True(t, allowed, "requests pass through when Redis is disabled")
	assert.Equal(t, YahooRateLimit.Limit, remaining)
}

func TestRateLimiter_WaitDisabled(t *testing.T) {
	limiter := NewRateLimiter(disabledClient(t), "energy")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Disabled limiter admits immediately, even with a cancelled context
	assert.NoError(t, limiter.Wait(ctx, YahooRateLimit))
}

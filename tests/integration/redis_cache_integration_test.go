//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apetrei/foodscore/backend/internal/domain/providers"
)

func TestRedisCacheProvider_RoundTrip(t *testing.T) {
	client := maybeTestRedisClient(t)
	if client == nil {
		t.Skip("redis not available")
	}
	defer client.Close()

	ctx := context.Background()
	key := "it|cache|round-trip"
	defer client.Delete(ctx, key)

	_, err := client.Get(ctx, key)
	require.ErrorIs(t, err, providers.ErrCacheMiss)

	require.NoError(t, client.Set(ctx, key, []byte(`{"grade":"b"}`), 60))

	got, err := client.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"grade":"b"}`), got)

	require.NoError(t, client.Delete(ctx, key))
	_, err = client.Get(ctx, key)
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}

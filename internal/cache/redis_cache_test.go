package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestCache needs a Redis server; REDIS_URL overrides the default.
func setupTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/15"
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	client, err := Connect(ctx, url)
	if err != nil {
		t.Skipf("Redis not available at %s: %v", url, err)
	}

	c := New(client, "erp-test:"+t.Name()+":", ttl)
	t.Cleanup(func() {
		c.Delete(context.Background(), "summary")
		c.Close()
	})
	return c
}

type summary struct {
	TotalProducts int64 `json:"total_products"`
	TotalStock    int64 `json:"total_stock"`
}

func TestCache_SetGetDelete(t *testing.T) {
	c := setupTestCache(t, time.Minute)
	ctx := context.Background()

	var got summary
	found, err := c.Get(ctx, "summary", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "summary", summary{TotalProducts: 3, TotalStock: 42}))
	found, err = c.Get(ctx, "summary", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, summary{TotalProducts: 3, TotalStock: 42}, got)

	require.NoError(t, c.Delete(ctx, "summary"))
	found, err = c.Get(ctx, "summary", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_Expires(t *testing.T) {
	c := setupTestCache(t, 100*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "summary", summary{TotalProducts: 1}))
	time.Sleep(250 * time.Millisecond)

	var got summary
	found, err := c.Get(ctx, "summary", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := Connect(context.Background(), "not a url")
	assert.Error(t, err)
}

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investment-assistant/internal/common/config"
	"investment-assistant/internal/common/logger"
)

func newMiniredisCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	return NewWithClient(client, time.Minute, logger.NewTestLogger(t)), srv
}

func TestCache_SetGet(t *testing.T) {
	c, _ := newMiniredisCache(t)
	ctx := context.Background()

	_, ok := c.Get(ctx, "AAPL price")
	assert.False(t, ok)

	c.Set(ctx, "AAPL price", "Stock AAPL — Price: $150.00")

	answer, ok := c.Get(ctx, "AAPL price")
	require.True(t, ok)
	assert.Equal(t, "Stock AAPL — Price: $150.00", answer)
}

func TestCache_KeyNormalization(t *testing.T) {
	c, _ := newMiniredisCache(t)
	ctx := context.Background()

	c.Set(ctx, "  AAPL price  ", "answer")

	// Surrounding whitespace is trimmed, casing is preserved.
	_, ok := c.Get(ctx, "AAPL price")
	assert.True(t, ok)
	_, ok = c.Get(ctx, "aapl price")
	assert.False(t, ok)
}

func TestCache_TTLExpiry(t *testing.T) {
	c, srv := newMiniredisCache(t)
	ctx := context.Background()

	c.Set(ctx, "bitcoin", "answer")
	srv.FastForward(2 * time.Minute)

	_, ok := c.Get(ctx, "bitcoin")
	assert.False(t, ok)
}

func TestCache_NilCacheIsDisabled(t *testing.T) {
	var c *Cache

	_, ok := c.Get(context.Background(), "anything")
	assert.False(t, ok)
	c.Set(context.Background(), "anything", "answer")
	assert.NoError(t, c.Ping(context.Background()))
	assert.NoError(t, c.Close())
}

func TestNew_EmptyAddressDisables(t *testing.T) {
	c := New(config.CacheConfig{}, logger.NewNoOpLogger())
	assert.Nil(t, c)
}

func TestCache_RedisFailuresAreSwallowed(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewWithClient(client, time.Minute, logger.NewTestLogger(t))
	ctx := context.Background()

	mock.ExpectGet(answerKey("query")).SetErr(errors.New("connection refused"))
	_, ok := c.Get(ctx, "query")
	assert.False(t, ok)

	mock.ExpectSet(answerKey("query"), "answer", time.Minute).SetErr(errors.New("connection refused"))
	c.Set(ctx, "query", "answer")

	assert.NoError(t, mock.ExpectationsWereMet())
}

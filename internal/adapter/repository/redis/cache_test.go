package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*TransactionCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{
		Addr: mr.Addr(),
	})

	return NewTransactionCache(client), mr
}

func TestTransactionCache_SetGet(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "txn-1", []byte(`{"id":"txn-1"}`), time.Minute))

	got, err := cache.Get(ctx, "txn-1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"id":"txn-1"}`), got)
}

func TestTransactionCache_GetMiss(t *testing.T) {
	cache, _ := newTestCache(t)

	_, err := cache.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, redislib.Nil)
}

func TestTransactionCache_Delete(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "txn-1", []byte("x"), time.Minute))
	require.NoError(t, cache.Delete(ctx, "txn-1"))

	_, err := cache.Get(ctx, "txn-1")
	assert.ErrorIs(t, err, redislib.Nil)
}

func TestTransactionCache_TTLExpiry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "txn-1", []byte("x"), time.Second))

	mr.FastForward(2 * time.Second)

	_, err := cache.Get(ctx, "txn-1")
	assert.ErrorIs(t, err, redislib.Nil)
}

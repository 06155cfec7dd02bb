package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rryowa/portfolio-backend/internal/models"
)

func newTestStore(t *testing.T) (*RateLimitStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRateLimitStore(client), mr
}

func TestRecordRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	resetAt := time.Now().Add(time.Hour).UTC().Truncate(time.Second)

	got, err := store.GetRecord(ctx, "contact:203.0.113.7")
	require.NoError(t, err)
	assert.Nil(t, got, "missing key reads as nil record")

	require.NoError(t, store.SetRecord(ctx, "contact:203.0.113.7", models.RateLimitRecord{
		Count:   2,
		ResetAt: resetAt,
	}))

	got, err = store.GetRecord(ctx, "contact:203.0.113.7")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.Count)
	assert.True(t, got.ResetAt.Equal(resetAt))

	require.NoError(t, store.DeleteRecord(ctx, "contact:203.0.113.7"))

	got, err = store.GetRecord(ctx, "contact:203.0.113.7")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRecordExpiresWithWindow(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetRecord(ctx, "api:client", models.RateLimitRecord{
		Count:   5,
		ResetAt: time.Now().Add(time.Minute).UTC(),
	}))

	mr.FastForward(2 * time.Minute)

	got, err := store.GetRecord(ctx, "api:client")
	require.NoError(t, err)
	assert.Nil(t, got, "record outlives its window")
}

func TestKeysAreNamespaced(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetRecord(ctx, "login:client", models.RateLimitRecord{
		Count:   1,
		ResetAt: time.Now().Add(time.Minute).UTC(),
	}))

	assert.True(t, mr.Exists("ratelimit:login:client"))
}

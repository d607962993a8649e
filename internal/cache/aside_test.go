package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedPost struct {
	ID      uint   `json:"id"`
	Content string `json:"content"`
}

func setupCache(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
}

func TestAside(t *testing.T) {
	t.Run("miss fetches and populates", func(t *testing.T) {
		setupCache(t)
		fetched := 0

		var got cachedPost
		err := Aside(context.Background(), PostKey(1), &got, time.Minute, func() error {
			fetched++
			got = cachedPost{ID: 1, Content: "hello"}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, fetched)
		assert.Equal(t, "hello", got.Content)

		// Second call hits the cache
		var again cachedPost
		err = Aside(context.Background(), PostKey(1), &again, time.Minute, func() error {
			fetched++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, fetched)
		assert.Equal(t, got, again)
	})

	t.Run("fetch error propagates without caching", func(t *testing.T) {
		setupCache(t)

		var got cachedPost
		err := Aside(context.Background(), PostKey(2), &got, time.Minute, func() error {
			return assert.AnError
		})
		assert.Error(t, err)

		found, err := GetJSON(context.Background(), PostKey(2), &got)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("nil client falls through to fetch", func(t *testing.T) {
		SetClient(nil)
		fetched := 0
		var got cachedPost
		err := Aside(context.Background(), PostKey(3), &got, time.Minute, func() error {
			fetched++
			got = cachedPost{ID: 3}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, fetched)
	})
}

func TestInvalidate(t *testing.T) {
	setupCache(t)

	require.NoError(t, SetJSON(context.Background(), PostKey(9), cachedPost{ID: 9}, time.Minute))
	require.NoError(t, SetJSON(context.Background(), FeedKey, []cachedPost{{ID: 9}}, time.Minute))

	InvalidatePost(context.Background(), 9)

	var got cachedPost
	found, err := GetJSON(context.Background(), PostKey(9), &got)
	require.NoError(t, err)
	assert.False(t, found)

	var feed []cachedPost
	found, err = GetJSON(context.Background(), FeedKey, &feed)
	require.NoError(t, err)
	assert.False(t, found)
}

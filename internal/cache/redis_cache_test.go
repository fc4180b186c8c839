package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type entry struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func newTestCache(t *testing.T) (CacheService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client, zap.NewNop()), mr
}

func TestRedisCache_SetGet(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, QuestionKey(1), entry{ID: 1, Title: "Sum"}, time.Minute))

	var got entry
	require.NoError(t, c.Get(ctx, QuestionKey(1), &got))
	assert.Equal(t, entry{ID: 1, Title: "Sum"}, got)

	mr.FastForward(2 * time.Minute)
	assert.ErrorIs(t, c.Get(ctx, QuestionKey(1), &got), ErrCacheMiss)
}

func TestRedisCache_GetMissing(t *testing.T) {
	c, _ := newTestCache(t)

	var got entry
	err := c.Get(context.Background(), "nope", &got)

	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_CorruptEntryIsAMiss(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set(QuestionKey(2), "{not json"))

	var got entry
	err := c.Get(context.Background(), QuestionKey(2), &got)

	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.False(t, mr.Exists(QuestionKey(2)))
}

func TestRedisCache_DeleteAndPattern(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	for i := uint(1); i <= 5; i++ {
		require.NoError(t, c.Set(ctx, QuestionKey(i), entry{ID: i}, 0))
	}
	require.NoError(t, c.Set(ctx, SubmissionKey("s1"), true, 0))

	require.NoError(t, c.Delete(ctx, QuestionKey(1)))
	assert.False(t, mr.Exists(QuestionKey(1)))

	require.NoError(t, c.DeletePattern(ctx, QuestionPattern()))
	for i := uint(2); i <= 5; i++ {
		assert.False(t, mr.Exists(QuestionKey(i)))
	}
	assert.True(t, mr.Exists(SubmissionKey("s1")))
}

func TestRedisCache_SetIfAbsent(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	ok, err := c.SetIfAbsent(ctx, SubmissionKey("s1"), "pending", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.SetIfAbsent(ctx, SubmissionKey("s1"), "pending", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(2 * time.Hour)
	ok, err = c.SetIfAbsent(ctx, SubmissionKey("s1"), "pending", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisCache_ConnectionError(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	err := c.Set(context.Background(), "k", 1, 0)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

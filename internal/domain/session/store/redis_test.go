package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisTestStore(t *testing.T) Store {
	t.Helper()
	mr := miniredis.RunT(t)

	s, err := NewRedis(Config{
		TTL: time.Hour,
		Redis: &RedisConfig{
			Addr:   mr.Addr(),
			Prefix: "test:archive:",
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestRedisStore_SaveAndGet(t *testing.T) {
	s := newRedisTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, testArchive("s1")))

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.SessionID)
	assert.Equal(t, "Alice", got.Data["name"])
	assert.Equal(t, []string{"salary_expectation"}, got.Missing)
	assert.False(t, got.Complete)
}

func TestRedisStore_GetMissing(t *testing.T) {
	s := newRedisTestStore(t)

	_, err := s.Get(context.Background(), "nope")
	assert.Error(t, err)
}

func TestRedisStore_List(t *testing.T) {
	s := newRedisTestStore(t)
	ctx := context.Background()

	older := testArchive("old")
	older.FinishedAt = time.Now().Add(-time.Hour)
	require.NoError(t, s.Save(ctx, older))
	require.NoError(t, s.Save(ctx, testArchive("new")))

	archives, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, archives, 2)
	assert.Equal(t, "new", archives[0].SessionID)
}

func TestRedisStore_Remove(t *testing.T) {
	s := newRedisTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, testArchive("s1")))
	require.NoError(t, s.Remove(ctx, "s1"))

	_, err := s.Get(ctx, "s1")
	assert.Error(t, err)
}

func TestRedisStore_BadConfig(t *testing.T) {
	_, err := NewRedis(Config{})
	assert.Error(t, err)

	_, err = NewRedis(Config{Redis: &RedisConfig{}})
	assert.Error(t, err)
}

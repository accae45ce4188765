package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testArchive(id string) Archive {
	return Archive{
		SessionID: id,
		Schema:    "interview",
		Data: map[string]any{
			"name":   "Alice",
			"skills": []any{"Go", "Postgres"},
		},
		Missing:    []string{"salary_expectation"},
		Complete:   false,
		Updates:    4,
		StartedAt:  time.Now().Add(-10 * time.Minute),
		FinishedAt: time.Now(),
	}
}

func TestMemoryStore_SaveAndGet(t *testing.T) {
	s := NewMemory(Config{TTL: time.Hour})
	defer s.Close(context.Background())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, testArchive("s1")))

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "interview", got.Schema)
	assert.Equal(t, "Alice", got.Data["name"])
	assert.Equal(t, 4, got.Updates)
	assert.NotNil(t, got.ExpiresAt, "ttl should set an expiry")
}

func TestMemoryStore_SaveRequiresID(t *testing.T) {
	s := NewMemory(Config{})
	defer s.Close(context.Background())

	assert.Error(t, s.Save(context.Background(), Archive{}))
}

func TestMemoryStore_GetMissing(t *testing.T) {
	s := NewMemory(Config{})
	defer s.Close(context.Background())

	_, err := s.Get(context.Background(), "nope")
	assert.Error(t, err)
}

func TestMemoryStore_ListOrdersByFinish(t *testing.T) {
	s := NewMemory(Config{TTL: time.Hour})
	defer s.Close(context.Background())
	ctx := context.Background()

	older := testArchive("old")
	older.FinishedAt = time.Now().Add(-time.Hour)
	newer := testArchive("new")

	require.NoError(t, s.Save(ctx, older))
	require.NoError(t, s.Save(ctx, newer))

	archives, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, archives, 2)
	assert.Equal(t, "new", archives[0].SessionID)
	assert.Equal(t, "old", archives[1].SessionID)
}

func TestMemoryStore_ExpiryAndCleanup(t *testing.T) {
	s := NewMemory(Config{TTL: time.Hour})
	defer s.Close(context.Background())
	ctx := context.Background()

	expired := testArchive("gone")
	past := time.Now().Add(-time.Minute)
	expired.ExpiresAt = &past
	require.NoError(t, s.Save(ctx, expired))

	_, err := s.Get(ctx, "gone")
	assert.Error(t, err)

	archives, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, archives)

	require.NoError(t, s.CleanupExpired(ctx))
	archives, _ = s.List(ctx)
	assert.Empty(t, archives)
}

func TestMemoryStore_Remove(t *testing.T) {
	s := NewMemory(Config{TTL: time.Hour})
	defer s.Close(context.Background())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, testArchive("s1")))
	require.NoError(t, s.Remove(ctx, "s1"))

	_, err := s.Get(ctx, "s1")
	assert.Error(t, err)
}

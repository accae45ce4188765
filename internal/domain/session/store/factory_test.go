package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Divyendra-S/sasha/internal/platform/storage"
)

func newSQLiteTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "archive.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&storage.SessionArchive{}))
	return db
}

func TestFactory_Drivers(t *testing.T) {
	memStore, err := New(Config{Driver: DriverMemory}, Dependencies{})
	require.NoError(t, err)
	defer memStore.Close(context.Background())

	_, err = New(Config{Driver: DriverSQLite}, Dependencies{})
	assert.Error(t, err, "sqlite without a handle must fail")

	db := newSQLiteTestDB(t)
	sqlStore, err := New(Config{Driver: DriverSQLite}, Dependencies{SQLiteDB: db})
	require.NoError(t, err)
	defer sqlStore.Close(context.Background())

	_, err = New(Config{Driver: "etcd"}, Dependencies{})
	assert.Error(t, err)
}

func TestFactory_DefaultsToMemory(t *testing.T) {
	s, err := New(Config{}, Dependencies{})
	require.NoError(t, err)
	defer s.Close(context.Background())
	require.NoError(t, s.Save(context.Background(), testArchive("s1")))
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	db := newSQLiteTestDB(t)
	s, err := NewSQLite(db, Config{TTL: time.Hour})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, testArchive("s1")))

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "interview", got.Schema)
	assert.Equal(t, "Alice", got.Data["name"])
	assert.Equal(t, []string{"salary_expectation"}, got.Missing)
	assert.Equal(t, 4, got.Updates)

	// Saving the same session replaces the previous archive.
	updated := testArchive("s1")
	updated.Complete = true
	updated.Missing = nil
	require.NoError(t, s.Save(ctx, updated))

	got, err = s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, got.Complete)

	archives, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, archives, 1)

	require.NoError(t, s.Remove(ctx, "s1"))
	_, err = s.Get(ctx, "s1")
	assert.Error(t, err)
}

func TestSQLiteStore_CleanupExpired(t *testing.T) {
	db := newSQLiteTestDB(t)
	s, err := NewSQLite(db, Config{TTL: time.Hour})
	require.NoError(t, err)
	ctx := context.Background()

	expired := testArchive("gone")
	past := time.Now().Add(-time.Minute)
	expired.ExpiresAt = &past
	require.NoError(t, s.Save(ctx, expired))

	require.NoError(t, s.CleanupExpired(ctx))

	archives, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, archives)
}

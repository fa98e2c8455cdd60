package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "captions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_VideoMetaRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	meta := VideoMeta{
		VideoID:   "vid-1",
		Title:     "Test Video",
		Languages: []string{"en", "zh-CN"},
		ExpiresAt: now.Add(time.Hour),
		UpdatedAt: now,
	}
	require.NoError(t, store.PutVideoMeta(ctx, meta))

	got, ok, err := store.GetVideoMeta(ctx, "vid-1", now)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, meta.VideoID, got.VideoID)
	assert.Equal(t, meta.Title, got.Title)
	assert.Equal(t, meta.Languages, got.Languages)

	_, ok, err = store.GetVideoMeta(ctx, "unknown", now)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStore_VideoMetaUpsert(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	meta := VideoMeta{VideoID: "vid-1", Title: "Old", ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, store.PutVideoMeta(ctx, meta))
	meta.Title = "New"
	meta.Languages = []string{"ja"}
	require.NoError(t, store.PutVideoMeta(ctx, meta))

	got, ok, err := store.GetVideoMeta(ctx, "vid-1", now)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, []string{"ja"}, got.Languages)
}

func TestSQLiteStore_VideoMetaExpiry(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.PutVideoMeta(ctx, VideoMeta{
		VideoID:   "stale",
		ExpiresAt: now.Add(-time.Minute),
	}))
	require.NoError(t, store.PutVideoMeta(ctx, VideoMeta{
		VideoID:   "fresh",
		ExpiresAt: now.Add(time.Hour),
	}))

	_, ok, err := store.GetVideoMeta(ctx, "stale", now)
	require.NoError(t, err)
	assert.False(t, ok)

	deleted, err := store.DeleteExpiredVideoMeta(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, ok, err = store.GetVideoMeta(ctx, "fresh", now)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSQLiteStore_DeleteVideoMeta(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.PutVideoMeta(ctx, VideoMeta{
		VideoID:   "vid-1",
		ExpiresAt: now.Add(time.Hour),
	}))
	require.NoError(t, store.DeleteVideoMeta(ctx, "vid-1"))

	_, ok, err := store.GetVideoMeta(ctx, "vid-1", now)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStore_ReopenKeepsData(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "captions.db")
	ctx := context.Background()
	now := time.Now().UTC()

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.PutVideoMeta(ctx, VideoMeta{
		VideoID:   "vid-1",
		Title:     "Persisted",
		ExpiresAt: now.Add(time.Hour),
	}))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, ok, err := reopened.GetVideoMeta(ctx, "vid-1", now)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Persisted", got.Title)
}

package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"langromanizer/model"
	"langromanizer/store"
)

func backends(t *testing.T) map[string]store.Store {
	t.Helper()

	mem, err := store.OpenBadger("", nil)
	require.NoError(t, err)
	disk, err := store.OpenBadger(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)

	all := map[string]store.Store{
		"memory":          store.NewMemory(),
		"badger-inmemory": mem,
		"badger-disk":     disk,
	}
	t.Cleanup(func() {
		for _, s := range all {
			_ = s.Close()
		}
	})
	return all
}

func sampleRecord(trackID string) *store.Record {
	return &store.Record{
		TrackID:  trackID,
		PassID:   "pass-1",
		Source:   model.LyricDocument{TrackID: trackID, Lyrics: "안녕"},
		Document: model.LyricDocument{TrackID: trackID, Lyrics: "안녕" + model.Separator + "annyeong"},
		Map:      model.RomanizationMap{"안녕": "annyeong"},
		StoredAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestStore_PutGet(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			rec := sampleRecord("t1")
			require.NoError(t, s.Put(ctx, rec))

			got, err := s.Get(ctx, "t1")
			require.NoError(t, err)
			assert.Equal(t, rec.Document, got.Document)
			assert.Equal(t, rec.Map, got.Map)
			assert.True(t, rec.StoredAt.Equal(got.StoredAt))
		})
	}
}

func TestStore_PutReplaces(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Put(ctx, sampleRecord("t1")))

			next := sampleRecord("t1")
			next.PassID = "pass-2"
			next.Map = model.RomanizationMap{}
			next.Skipped = true
			require.NoError(t, s.Put(ctx, next))

			got, err := s.Get(ctx, "t1")
			require.NoError(t, err)
			assert.Equal(t, "pass-2", got.PassID)
			assert.True(t, got.Skipped)
			assert.Empty(t, got.Map)
		})
	}
}

func TestStore_NotFound(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, err := s.Get(ctx, "missing")
			assert.ErrorIs(t, err, store.ErrNotFound)
			assert.ErrorIs(t, s.Delete(ctx, "missing"), store.ErrNotFound)
		})
	}
}

func TestStore_Delete(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Put(ctx, sampleRecord("t1")))
			require.NoError(t, s.Delete(ctx, "t1"))

			_, err := s.Get(ctx, "t1")
			assert.ErrorIs(t, err, store.ErrNotFound)
		})
	}
}

func TestMemory_CopiesMap(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()
	rec := sampleRecord("t1")
	require.NoError(t, s.Put(ctx, rec))

	rec.Map["안녕"] = "changed"
	got, err := s.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "annyeong", got.Map["안녕"])
}

func TestStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, s.Put(ctx, sampleRecord("t1")), context.Canceled)
		})
	}
}

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kaizen/internal/db"
	"kaizen/internal/migrate"
	"kaizen/internal/store"
)

func newTestCollection(t *testing.T) store.Collection {
	t.Helper()
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, migrate.Migrate(conn))
	return store.Collection{DB: conn, Name: "log_entries"}
}

func TestPutGetRoundtrip(t *testing.T) {
	col := newTestCollection(t)
	ctx := context.Background()
	ts := time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.UTC)

	rec := store.Record{ID: "e1", SpaceID: "s1", TS: ts, Data: []byte(`{"points":5}`)}
	require.NoError(t, col.Put(ctx, rec))

	got, err := col.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.SpaceID, got.SpaceID)
	assert.True(t, got.TS.Equal(ts), "nanosecond precision must survive the roundtrip")
	assert.JSONEq(t, `{"points":5}`, string(got.Data))

	// Put on the same id replaces
	rec.Data = []byte(`{"points":9}`)
	require.NoError(t, col.Put(ctx, rec))
	got, err = col.Get(ctx, "e1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"points":9}`, string(got.Data))
}

func TestGetMissing(t *testing.T) {
	col := newTestCollection(t)
	_, err := col.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDelete(t *testing.T) {
	col := newTestCollection(t)
	ctx := context.Background()
	require.NoError(t, col.Put(ctx, store.Record{ID: "e1", SpaceID: "s1", TS: time.Now(), Data: []byte(`{}`)}))

	require.NoError(t, col.Delete(ctx, "e1"))
	assert.ErrorIs(t, col.Delete(ctx, "e1"), store.ErrNotFound)
}

func TestDeleteBySpaceIdempotent(t *testing.T) {
	col := newTestCollection(t)
	ctx := context.Background()
	for _, id := range []string{"a", "b"} {
		require.NoError(t, col.Put(ctx, store.Record{ID: id, SpaceID: "s1", TS: time.Now(), Data: []byte(`{}`)}))
	}
	require.NoError(t, col.Put(ctx, store.Record{ID: "c", SpaceID: "s2", TS: time.Now(), Data: []byte(`{}`)}))

	require.NoError(t, col.DeleteBySpace(ctx, "s1"))
	// repeating on an emptied space is fine
	require.NoError(t, col.DeleteBySpace(ctx, "s1"))

	remaining, err := col.List(ctx, store.Unordered)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "c", remaining[0].ID)
}

func TestListBySpaceOrdering(t *testing.T) {
	col := newTestCollection(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"first", "second", "third"} {
		require.NoError(t, col.Put(ctx, store.Record{
			ID:      id,
			SpaceID: "s1",
			TS:      base.Add(time.Duration(i) * time.Minute),
			Data:    []byte(`{}`),
		}))
	}

	asc, err := col.ListBySpace(ctx, "s1", store.Asc)
	require.NoError(t, err)
	require.Len(t, asc, 3)
	assert.Equal(t, "first", asc[0].ID)
	assert.Equal(t, "third", asc[2].ID)

	desc, err := col.ListBySpace(ctx, "s1", store.Desc)
	require.NoError(t, err)
	assert.Equal(t, "third", desc[0].ID)
	assert.Equal(t, "first", desc[2].ID)

	none, err := col.ListBySpace(ctx, "other", store.Desc)
	require.NoError(t, err)
	assert.Empty(t, none)
}

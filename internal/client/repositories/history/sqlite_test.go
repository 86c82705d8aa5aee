package history

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/kodex/internal/client/migrations"
	"github.com/dmitrijs2005/kodex/internal/client/models"
	"github.com/dmitrijs2005/kodex/internal/common"
	"github.com/dmitrijs2005/kodex/internal/dbx"
	"github.com/dmitrijs2005/kodex/internal/payload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// each pooled connection would otherwise get its own in-memory database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(context.Background(), db))
	return db
}

func record(id string, ts int64) *models.HistoryRecord {
	return &models.HistoryRecord{
		ID:        id,
		Content:   "content " + id,
		Direction: models.DirectionGenerated,
		Kind:      payload.KindText,
		Timestamp: time.UnixMilli(ts).UTC(),
		Pending:   true,
	}
}

func TestInsert_GetByID(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	rec := record("a", 1700000000123)
	rec.ImagePath = "/tmp/a.png"
	require.NoError(t, r.Insert(ctx, rec))

	got, err := r.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestInsert_ReplacesOnConflict(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, record("a", 1)))
	upd := record("a", 2)
	upd.Content = "replaced"
	require.NoError(t, r.Insert(ctx, upd))

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "replaced", list[0].Content)
}

func TestList_NewestFirst(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, record("old", 1000)))
	require.NoError(t, r.Insert(ctx, record("new", 3000)))
	require.NoError(t, r.Insert(ctx, record("mid", 2000)))

	list, err := r.List(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(list))
	for _, x := range list {
		ids = append(ids, x.ID)
	}
	assert.Equal(t, []string{"new", "mid", "old"}, ids)
}

func TestGetByID_NotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	_, err := r.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDeleteByID_SoftDeleteAndSync(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	a := record("a", 1)
	a.Pending = false
	require.NoError(t, r.Insert(ctx, a))
	require.NoError(t, r.Insert(ctx, record("b", 2)))

	require.NoError(t, r.DeleteByID(ctx, "a"))
	assert.ErrorIs(t, r.DeleteByID(ctx, "a"), common.ErrorNotFound)

	_, err := r.GetByID(ctx, "a")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	ok, err := r.Exists(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok, "tombstone still known locally")

	pending, err := r.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.True(t, pending[0].Deleted)

	require.NoError(t, r.MarkSynced(ctx, []string{"a", "b"}))

	pending, err = r.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	ok, err = r.Exists(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok, "synced tombstone purged")

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].Pending)
}

func TestMarkSynced_Empty(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	assert.NoError(t, r.MarkSynced(context.Background(), nil))
}

func TestWithDB_Transaction(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return r.WithDB(tx).Insert(ctx, record("tx", 5))
	})
	require.NoError(t, err)

	_, err = r.GetByID(ctx, "tx")
	assert.NoError(t, err)
}

package history

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/kodex/internal/common"
	"github.com/dmitrijs2005/kodex/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

var (
	createdAt = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	updatedAt = createdAt.Add(time.Hour)
	columns   = []string{"id", "owner_id", "content", "direction", "kind", "created_at", "deleted", "image_key", "updated_at"}
)

const upsertQuery = `INSERT INTO history_records .* ON CONFLICT \(id\)\s+DO UPDATE SET .* WHERE history_records\.owner_id = EXCLUDED\.owner_id;`

func sampleRecord() *models.Record {
	return &models.Record{
		ID:        "r1",
		OwnerID:   "o1",
		Content:   "https://example.com",
		Direction: "generated",
		Kind:      "url",
		CreatedAt: createdAt,
	}
}

func TestUpsert(t *testing.T) {
	tests := []struct {
		name    string
		result  sql.Result
		execErr error
		wantErr error
		anyErr  bool
	}{
		{name: "inserted or updated", result: sqlmock.NewResult(0, 1)},
		{name: "owned by someone else", result: sqlmock.NewResult(0, 0), wantErr: common.ErrRecordConflict},
		{name: "unexpected rows", result: sqlmock.NewResult(0, 2), anyErr: true},
		{name: "exec error", execErr: errors.New("boom"), anyErr: true},
		{name: "rows affected error", result: sqlmock.NewErrorResult(errors.New("ra")), anyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepoWithMock(t)
			rec := sampleRecord()

			exp := mock.ExpectExec(upsertQuery).
				WithArgs(rec.ID, rec.OwnerID, rec.Content, rec.Direction, rec.Kind, rec.CreatedAt, rec.Deleted)
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(tt.result)
			}

			err := repo.Upsert(context.Background(), rec)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestListLive(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	rows := sqlmock.NewRows(columns).
		AddRow("r2", "o1", "hello", "scanned", "text", createdAt.Add(time.Minute), false, "", updatedAt).
		AddRow("r1", "o1", "tel:+1", "generated", "phone", createdAt, false, "images/o1/r1.png", updatedAt)

	mock.ExpectQuery(`SELECT .* FROM history_records\s+WHERE owner_id = \$1 AND deleted = FALSE\s+ORDER BY created_at DESC, id`).
		WithArgs("o1").
		WillReturnRows(rows)

	got, err := repo.ListLive(context.Background(), "o1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "r2", got[0].ID)
	assert.Equal(t, "images/o1/r1.png", got[1].ImageKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListLive_Errors(t *testing.T) {
	t.Run("query", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(`SELECT .* FROM history_records`).WillReturnError(errors.New("down"))

		_, err := repo.ListLive(context.Background(), "o1")
		assert.Error(t, err)
	})

	t.Run("scan", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(`SELECT .* FROM history_records`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("r1"))

		_, err := repo.ListLive(context.Background(), "o1")
		assert.Error(t, err)
	})

	t.Run("rows", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		rows := sqlmock.NewRows(columns).
			AddRow("r1", "o1", "x", "scanned", "text", createdAt, false, "", updatedAt).
			RowError(0, errors.New("broken"))
		mock.ExpectQuery(`SELECT .* FROM history_records`).WillReturnRows(rows)

		_, err := repo.ListLive(context.Background(), "o1")
		assert.Error(t, err)
	})
}

func TestGetLive(t *testing.T) {
	const q = `SELECT .* FROM history_records\s+WHERE owner_id = \$1 AND id = \$2 AND deleted = FALSE`

	t.Run("found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs("o1", "r1").WillReturnRows(
			sqlmock.NewRows(columns).AddRow("r1", "o1", "x", "scanned", "text", createdAt, false, "", updatedAt))

		got, err := repo.GetLive(context.Background(), "o1", "r1")
		require.NoError(t, err)
		assert.Equal(t, "x", got.Content)
		assert.Equal(t, createdAt, got.CreatedAt)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs("o1", "nope").WillReturnRows(sqlmock.NewRows(columns))

		_, err := repo.GetLive(context.Background(), "o1", "nope")
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WillReturnError(errors.New("down"))

		_, err := repo.GetLive(context.Background(), "o1", "r1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, common.ErrorNotFound)
	})
}

func TestSetImageKey(t *testing.T) {
	const q = `UPDATE history_records SET image_key = \$3`

	t.Run("updated", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(q).WithArgs("o1", "r1", "k").WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.SetImageKey(context.Background(), "o1", "r1", "k"))
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(q).WithArgs("o1", "r1", "k").WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.SetImageKey(context.Background(), "o1", "r1", "k"), common.ErrorNotFound)
	})

	t.Run("exec error", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(q).WillReturnError(errors.New("down"))

		assert.Error(t, repo.SetImageKey(context.Background(), "o1", "r1", "k"))
	})
}

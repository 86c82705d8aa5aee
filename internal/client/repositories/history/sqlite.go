package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/kodex/internal/client/models"
	"github.com/dmitrijs2005/kodex/internal/common"
	"github.com/dmitrijs2005/kodex/internal/dbx"
	"github.com/dmitrijs2005/kodex/internal/payload"
)

// SQLiteRepository implements Repository over a DBTX (either *sql.DB or
// *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// WithDB returns a repository bound to db, typically a transaction.
func (r *SQLiteRepository) WithDB(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectColumns = `id, content, direction, kind, created_at, image_path, deleted, pending`

func (r *SQLiteRepository) Insert(ctx context.Context, rec *models.HistoryRecord) error {
	query := `INSERT INTO history (id, content, direction, kind, created_at, image_path, deleted, pending)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET content = excluded.content,
			direction = excluded.direction,
			kind = excluded.kind,
			created_at = excluded.created_at,
			image_path = excluded.image_path,
			deleted = excluded.deleted,
			pending = excluded.pending`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Content, string(rec.Direction), string(rec.Kind),
		rec.Timestamp.UnixMilli(), rec.ImagePath, rec.Deleted, rec.Pending)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.HistoryRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM history WHERE deleted = 0 ORDER BY created_at DESC, id`
	return r.query(ctx, query)
}

func (r *SQLiteRepository) ListPending(ctx context.Context) ([]models.HistoryRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM history WHERE pending = 1 ORDER BY created_at`
	return r.query(ctx, query)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.HistoryRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM history WHERE deleted = 0 AND id = ?`
	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record %s: %w", id, err)
	}
	return rec, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	query := `UPDATE history SET deleted = 1, pending = 1 WHERE id = ? AND deleted = 0`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	in, args := placeholders(ids)

	if _, err := r.db.ExecContext(ctx, `DELETE FROM history WHERE deleted = 1 AND id IN (`+in+`)`, args...); err != nil {
		return fmt.Errorf("failed to purge tombstones: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `UPDATE history SET pending = 0 WHERE id IN (`+in+`)`, args...); err != nil {
		return fmt.Errorf("failed to mark synced: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Exists(ctx context.Context, id string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM history WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check record %s: %w", id, err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]models.HistoryRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	var result []models.HistoryRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*models.HistoryRecord, error) {
	var (
		rec       models.HistoryRecord
		direction string
		kind      string
		millis    int64
	)
	if err := s.Scan(&rec.ID, &rec.Content, &direction, &kind, &millis, &rec.ImagePath, &rec.Deleted, &rec.Pending); err != nil {
		return nil, err
	}
	rec.Direction = models.Direction(direction)
	rec.Kind = payload.Kind(kind)
	rec.Timestamp = time.UnixMilli(millis).UTC()
	return &rec, nil
}

func placeholders(ids []string) (string, []any) {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return strings.TrimSuffix(strings.Repeat("?,", len(ids)), ","), args
}

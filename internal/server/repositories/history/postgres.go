// Package history provides the PostgreSQL-backed store for synced history
// records.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/kodex/internal/common"
	"github.com/dmitrijs2005/kodex/internal/dbx"
	"github.com/dmitrijs2005/kodex/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, rec *models.Record) error {
	query := `
		INSERT INTO history_records (id, owner_id, content, direction, kind, created_at, deleted, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (id)
		DO UPDATE SET
			content = EXCLUDED.content,
			direction = EXCLUDED.direction,
			kind = EXCLUDED.kind,
			created_at = EXCLUDED.created_at,
			deleted = history_records.deleted OR EXCLUDED.deleted,
			updated_at = now()
			WHERE history_records.owner_id = EXCLUDED.owner_id;
	`
	res, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.OwnerID, rec.Content, rec.Direction, rec.Kind, rec.CreatedAt, rec.Deleted)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrRecordConflict
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

const selectColumns = `id, owner_id, content, direction, kind, created_at, deleted, image_key, updated_at`

func scanRecord(row interface{ Scan(...any) error }) (*models.Record, error) {
	var item models.Record
	if err := row.Scan(
		&item.ID, &item.OwnerID, &item.Content, &item.Direction, &item.Kind,
		&item.CreatedAt, &item.Deleted, &item.ImageKey, &item.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) ListLive(ctx context.Context, ownerID string) ([]*models.Record, error) {
	query := `SELECT ` + selectColumns + ` FROM history_records
		WHERE owner_id = $1 AND deleted = FALSE
		ORDER BY created_at DESC, id`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	var result []*models.Record
	for rows.Next() {
		item, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetLive(ctx context.Context, ownerID, id string) (*models.Record, error) {
	query := `SELECT ` + selectColumns + ` FROM history_records
		WHERE owner_id = $1 AND id = $2 AND deleted = FALSE`
	item, err := scanRecord(r.db.QueryRowContext(ctx, query, ownerID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select record: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) SetImageKey(ctx context.Context, ownerID, id, key string) error {
	query := `UPDATE history_records SET image_key = $3, updated_at = now()
		WHERE owner_id = $1 AND id = $2 AND deleted = FALSE`
	res, err := r.db.ExecContext(ctx, query, ownerID, id, key)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

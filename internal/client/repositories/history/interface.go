package history

import (
	"context"

	"github.com/dmitrijs2005/kodex/internal/client/models"
)

// Repository stores history records.
type Repository interface {
	// Insert stores r, replacing any record with the same id.
	Insert(ctx context.Context, r *models.HistoryRecord) error

	// List returns live records, newest first.
	List(ctx context.Context) ([]models.HistoryRecord, error)

	// GetByID returns a live record or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.HistoryRecord, error)

	// DeleteByID turns a live record into a pending tombstone.
	DeleteByID(ctx context.Context, id string) error

	// ListPending returns records awaiting sync, tombstones included.
	ListPending(ctx context.Context) ([]models.HistoryRecord, error)

	// MarkSynced clears the pending flag of ids and purges synced tombstones.
	MarkSynced(ctx context.Context, ids []string) error

	// Exists reports whether id is known locally, tombstones included.
	Exists(ctx context.Context, id string) (bool, error)
}

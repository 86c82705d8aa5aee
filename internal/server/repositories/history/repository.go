package history

import (
	"context"

	"github.com/dmitrijs2005/kodex/internal/server/models"
)

type Repository interface {
	// Upsert stores rec for its owner. A row with the same id owned by
	// someone else is left untouched and common.ErrRecordConflict returned.
	Upsert(ctx context.Context, rec *models.Record) error
	// ListLive returns the owner's records that are not deleted, newest first.
	ListLive(ctx context.Context, ownerID string) ([]*models.Record, error)
	// GetLive returns one live record or common.ErrorNotFound.
	GetLive(ctx context.Context, ownerID, id string) (*models.Record, error)
	SetImageKey(ctx context.Context, ownerID, id, key string) error
}

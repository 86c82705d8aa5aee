// Package services contains server-side business logic. HistoryService
// stores records pushed by clients and hands out presigned URLs for the
// images they share.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/kodex/internal/common"
	"github.com/dmitrijs2005/kodex/internal/dbx"
	"github.com/dmitrijs2005/kodex/internal/server/models"
	"github.com/dmitrijs2005/kodex/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/kodex/internal/server/storage"
)

var ErrInvalidRecord = errors.New("invalid record")

// newImageKey is a test seam for storage.NewImageKey.
var newImageKey = storage.NewImageKey

// PublishResult mirrors rpc.PublishResult. PutURL is only set the first time
// a record is published.
type PublishResult struct {
	Key    string
	PutURL string
	GetURL string
}

type HistoryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	presigner   storage.Presigner
}

func NewHistoryService(db *sql.DB, m repomanager.RepositoryManager, p storage.Presigner) *HistoryService {
	return &HistoryService{db: db, repomanager: m, presigner: p}
}

// Push upserts recs for ownerID in one transaction and returns the ids that
// were stored. Records whose id belongs to another owner are skipped.
func (s *HistoryService) Push(ctx context.Context, ownerID string, recs []*models.Record) ([]string, error) {
	for _, r := range recs {
		if r.ID == "" {
			return nil, fmt.Errorf("%w: empty id", ErrInvalidRecord)
		}
	}

	accepted := make([]string, 0, len(recs))
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.History(tx)
		for _, r := range recs {
			r.OwnerID = ownerID
			if err := repo.Upsert(ctx, r); err != nil {
				if errors.Is(err, common.ErrRecordConflict) {
					continue
				}
				return fmt.Errorf("upsert %s: %w", r.ID, err)
			}
			accepted = append(accepted, r.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return accepted, nil
}

// List returns the owner's live records, newest first.
func (s *HistoryService) List(ctx context.Context, ownerID string) ([]*models.Record, error) {
	return s.repomanager.History(s.db).ListLive(ctx, ownerID)
}

// Publish assigns an image key to the record on first use and returns
// presigned URLs for it.
func (s *HistoryService) Publish(ctx context.Context, ownerID, id string) (*PublishResult, error) {
	repo := s.repomanager.History(s.db)

	rec, err := repo.GetLive(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	res := &PublishResult{Key: rec.ImageKey}
	if res.Key == "" {
		key := newImageKey(ownerID)
		put, err := s.presigner.PresignPut(ctx, key)
		if err != nil {
			return nil, err
		}
		if err := repo.SetImageKey(ctx, ownerID, id, key); err != nil {
			return nil, err
		}
		res.Key, res.PutURL = key, put
	}

	res.GetURL, err = s.presigner.PresignGet(ctx, res.Key)
	if err != nil {
		return nil, err
	}
	return res, nil
}

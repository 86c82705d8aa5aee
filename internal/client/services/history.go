package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/kodex/internal/client/client"
	"github.com/dmitrijs2005/kodex/internal/client/models"
	"github.com/dmitrijs2005/kodex/internal/client/repositories/history"
	"github.com/dmitrijs2005/kodex/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/kodex/internal/common"
	"github.com/dmitrijs2005/kodex/internal/dbx"
	"github.com/dmitrijs2005/kodex/internal/logging"
	"github.com/dmitrijs2005/kodex/internal/netx"
	"github.com/dmitrijs2005/kodex/internal/payload"
	"github.com/dmitrijs2005/kodex/internal/rpc"
	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"
)

// HistoryService manages stored records and their sync with the server.
type HistoryService interface {
	List(ctx context.Context) ([]models.HistoryRecord, error)
	Get(ctx context.Context, id string) (*models.HistoryRecord, error)
	// Delete removes a record and its saved image.
	Delete(ctx context.Context, id string) error
	// Export writes live records as JSON, zstd-compressed when compress is
	// set, and returns the number of records written.
	Export(ctx context.Context, w io.Writer, compress bool) (int, error)
	// Sync pushes pending changes and pulls records missing locally.
	Sync(ctx context.Context) (*SyncReport, error)
	// Publish uploads the record image if needed and returns a download URL.
	Publish(ctx context.Context, id string) (string, error)
	// LastSync returns the time of the last successful sync.
	LastSync(ctx context.Context) (time.Time, bool, error)
}

type SyncReport struct {
	Pushed int
	Pulled int
}

// PNGRenderer renders a payload as a PNG image.
type PNGRenderer interface {
	RenderPNG(content string) ([]byte, error)
}

// test seam
var uploadFn = netx.UploadToS3PresignedURL

type historyService struct {
	db       *sql.DB
	history  *history.SQLiteRepository
	metadata *metadata.SQLiteRepository
	client   client.Client
	renderer PNGRenderer
	logger   logging.Logger
	now      func() time.Time
}

// NewHistoryService wires the service. c may be nil when no sync server is
// configured; Sync and Publish then return common.ErrSyncDisabled.
func NewHistoryService(repos *client.Repositories, c client.Client, r PNGRenderer, l logging.Logger) HistoryService {
	return &historyService{
		db:       repos.DB,
		history:  repos.History,
		metadata: repos.Metadata,
		client:   c,
		renderer: r,
		logger:   l.With("module", "history_service"),
		now:      time.Now,
	}
}

func (s *historyService) List(ctx context.Context) ([]models.HistoryRecord, error) {
	recs, err := s.history.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return recs, nil
}

func (s *historyService) Get(ctx context.Context, id string) (*models.HistoryRecord, error) {
	return s.history.GetByID(ctx, id)
}

func (s *historyService) Delete(ctx context.Context, id string) error {
	rec, err := s.history.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.history.DeleteByID(ctx, id); err != nil {
		return err
	}
	if rec.ImagePath != "" {
		if err := os.Remove(rec.ImagePath); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn(ctx, "failed to remove image", "path", rec.ImagePath, "error", err)
		}
	}
	s.logger.Info(ctx, "record deleted", "id", id)
	return nil
}

type exportDoc struct {
	ExportedAt time.Time              `json:"exported_at"`
	Records    []models.HistoryRecord `json:"records"`
}

func (s *historyService) Export(ctx context.Context, w io.Writer, compress bool) (int, error) {
	recs, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	if recs == nil {
		recs = []models.HistoryRecord{}
	}

	out := w
	var zw *zstd.Encoder
	if compress {
		zw, err = zstd.NewWriter(w)
		if err != nil {
			return 0, fmt.Errorf("zstd writer: %w", err)
		}
		out = zw
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(exportDoc{ExportedAt: s.now().UTC(), Records: recs}); err != nil {
		return 0, fmt.Errorf("encode export: %w", err)
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return 0, fmt.Errorf("zstd close: %w", err)
		}
	}
	return len(recs), nil
}

func (s *historyService) Sync(ctx context.Context) (*SyncReport, error) {
	if s.client == nil {
		return nil, common.ErrSyncDisabled
	}

	pending, err := s.history.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}

	report := &SyncReport{}
	if len(pending) > 0 {
		n, err := s.push(ctx, pending)
		if err != nil {
			return nil, err
		}
		report.Pushed = n
	}

	remote, err := s.client.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list remote: %w", err)
	}
	for _, r := range remote {
		known, err := s.history.Exists(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		if known {
			continue
		}
		rec := fromWire(r)
		if err := s.history.Insert(ctx, &rec); err != nil {
			return nil, fmt.Errorf("store pulled record: %w", err)
		}
		report.Pulled++
	}

	if err := s.metadata.Set(ctx, metadata.KeyLastSyncAt, strconv.FormatInt(s.now().UnixMilli(), 10)); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "sync complete", "pushed", report.Pushed, "pulled", report.Pulled)
	return report, nil
}

// push sends recs and marks the accepted ones synced in one transaction.
func (s *historyService) push(ctx context.Context, recs []models.HistoryRecord) (int, error) {
	wire := make([]rpc.Record, 0, len(recs))
	for _, r := range recs {
		wire = append(wire, toWire(r))
	}

	accepted, err := s.client.Push(ctx, wire)
	if err != nil {
		return 0, fmt.Errorf("push: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.history.WithDB(tx).MarkSynced(ctx, accepted)
	})
	if err != nil {
		return 0, fmt.Errorf("mark synced: %w", err)
	}
	return len(accepted), nil
}

func (s *historyService) Publish(ctx context.Context, id string) (string, error) {
	if s.client == nil {
		return "", common.ErrSyncDisabled
	}

	rec, err := s.history.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if rec.Pending {
		if _, err := s.push(ctx, []models.HistoryRecord{*rec}); err != nil {
			return "", err
		}
	}

	res, err := s.client.Publish(ctx, id)
	if err != nil {
		return "", fmt.Errorf("publish: %w", err)
	}

	if res.PutURL != "" {
		png, err := s.renderer.RenderPNG(rec.Content)
		if err != nil {
			return "", err
		}
		if err := uploadFn(ctx, res.PutURL, "image/png", png); err != nil {
			return "", fmt.Errorf("upload image: %w", err)
		}
		s.logger.Info(ctx, "image uploaded", "id", id, "key", res.Key)
	}
	return res.GetURL, nil
}

func (s *historyService) LastSync(ctx context.Context) (time.Time, bool, error) {
	v, ok, err := s.metadata.Get(ctx, metadata.KeyLastSyncAt)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("bad %s value %q: %w", metadata.KeyLastSyncAt, v, err)
	}
	return time.UnixMilli(ms).UTC(), true, nil
}

func toWire(r models.HistoryRecord) rpc.Record {
	return rpc.Record{
		ID:        r.ID,
		Content:   r.Content,
		Direction: string(r.Direction),
		Kind:      string(r.Kind),
		Timestamp: r.Timestamp.UnixMilli(),
		Deleted:   r.Deleted,
	}
}

func fromWire(r rpc.Record) models.HistoryRecord {
	return models.HistoryRecord{
		ID:        r.ID,
		Content:   r.Content,
		Direction: models.Direction(r.Direction),
		Kind:      payload.Kind(r.Kind),
		Timestamp: time.UnixMilli(r.Timestamp).UTC(),
	}
}

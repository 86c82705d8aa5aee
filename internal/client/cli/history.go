package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/kodex/internal/client/client"
	"github.com/dmitrijs2005/kodex/internal/client/models"
	"github.com/dmitrijs2005/kodex/internal/common"
	"github.com/dmitrijs2005/kodex/internal/filex"
	"github.com/dmitrijs2005/kodex/internal/payload"
)

const timeLayout = "2006-01-02 15:04:05"

func (a *App) List(ctx context.Context) error {
	recs, err := a.history.List(ctx)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		printlnFn("History is empty")
		return nil
	}
	for _, r := range recs {
		o := r.Overview()
		printlnFn(fmt.Sprintf("%s  %s  %-9s %-9s %s",
			o.ID, o.Timestamp.Local().Format(timeLayout), o.Direction, o.Kind.DisplayName(), o.Preview))
	}
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: show <id>")
		return nil
	}
	rec, err := a.history.Get(ctx, args[0])
	if err != nil {
		return err
	}

	printlnFn("ID:", rec.ID)
	printlnFn("Created:", rec.Timestamp.Local().Format(timeLayout))
	printlnFn("Direction:", rec.Direction)
	if rec.ImagePath != "" {
		printlnFn("Image:", rec.ImagePath)
	}
	if rec.Pending {
		printlnFn("Not synced yet")
	}
	printInspection(a.qr.Inspect(rec.Content))
	a.printCode(rec.Content)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: delete <id>")
		return nil
	}
	if err := a.history.Delete(ctx, args[0]); err != nil {
		return err
	}
	printlnFn("Deleted", args[0])
	return nil
}

// Share publishes the record image and prints its link. Without a sync
// server the image is written to the output directory instead. Kinds that
// carry a readable caption get it printed too.
func (a *App) Share(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: share <id>")
		return nil
	}
	rec, err := a.history.Get(ctx, args[0])
	if err != nil {
		return err
	}

	if a.apiClient == nil {
		path, err := a.shareImagePath(rec)
		if err != nil {
			return err
		}
		printlnFn("Image:", path)
	} else {
		url, err := a.history.Publish(ctx, rec.ID)
		if err != nil {
			return err
		}
		printlnFn("Link:", url)
	}
	if txt, ok := payload.ShareText(rec.Kind, rec.Content); ok {
		printlnFn(txt)
	}
	return nil
}

// shareImagePath returns the saved image of rec, rendering it into the
// output directory when the record has none on disk.
func (a *App) shareImagePath(rec *models.HistoryRecord) (string, error) {
	if rec.ImagePath != "" {
		if _, err := os.Stat(rec.ImagePath); err == nil {
			return rec.ImagePath, nil
		}
	}
	png, err := a.qr.RenderPNG(rec.Content)
	if err != nil {
		return "", err
	}
	path := filepath.Join(a.config.OutputDir, rec.ID+".png")
	if err := filex.WriteFile(path, png); err != nil {
		return "", err
	}
	return path, nil
}

// Export writes the history to a file. A ".zst" suffix selects zstd.
func (a *App) Export(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: export <path>")
		return nil
	}
	path := args[0]
	compress := strings.HasSuffix(path, ".zst")

	var buf bytes.Buffer
	n, err := a.history.Export(ctx, &buf, compress)
	if err != nil {
		return err
	}
	if err := filex.WriteFile(path, buf.Bytes()); err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Exported %d records to %s", n, path))
	return nil
}

func (a *App) Sync(ctx context.Context) error {
	rep, err := a.history.Sync(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			a.setMode(ModeOffline)
		}
		return err
	}
	a.setMode(ModeOnline)
	printlnFn(fmt.Sprintf("Pushed %d, pulled %d", rep.Pushed, rep.Pulled))
	if at, ok, err := a.history.LastSync(ctx); err == nil && ok {
		printlnFn("Last sync:", at.Local().Format(time.RFC3339))
	}
	return nil
}

// describeError turns service errors into short user-facing messages.
func describeError(err error) string {
	var mfe *payload.MissingFieldsError
	switch {
	case errors.As(err, &mfe):
		return mfe.Error()
	case errors.Is(err, common.ErrPayloadTooLarge):
		return "content is too long for a QR code: " + err.Error()
	case errors.Is(err, common.ErrNoCodeFound):
		return "no QR code found in the image"
	case errors.Is(err, common.ErrEmptyPayload):
		return "nothing to encode"
	case errors.Is(err, common.ErrorNotFound):
		return "record not found"
	case errors.Is(err, common.ErrSyncDisabled):
		return "no sync server configured (use -a)"
	case errors.Is(err, client.ErrUnavailable):
		return "sync server is unreachable"
	case errors.Is(err, client.ErrUnauthorized):
		return "access token was rejected"
	case errors.Is(err, payload.ErrUnknownKind):
		return err.Error() + " (see 'kinds')"
	case errors.Is(err, errFormAborted):
		return "required fields are still empty, form discarded"
	}
	return err.Error()
}

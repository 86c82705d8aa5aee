// Package services contains the kodex client application services: the QR
// pipeline (generate, preview, scan, inspect) and history management
// (list, delete, export, sync, publish).
package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/kodex/internal/client/models"
	"github.com/dmitrijs2005/kodex/internal/client/repositories/history"
	"github.com/dmitrijs2005/kodex/internal/common"
	"github.com/dmitrijs2005/kodex/internal/cryptox"
	"github.com/dmitrijs2005/kodex/internal/filex"
	"github.com/dmitrijs2005/kodex/internal/logging"
	"github.com/dmitrijs2005/kodex/internal/payload"
	"github.com/dmitrijs2005/kodex/internal/qrcode"
)

// QRService runs the generate and scan pipelines.
type QRService interface {
	// Build validates input, formats it and encrypts when requested or when
	// kind is KindEncrypted. The result is length-checked.
	Build(kind payload.Kind, in payload.Input, encrypt bool) (string, error)
	// Generate builds, renders and saves a code, and records it in history.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error)
	// Preview builds and renders on a transparent background without saving.
	Preview(kind payload.Kind, in payload.Input, encrypt bool) (image.Image, string, error)
	// ScanFile decodes an image file and records the result.
	ScanFile(ctx context.Context, path string) (*ScanResult, error)
	// ScanText records already-decoded text as a scan.
	ScanText(ctx context.Context, raw string) (*ScanResult, error)
	// Inspect decrypts (best effort) and classifies content for display.
	Inspect(content string) Inspection
	// RenderPNG renders content as a shareable PNG.
	RenderPNG(content string) ([]byte, error)
}

type GenerateRequest struct {
	Kind    payload.Kind
	Input   payload.Input
	Encrypt bool
}

type GenerateResult struct {
	Record    *models.HistoryRecord
	Payload   string
	ImagePath string
	// ShareText is empty when the kind is shared without a caption.
	ShareText string
}

// Inspection is the display breakdown of a payload.
type Inspection struct {
	Raw       string
	Content   string
	Encrypted bool
	Kind      payload.Kind
	Fields    []payload.Pair
	Multiline bool
	Link      bool
}

type ScanResult struct {
	Inspection
	Record *models.HistoryRecord
}

// QROptions configures rendering and limits.
type QROptions struct {
	OutputDir  string
	Size       int
	Foreground color.Color
	MaxLength  int
	Labels     payload.Labels
}

type qrService struct {
	repo   history.Repository
	opts   QROptions
	logger logging.Logger
	now    func() time.Time
}

func NewQRService(repo history.Repository, opts QROptions, l logging.Logger) QRService {
	if opts.Size <= 0 {
		opts.Size = qrcode.DefaultSize
	}
	if opts.Foreground == nil {
		opts.Foreground = color.Black
	}
	if opts.Labels == (payload.Labels{}) {
		opts.Labels = payload.DefaultLabels
	}
	return &qrService{
		repo:   repo,
		opts:   opts,
		logger: l.With("module", "qr_service"),
		now:    time.Now,
	}
}

func (s *qrService) Build(kind payload.Kind, in payload.Input, encrypt bool) (string, error) {
	if err := payload.Validate(kind, in); err != nil {
		return "", err
	}
	p := payload.Format(kind, in)
	if encrypt || kind == payload.KindEncrypted {
		p = cryptox.Encrypt(p)
	}
	if err := payload.CheckLength(p, s.opts.MaxLength); err != nil {
		return "", err
	}
	return p, nil
}

func (s *qrService) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	p, err := s.Build(req.Kind, req.Input, req.Encrypt)
	if err != nil {
		return nil, err
	}

	png, err := s.RenderPNG(p)
	if err != nil {
		return nil, err
	}

	kind := req.Kind
	if req.Encrypt {
		kind = payload.KindEncrypted
	}
	rec := models.NewRecord(p, models.DirectionGenerated, kind, s.now())

	if s.opts.OutputDir != "" {
		path := filepath.Join(s.opts.OutputDir, rec.ID+".png")
		if err := filex.WriteFile(path, png); err != nil {
			return nil, fmt.Errorf("save image: %w", err)
		}
		rec.ImagePath = path
	}

	if err := s.repo.Insert(ctx, rec); err != nil {
		return nil, fmt.Errorf("save history: %w", err)
	}
	s.logger.Info(ctx, "code generated", "id", rec.ID, "kind", kind, "length", payload.Length(p))

	res := &GenerateResult{Record: rec, Payload: p, ImagePath: rec.ImagePath}
	if txt, ok := payload.ShareText(kind, p); ok {
		res.ShareText = txt
	}
	return res, nil
}

func (s *qrService) Preview(kind payload.Kind, in payload.Input, encrypt bool) (image.Image, string, error) {
	p, err := s.Build(kind, in, encrypt)
	if err != nil {
		return nil, "", err
	}
	opts := qrcode.PreviewOptions(s.opts.Foreground)
	opts.Size = s.opts.Size
	img, err := qrcode.Render(p, opts)
	if err != nil {
		return nil, "", err
	}
	return img, p, nil
}

func (s *qrService) RenderPNG(content string) ([]byte, error) {
	opts := qrcode.ShareOptions(s.opts.Foreground)
	opts.Size = s.opts.Size

	var buf bytes.Buffer
	if err := qrcode.RenderPNG(&buf, content, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *qrService) ScanFile(ctx context.Context, path string) (*ScanResult, error) {
	raw, err := qrcode.DecodeFile(path)
	if err != nil {
		return nil, err
	}
	return s.ScanText(ctx, raw)
}

func (s *qrService) ScanText(ctx context.Context, raw string) (*ScanResult, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, common.ErrEmptyPayload
	}
	ins := s.Inspect(raw)

	rec := models.NewRecord(ins.Content, models.DirectionScanned, ins.Kind, s.now())
	if err := s.repo.Insert(ctx, rec); err != nil {
		return nil, fmt.Errorf("save history: %w", err)
	}
	s.logger.Info(ctx, "code scanned", "id", rec.ID, "kind", ins.Kind, "encrypted", ins.Encrypted)

	return &ScanResult{Inspection: ins, Record: rec}, nil
}

func (s *qrService) Inspect(raw string) Inspection {
	content := raw
	plain, ok := cryptox.TryDecrypt(raw)
	if ok {
		content = plain
	}
	return Inspection{
		Raw:       raw,
		Content:   content,
		Encrypted: ok && plain != raw,
		Kind:      payload.Classify(content),
		Fields:    payload.Describe(content, s.opts.Labels),
		Multiline: payload.UsesMultilineDisplay(content),
		Link:      payload.IsLink(content),
	}
}

// Package qrcode renders payload strings to QR images and reads them back.
package qrcode

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	"github.com/dmitrijs2005/kodex/internal/common"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/makiuchi-d/gozxing/qrcode/decoder"
)

// DefaultSize is the edge length in pixels of rendered images.
const DefaultSize = 512

// DefaultMargin is the quiet zone width in modules.
const DefaultMargin = 4

// RenderOptions controls raster output.
type RenderOptions struct {
	Size       int
	Margin     int
	Foreground color.Color
	Background color.Color
}

// PreviewOptions renders dark modules in fg over a transparent background.
func PreviewOptions(fg color.Color) RenderOptions {
	return RenderOptions{Size: DefaultSize, Margin: DefaultMargin, Foreground: fg, Background: color.Transparent}
}

// ShareOptions renders dark modules in fg over white, which is what saved
// and shared images use.
func ShareOptions(fg color.Color) RenderOptions {
	return RenderOptions{Size: DefaultSize, Margin: DefaultMargin, Foreground: fg, Background: color.White}
}

// Encode builds the module matrix for content with error correction level
// L. A size of 0 yields one pixel per module.
func Encode(content string, size, margin int) (*gozxing.BitMatrix, error) {
	if content == "" {
		return nil, common.ErrEmptyPayload
	}
	hints := map[gozxing.EncodeHintType]interface{}{
		gozxing.EncodeHintType_ERROR_CORRECTION: decoder.ErrorCorrectionLevel_L,
		gozxing.EncodeHintType_CHARACTER_SET:    "UTF-8",
		gozxing.EncodeHintType_MARGIN:           margin,
	}
	m, err := qrcode.NewQRCodeWriter().Encode(content, gozxing.BarcodeFormat_QR_CODE, size, size, hints)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return m, nil
}

// Render draws content as an RGBA image.
func Render(content string, opts RenderOptions) (image.Image, error) {
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	if opts.Foreground == nil {
		opts.Foreground = color.Black
	}
	if opts.Background == nil {
		opts.Background = color.White
	}

	m, err := Encode(content, opts.Size, opts.Margin)
	if err != nil {
		return nil, err
	}

	w, h := m.GetWidth(), m.GetHeight()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if m.Get(x, y) {
				img.Set(x, y, opts.Foreground)
			} else {
				img.Set(x, y, opts.Background)
			}
		}
	}
	return img, nil
}

// RenderPNG writes content to w as a PNG image.
func RenderPNG(w io.Writer, content string, opts RenderOptions) error {
	img, err := Render(content, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// RenderText draws content with Unicode half blocks, two module rows per
// text line. When invert is set, dark modules are left blank, which scans
// better on terminals with a dark background.
func RenderText(content string, invert bool) (string, error) {
	m, err := Encode(content, 0, 2)
	if err != nil {
		return "", err
	}

	w, h := m.GetWidth(), m.GetHeight()
	dark := func(x, y int) bool {
		if y >= h {
			return invert
		}
		return m.Get(x, y) != invert
	}

	var sb strings.Builder
	for y := 0; y < h; y += 2 {
		for x := 0; x < w; x++ {
			top, bottom := dark(x, y), dark(x, y+1)
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

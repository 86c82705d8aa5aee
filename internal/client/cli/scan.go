package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/kodex/internal/client/services"
)

func (a *App) Scan(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: scan <image>")
		return nil
	}
	res, err := a.qr.ScanFile(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	printlnFn("Saved record", res.Record.ID)
	printInspection(res.Inspection)
	return nil
}

// Read records text that was decoded elsewhere, e.g. by a phone camera.
// Without arguments the text is read until an empty line.
func (a *App) Read(ctx context.Context, args []string) error {
	raw := strings.Join(args, " ")
	if raw == "" {
		v, err := GetMultiline(a.reader, "Paste the decoded text", a.out)
		if err != nil {
			return err
		}
		raw = v
	}
	res, err := a.qr.ScanText(ctx, raw)
	if err != nil {
		return err
	}
	printlnFn("Saved record", res.Record.ID)
	printInspection(res.Inspection)
	return nil
}

func printInspection(ins services.Inspection) {
	header := "Kind: " + ins.Kind.DisplayName()
	if ins.Encrypted {
		header += " (decrypted)"
	}
	printlnFn(header)

	switch {
	case ins.Multiline:
		for _, f := range ins.Fields {
			printlnFn(fmt.Sprintf("%s: %s", f.Label, f.Value))
		}
	case strings.Contains(ins.Content, "\n"):
		printlnFn("Content:")
		printlnFn("  " + strings.ReplaceAll(ins.Content, "\n", "\n  "))
	default:
		printlnFn("Content: " + ins.Content)
	}
	if ins.Link {
		printlnFn("Open:", ins.Content)
	}
}

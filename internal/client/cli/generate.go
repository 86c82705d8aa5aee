package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/kodex/internal/client/generator"
	"github.com/dmitrijs2005/kodex/internal/client/services"
	"github.com/dmitrijs2005/kodex/internal/payload"
	"github.com/dmitrijs2005/kodex/internal/qrcode"
)

// maxFormAttempts bounds how often missing fields are asked for again.
const maxFormAttempts = 3

var errFormAborted = errors.New("form not completed")

func (a *App) Kinds(ctx context.Context) error {
	for _, k := range payload.Kinds() {
		req := payload.RequiredFields(k)
		printlnFn(fmt.Sprintf("%-10s requires: %s", k.DisplayName(), strings.Join(req, ", ")))
	}
	return nil
}

// Generate fills the form for a kind, saves the rendered image and records
// the payload in history.
func (a *App) Generate(ctx context.Context, args []string) error {
	st, err := a.fillForm(args)
	if err != nil {
		return err
	}

	res, err := a.qr.Generate(ctx, services.GenerateRequest{
		Kind:    st.Kind,
		Input:   st.Fields,
		Encrypt: st.Encrypt,
	})
	if err != nil {
		return err
	}

	printlnFn("Saved record", res.Record.ID)
	if res.ImagePath != "" {
		printlnFn("Image:", res.ImagePath)
	}
	printlnFn("Payload:", res.Payload)
	if res.ShareText != "" {
		printlnFn("Share text:", res.ShareText)
	}
	a.printCode(res.Payload)
	return nil
}

// Preview fills the form and shows the code without saving anything.
func (a *App) Preview(ctx context.Context, args []string) error {
	st, err := a.fillForm(args)
	if err != nil {
		return err
	}

	img, p, err := a.qr.Preview(st.Kind, st.Fields, st.Encrypt)
	if err != nil {
		return err
	}
	b := img.Bounds()
	printlnFn(fmt.Sprintf("Preview %dx%d, %d characters", b.Dx(), b.Dy(), payload.Length(p)))
	printlnFn("Payload:", p)
	a.printCode(p)
	return nil
}

// fillForm picks the kind from args or a prompt, then asks for every field.
// Fields reported missing by the build step are asked for again.
func (a *App) fillForm(args []string) (generator.State, error) {
	kind, err := a.chooseKind(args)
	if err != nil {
		return generator.State{}, err
	}

	st := generator.New(kind)
	for _, spec := range st.Specs() {
		v, err := a.askField(spec)
		if err != nil {
			return st, err
		}
		st = st.SetField(spec.Name, v)
	}

	if kind != payload.KindEncrypted {
		enc, err := GetYesNo(a.reader, "Encrypt content?", a.out)
		if err != nil {
			return st, err
		}
		st = st.SetEncrypt(enc)
	}

	for attempt := 0; attempt < maxFormAttempts; attempt++ {
		next, err := st.Submit(a.qr.Build)
		if err == nil {
			return next, nil
		}
		var mfe *payload.MissingFieldsError
		if !errors.As(err, &mfe) {
			return next, err
		}

		printlnFn("Required fields are empty:", strings.Join(mfe.Fields, ", "))
		st = next
		for _, spec := range st.Specs() {
			if !st.HasError(spec.Name) {
				continue
			}
			v, err := a.askField(spec)
			if err != nil {
				return st, err
			}
			st = st.SetField(spec.Name, v)
		}
	}
	return st, errFormAborted
}

func (a *App) chooseKind(args []string) (payload.Kind, error) {
	name := ""
	if len(args) > 0 {
		name = args[0]
	} else {
		names := make([]string, 0, len(payload.Kinds()))
		for _, k := range payload.Kinds() {
			names = append(names, k.DisplayName())
		}
		v, err := GetSimpleText(a.reader, "Kind ("+strings.Join(names, ", ")+") [plain]", a.out)
		if err != nil {
			return "", err
		}
		name = v
	}
	if name == "" {
		return payload.KindText, nil
	}
	return payload.ParseKind(name)
}

func (a *App) askField(spec payload.FieldSpec) (string, error) {
	if spec.Name == payload.FieldPassword && a.tty {
		return GetPassword(spec.Label, a.out)
	}
	return GetField(a.reader, spec, a.out)
}

// printCode draws the code with half-block characters on a terminal.
func (a *App) printCode(content string) {
	if !a.tty {
		return
	}
	txt, err := qrcode.RenderText(content, false)
	if err != nil {
		a.logger.Warn(context.Background(), "text render failed", "error", err)
		return
	}
	printlnFn(txt)
}

package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract runs recognition in-process through libtesseract. A fresh client
// is created per call because gosseract clients are not goroutine-safe.
type Tesseract struct {
	opts Options
}

func NewTesseract(opts Options) *Tesseract {
	return &Tesseract{opts: opts.withDefaults()}
}

// Recognize cannot interrupt libtesseract once it starts. ctx is checked
// before and after, and a result produced past the deadline is discarded,
// but the call itself has no hard deadline. Use CLI when one is needed.
func (t *Tesseract) Recognize(ctx context.Context, img []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.opts.Language); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PageSegMode(t.opts.PageSegMode)); err != nil {
		return "", fmt.Errorf("set page seg mode: %w", err)
	}
	if t.opts.PreserveInterwordSpaces {
		if err := client.SetVariable("preserve_interword_spaces", "1"); err != nil {
			return "", fmt.Errorf("set preserve_interword_spaces: %w", err)
		}
	}
	if err := client.SetImageFromBytes(img); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract OCR failed: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return text, nil
}

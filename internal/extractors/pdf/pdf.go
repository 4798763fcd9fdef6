package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	pdfreader "github.com/ledongthuc/pdf"

	"github.com/toricodesthings/engagement-extract-service/internal/extract"
)

var (
	ErrEmptyDocument = errors.New("empty PDF content")
	ErrNoTextLayer   = errors.New("pdf has no extractable text")
	ErrEncrypted     = errors.New("pdf is password protected")
)

// Extractor reads the embedded text layer of a PDF held in memory. Scanned
// pages are not OCR'd.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Name() string { return "document/pdf" }

func (e *Extractor) Kind() extract.Kind { return extract.KindPDF }

// Extract returns page text joined by newlines and trimmed. Encrypted,
// malformed or image-only documents return "" and a reason.
func (e *Extractor) Extract(ctx context.Context, doc extract.Document) (text string, err error) {
	if len(doc.Data) == 0 {
		return "", ErrEmptyDocument
	}

	defer func() {
		if p := recover(); p != nil {
			text, err = "", fmt.Errorf("pdf parser panic: %v", p)
		}
	}()

	r, err := pdfreader.NewReader(bytes.NewReader(doc.Data), int64(len(doc.Data)))
	if errors.Is(err, pdfreader.ErrInvalidPassword) {
		return "", ErrEncrypted
	}
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(pageText)
	}

	text = strings.TrimSpace(b.String())
	if text == "" {
		return "", ErrNoTextLayer
	}
	return text, nil
}

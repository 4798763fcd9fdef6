package image

import (
	"context"
	"fmt"

	"github.com/toricodesthings/engagement-extract-service/internal/extract"
	img "github.com/toricodesthings/engagement-extract-service/internal/image"
	"github.com/toricodesthings/engagement-extract-service/internal/logging"
	"github.com/toricodesthings/engagement-extract-service/internal/ocr"
)

// Extractor runs the screenshot chain: preprocess into two variants, race
// OCR over them, then strip feed chrome from the winner.
type Extractor struct {
	prep  *img.Preprocessor
	racer *ocr.Racer
	log   *logging.Logger
}

func New(prep *img.Preprocessor, racer *ocr.Racer, log *logging.Logger) *Extractor {
	if log == nil {
		log = logging.Nop()
	}
	return &Extractor{prep: prep, racer: racer, log: log}
}

func (e *Extractor) Name() string { return "image/ocr" }

func (e *Extractor) Kind() extract.Kind { return extract.KindImage }

func (e *Extractor) Extract(ctx context.Context, doc extract.Document) (string, error) {
	variants, err := e.prep.Prepare(doc.Data)
	if err != nil {
		return "", fmt.Errorf("preprocess: %w", err)
	}

	logging.FromContext(ctx, e.log).WithComponent("image").Debug().
		Int("width", variants.Width).
		Int("height", variants.Height).
		Bool("cropped", variants.Cropped).
		Msg("image prepared")

	// Prepped goes first so it wins density ties.
	raw := e.racer.Race(ctx, variants.Prepped, variants.Resized)

	text := ocr.StripChrome(raw)
	if text == "" {
		return "", ocr.ErrNoText
	}
	return text, nil
}

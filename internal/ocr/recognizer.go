// Package ocr runs Tesseract over image variants, picks the densest result and
// strips social-platform chrome from the recognized text.
package ocr

import (
	"context"
	"errors"
)

// PSMSingleBlock is Tesseract page segmentation mode 6: a single uniform block of text.
const PSMSingleBlock = 6

var (
	// ErrNoText means recognition finished but nothing survived cleanup.
	ErrNoText = errors.New("ocr produced no text")

	// ErrAllAttemptsFailed means every variant's recognition returned an error.
	ErrAllAttemptsFailed = errors.New("all ocr attempts failed")
)

// Options configure a single recognition call.
type Options struct {
	Language    string
	PageSegMode int
	// PreserveInterwordSpaces keeps "#tag" and "@name" as single tokens.
	PreserveInterwordSpaces bool
}

// DefaultOptions is English, single block, spacing preserved.
func DefaultOptions() Options {
	return Options{
		Language:                "eng",
		PageSegMode:             PSMSingleBlock,
		PreserveInterwordSpaces: true,
	}
}

func (o Options) withDefaults() Options {
	if o.Language == "" {
		o.Language = "eng"
	}
	if o.PageSegMode <= 0 {
		o.PageSegMode = PSMSingleBlock
	}
	return o
}

// Recognizer turns an encoded raster into text. Implementations must be safe
// for concurrent use.
type Recognizer interface {
	Recognize(ctx context.Context, img []byte) (string, error)
}

// RecognizerFunc adapts a function to Recognizer.
type RecognizerFunc func(ctx context.Context, img []byte) (string, error)

func (f RecognizerFunc) Recognize(ctx context.Context, img []byte) (string, error) {
	return f(ctx, img)
}

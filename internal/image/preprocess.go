// Package image prepares uploaded rasters for OCR: orientation, feed-chrome
// cropping and the two candidate encodings the recognizer races.
package image

import (
	"bytes"
	"errors"
	"fmt"
	stdimage "image"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"
)

var (
	ErrNotImage      = errors.New("not a raster image")
	ErrImageTooLarge = errors.New("image dimensions exceed limit")
)

// Options control cropping and binarization. Images taller than
// TallThreshold lose TopCropRatio and BottomCropRatio of their height when
// CropTall is set, never leaving less than MinHeight. Luminance below
// Threshold becomes black, at or above becomes white.
type Options struct {
	CropTall        bool
	TallThreshold   int
	TopCropRatio    float64
	BottomCropRatio float64
	MinHeight       int
	Threshold       uint8
	MaxPixels       int
}

func DefaultOptions() Options {
	return Options{
		CropTall:        true,
		TallThreshold:   600,
		TopCropRatio:    0.12,
		BottomCropRatio: 0.18,
		MinHeight:       50,
		Threshold:       165,
		MaxPixels:       50_000_000,
	}
}

// Variants are the two PNG encodings submitted to OCR. Resized is the
// oriented, possibly cropped image; Prepped is the same pixels in grayscale,
// contrast-stretched and binarized.
type Variants struct {
	Resized []byte
	Prepped []byte
	Width   int
	Height  int
	Cropped bool
}

type Preprocessor struct {
	opts Options
}

func New(opts Options) *Preprocessor {
	d := DefaultOptions()
	if opts.TallThreshold <= 0 {
		opts.TallThreshold = d.TallThreshold
	}
	if opts.MinHeight <= 0 {
		opts.MinHeight = d.MinHeight
	}
	if opts.Threshold == 0 {
		opts.Threshold = d.Threshold
	}
	if opts.MaxPixels <= 0 {
		opts.MaxPixels = d.MaxPixels
	}
	return &Preprocessor{opts: opts}
}

// Prepare decodes data and returns both OCR variants. It is deterministic.
func (p *Preprocessor) Prepare(data []byte) (Variants, error) {
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return Variants{}, fmt.Errorf("%w: detected %s", ErrNotImage, mt.String())
	}

	cfg, _, err := stdimage.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Variants{}, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	if cfg.Width*cfg.Height > p.opts.MaxPixels {
		return Variants{}, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return Variants{}, fmt.Errorf("decode image: %w", err)
	}

	working, cropped := p.crop(src)

	var resized bytes.Buffer
	if err := imaging.Encode(&resized, working, imaging.PNG); err != nil {
		return Variants{}, fmt.Errorf("encode resized variant: %w", err)
	}

	var prepped bytes.Buffer
	if err := imaging.Encode(&prepped, binarize(working, p.opts.Threshold), imaging.PNG); err != nil {
		return Variants{}, fmt.Errorf("encode prepped variant: %w", err)
	}

	b := working.Bounds()
	return Variants{
		Resized: resized.Bytes(),
		Prepped: prepped.Bytes(),
		Width:   b.Dx(),
		Height:  b.Dy(),
		Cropped: cropped,
	}, nil
}

// crop removes the top and bottom bands of tall screenshots, keeping full width.
func (p *Preprocessor) crop(src stdimage.Image) (stdimage.Image, bool) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if !p.opts.CropTall || h <= p.opts.TallThreshold {
		return src, false
	}

	top := int(math.Round(float64(h) * p.opts.TopCropRatio))
	bottom := int(math.Round(float64(h) * p.opts.BottomCropRatio))
	keep := h - top - bottom
	if keep < p.opts.MinHeight {
		keep = p.opts.MinHeight
	}
	if top+keep > h {
		keep = h - top
	}
	if keep <= 0 {
		return src, false
	}

	rect := stdimage.Rect(b.Min.X, b.Min.Y+top, b.Min.X+w, b.Min.Y+top+keep)
	return imaging.Crop(src, rect), true
}

// binarize converts to grayscale, stretches the 1st..99th luminance
// percentiles to the full range, then thresholds.
func binarize(src stdimage.Image, threshold uint8) *stdimage.Gray {
	gray := imaging.Grayscale(src)
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()

	out := stdimage.NewGray(stdimage.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return out
	}

	var hist [256]int
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+w*4]
		for x := 0; x < w; x++ {
			hist[row[x*4]]++
		}
	}
	lo, hi := percentile(hist, w*h, 0.01), percentile(hist, w*h, 0.99)

	var lut [256]uint8
	for v := 0; v < 256; v++ {
		s := v
		if hi > lo {
			s = (v - lo) * 255 / (hi - lo)
			s = max(0, min(255, s))
		}
		if s >= int(threshold) {
			lut[v] = 255
		}
	}

	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+w*4]
		dst := out.Pix[y*out.Stride : y*out.Stride+w]
		for x := 0; x < w; x++ {
			dst[x] = lut[row[x*4]]
		}
	}
	return out
}

// percentile returns the smallest level whose cumulative count reaches q of total.
func percentile(hist [256]int, total int, q float64) int {
	target := int(math.Ceil(float64(total) * q))
	if target < 1 {
		target = 1
	}
	cum := 0
	for v, n := range hist {
		cum += n
		if cum >= target {
			return v
		}
	}
	return 255
}

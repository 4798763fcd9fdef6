package ocr

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/toricodesthings/engagement-extract-service/internal/logging"
)

// Attempt is the outcome of recognizing one variant.
type Attempt struct {
	Text     string
	Err      error
	Duration time.Duration
}

// Succeeded reports whether the attempt produced a usable result.
func (a Attempt) Succeeded() bool { return a.Err == nil }

// Density counts ASCII letters and digits; it is a cheap proxy for how much
// real content an OCR pass recovered.
func Density(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			n++
		}
	}
	return n
}

// Select returns the index of the densest successful attempt, or -1 if none
// succeeded. Failed attempts never win. Ties go to the earlier attempt.
func Select(attempts []Attempt) int {
	best, bestScore := -1, 0
	for i, a := range attempts {
		if !a.Succeeded() {
			continue
		}
		score := Density(a.Text)
		if best < 0 || score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// Racer runs the same recognizer over several image variants concurrently
// and keeps the densest text.
type Racer struct {
	rec            Recognizer
	attemptTimeout time.Duration
	log            *logging.Logger
}

func NewRacer(rec Recognizer, attemptTimeout time.Duration, log *logging.Logger) *Racer {
	if log == nil {
		log = logging.Nop()
	}
	return &Racer{rec: rec, attemptTimeout: attemptTimeout, log: log}
}

// Run recognizes every variant concurrently and waits for all of them.
// A failing or timed-out attempt does not affect the others. Run returns only
// once every recognizer has returned, so the wall-clock bound is as tight as
// the recognizer's own context handling.
func (r *Racer) Run(ctx context.Context, variants ...[]byte) []Attempt {
	attempts := make([]Attempt, len(variants))

	var g errgroup.Group
	for i, img := range variants {
		g.Go(func() error {
			attempts[i] = r.attempt(ctx, img)
			return nil
		})
	}
	_ = g.Wait()

	return attempts
}

// Race returns the trimmed text of the densest successful attempt. The first
// variant wins ties. When every attempt fails the result is "".
func (r *Racer) Race(ctx context.Context, variants ...[]byte) string {
	attempts := r.Run(ctx, variants...)
	log := logging.FromContext(ctx, r.log).WithComponent("ocr")

	for i, a := range attempts {
		ev := log.Debug()
		if !a.Succeeded() {
			ev = log.Warn().Err(a.Err)
		}
		ev.Int("variant", i).Int("density", Density(a.Text)).Dur("took", a.Duration).Msg("ocr attempt finished")
	}

	best := Select(attempts)
	if best < 0 {
		log.Warn().Err(ErrAllAttemptsFailed).Int("variants", len(variants)).Msg("ocr race produced nothing")
		return ""
	}
	return attempts[best].Text
}

func (r *Racer) attempt(ctx context.Context, img []byte) (a Attempt) {
	start := time.Now()
	defer func() { a.Duration = time.Since(start) }()
	defer func() {
		if p := recover(); p != nil {
			a = Attempt{Err: fmt.Errorf("recognizer panic: %v", p)}
		}
	}()

	if r.attemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.attemptTimeout)
		defer cancel()
	}

	text, err := r.rec.Recognize(ctx, img)
	if err != nil {
		return Attempt{Err: err}
	}
	// A result that arrives after the budget is spent is a failed attempt.
	if err := ctx.Err(); err != nil {
		return Attempt{Err: err}
	}
	return Attempt{Text: strings.TrimSpace(text)}
}

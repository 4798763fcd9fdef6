package ocr

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// limited bounds how many recognitions run at once across all requests.
type limited struct {
	next Recognizer
	sem  *semaphore.Weighted
}

// WithConcurrencyLimit wraps r so that at most max calls run concurrently.
// max <= 0 returns r unchanged.
func WithConcurrencyLimit(r Recognizer, max int64) Recognizer {
	if max <= 0 {
		return r
	}
	return &limited{next: r, sem: semaphore.NewWeighted(max)}
}

func (l *limited) Recognize(ctx context.Context, img []byte) (string, error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer l.sem.Release(1)
	return l.next.Recognize(ctx, img)
}

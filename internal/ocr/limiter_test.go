package ocr

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithConcurrencyLimitCapsInFlight(t *testing.T) {
	var inFlight, peak int32
	rec := RecognizerFunc(func(ctx context.Context, img []byte) (string, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return "ok", nil
	})

	limitedRec := WithConcurrencyLimit(rec, 2)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = limitedRec.Recognize(context.Background(), nil)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestWithConcurrencyLimitHonorsContext(t *testing.T) {
	block := make(chan struct{})
	rec := RecognizerFunc(func(ctx context.Context, img []byte) (string, error) {
		<-block
		return "ok", nil
	})
	limitedRec := WithConcurrencyLimit(rec, 1)

	go func() { _, _ = limitedRec.Recognize(context.Background(), nil) }()
	time.Sleep(10 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := limitedRec.Recognize(ctx, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(block)
}

func TestWithConcurrencyLimitDisabled(t *testing.T) {
	rec := RecognizerFunc(func(ctx context.Context, img []byte) (string, error) { return "ok", nil })
	_, wrapped := WithConcurrencyLimit(rec, 0).(*limited)
	assert.False(t, wrapped)
}

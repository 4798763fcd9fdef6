package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var ErrTooLarge = errors.New("file exceeds upload limit")

// ReadLimited buffers body in memory, failing with ErrTooLarge once more than
// maxBytes have been read.
func ReadLimited(body io.Reader, maxBytes int64) ([]byte, error) {
	var buf bytes.Buffer
	lr := &io.LimitedReader{R: body, N: maxBytes + 1}
	n, err := io.Copy(&buf, lr)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if n > maxBytes {
		return nil, fmt.Errorf("%w (%dMB)", ErrTooLarge, maxBytes/(1<<20))
	}
	return buf.Bytes(), nil
}

// Sniff reports the media type detected from content. Dispatch always uses
// the declared type; this is only for diagnostics.
func Sniff(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	return strings.ToLower(mimetype.Detect(data).String())
}

// sameFamily reports whether declared and detected agree on Kind.
func sameFamily(declared, detected string) bool {
	dk, err := ParseMediaType(declared)
	if err != nil {
		return false
	}
	sk, err := ParseMediaType(detected)
	if err != nil {
		return false
	}
	return dk == sk
}

package extract

import (
	"errors"
	"strings"
)

// Kind is the closed set of inputs the pipeline accepts.
type Kind int

const (
	KindUnknown Kind = iota
	KindPDF
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindPDF:
		return "pdf"
	case KindImage:
		return "image"
	default:
		return "unknown"
	}
}

// ErrUnsupportedType matches any *UnsupportedTypeError via errors.Is.
var ErrUnsupportedType = errors.New("unsupported type")

// UnsupportedTypeError carries the declared media type that was rejected.
type UnsupportedTypeError struct {
	MediaType string
}

func (e *UnsupportedTypeError) Error() string {
	return "Unsupported type: " + e.MediaType
}

func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}

// ParseMediaType maps a declared media type to a Kind. Parameters after the
// first ';' are ignored. The type itself must be exactly application/pdf, or
// have image as its type component. Everything else is unsupported.
func ParseMediaType(declared string) (Kind, error) {
	head, _, _ := strings.Cut(strings.TrimSpace(declared), ";")
	head = strings.TrimSpace(head)

	if head == "application/pdf" {
		return KindPDF, nil
	}
	if primary, _, ok := strings.Cut(head, "/"); ok && primary == "image" {
		return KindImage, nil
	}
	return KindUnknown, &UnsupportedTypeError{MediaType: declared}
}

package extract

import (
	"context"
	"errors"
	"testing"
)

type stubExtractor struct {
	name  string
	kind  Kind
	text  string
	err   error
	calls int
	seen  Document
}

func (s *stubExtractor) Extract(ctx context.Context, doc Document) (string, error) {
	s.calls++
	s.seen = doc
	return s.text, s.err
}
func (s *stubExtractor) Kind() Kind   { return s.kind }
func (s *stubExtractor) Name() string { return s.name }

func TestResolveByKind(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubExtractor{name: "pdf", kind: KindPDF})
	r.Register(&stubExtractor{name: "image", kind: KindImage})

	e, err := r.Resolve(KindImage)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if e.Name() != "image" {
		t.Fatalf("expected image extractor, got %q", e.Name())
	}
}

func TestResolveMissingKind(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubExtractor{name: "pdf", kind: KindPDF})

	_, err := r.Resolve(KindImage)
	if !errors.Is(err, ErrNoExtractor) {
		t.Fatalf("expected ErrNoExtractor, got %v", err)
	}
}

func TestRegisterReplacesSameKind(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubExtractor{name: "pdf-v1", kind: KindPDF})
	r.Register(&stubExtractor{name: "image", kind: KindImage})
	r.Register(&stubExtractor{name: "pdf-v2", kind: KindPDF})

	e, _ := r.Resolve(KindPDF)
	if e.Name() != "pdf-v2" {
		t.Fatalf("expected pdf-v2, got %q", e.Name())
	}
	names := r.Names()
	if len(names) != 2 || names[0] != "pdf-v2" || names[1] != "image" {
		t.Fatalf("unexpected names %v", names)
	}
}

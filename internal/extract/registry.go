package extract

import (
	"errors"
	"fmt"
)

var ErrNoExtractor = errors.New("no extractor registered")

type Registry struct {
	byKind     map[Kind]Extractor
	extractors []Extractor
}

func NewRegistry() *Registry {
	return &Registry{
		byKind:     make(map[Kind]Extractor),
		extractors: make([]Extractor, 0),
	}
}

// Register adds e. A later registration for the same Kind replaces the earlier one.
func (r *Registry) Register(e Extractor) {
	if prev, ok := r.byKind[e.Kind()]; ok {
		for i, x := range r.extractors {
			if x == prev {
				r.extractors[i] = e
			}
		}
	} else {
		r.extractors = append(r.extractors, e)
	}
	r.byKind[e.Kind()] = e
}

func (r *Registry) Resolve(kind Kind) (Extractor, error) {
	if e, ok := r.byKind[kind]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("%w for kind=%s", ErrNoExtractor, kind)
}

// Names lists registered extractors in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.extractors))
	for _, e := range r.extractors {
		names = append(names, e.Name())
	}
	return names
}

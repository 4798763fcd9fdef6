package extract

import (
	"context"
	"errors"
	"time"

	"github.com/toricodesthings/engagement-extract-service/internal/analysis"
	"github.com/toricodesthings/engagement-extract-service/internal/logging"
)

// Pipeline dispatches a document to the extractor for its declared type and
// runs engagement analysis over whatever text comes back.
type Pipeline struct {
	registry *Registry
	log      *logging.Logger
}

func NewPipeline(registry *Registry, log *logging.Logger) *Pipeline {
	if log == nil {
		log = logging.Nop()
	}
	return &Pipeline{registry: registry, log: log}
}

// Run extracts text from doc. Only an unsupported media type or a missing
// extractor is returned as an error; extractor failures degrade to "".
func (p *Pipeline) Run(ctx context.Context, doc Document) (Result, error) {
	kind, err := ParseMediaType(doc.MediaType)
	if err != nil {
		return Result{}, err
	}

	extractor, err := p.registry.Resolve(kind)
	if err != nil {
		return Result{}, err
	}

	log := logging.FromContext(ctx, p.log).WithComponent("pipeline")
	if detected := Sniff(doc.Data); detected != "" && !sameFamily(doc.MediaType, detected) {
		log.Debug().Str("declared", doc.MediaType).Str("detected", detected).Msg("declared type disagrees with content")
	}

	start := time.Now()
	text, err := extractor.Extract(ctx, doc)
	if err != nil {
		log.Warn().Err(err).
			Str("extractor", extractor.Name()).
			Str("file", doc.Name).
			Dur("took", time.Since(start)).
			Msg("extraction failed, continuing with empty text")
		text = ""
	} else {
		log.Info().
			Str("extractor", extractor.Name()).
			Int("size", len(doc.Data)).
			Int("chars", len(text)).
			Dur("took", time.Since(start)).
			Msg("extraction complete")
	}

	return Result{Text: text, Kind: kind}, nil
}

// Extract is the boundary operation: bytes plus declared type in, envelope
// out. Analysis always runs, including over empty text.
func (p *Pipeline) Extract(ctx context.Context, data []byte, mediaType, name string) Envelope {
	res, err := p.Run(ctx, Document{Data: data, MediaType: mediaType, Name: name})
	if err != nil {
		var unsupported *UnsupportedTypeError
		if errors.As(err, &unsupported) {
			return Failure(unsupported.Error())
		}
		logging.FromContext(ctx, p.log).Error().Err(err).Msg("pipeline misconfigured")
		return Failure("Extraction failed")
	}

	return Envelope{
		OK:       true,
		File:     FileInfo{Name: name, Type: mediaType},
		Text:     res.Text,
		Analysis: analysis.Analyze(res.Text),
	}
}

package extract

import "context"

// Extractor turns one kind of document into plain text. An error means the
// text could not be recovered; the pipeline degrades it to "".
type Extractor interface {
	Extract(ctx context.Context, doc Document) (string, error)
	Kind() Kind
	Name() string
}

package transformer

import (
	"fmt"

	"github.com/WordPressNewsAggregator/internal/domain"
)

// Options carries the collaborators some transformers need.
type Options struct {
	Media            domain.MediaResolver
	MediaConcurrency int
}

// GetTransformer returns the transformer for a source kind.
func GetTransformer(kind domain.SourceKind, opts Options) (domain.Transformer, error) {
	switch kind {
	case domain.SourceWordPressCom:
		return NewWordPressComTransformer(), nil
	case domain.SourceWordPressOrg:
		return NewWordPressOrgTransformer(opts.Media, opts.MediaConcurrency), nil
	default:
		return nil, fmt.Errorf("transformer not found: %s", kind)
	}
}

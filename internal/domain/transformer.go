package domain

import (
	"context"
	"io"
)

// Transformer decodes one page of a source's payload into Posts.
type Transformer interface {
	Transform(ctx context.Context, reader io.Reader) ([]Post, error)
}

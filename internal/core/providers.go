package core

import (
	"context"
	"errors"
)

// ErrMalformedGeneration is returned by a Generator when the backend answered
// but produced no usable generated text.
var ErrMalformedGeneration = errors.New("malformed generation result")

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

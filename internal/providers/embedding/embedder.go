package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/config"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/pkg/log"
)

var ErrUnknownProvider = errors.New("unknown embedding provider")

// Model is a raw embedding backend.
type Model interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Embedder bounds every backend call by a timeout and the model's token window.
type Embedder struct {
	model     Model
	timeout   time.Duration
	maxTokens int
}

func NewEmbedder(model Model, timeout time.Duration, maxTokens int) *Embedder {
	return &Embedder{
		model:     model,
		timeout:   timeout,
		maxTokens: maxTokens,
	}
}

// NewFromConfig picks the backend named by cfg.Provider.
func NewFromConfig(ctx context.Context, cfg *config.EmbeddingConfig) (*Embedder, error) {
	log.FromCtx(ctx).Info().
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Msg("starting embedding provider")

	var model Model
	switch cfg.Provider {
	case "ollama":
		model = NewOllama(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case "openai":
		model = NewOpenAI(cfg.BaseURL, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
	return NewEmbedder(model, cfg.Timeout, cfg.MaxTokens), nil
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	input, err := truncateTokens(text, e.maxTokens)
	if err != nil {
		return nil, err
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	vec, err := e.model.Embed(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to embed text: %w", err)
	}
	return vec, nil
}

package generation

import (
	"context"
	"errors"
	"fmt"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/config"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/core"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/pkg/log"
)

var ErrUnknownProvider = errors.New("unknown generation provider")

// NewFromConfig creates the Generator named by cfg.Provider.
func NewFromConfig(ctx context.Context, cfg *config.GeneratorConfig) (core.Generator, error) {
	log.FromCtx(ctx).Info().
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Msg("starting generation provider")

	switch cfg.Provider {
	case "huggingface":
		return NewHuggingFace(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Timeout, Params{
			MaxLength:     cfg.MaxLength,
			NumBeams:      cfg.NumBeams,
			EarlyStopping: cfg.EarlyStopping,
		}), nil
	case "openai":
		return NewOpenAICompatible(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Timeout, cfg.MaxLength), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}

package config

import (
	"context"
	"time"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/pkg/log"
	"github.com/caarlos0/env/v11"
)

type EmbeddingConfig struct {
	// ollama | openai
	Provider  string        `env:"LEXBOT_EMBEDDING_PROVIDER" envDefault:"ollama"`
	BaseURL   string        `env:"LEXBOT_EMBEDDING_URL" envDefault:"http://localhost:11434"`
	APIKey    string        `env:"LEXBOT_EMBEDDING_API_KEY"`
	Model     string        `env:"LEXBOT_EMBEDDING_MODEL" envDefault:"nlpaueb/legal-bert-base-uncased"`
	MaxTokens int           `env:"LEXBOT_EMBEDDING_MAX_TOKENS" envDefault:"512"`
	Timeout   time.Duration `env:"LEXBOT_EMBEDDING_TIMEOUT" envDefault:"30s"`
}

func NewEmbeddingConfig(ctx context.Context) *EmbeddingConfig {
	c := &EmbeddingConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Embedding config")
	}
	return c
}

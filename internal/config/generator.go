package config

import (
	"context"
	"time"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/pkg/log"
	"github.com/caarlos0/env/v11"
)

type GeneratorConfig struct {
	// huggingface | openai
	Provider string        `env:"LEXBOT_GENERATOR_PROVIDER" envDefault:"huggingface"`
	BaseURL  string        `env:"LEXBOT_GENERATOR_URL" envDefault:"https://api-inference.huggingface.co"`
	APIKey   string        `env:"LEXBOT_GENERATOR_API_KEY"`
	Model    string        `env:"LEXBOT_GENERATOR_MODEL" envDefault:"tatore22/legal_bert_chatbot"`
	Timeout  time.Duration `env:"LEXBOT_GENERATOR_TIMEOUT" envDefault:"120s"`

	MaxLength     int  `env:"LEXBOT_GENERATOR_MAX_LENGTH" envDefault:"512"`
	NumBeams      int  `env:"LEXBOT_GENERATOR_NUM_BEAMS" envDefault:"5"`
	EarlyStopping bool `env:"LEXBOT_GENERATOR_EARLY_STOPPING" envDefault:"true"`
}

func NewGeneratorConfig(ctx context.Context) *GeneratorConfig {
	c := &GeneratorConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Generator config")
	}
	return c
}

package config

import (
	"context"
	"strings"
	"time"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/pkg/log"
	"github.com/caarlos0/env/v11"
)

type StreamConfig struct {
	TokenDelay  time.Duration `env:"LEXBOT_TOKEN_DELAY" envDefault:"300ms"`
	EndSentinel string        `env:"LEXBOT_END_SENTINEL" envDefault:"[FINE]"`
	ErrorPrefix string        `env:"LEXBOT_ERROR_PREFIX" envDefault:"⚠️"`
}

func DefaultStreamConfig() *StreamConfig {
	return &StreamConfig{
		TokenDelay:  300 * time.Millisecond,
		EndSentinel: "[FINE]",
		ErrorPrefix: "⚠️",
	}
}

func NewStreamConfig(ctx context.Context) *StreamConfig {
	c := &StreamConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Stream config")
	}
	return c
}

// IsSentinel reports whether token marks a successfully completed answer.
func (c StreamConfig) IsSentinel(token string) bool {
	return token == c.EndSentinel
}

// IsError reports whether token is an in-band failure message.
func (c StreamConfig) IsError(token string) bool {
	return c.ErrorPrefix != "" && strings.HasPrefix(token, c.ErrorPrefix)
}

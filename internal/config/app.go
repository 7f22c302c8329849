package config

import (
	"context"
	"path/filepath"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/pkg/log"
	"github.com/caarlos0/env/v11"
)

type AppConfig struct {
	RuntimePath string `env:"LEXBOT_RUNTIME_PATH" envDefault:".lexbot"`

	// HTTP / WebSocket transport
	EnableHTTP    bool   `env:"LEXBOT_ENABLE_HTTP" envDefault:"true"`
	HTTPAddr      string `env:"LEXBOT_HTTP_ADDR" envDefault:":5000"`
	AllowedOrigin string `env:"LEXBOT_ALLOWED_ORIGIN" envDefault:"http://localhost:5173"`

	EnableTelegram bool `env:"LEXBOT_ENABLE_TELEGRAM" envDefault:"false"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	if !filepath.IsAbs(c.RuntimePath) {
		c.RuntimePath = GetRuntimePath()
	}
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "lexbot.db")
}

func (c AppConfig) GetStaticPath() string {
	return filepath.Join(c.RuntimePath, "build")
}

func (c AppConfig) GetInputHistoryPath() string {
	return filepath.Join(c.RuntimePath, "input_history")
}

func (c AppConfig) IsTelegramSelected() bool {
	return c.EnableTelegram
}

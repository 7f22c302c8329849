package config

import (
	"context"
	"slices"
	"time"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/pkg/log"
	"github.com/caarlos0/env/v11"
)

type TelegramConfig struct {
	Token        string        `env:"LEXBOT_TELEGRAM_TOKEN,required,notEmpty"`
	// empty means the bot answers everyone
	AllowedUsers []int64       `env:"LEXBOT_TELEGRAM_ALLOWED_USERS" envSeparator:","`
	// minimum gap between edits of a message that is still streaming
	EditInterval time.Duration `env:"LEXBOT_TELEGRAM_EDIT_INTERVAL" envDefault:"1500ms"`
}

func NewTelegramConfig(ctx context.Context) *TelegramConfig {
	c := &TelegramConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Telegram config")
	}
	return c
}

func (c TelegramConfig) IsAllowed(userID int64) bool {
	return len(c.AllowedUsers) == 0 || slices.Contains(c.AllowedUsers, userID)
}

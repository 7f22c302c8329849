package telegram

import (
	"context"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/config"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/core"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/service/chatbot"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/service/stream"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/pkg/log"
)

const baseContextKey = "base_context"

type ChatService interface {
	Ask(ctx context.Context, chatID, question string, sink core.Sink) (stream.State, error)
	Sessions() *chatbot.Sessions
}

type Bot struct {
	bot       *tele.Bot
	cfg       *config.TelegramConfig
	streamCfg *config.StreamConfig
	chat      ChatService
	router    core.CmdRouter
	sender    *sender
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	streamCfg *config.StreamConfig,
	chat ChatService,
	router core.CmdRouter,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:       b,
		cfg:       cfg,
		streamCfg: streamCfg,
		chat:      chat,
		router:    router,
		sender:    newSender(b),
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil || !cfg.IsAllowed(c.Sender().ID) {
				return nil
			}
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("bot", b.bot.Me.Username).Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func sessionKey(chatID int64) string {
	return fmt.Sprintf("telegram-%d", chatID)
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx)
	key := sessionKey(c.Chat().ID)

	if reply, ok := b.router.Execute(ctx, key, c.Text()); ok {
		return b.sender.sendMarkdown(ctx, c.Chat(), reply)
	}

	_ = c.Notify(tele.Typing)

	chatID := b.chat.Sessions().Current(key)
	sink := newAnswerSink(b.sender, c.Chat(), b.streamCfg, b.cfg.EditInterval)

	state, err := b.chat.Ask(ctx, chatID, c.Text(), sink)
	if err != nil {
		logger.Warn().Err(err).Str("chat_id", chatID).Msg("telegram answer interrupted")
	}
	logger.Debug().Stringer("state", state).Str("chat_id", chatID).Msg("telegram answer finished")

	return sink.Flush(ctx)
}

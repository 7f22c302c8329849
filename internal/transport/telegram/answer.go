package telegram

import (
	"context"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/config"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/pkg/log"
)

const typingCursor = " ▍"

// answerSink shows a streamed answer as one Telegram message that grows by
// edits, throttled to interval to stay under the Bot API rate limits.
type answerSink struct {
	sender   *sender
	to       tele.Recipient
	tokens   *config.StreamConfig
	interval time.Duration
	now      func() time.Time

	words    []string
	errText  string
	msg      *tele.Message
	lastEdit time.Time
}

func newAnswerSink(s *sender, to tele.Recipient, tokens *config.StreamConfig, interval time.Duration) *answerSink {
	return &answerSink{
		sender:   s,
		to:       to,
		tokens:   tokens,
		interval: interval,
		now:      time.Now,
	}
}

func (a *answerSink) Send(ctx context.Context, token string) error {
	switch {
	case a.tokens.IsSentinel(token):
		return nil
	case a.tokens.IsError(token):
		a.errText = token
		return nil
	}

	a.words = append(a.words, token)
	if a.msg == nil {
		msg, err := a.sender.api.Send(a.to, token+typingCursor)
		if err != nil {
			return err
		}
		a.msg, a.lastEdit = msg, a.now()
		return nil
	}

	if a.now().Sub(a.lastEdit) < a.interval {
		return nil
	}
	if _, err := a.sender.api.Edit(a.msg, strings.Join(a.words, " ")+typingCursor); err != nil && !isNotModified(err) {
		// a failed intermediate edit is cosmetic, the final flush retries
		log.FromCtx(ctx).Debug().Err(err).Msg("failed to edit streaming message")
	}
	a.lastEdit = a.now()
	return nil
}

func (a *answerSink) text() string {
	text := strings.Join(a.words, " ")
	if a.errText != "" {
		if text != "" {
			text += "\n\n"
		}
		text += a.errText
	}
	return text
}

// Flush renders the complete answer as formatted HTML.
func (a *answerSink) Flush(ctx context.Context) error {
	text := a.text()
	if text == "" {
		return nil
	}
	if a.msg == nil {
		return a.sender.sendMarkdown(ctx, a.to, text)
	}
	return a.sender.replaceMarkdown(ctx, a.msg, text)
}

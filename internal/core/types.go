package core

import (
	"context"
	"time"
)

const (
	BotName      = "LexBot"
	BotVersion   = "0.1.0"
	BotUserAgent = BotName + "/" + BotVersion
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// KnowledgeEntry is a curated question/context pair grouped under a topic.
type KnowledgeEntry struct {
	ID       int64  `json:"id" yaml:"-"`
	Topic    string `json:"topic" yaml:"topic"`
	Question string `json:"question" yaml:"question"`
	Context  string `json:"context" yaml:"context"`
}

type Message struct {
	ChatID    string    `json:"chat_id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Sink receives the tokens of a single answer stream, in order.
type Sink interface {
	Send(ctx context.Context, token string) error
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(ctx context.Context, token string) error

func (f SinkFunc) Send(ctx context.Context, token string) error {
	return f(ctx, token)
}

package command

import (
	"context"
	"fmt"
	"strings"
)

type ChatsCommand struct {
	chats     ChatService
	formatter *ResponseFormatter
}

func NewChatsCommand(chats ChatService) *ChatsCommand {
	return &ChatsCommand{chats: chats, formatter: NewResponseFormatter()}
}

func (c *ChatsCommand) Name() string { return "chats" }

func (c *ChatsCommand) Description() string { return "List stored conversations" }

func (c *ChatsCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	ids, err := c.chats.Chats(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list chats: %w", err)
	}
	if len(ids) == 0 {
		return c.formatter.Info("No conversations yet"), nil
	}

	current := c.chats.Sessions().Current(sessionID)
	items := make([]string, len(ids))
	for i, id := range ids {
		items[i] = "`" + id + "`"
		if id == current {
			items[i] += " (current)"
		}
	}

	return c.formatter.Combine(
		c.formatter.Info("Conversations"),
		c.formatter.List(items),
	), nil
}

// historyPreview caps each message so long answers keep the reply readable.
const historyPreview = 200

type HistoryCommand struct {
	chats     ChatService
	formatter *ResponseFormatter
}

func NewHistoryCommand(chats ChatService) *HistoryCommand {
	return &HistoryCommand{chats: chats, formatter: NewResponseFormatter()}
}

func (c *HistoryCommand) Name() string { return "history" }

func (c *HistoryCommand) Description() string { return "Show the messages of a conversation" }

func (c *HistoryCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	chatID := c.chats.Sessions().Current(sessionID)
	if len(args) > 0 {
		chatID = args[0]
	}

	msgs, err := c.chats.History(ctx, chatID)
	if err != nil {
		return "", fmt.Errorf("failed to load history: %w", err)
	}
	if len(msgs) == 0 {
		return c.formatter.Combine(
			c.formatter.Info("Empty conversation"),
			c.formatter.Label("Chat", chatID),
		), nil
	}

	var sb strings.Builder
	for _, m := range msgs {
		text := m.Text
		if r := []rune(text); len(r) > historyPreview {
			text = string(r[:historyPreview]) + "…"
		}
		if text == "" {
			text = "_(no answer)_"
		}
		sb.WriteString(fmt.Sprintf("**%s**: %s\n", m.Sender, text))
	}

	return c.formatter.Combine(
		c.formatter.Info("History"),
		c.formatter.Label("Chat", chatID),
		sb.String(),
	), nil
}

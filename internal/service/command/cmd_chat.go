package command

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/core"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/service/chatbot"
)

// ChatService is the part of the chatbot the chat commands drive.
type ChatService interface {
	Chats(ctx context.Context) ([]string, error)
	History(ctx context.Context, chatID string) ([]core.Message, error)
	Sessions() *chatbot.Sessions
}

type NewChatCommand struct {
	chats     ChatService
	formatter *ResponseFormatter
}

func NewNewChatCommand(chats ChatService) *NewChatCommand {
	return &NewChatCommand{chats: chats, formatter: NewResponseFormatter()}
}

func (c *NewChatCommand) Name() string { return "new" }

func (c *NewChatCommand) Description() string { return "Start a new conversation" }

func (c *NewChatCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	id := c.chats.Sessions().Reset(sessionID)
	return c.formatter.Combine(
		c.formatter.Success("New conversation started"),
		c.formatter.Label("Chat", id),
	), nil
}

type OpenCommand struct {
	chats     ChatService
	formatter *ResponseFormatter
}

func NewOpenCommand(chats ChatService) *OpenCommand {
	return &OpenCommand{chats: chats, formatter: NewResponseFormatter()}
}

func (c *OpenCommand) Name() string { return "open" }

func (c *OpenCommand) Description() string { return "Continue an earlier conversation" }

func (c *OpenCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	if len(args) != 1 {
		return c.formatter.Combine(
			c.formatter.Info("Open Conversation"),
			c.formatter.Usage("/open <chat_id>"),
			c.formatter.Tip("/chats lists the known conversations."),
		), nil
	}

	ids, err := c.chats.Chats(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list chats: %w", err)
	}
	if !slices.Contains(ids, args[0]) {
		return "", errors.New("no conversation with id " + args[0])
	}

	c.chats.Sessions().Switch(sessionID, args[0])
	return c.formatter.Success(fmt.Sprintf("Switched to `%s`", args[0])), nil
}

package command

import (
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/core"
)

func NewCommands(chats ChatService, kb TopicLister) []core.Command {
	return []core.Command{
		NewNewChatCommand(chats),
		NewOpenCommand(chats),
		NewChatsCommand(chats),
		NewHistoryCommand(chats),
		NewTopicsCommand(kb),
	}
}

package core

import "context"

type KnowledgeRepository interface {
	// DistinctTopics lists every topic label in ascending lexical order.
	DistinctTopics(ctx context.Context) ([]string, error)
	// FindByTopic returns entries in insertion order. An empty topic selects
	// the whole knowledge base.
	FindByTopic(ctx context.Context, topic string) ([]KnowledgeEntry, error)
	AddEntries(ctx context.Context, entries []KnowledgeEntry) (int, error)
	CountEntries(ctx context.Context) (int, error)
}

type ChatRepository interface {
	InsertMessage(ctx context.Context, chatID string, sender Sender, text string) error
	ListMessages(ctx context.Context, chatID string) ([]Message, error)
	ListChatIDs(ctx context.Context) ([]string, error)
}

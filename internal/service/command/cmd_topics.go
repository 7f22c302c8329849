package command

import (
	"context"
	"fmt"
)

type TopicLister interface {
	Topics(ctx context.Context) ([]string, error)
}

type TopicsCommand struct {
	kb        TopicLister
	formatter *ResponseFormatter
}

func NewTopicsCommand(kb TopicLister) *TopicsCommand {
	return &TopicsCommand{kb: kb, formatter: NewResponseFormatter()}
}

func (c *TopicsCommand) Name() string { return "topics" }

func (c *TopicsCommand) Description() string { return "List the topics the knowledge base covers" }

func (c *TopicsCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	topics, err := c.kb.Topics(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list topics: %w", err)
	}
	if len(topics) == 0 {
		return c.formatter.Combine(
			c.formatter.Info("The knowledge base is empty"),
			c.formatter.Tip("import entries with `lexbot kb import <file>`"),
		), nil
	}

	return c.formatter.Combine(
		c.formatter.Info("Topics"),
		c.formatter.List(topics),
	), nil
}

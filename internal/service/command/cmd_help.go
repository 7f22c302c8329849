package command

import (
	"context"
	"fmt"
)

type HelpCommand struct {
	router    *Router
	formatter *ResponseFormatter
}

func (c *HelpCommand) Name() string { return "help" }

func (c *HelpCommand) Description() string { return "Show available commands" }

func (c *HelpCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	cmds := c.router.ListCommands()
	items := make([]string, 0, len(cmds))
	for _, cmd := range cmds {
		items = append(items, fmt.Sprintf("/%s - %s", cmd.Name(), cmd.Description()))
	}

	return c.formatter.Combine(
		c.formatter.Info("Commands"),
		c.formatter.List(items),
		c.formatter.Tip("anything that is not a command is answered as a legal question."),
	), nil
}

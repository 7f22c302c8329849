package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/core"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/service/ui"
)

var chatsCmd = &cobra.Command{
	Use:   "chats",
	Short: "Inspect stored conversations",
}

var chatsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List conversation ids, oldest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupStderrLogger(cmd.Context())
		defer flushLog()

		a := newStorageApp(ctx)
		defer a.Close()

		ids, err := a.messages.ListChatIDs(ctx)
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}

var chatsShowCmd = &cobra.Command{
	Use:   "show [chat_id]",
	Short: "Print the transcript of a conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupStderrLogger(cmd.Context())
		defer flushLog()

		a := newStorageApp(ctx)
		defer a.Close()

		msgs, err := a.messages.ListMessages(ctx, args[0])
		if err != nil {
			return err
		}
		if len(msgs) == 0 {
			return fmt.Errorf("chat %s not found", args[0])
		}

		out := cmd.OutOrStdout()
		for _, m := range msgs {
			label := ui.BotStyle.Render("bot")
			if m.Sender == core.SenderUser {
				label = ui.UserStyle.Render("you")
			}
			fmt.Fprintf(out, "%s %s %s\n", ui.DescStyle.Render(m.Timestamp.Local().Format("2006-01-02 15:04")), label, m.Text)
		}
		return nil
	},
}

func init() {
	chatsCmd.AddCommand(chatsListCmd, chatsShowCmd)
	rootCmd.AddCommand(chatsCmd)
}

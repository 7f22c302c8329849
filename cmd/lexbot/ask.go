package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/transport/cli"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/pkg/log"
)

var askChatID string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question and stream the answer to stdout",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupStderrLogger(ctx)
		defer flushLog()

		a := newApp(ctx)
		defer a.Close()

		chatID := askChatID
		if chatID == "" {
			chatID = a.chat.NewChat()
		}
		log.FromCtx(ctx).Debug().Str("chat_id", chatID).Msg("asking")

		state, err := a.chat.Ask(ctx, chatID, strings.Join(args, " "), cli.NewPrinter(cmd.OutOrStdout(), a.streamCfg))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "chat %s (%s)\n", chatID, state)
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askChatID, "chat", "", "continue the given chat instead of starting a new one")
	rootCmd.AddCommand(askCmd)
}

package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/transport/cli"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/pkg/log"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with LexBot in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupStderrLogger(ctx)
		defer flushLog()

		a := newApp(ctx)
		defer a.Close()

		rl, err := cli.NewReadLine(a.chat, a.router, a.appCfg, a.streamCfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := rl.Shutdown(ctx); err != nil {
				log.FromCtx(ctx).Warn().Err(err).Msg("failed to close readline")
			}
		}()

		return rl.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

package main

import (
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/config"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/service/installer"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/pkg/log"
)

var installCmd = &cobra.Command{
	Use:           "install",
	Short:         "Configure LexBot interactively",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Setup logger
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting installation process")

		runtimePath := config.GetRuntimePath()

		// run wizard (includes save step)
		if _, err := installer.RunWizard(runtimePath); err != nil {
			return err
		}

		envPath := filepath.Join(runtimePath, ".env")
		if err := godotenv.Load(envPath); err != nil {
			logger.Warn().Err(err).Str("path", envPath).Msg("failed to load .env file")
		}

		// create the database so the knowledge base can be imported right away
		a := newStorageApp(ctx)
		if err := a.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close database")
		}

		logger.Info().Msgf("initialized runtime directory at: %s", runtimePath)
		logger.Info().Msg("Installation complete! Import a knowledge base with 'lexbot kb import', then run 'lexbot serve'.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}

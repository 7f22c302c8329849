package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/config"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/core"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/service/ui"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/pkg/log"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:     "lexbot",
	Short:   core.BotName + ", a European law assistant",
	Long:    core.BotName + ` answers questions on European law from a curated knowledge base.`,
	Version: core.BotVersion,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	return log.NewContextWithLogger(ctx, debug || config.IsDebug())
}

// setupStderrLogger keeps stdout free for command output.
func setupStderrLogger(ctx context.Context) (context.Context, func()) {
	return log.NewContextWithStderrLogger(ctx, debug || config.IsDebug())
}

func CustomizeHelp(rootCmd *cobra.Command) {
	cobra.AddTemplateFunc("StyleTitle", func(s string) string { return ui.TitleStyle.Render(s) })
	cobra.AddTemplateFunc("StyleUsage", func(s string) string { return ui.UsageStyle.Render(s) })
	cobra.AddTemplateFunc("StyleFlag", func(s string) string { return ui.FlagStyle.Render(s) })
	cobra.AddTemplateFunc("StyleDesc", func(s string) string { return ui.DescStyle.Render(s) })

	template := `
{{StyleTitle "USAGE"}}
  {{StyleUsage .UseLine}}
{{if gt (len .Commands) 0}}{{StyleTitle "AVAILABLE COMMANDS"}}
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding}} {{StyleDesc .Short}}{{end}}
{{end}}{{end}}
{{if .HasAvailableLocalFlags}}{{StyleTitle "FLAGS"}}
{{StyleFlag (.LocalFlags.FlagUsages | trimTrailingWhitespaces)}}
{{end}}
`
	rootCmd.SetHelpTemplate(template)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/service/ui"
)

var kbTopic string

var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Manage the knowledge base",
}

var kbImportCmd = &cobra.Command{
	Use:   "import [file...]",
	Short: "Import question/context pairs from YAML or JSON files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupStderrLogger(cmd.Context())
		defer flushLog()

		a := newStorageApp(ctx)
		defer a.Close()

		for _, path := range args {
			n, err := a.kb.ImportFile(ctx, path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: imported %d entries\n", path, n)
		}
		return nil
	},
}

var kbTopicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List the topics of the knowledge base",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupStderrLogger(cmd.Context())
		defer flushLog()

		a := newStorageApp(ctx)
		defer a.Close()

		topics, err := a.kb.Topics(ctx)
		if err != nil {
			return err
		}
		for _, t := range topics {
			fmt.Fprintln(cmd.OutOrStdout(), t)
		}
		return nil
	},
}

var kbListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the knowledge base entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupStderrLogger(cmd.Context())
		defer flushLog()

		a := newStorageApp(ctx)
		defer a.Close()

		entries, err := a.kb.Entries(ctx, kbTopic)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, e := range entries {
			fmt.Fprintf(out, "%s %s\n", ui.TitleStyle.Render(fmt.Sprintf("#%d", e.ID)), ui.DescStyle.Render(e.Topic))
			fmt.Fprintf(out, "Q: %s\nC: %s\n\n", e.Question, e.Context)
		}
		fmt.Fprintf(out, "%d entries\n", len(entries))
		return nil
	},
}

func init() {
	kbListCmd.Flags().StringVar(&kbTopic, "topic", "", "only show entries of this topic")
	kbCmd.AddCommand(kbImportCmd, kbTopicsCmd, kbListCmd)
	rootCmd.AddCommand(kbCmd)
}

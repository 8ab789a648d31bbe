package main

import (
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "assistant",
		Short: "America's Blood Centers AI assistant",
		Long: `A bilingual (English/Spanish) assistant for blood donation questions.

Commands:
  assistant serve            # Telegram bot, admin API and scheduled tasks
  assistant chat             # Chat in the terminal
  assistant admin login      # Sign in as administrator
  assistant admin logs       # Show recent interactions

Configuration comes from ASSISTANT_* environment variables, then the
config file, then defaults. ASSISTANT_API_BASE_URL is required.`,
		Version:       version + " (commit: " + commit + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "./config.yaml", "Path to configuration file")
	cmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	cmd.AddCommand(
		newServeCmd(opts),
		newChatCmd(opts),
		newAdminCmd(opts),
	)
	return cmd
}

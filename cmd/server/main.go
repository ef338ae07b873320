package main

import (
	"fmt"
	"os"

	"github.com/skiconcierge/backend/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cfg *config.Config

// offlineAnnotation marks commands that run without loading server configuration
const offlineAnnotation = "offline"

var rootCmd = &cobra.Command{
	Use:   "skiconcierge",
	Short: "Conversational ski recommendation backend",
	Long:  "Serves the ski concierge chat API and offers offline tools for the catalog matcher, recommendation extractor and retailer links.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[offlineAnnotation] == "true" {
			return config.InitLogger(config.LogConfig{Level: "warn", Format: "console"})
		}

		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	// No subcommand starts the server
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

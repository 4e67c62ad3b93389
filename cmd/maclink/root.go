package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/neboloop/maclink/internal/config"
	"github.com/neboloop/maclink/internal/logging"
	"github.com/neboloop/maclink/internal/server"
)

// version is set at build time via -ldflags.
var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:     "maclink",
	Short:   "MCP server for Apple Contacts, Messages, and Reminders",
	Long:    "maclink exposes macOS personal data apps to MCP clients over stdio:\ncontact lookup with fuzzy name matching, sending and reading iMessages,\nscheduled sends, and Reminders management.",
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ~/.maclink/config.yaml)")
	rootCmd.SilenceUsage = true
}

func run() error {
	// Optional; MCP clients usually pass environment through their own config.
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := logging.Setup(cfg.LogLevel, cfg.LogFile); err != nil {
		return err
	}
	logging.Infof("maclink %s", version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, version)
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

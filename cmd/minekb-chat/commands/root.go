package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/minekb/minekb-core/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "minekb-chat",
	Short: "Chat with a MineKB knowledge-base backend",
	Long: `minekb-chat talks to a MineKB backend over its websocket bridge
(or plain HTTP for non-streaming calls).

Commands:
  chat        stream a response token by token
  send        send a message and wait for the full response
  wait-ready  block until the backend reports startup completion`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
}

func loadConfig() (*config.Config, error) {
	if configPath == "" {
		cfg := config.Default()
		return &cfg, nil
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

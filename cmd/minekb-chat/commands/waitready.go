package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	chatstream "github.com/minekb/minekb-core/core"
	"github.com/minekb/minekb-core/core/backend/wsbridge"
	"github.com/minekb/minekb-core/core/events"
)

var waitReadyTimeout time.Duration

var waitReadyCmd = &cobra.Command{
	Use:   "wait-ready",
	Short: "Block until the backend reports startup completion",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		dialOpts := []wsbridge.Option{}
		if cfg.Backend.AuthToken != "" {
			dialOpts = append(dialOpts, wsbridge.WithAuthToken(cfg.Backend.AuthToken))
		}
		bridge, err := wsbridge.Dial(cmd.Context(), cfg.Backend.URL, dialOpts...)
		if err != nil {
			return err
		}
		defer bridge.Close()

		watchOpts := []chatstream.StartupOption{
			chatstream.WithStartupProgressCallback(func(progress events.StartupProgress) {
				line := fmt.Sprintf("[%d/%d] %s", progress.Step, progress.TotalSteps, progress.Message)
				if progress.Status == events.StartupStatusError {
					fmt.Println(errorStyle.Render(line + ": " + progress.Err))
					return
				}
				fmt.Println(statusStyle.Render(line))
			}),
			chatstream.WithReadyCallback(func() {
				fmt.Println(readyStyle.Render("backend ready"))
			}),
		}
		if waitReadyTimeout > 0 {
			watchOpts = append(watchOpts, chatstream.WithStartupDeadline(waitReadyTimeout))
		}

		return chatstream.WatchStartup(cmd.Context(), bridge, watchOpts...)
	},
}

func init() {
	waitReadyCmd.Flags().DurationVar(&waitReadyTimeout, "timeout", 0, "give up after this long (default: wait forever)")
	rootCmd.AddCommand(waitReadyCmd)
}

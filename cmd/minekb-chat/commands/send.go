package commands

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	chatstream "github.com/minekb/minekb-core/core"
	"github.com/minekb/minekb-core/core/backend"
	"github.com/minekb/minekb-core/core/backend/httpapi"
	"github.com/minekb/minekb-core/core/backend/wsbridge"
	"github.com/minekb/minekb-core/core/conversations"
	"github.com/minekb/minekb-core/core/eventbus/inmem"
)

var sendConversationID string

var sendCmd = &cobra.Command{
	Use:   "send <message>",
	Short: "Send a message and wait for the full response",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		parsed, err := url.Parse(cfg.Backend.URL)
		if err != nil {
			return fmt.Errorf("invalid backend url: %w", err)
		}

		var caller backend.Caller
		switch parsed.Scheme {
		case "http", "https":
			httpOpts := []httpapi.Option{}
			if cfg.Backend.AuthToken != "" {
				httpOpts = append(httpOpts, httpapi.WithAuthToken(cfg.Backend.AuthToken))
			}
			caller, err = httpapi.NewClient(cfg.Backend.URL, httpOpts...)
			if err != nil {
				return err
			}
		default:
			dialOpts := []wsbridge.Option{}
			if cfg.Backend.AuthToken != "" {
				dialOpts = append(dialOpts, wsbridge.WithAuthToken(cfg.Backend.AuthToken))
			}
			bridge, err := wsbridge.Dial(cmd.Context(), cfg.Backend.URL, dialOpts...)
			if err != nil {
				return err
			}
			defer bridge.Close()
			caller = bridge
		}

		conversationID := sendConversationID
		if conversationID == "" {
			conversationID = conversations.NewConversationID()
		}
		content := strings.Join(args, " ")

		// The non-streaming path needs no bus; the hub just satisfies the
		// client's dependency.
		hub := inmem.NewHub()
		defer hub.Close()

		client := chatstream.NewClient(hub, caller)
		response, err := client.SendMessage(cmd.Context(), conversationID, content)
		if err != nil {
			return err
		}

		fmt.Println(assistantStyle.Render(response))
		fmt.Println(statusStyle.Render("conversation: " + conversationID))
		return nil
	},
}

func init() {
	sendCmd.Flags().StringVarP(&sendConversationID, "conversation", "c", "", "conversation id to continue (default: new)")
	rootCmd.AddCommand(sendCmd)
}

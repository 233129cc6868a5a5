package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	chatstream "github.com/minekb/minekb-core/core"
	"github.com/minekb/minekb-core/core/backend/wsbridge"
	"github.com/minekb/minekb-core/core/conversations"
	"github.com/minekb/minekb-core/core/events"
)

var chatConversationID string

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Stream a response token by token",
	Args:  cobra.MinimumNArgs(1),
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

		conversationID := chatConversationID
		if conversationID == "" {
			conversationID = conversations.NewConversationID()
		}
		content := strings.Join(args, " ")

		log := conversations.NewLog()
		log.Append(conversationID, conversations.RoleUser, content, nil)

		client := chatstream.NewClient(bridge, bridge,
			chatstream.WithDefaultStreamDeadline(time.Duration(cfg.Stream.Deadline)))

		var sources []events.Source
		err = client.StreamMessage(cmd.Context(), conversationID, content,
			chatstream.WithStartCallback(func() {
				fmt.Println(statusStyle.Render("· generating"))
			}),
			chatstream.WithTokenCallback(func(token string) {
				fmt.Print(assistantStyle.Render(token))
			}),
			chatstream.WithContextCallback(func(s []events.Source) {
				sources = s
			}),
			chatstream.WithEndCallback(func(responseContent string) {
				log.Append(conversationID, conversations.RoleAssistant, responseContent, sources)
			}),
		)
		fmt.Println()
		if err != nil {
			return err
		}

		for _, source := range sources {
			fmt.Println(sourceStyle.Render(fmt.Sprintf("  source: %s (%.2f)", source.Filename, source.RelevanceScore)))
		}
		fmt.Println(statusStyle.Render("conversation: " + conversationID))
		return nil
	},
}

func init() {
	chatCmd.Flags().StringVarP(&chatConversationID, "conversation", "c", "", "conversation id to continue (default: new)")
	rootCmd.AddCommand(chatCmd)
}

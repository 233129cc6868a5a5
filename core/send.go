package chatstream

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// SendMessage sends content on a conversation and returns the complete
// aggregated response. No subscriptions are opened and no callbacks
// fire; callers that want incremental output use StreamMessage.
func (c *Client) SendMessage(ctx context.Context, conversationID string, content string) (string, error) {
	ctx, span := tracer.Start(ctx, "send message")
	defer span.End()
	span.SetAttributes(attribute.String("conversation.id", conversationID))

	if conversationID == "" {
		span.RecordError(ErrNoConversationID)
		span.SetStatus(codes.Error, ErrNoConversationID.Error())
		return "", ErrNoConversationID
	}

	response, err := c.caller.SendMessage(ctx, conversationID, content)
	if err != nil {
		err = fmt.Errorf("failed to send message: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return response, nil
}

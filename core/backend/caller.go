// Package backend defines the request/response side of the MineKB backend
// contract. The streaming side lives in eventbus; a transport such as the
// websocket bridge typically implements both.
package backend

import (
	"context"
	"errors"
)

// ErrClosed is returned when the backend connection has been shut down
// while a call was pending or before it was issued.
var ErrClosed = errors.New("backend connection closed")

// Caller issues the one outbound call that starts server-side work for a
// conversation. The returned string is the complete aggregated response;
// it only resolves once generation has finished, so streaming consumers
// treat the call as fire-and-observe and read content from the bus
// instead.
type Caller interface {
	SendMessage(ctx context.Context, conversationID string, content string) (string, error)
}

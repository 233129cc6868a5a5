// Package eventbus defines the publish/subscribe capability the stream
// coordinator is built against. The backend transport (websocket bridge,
// embedded backend, in-memory test hub) implements Bus; the coordinator
// only ever sees this contract.
package eventbus

import (
	"context"
	"errors"
)

// ErrClosed is returned by operations on a bus that has been shut down.
var ErrClosed = errors.New("event bus closed")

// Envelope is one raw event as carried on the bus: a channel name and the
// backend's JSON payload for that channel.
type Envelope struct {
	Channel string
	Payload []byte
}

// Subscription is one live registration on a single channel.
type Subscription interface {
	// Events delivers envelopes for the subscribed channel in publish
	// order. The channel is never closed by the bus; callers stop
	// reading after Unsubscribe.
	Events() <-chan Envelope

	// Unsubscribe releases the subscription. Safe to call more than
	// once; only the first call has any effect.
	Unsubscribe()
}

// Bus multiplexes named event channels across all concurrent consumers in
// the process.
type Bus interface {
	Subscribe(ctx context.Context, channel string) (Subscription, error)
	Publish(ctx context.Context, channel string, payload []byte) error
}
